package dodabuse

import (
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
	"github.com/bbrewington/data-liberation-project-datasets/internal/transform"
)

// Clean is the staging transform: semantic names in, typed values out.
// Every coercion is fail-soft, so the output row count always equals the
// input row count.
func Clean(raw models.RawRecord) *models.AbuseIncident {
	return &models.AbuseIncident{
		IncidentID:      strings.TrimSpace(raw.Get("incident_id")),
		FiscalYear:      transform.ParseInt(raw.Get("fiscal_year")),
		IncidentDate:    transform.ParseDate(raw.Get("incident_date")),
		VictimBirthYear: transform.ParseInt(raw.Get("victim_birth_year")),
		PerpBirthYear:   transform.ParseInt(raw.Get("perpetrator_birth_year")),

		VictimTypeCode:     strings.TrimSpace(raw.Get("victim_type_code")),
		SponsorServiceCode: strings.TrimSpace(raw.Get("sponsor_service_code")),
		MetCriteria:        strings.TrimSpace(raw.Get("met_criteria")),
		AllegedAbuseCode:   strings.TrimSpace(raw.Get("alleged_abuse_code")),
		SubstanceCode:      strings.TrimSpace(raw.Get("substance_code")),

		EmotionalAbuseSeverity: transform.ParseInt(raw.Get("emotional_abuse_severity")),
		NeglectSeverity:        transform.ParseInt(raw.Get("neglect_severity")),
		PhysicalAbuseSeverity:  transform.ParseInt(raw.Get("physical_abuse_severity")),
		SexualAbuseSeverity:    transform.ParseInt(raw.Get("sexual_abuse_severity")),
	}
}

package dodabuse

import (
	"strconv"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/dictionary"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
	"github.com/bbrewington/data-liberation-project-datasets/internal/parser"
	"github.com/bbrewington/data-liberation-project-datasets/internal/transform"
)

// Pipeline turns raw FOIA 24-F-0024 rows into decoded abuse incident
// records: staging clean, dictionary decode, derived metrics.
type Pipeline struct {
	dict *dictionary.Dictionary
}

func New(dict *dictionary.Dictionary) *Pipeline {
	return &Pipeline{dict: dict}
}

func (p *Pipeline) Name() string {
	return "dod_abuse"
}

func (p *Pipeline) Table() database.TableSpec {
	return Table
}

// FileID reports which extract a record came from, for per-file error
// attribution.
func (p *Pipeline) FileID(rec *models.AbuseIncident) string {
	return rec.FileID
}

// Decode adds the dictionary descriptions, the per-code presence flags and
// the derived metrics to a cleaned record.
func (p *Pipeline) Decode(rec *models.AbuseIncident) *models.AbuseIncident {
	rec.VictimTypeDesc = p.dict.Lookup(FieldVictimType, rec.VictimTypeCode)
	rec.SponsorServiceDesc = p.dict.Lookup(FieldSponsorService, rec.SponsorServiceCode)
	rec.AllegedAbuseDesc = p.dict.DecodeMulti(FieldAllegedAbuse, rec.AllegedAbuseCode)

	abuseCodes := transform.ParseCodeSet(rec.AllegedAbuseCode, p.dict.CodesFor(FieldAllegedAbuse))
	rec.AllegedEmotionalAbuse = abuseCodes.Has(codeEmotionalAbuse)
	rec.AllegedNeglect = abuseCodes.Has(codeNeglect)
	rec.AllegedPhysicalAbuse = abuseCodes.Has(codePhysicalAbuse)
	rec.AllegedSexualAbuse = abuseCodes.Has(codeSexualAbuse)

	substanceCodes := transform.ParseCodeSet(rec.SubstanceCode, p.dict.CodesFor(FieldSubstance))
	rec.AlcoholInvolved = substanceCodes.Has(codeAlcohol)
	rec.DrugsInvolved = substanceCodes.Has(codeDrugs)
	rec.NoSubstanceInvolved = substanceCodes.Has(codeNoSubstance)

	// Severity levels join on code alone: the source dictionary records
	// levels 1-3 once, shared by all four severity fields.
	rec.EmotionalAbuseSeverityDesc = p.lookupSeverity(rec.EmotionalAbuseSeverity)
	rec.NeglectSeverityDesc = p.lookupSeverity(rec.NeglectSeverity)
	rec.PhysicalAbuseSeverityDesc = p.lookupSeverity(rec.PhysicalAbuseSeverity)
	rec.SexualAbuseSeverityDesc = p.lookupSeverity(rec.SexualAbuseSeverity)

	rec.ReportedChildAbuseFlag = reportedChildAbuseFlag(rec.VictimTypeDesc, rec.MetCriteria)
	rec.MetCriteriaSeverityCount = metCriteriaSeverityCount(
		rec.VictimTypeDesc,
		rec.MetCriteria,
		rec.EmotionalAbuseSeverity,
		rec.NeglectSeverity,
		rec.PhysicalAbuseSeverity,
		rec.SexualAbuseSeverity,
	)

	return rec
}

func (p *Pipeline) lookupSeverity(severity *int) *string {
	if severity == nil {
		return nil
	}
	return p.dict.LookupByCode(strconv.Itoa(*severity))
}

// ParseFile streams one extract through clean and decode, sending every
// record downstream. Structurally bad rows are reported, never fatal.
func (p *Pipeline) ParseFile(filePath string, fileID string, results chan<- *models.AbuseIncident, errorsChan chan<- models.AppError) error {
	return parser.Stream(filePath, ColumnAliases, func(raw models.RawRecord) {
		rec := p.Decode(Clean(raw))
		rec.FileID = fileID
		results <- rec
	}, func(err error) {
		errorsChan <- models.AppError{FileID: fileID, Message: "Failed to read row", Err: err}
	})
}

// Row lays a record out in Table.Columns order.
func (p *Pipeline) Row(rec *models.AbuseIncident) []any {
	return []any{
		rec.IncidentID,
		rec.FiscalYear,
		rec.IncidentDate,
		rec.VictimBirthYear,
		rec.PerpBirthYear,
		rec.VictimTypeCode,
		rec.VictimTypeDesc,
		rec.SponsorServiceCode,
		rec.SponsorServiceDesc,
		rec.MetCriteria,
		rec.AllegedAbuseCode,
		rec.AllegedAbuseDesc,
		rec.AllegedEmotionalAbuse,
		rec.AllegedNeglect,
		rec.AllegedPhysicalAbuse,
		rec.AllegedSexualAbuse,
		rec.SubstanceCode,
		rec.AlcoholInvolved,
		rec.DrugsInvolved,
		rec.NoSubstanceInvolved,
		rec.EmotionalAbuseSeverity,
		rec.EmotionalAbuseSeverityDesc,
		rec.NeglectSeverity,
		rec.NeglectSeverityDesc,
		rec.PhysicalAbuseSeverity,
		rec.PhysicalAbuseSeverityDesc,
		rec.SexualAbuseSeverity,
		rec.SexualAbuseSeverityDesc,
		rec.ReportedChildAbuseFlag,
		rec.MetCriteriaSeverityCount,
		rec.FileID,
	}
}

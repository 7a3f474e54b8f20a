package dodabuse

import "github.com/bbrewington/data-liberation-project-datasets/internal/database"

// Dictionary field numbers for the code-bearing columns of FOIA 24-F-0024.
const (
	FieldVictimType     = "F6"
	FieldAllegedAbuse   = "F13"
	FieldSponsorService = "F17"
	FieldSubstance      = "F20"
)

// Codes of interest inside the packed multi-value fields.
const (
	codeEmotionalAbuse = "C"
	codePhysicalAbuse  = "I"
	codeSexualAbuse    = "J"
	codeNeglect        = "N"

	codeAlcohol     = "A"
	codeDrugs       = "D"
	codeNoSubstance = "Z"
)

// ColumnAliases maps the extract's free-text header labels to stable
// semantic names. The F-numbers in the labels are the agency's field
// identifiers and drive the dictionary joins above.
var ColumnAliases = map[string]string{
	"Situation Number (F2)":           "incident_id",
	"Fiscal Year (F5)":                "fiscal_year",
	"Victim Type (F6)":                "victim_type_code",
	"Incident Date (F10)":             "incident_date",
	"Met Criteria (F12)":              "met_criteria",
	"Sponsor Service (F17)":           "sponsor_service_code",
	"Alleged Abuse Type (F13)":        "alleged_abuse_code",
	"Emotional Abuse Severity (F13E)": "emotional_abuse_severity",
	"Neglect Severity (F13F)":         "neglect_severity",
	"Physical Abuse Severity (F13G)":  "physical_abuse_severity",
	"Sexual Abuse Severity (F13H)":    "sexual_abuse_severity",
	"Substance Involvement (F20)":     "substance_code",
	"Victim Birth Year (F26)":         "victim_birth_year",
	"Perpetrator Birth Year (F34)":    "perpetrator_birth_year",
}

// Table is the published intermediate table. Ordering by fiscal year plus
// incident ID (the only combination that is unique in this source) keeps
// the Parquet export deterministic.
var Table = database.TableSpec{
	Name: "int_foia_24_f_0024",
	DDL: `
	CREATE TABLE IF NOT EXISTS int_foia_24_f_0024 (
		incident_id VARCHAR NOT NULL,
		fiscal_year INTEGER,
		incident_date DATE,
		victim_birth_year INTEGER,
		perpetrator_birth_year INTEGER,
		victim_type_code VARCHAR,
		victim_type_desc VARCHAR,
		sponsor_service_code VARCHAR,
		sponsor_service_desc VARCHAR,
		met_criteria VARCHAR,
		alleged_abuse_code VARCHAR,
		alleged_abuse_desc VARCHAR,
		alleged_emotional_abuse BOOLEAN,
		alleged_neglect BOOLEAN,
		alleged_physical_abuse BOOLEAN,
		alleged_sexual_abuse BOOLEAN,
		substance_code VARCHAR,
		alcohol_involved BOOLEAN,
		drugs_involved BOOLEAN,
		no_substance_involved BOOLEAN,
		emotional_abuse_severity INTEGER,
		emotional_abuse_severity_desc VARCHAR,
		neglect_severity INTEGER,
		neglect_severity_desc VARCHAR,
		physical_abuse_severity INTEGER,
		physical_abuse_severity_desc VARCHAR,
		sexual_abuse_severity INTEGER,
		sexual_abuse_severity_desc VARCHAR,
		reported_child_abuse_flag INTEGER NOT NULL,
		met_criteria_severity_count INTEGER NOT NULL,
		file_id VARCHAR
	);`,
	PostgresDDL: `
	CREATE TABLE IF NOT EXISTS int_foia_24_f_0024 (
		incident_id VARCHAR(255) NOT NULL,
		fiscal_year INTEGER,
		incident_date DATE,
		victim_birth_year INTEGER,
		perpetrator_birth_year INTEGER,
		victim_type_code VARCHAR(10),
		victim_type_desc VARCHAR(255),
		sponsor_service_code VARCHAR(10),
		sponsor_service_desc VARCHAR(255),
		met_criteria VARCHAR(10),
		alleged_abuse_code VARCHAR(10),
		alleged_abuse_desc VARCHAR(255),
		alleged_emotional_abuse BOOLEAN,
		alleged_neglect BOOLEAN,
		alleged_physical_abuse BOOLEAN,
		alleged_sexual_abuse BOOLEAN,
		substance_code VARCHAR(10),
		alcohol_involved BOOLEAN,
		drugs_involved BOOLEAN,
		no_substance_involved BOOLEAN,
		emotional_abuse_severity INTEGER,
		emotional_abuse_severity_desc VARCHAR(255),
		neglect_severity INTEGER,
		neglect_severity_desc VARCHAR(255),
		physical_abuse_severity INTEGER,
		physical_abuse_severity_desc VARCHAR(255),
		sexual_abuse_severity INTEGER,
		sexual_abuse_severity_desc VARCHAR(255),
		reported_child_abuse_flag INTEGER NOT NULL,
		met_criteria_severity_count INTEGER NOT NULL,
		file_id VARCHAR(64)
	);`,
	Columns: []string{
		"incident_id",
		"fiscal_year",
		"incident_date",
		"victim_birth_year",
		"perpetrator_birth_year",
		"victim_type_code",
		"victim_type_desc",
		"sponsor_service_code",
		"sponsor_service_desc",
		"met_criteria",
		"alleged_abuse_code",
		"alleged_abuse_desc",
		"alleged_emotional_abuse",
		"alleged_neglect",
		"alleged_physical_abuse",
		"alleged_sexual_abuse",
		"substance_code",
		"alcohol_involved",
		"drugs_involved",
		"no_substance_involved",
		"emotional_abuse_severity",
		"emotional_abuse_severity_desc",
		"neglect_severity",
		"neglect_severity_desc",
		"physical_abuse_severity",
		"physical_abuse_severity_desc",
		"sexual_abuse_severity",
		"sexual_abuse_severity_desc",
		"reported_child_abuse_flag",
		"met_criteria_severity_count",
		"file_id",
	},
	OrderBy: "fiscal_year, incident_id",
}

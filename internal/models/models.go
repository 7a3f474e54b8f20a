package models

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// RawRecord is one row of a raw extract after header mapping: canonical
// column name -> unparsed text. A column missing from a source era is simply
// missing from the map, which downstream coercion treats the same as blank.
type RawRecord map[string]string

func (r RawRecord) Get(column string) string {
	return r[column]
}

// AbuseIncident is the decoded DoD abuse record: cleaned columns, decoded
// descriptions, per-code flags and derived metrics. One row per reported
// incident; the incident ID is only unique together with the fiscal year.
type AbuseIncident struct {
	IncidentID      string     `json:"incident_id"`
	FiscalYear      *int       `json:"fiscal_year,omitempty"`
	IncidentDate    *time.Time `json:"incident_date,omitempty"`
	VictimBirthYear *int       `json:"victim_birth_year,omitempty"`
	PerpBirthYear   *int       `json:"perpetrator_birth_year,omitempty"`

	VictimTypeCode string  `json:"victim_type_code,omitempty"`
	VictimTypeDesc *string `json:"victim_type_desc,omitempty"`

	SponsorServiceCode string  `json:"sponsor_service_code,omitempty"`
	SponsorServiceDesc *string `json:"sponsor_service_desc,omitempty"`

	// Raw "Y"/"N" determination that the incident met the agency's abuse
	// criteria; blank when no determination was recorded.
	MetCriteria string `json:"met_criteria,omitempty"`

	AllegedAbuseCode      string  `json:"alleged_abuse_code,omitempty"`
	AllegedAbuseDesc      *string `json:"alleged_abuse_desc,omitempty"`
	AllegedEmotionalAbuse bool    `json:"alleged_emotional_abuse"`
	AllegedNeglect        bool    `json:"alleged_neglect"`
	AllegedPhysicalAbuse  bool    `json:"alleged_physical_abuse"`
	AllegedSexualAbuse    bool    `json:"alleged_sexual_abuse"`

	SubstanceCode       string `json:"substance_code,omitempty"`
	AlcoholInvolved     bool   `json:"alcohol_involved"`
	DrugsInvolved       bool   `json:"drugs_involved"`
	NoSubstanceInvolved bool   `json:"no_substance_involved"`

	EmotionalAbuseSeverity     *int    `json:"emotional_abuse_severity,omitempty"`
	EmotionalAbuseSeverityDesc *string `json:"emotional_abuse_severity_desc,omitempty"`
	NeglectSeverity            *int    `json:"neglect_severity,omitempty"`
	NeglectSeverityDesc        *string `json:"neglect_severity_desc,omitempty"`
	PhysicalAbuseSeverity      *int    `json:"physical_abuse_severity,omitempty"`
	PhysicalAbuseSeverityDesc  *string `json:"physical_abuse_severity_desc,omitempty"`
	SexualAbuseSeverity        *int    `json:"sexual_abuse_severity,omitempty"`
	SexualAbuseSeverityDesc    *string `json:"sexual_abuse_severity_desc,omitempty"`

	ReportedChildAbuseFlag   int `json:"reported_child_abuse_flag"`
	MetCriteriaSeverityCount int `json:"met_criteria_severity_count"`

	FileID string `json:"file_id,omitempty"`
}

// BoatingAccident is the decoded recreational boating accident record,
// unified across the three release eras.
type BoatingAccident struct {
	AccidentID   string     `json:"accident_id"`
	ReleaseEra   string     `json:"release_era,omitempty"`
	AccidentDate *time.Time `json:"accident_date,omitempty"`
	AccidentTime *string    `json:"accident_time,omitempty"`
	DayOfWeek    *string    `json:"day_of_week,omitempty"`
	State        string     `json:"state,omitempty"`
	BodyOfWater  *string    `json:"body_of_water,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`

	WeatherClear  *bool `json:"weather_clear,omitempty"`
	WeatherCloudy *bool `json:"weather_cloudy,omitempty"`
	WeatherFog    *bool `json:"weather_fog,omitempty"`
	WeatherHazy   *bool `json:"weather_hazy,omitempty"`
	WeatherRain   *bool `json:"weather_rain,omitempty"`
	WeatherSnow   *bool `json:"weather_snow,omitempty"`

	NumberDeaths    *int `json:"number_deaths,omitempty"`
	NumberInjuries  *int `json:"number_injuries,omitempty"`
	VesselsInvolved *int `json:"vessels_involved,omitempty"`

	// Column added in the 2023-era extract; absent for earlier eras.
	ReleaseYear *int `json:"release_year,omitempty"`

	DatetimeCompleteness    string `json:"accident_datetime_completeness"`
	CoordinatesAvailability string `json:"coordinates_availability"`

	FileID string `json:"file_id,omitempty"`
}

type AppError struct {
	FileID  string
	Message string
	Err     error
	Row     RawRecord
}

func (e *AppError) Error() string {
	var rowDetails string
	if e.Row != nil {
		rowJSON, err := json.Marshal(e.Row)
		if err != nil {
			rowDetails = "failed to marshal row to JSON"
		} else {
			rowDetails = string(rowJSON)
		}
	}

	if e.Err != nil {
		if rowDetails != "" {
			return fmt.Sprintf("FileID %s: %s - %v - Row: %s", e.FileID, e.Message, e.Err, rowDetails)
		}
		return fmt.Sprintf("FileID %s: %s - %v", e.FileID, e.Message, e.Err)
	}

	if rowDetails != "" {
		return fmt.Sprintf("FileID %s: %s - Row: %s", e.FileID, e.Message, rowDetails)
	}

	return fmt.Sprintf("FileID %s: %s", e.FileID, e.Message)
}

type FileProcessingJob struct {
	FilePath string
	FileID   string
}

type FileInfo struct {
	Path string
}

type FileErrorMap struct {
	Errors map[string][]AppError
	Mu     sync.Mutex
}

// ExtractionChannels wires the dispatcher, parser workers and DB workers.
// The record type differs per pipeline, hence the type parameter.
type ExtractionChannels[T any] struct {
	Results chan T
	Errors  chan AppError
	Jobs    chan FileProcessingJob
}

type ExtractionWaitGroups struct {
	ParserWg *sync.WaitGroup
	DbWg     *sync.WaitGroup
	MainWg   *sync.WaitGroup
}

type FileMap = map[string]string

type SetupReturn[T any] struct {
	Channels      *ExtractionChannels[T]
	WaitGroups    *ExtractionWaitGroups
	FileMap       *FileMap
	FileErrorsMap *FileErrorMap
}

func (s *SetupReturn[T]) GetValues() (*ExtractionChannels[T], *ExtractionWaitGroups, *FileMap, *FileErrorMap) {
	return s.Channels, s.WaitGroups, s.FileMap, s.FileErrorsMap
}

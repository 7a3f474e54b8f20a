package boating

import (
	"log"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
	"github.com/bbrewington/data-liberation-project-datasets/internal/parser"
)

// Pipeline unifies the three boating accident release eras into one cleaned
// and derived table. No code dictionary is involved; the decoding here is
// flag normalization plus the two derived availability metrics.
type Pipeline struct{}

func New() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Name() string {
	return "boating_accidents"
}

func (p *Pipeline) Table() database.TableSpec {
	return Table
}

// FileID reports which extract a record came from, for per-file error
// attribution.
func (p *Pipeline) FileID(rec *models.BoatingAccident) string {
	return rec.FileID
}

func (p *Pipeline) ParseFile(filePath string, fileID string, results chan<- *models.BoatingAccident, errorsChan chan<- models.AppError) error {
	era := EraForFile(filePath)
	if columns, err := parser.ReadHeader(filePath, ColumnAliases); err == nil {
		log.Printf("File %s carries %d recognized columns (era %s)", filePath, len(columns), era)
	}
	return parser.Stream(filePath, ColumnAliases, func(raw models.RawRecord) {
		rec := Clean(raw, era)
		rec.FileID = fileID
		results <- rec
	}, func(err error) {
		errorsChan <- models.AppError{FileID: fileID, Message: "Failed to read row", Err: err}
	})
}

// Row lays a record out in Table.Columns order.
func (p *Pipeline) Row(rec *models.BoatingAccident) []any {
	return []any{
		rec.AccidentID,
		rec.ReleaseEra,
		rec.AccidentDate,
		rec.AccidentTime,
		rec.DayOfWeek,
		rec.State,
		rec.BodyOfWater,
		rec.Latitude,
		rec.Longitude,
		rec.WeatherClear,
		rec.WeatherCloudy,
		rec.WeatherFog,
		rec.WeatherHazy,
		rec.WeatherRain,
		rec.WeatherSnow,
		rec.NumberDeaths,
		rec.NumberInjuries,
		rec.VesselsInvolved,
		rec.ReleaseYear,
		rec.DatetimeCompleteness,
		rec.CoordinatesAvailability,
		rec.FileID,
	}
}

package ingestion

import (
	"sync"

	"github.com/bbrewington/data-liberation-project-datasets/internal/config"
	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

// Pipeline is what a dataset pipeline must provide to be run by the
// ingestion service: where its records go, how to parse an extract into
// records, and how a record lays out as a table row.
type Pipeline[T any] interface {
	Name() string
	Table() database.TableSpec
	ParseFile(filePath string, fileID string, results chan<- T, errorsChan chan<- models.AppError) error
	Row(rec T) []any
	FileID(rec T) string
}

type ISetup[T any] interface {
	build(cfg config.Config) (models.SetupReturn[T], error)
}

type Setup[T any] struct{}

// Instantiate all channels and data structures used in the concurrent
// ingestion process. Separated out so tests can inject their own.
func (h Setup[T]) build(cfg config.Config) (models.SetupReturn[T], error) {
	jobs := make(chan models.FileProcessingJob, 100)
	errorsChan := make(chan models.AppError, 100)

	channels := models.ExtractionChannels[T]{
		Results: make(chan T, cfg.ResultsChannelSize),
		Errors:  errorsChan,
		Jobs:    jobs,
	}

	var parserWg, dbWg, mainWg sync.WaitGroup
	fileMap := make(models.FileMap)
	fileErrorsMap := models.FileErrorMap{Errors: make(map[string][]models.AppError)}
	return models.SetupReturn[T]{
		Channels:      &channels,
		WaitGroups:    &models.ExtractionWaitGroups{ParserWg: &parserWg, DbWg: &dbWg, MainWg: &mainWg},
		FileMap:       &fileMap,
		FileErrorsMap: &fileErrorsMap,
	}, nil
}

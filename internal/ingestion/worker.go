package ingestion

import (
	"log"
	"sync"
	"time"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
	"github.com/bbrewington/data-liberation-project-datasets/pkg/checksum"
)

type Runner[T any] struct {
	Run T
}

type AsyncWorkerConfig struct {
	DBBatchSize int
}

// Worker defines the interface for asynchronous processing tasks.
type Worker[T any] interface {
	WithChannels(channels *models.ExtractionChannels[T]) Worker[T]
	WithWaitGroups(waitGroups *models.ExtractionWaitGroups) Worker[T]
	SetupErrorWorker() (Runner[func(*models.FileErrorMap)], *sync.WaitGroup, error)
	SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error)
	SetupDBWorkers(stagingTables []string) (Runner[func()], *sync.WaitGroup, error)
	SetupJobDispatcherWorker(fileInfos []models.FileInfo, fileMap models.FileMap) (Runner[func()], *sync.WaitGroup, error)
}

type AsyncWorker[T any] struct {
	config     AsyncWorkerConfig
	dbManager  database.Manager
	pipeline   Pipeline[T]
	channels   *models.ExtractionChannels[T]
	waitGroups *models.ExtractionWaitGroups
}

func NewAsyncWorker[T any](dbManager database.Manager, pipeline Pipeline[T], cfg AsyncWorkerConfig) *AsyncWorker[T] {
	return &AsyncWorker[T]{
		dbManager: dbManager,
		pipeline:  pipeline,
		config:    cfg,
	}
}

func (w *AsyncWorker[T]) WithChannels(channels *models.ExtractionChannels[T]) Worker[T] {
	w.channels = channels
	return w
}

func (w *AsyncWorker[T]) WithWaitGroups(waitGroups *models.ExtractionWaitGroups) Worker[T] {
	w.waitGroups = waitGroups
	return w
}

func (w *AsyncWorker[T]) ParserWorker() {
	defer w.waitGroups.ParserWg.Done()
	for job := range w.channels.Jobs {
		log.Printf("Parser worker started job for file %s (ID: %s)\n", job.FilePath, job.FileID)
		err := w.pipeline.ParseFile(job.FilePath, job.FileID, w.channels.Results, w.channels.Errors)
		if err != nil {
			w.channels.Errors <- models.AppError{FileID: job.FileID, Message: "Failed to open or read file", Err: err}
		}
		log.Printf("Parser worker finished job for file %s (ID: %s)\n", job.FilePath, job.FileID)
	}
}

func (w *AsyncWorker[T]) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			for i := 1; i <= numberOfWorkers; i++ {
				w.waitGroups.ParserWg.Add(1)
				go w.ParserWorker()
			}
		},
	}, w.waitGroups.ParserWg, nil
}

func (w *AsyncWorker[T]) DbWorker(workerId int, stagingTableName string) {
	log.Printf("DB Worker %d: Starting to batch records into %s\n", workerId, stagingTableName)
	defer w.waitGroups.DbWg.Done()

	columns := w.pipeline.Table().Columns
	batch := make([]T, 0, w.config.DBBatchSize)

	flush := func(final bool) {
		if len(batch) == 0 {
			return
		}
		label := "batch"
		if final {
			label = "final batch"
		}
		log.Printf("DB Worker %d: Inserting %s of %d records into %s\n", workerId, label, len(batch), stagingTableName)

		rows := make([][]any, 0, len(batch))
		for _, rec := range batch {
			rows = append(rows, w.pipeline.Row(rec))
		}
		if err := w.dbManager.InsertRows(stagingTableName, columns, rows); err != nil {
			// The batch failed, so report an error for each unique FileID
			// in the batch.
			fileIDs := make(map[string]bool)
			for _, rec := range batch {
				fileIDs[w.pipeline.FileID(rec)] = true
			}
			for fileID := range fileIDs {
				w.channels.Errors <- models.AppError{FileID: fileID, Message: "Failed to insert batch of records", Err: err}
			}
		}
		batch = batch[:0]
	}

	for result := range w.channels.Results {
		batch = append(batch, result)
		if len(batch) >= w.config.DBBatchSize {
			flush(false)
		}
	}
	flush(true)

	log.Printf("DB worker %d finished.", workerId)
}

func (w *AsyncWorker[T]) SetupDBWorkers(stagingTables []string) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			for i, stagingTableName := range stagingTables {
				workerId := i + 1
				w.waitGroups.DbWg.Add(1)
				go w.DbWorker(workerId, stagingTableName)
			}
		},
	}, w.waitGroups.DbWg, nil
}

func (w *AsyncWorker[T]) ErrorWorker(fileErrorsMap *models.FileErrorMap) {
	defer w.waitGroups.MainWg.Done()
	for appErr := range w.channels.Errors {
		log.Printf("Caught error: %s\n", appErr.Error())
		if appErr.FileID == "" {
			continue
		}
		// Cap the number of errors kept per file; past that the file is
		// probably malformed and the rest is noise.
		fileErrorsMap.Mu.Lock()
		capped := len(fileErrorsMap.Errors[appErr.FileID]) >= 100
		if !capped {
			fileErrorsMap.Errors[appErr.FileID] = append(fileErrorsMap.Errors[appErr.FileID], appErr)
		}
		fileErrorsMap.Mu.Unlock()
		if capped {
			log.Printf("File %s has too many errors, skipping\n", appErr.FileID)
		}
	}
}

func (w *AsyncWorker[T]) PreprocessAndDispatchJobs(
	fileInfos []models.FileInfo,
	fileMap models.FileMap,
) {
	defer close(w.channels.Jobs)
	defer w.waitGroups.MainWg.Done()

	for _, fileInfo := range fileInfos {
		fileChecksum, err := checksum.GetFileChecksum(fileInfo.Path)
		if err != nil {
			log.Printf("ERROR: Failed to calculate checksum for %s: %v. Skipping file.", fileInfo.Path, err)
			continue
		}

		isProcessed, err := w.dbManager.IsFileAlreadyProcessed(fileChecksum)
		if err != nil {
			log.Printf("ERROR: Failed to check if file %s is already processed: %v. Skipping file.", fileInfo.Path, err)
			continue
		}
		if isProcessed {
			log.Printf("INFO: File %s (checksum: %s) has already been processed. Skipping.", fileInfo.Path, fileChecksum)
			continue
		}

		fileID, err := w.dbManager.InsertFileRecord(
			fileInfo.Path,
			time.Now(),
			database.FILE_STATUS_PROCESSING,
			fileChecksum,
		)
		if err != nil {
			log.Printf("ERROR: Failed to insert file record for %s: %v. Skipping file.", fileInfo.Path, err)
			continue
		}

		fileMap[fileID] = fileInfo.Path

		log.Printf("Dispatching job for file: %s (FileID: %s)", fileInfo.Path, fileID)
		w.channels.Jobs <- models.FileProcessingJob{FilePath: fileInfo.Path, FileID: fileID}
	}
}

func (w *AsyncWorker[T]) SetupJobDispatcherWorker(fileInfos []models.FileInfo, fileMap models.FileMap) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			w.waitGroups.MainWg.Add(1)
			go w.PreprocessAndDispatchJobs(fileInfos, fileMap)
		},
	}, w.waitGroups.MainWg, nil
}

func (w *AsyncWorker[T]) SetupErrorWorker() (Runner[func(*models.FileErrorMap)], *sync.WaitGroup, error) {
	return Runner[func(*models.FileErrorMap)]{
		Run: func(fileErrorsMap *models.FileErrorMap) {
			w.waitGroups.MainWg.Add(1)
			go w.ErrorWorker(fileErrorsMap)
		},
	}, w.waitGroups.MainWg, nil
}

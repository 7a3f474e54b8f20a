package ingestion

import (
	"log"
	"path/filepath"

	"github.com/bbrewington/data-liberation-project-datasets/internal/config"
	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
)

// Publisher is the optional downstream sink for the published table.
type Publisher interface {
	Publish(spec database.TableSpec, rows [][]any) error
}

type Service[T any] struct {
	dbManager     database.Manager
	setupService  ISetup[T]
	asyncWorker   Worker[T]
	fileProcessor Processor
	pipeline      Pipeline[T]
	publisher     Publisher
	config        config.Config
}

func NewService[T any](
	dbManager database.Manager,
	setupService ISetup[T],
	worker Worker[T],
	processor Processor,
	pipeline Pipeline[T],
	publisher Publisher,
	cfg config.Config,
) *Service[T] {
	return &Service[T]{
		dbManager:     dbManager,
		setupService:  setupService,
		asyncWorker:   worker,
		fileProcessor: processor,
		pipeline:      pipeline,
		publisher:     publisher,
		config:        cfg,
	}
}

// Execute orchestrates one full pipeline run: scan, dispatch, parse, batch
// into staging, publish, record file statuses, export. Re-running over
// unchanged input is a no-op for ingestion (checksum skip) and re-exports
// the identical artifact.
func (h *Service[T]) Execute(filesPath string) error {
	spec := h.pipeline.Table()

	// Step 0: Set up the extraction environment.
	environmentConfig, err := h.setupService.build(h.config)
	if err != nil {
		return err
	}
	channels, waitGroups, fileMap, fileErrorsMap := environmentConfig.GetValues()

	// Step 0.1: Find the raw extracts.
	fileInfos, err := h.fileProcessor.ScanForFiles(filesPath)
	if err != nil {
		log.Printf("Failed to scan files: %v", err)
		return err
	}

	// Step 0.2: Set up the database: ledger, published table, one staging
	// table per DB worker.
	if err := h.dbManager.CreateFileRecordsTable(); err != nil {
		return err
	}
	if err := h.dbManager.CreatePublishedTable(spec); err != nil {
		return err
	}
	stagingTableNames, err := h.dbManager.CreateWorkerStagingTables(spec, h.config.NumDBWorkers)
	if err != nil {
		log.Printf("Failed to create staging tables: %v", err)
		return err
	}
	defer func() {
		for _, tableName := range stagingTableNames {
			log.Printf("Cleaning up staging table %s", tableName)
			h.dbManager.DropWorkerStagingTable(tableName)
		}
	}()

	// Step 0.3: Wire the async worker channels and wait groups. VERY
	// IMPORTANT: can cause panic if not done.
	h.asyncWorker.WithChannels(channels).WithWaitGroups(waitGroups)

	// Step 1: Preprocess files and send jobs to the parser workers:
	// checksum each file, skip already-processed ones, record the rest in
	// the ledger. Shares MainWg with the error worker.
	dispatcherWorkerRunner, _, err := h.asyncWorker.SetupJobDispatcherWorker(fileInfos, *fileMap)
	if err != nil {
		return err
	}
	dispatcherWorkerRunner.Run()

	// Step 2: Start the error worker; it aggregates async errors per file.
	errorWorkerRunner, mainWaitGroup, err := h.asyncWorker.SetupErrorWorker()
	if err != nil {
		return err
	}
	errorWorkerRunner.Run(fileErrorsMap)

	// Step 3: Start parser workers: raw CSV -> cleaned/decoded records.
	parserWorkersRunner, parserWorkerWaitGroup, err := h.asyncWorker.SetupParserWorkers(h.config.NumParserWorkers)
	if err != nil {
		return err
	}
	parserWorkersRunner.Run()

	// Step 4: Start DB workers, one per staging table.
	dbWorkersRunner, dbWorkerWaitGroup, err := h.asyncWorker.SetupDBWorkers(stagingTableNames)
	if err != nil {
		return err
	}
	dbWorkersRunner.Run()

	// Step 5: Wait for parsing to complete, then signal the DB workers.
	log.Println("Waiting for parser workers to finish...")
	parserWorkerWaitGroup.Wait()
	close(channels.Results)

	log.Println("Waiting for DB workers to finish...")
	dbWorkerWaitGroup.Wait()

	// Step 5.1: Close the errors channel after all workers that can
	// produce errors are done, then wait for the error worker.
	close(channels.Errors)
	log.Println("Waiting for file error worker to finish...")
	mainWaitGroup.Wait()

	// Step 6: Replace, then publish. Rows published for these same extracts
	// by an earlier run (a crash before the status write, or a revised file
	// with a new checksum) must go first, or the published table and the
	// Parquet artifact would accumulate duplicates across runs.
	if len(*fileMap) > 0 {
		fileNames := make([]string, 0, len(*fileMap))
		for _, filePath := range *fileMap {
			fileNames = append(fileNames, filePath)
		}
		if err := h.dbManager.DeleteRowsForFiles(spec, fileNames); err != nil {
			return err
		}
	}
	if err := h.dbManager.PublishFromStaging(spec, stagingTableNames); err != nil {
		return err
	}

	// Step 7: Record each file's final status and aggregated errors.
	h.fileProcessor.UpdateFileStatus(fileErrorsMap, fileMap)

	// Step 8: Export the published table as the Parquet artifact.
	outPath := filepath.Join(h.config.OutputDir, spec.Name+".parquet")
	if err := h.dbManager.ExportParquet(spec, outPath); err != nil {
		return err
	}

	// Step 9: Optionally mirror the published table to Postgres.
	if h.publisher != nil {
		rows, err := h.dbManager.SelectRows(spec)
		if err != nil {
			return err
		}
		if err := h.publisher.Publish(spec, rows); err != nil {
			return err
		}
	}

	log.Println("Extraction process finished.")
	return nil
}

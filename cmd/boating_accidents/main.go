package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bbrewington/data-liberation-project-datasets/internal/boating"
	"github.com/bbrewington/data-liberation-project-datasets/internal/config"
	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/ingestion"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

func setup() (string, *ingestion.Service[*models.BoatingAccident], func(), error) {
	if len(os.Args) < 2 {
		return "", nil, nil, fmt.Errorf("please provide the extracts folder path as a command-line argument")
	}
	filesPath := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.ConnectDuckDB(cfg.DuckDBPath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("unable to open database: %w", err)
	}

	ctx := context.Background()
	dbManager := database.NewDuckDBManager(ctx, db)

	pipeline := boating.New()

	fileProcessor := ingestion.NewFileProcessor(dbManager)
	asyncWorker := ingestion.NewAsyncWorker[*models.BoatingAccident](dbManager, pipeline, ingestion.AsyncWorkerConfig{
		DBBatchSize: cfg.DBBatchSize,
	})

	cleanupFuncs := []func(){func() { db.Close() }}

	var publisher ingestion.Publisher
	if cfg.PublishDatabaseURL != "" {
		dbpool, err := database.ConnectPostgres(cfg.PublishDatabaseURL)
		if err != nil {
			db.Close()
			return "", nil, nil, fmt.Errorf("unable to connect to publish database: %w", err)
		}
		publisher = database.NewPostgresPublisher(ctx, dbpool)
		cleanupFuncs = append(cleanupFuncs, dbpool.Close)
	}

	handler := ingestion.NewService[*models.BoatingAccident](
		dbManager,
		ingestion.Setup[*models.BoatingAccident]{},
		asyncWorker,
		fileProcessor,
		pipeline,
		publisher,
		*cfg,
	)

	cleanupFunc := func() {
		for _, fn := range cleanupFuncs {
			fn()
		}
	}

	return filesPath, handler, cleanupFunc, nil
}

func execute(filesPath string, handler *ingestion.Service[*models.BoatingAccident]) error {
	log.Println("Starting boating accident extraction process...")
	return handler.Execute(filesPath)
}

func cleanup(cleanupFunc func()) {
	log.Println("Cleaning up resources...")
	cleanupFunc()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	filesPath, handler, cleanupFunc, err := setup()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup(cleanupFunc)

	err = execute(filesPath, handler)
	if err != nil {
		log.Fatalf("Error during extraction: %v\n", err)
	}

	log.Println("Boating accident extraction process finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}

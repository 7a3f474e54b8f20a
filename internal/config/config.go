package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DuckDBPath         string
	OutputDir          string
	PublishDatabaseURL string
	NumParserWorkers   int
	NumDBWorkers       int
	ResultsChannelSize int
	DBBatchSize        int
}

func New() (*Config, error) {
	cfg := &Config{
		DuckDBPath:         os.Getenv("DUCKDB_PATH"),
		OutputDir:          os.Getenv("OUTPUT_DIR"),
		PublishDatabaseURL: os.Getenv("PUBLISH_DATABASE_URL"),
		NumParserWorkers:   4,
		NumDBWorkers:       2,
		ResultsChannelSize: 10000,
		DBBatchSize:        5000,
	}

	if cfg.DuckDBPath == "" {
		cfg.DuckDBPath = "pipeline.duckdb"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	var err error
	cfg.NumParserWorkers, err = getEnvAsInt("NUM_PARSER_WORKERS", cfg.NumParserWorkers)
	if err != nil {
		return nil, err
	}

	cfg.NumDBWorkers, err = getEnvAsInt("NUM_DB_WORKERS", cfg.NumDBWorkers)
	if err != nil {
		return nil, err
	}

	cfg.ResultsChannelSize, err = getEnvAsInt("RESULTS_CHANNEL_SIZE", cfg.ResultsChannelSize)
	if err != nil {
		return nil, err
	}

	cfg.DBBatchSize, err = getEnvAsInt("DB_BATCH_SIZE", cfg.DBBatchSize)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

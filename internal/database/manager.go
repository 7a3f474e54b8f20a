package database

import (
	"time"

	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

const (
	FILE_STATUS_DONE             = "DONE"
	FILE_STATUS_DONE_WITH_ERRORS = "DONE_WITH_ERRORS"
	FILE_STATUS_PROCESSING       = "PROCESSING"
	FILE_STATUS_FATAL            = "FATAL"
)

// TableSpec describes a pipeline's published intermediate table: its DDL in
// both engines, the insert column order, and the ordering that makes the
// Parquet export reproducible byte-for-byte across runs.
type TableSpec struct {
	Name        string
	DDL         string
	PostgresDDL string
	Columns     []string
	OrderBy     string
}

// Manager is the materialization interface the ingestion service works
// against. The production implementation is DuckDB; tests mock it.
type Manager interface {
	CreateFileRecordsTable() error
	CreatePublishedTable(spec TableSpec) error
	CreateWorkerStagingTables(spec TableSpec, numTables int) ([]string, error)
	DropWorkerStagingTable(tableName string) error
	InsertRows(tableName string, columns []string, rows [][]any) error
	DeleteRowsForFiles(spec TableSpec, fileNames []string) error
	PublishFromStaging(spec TableSpec, stagingTables []string) error
	SelectRows(spec TableSpec) ([][]any, error)
	ExportParquet(spec TableSpec, outPath string) error
	InsertFileRecord(fileName string, processedAt time.Time, status string, checksum string) (string, error)
	UpdateFileStatus(fileID string, status string, appErrors []models.AppError) error
	IsFileAlreadyProcessed(checksum string) (bool, error)
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

// ConnectDuckDB opens (or creates) the embedded analytical database that
// holds the published tables and the file ledger.
func ConnectDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open duckdb database at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("unable to connect to duckdb database at %s: %w", path, err)
	}
	return db, nil
}

type DuckDBManager struct {
	db  *sql.DB
	ctx context.Context
}

func NewDuckDBManager(ctx context.Context, db *sql.DB) *DuckDBManager {
	return &DuckDBManager{db: db, ctx: ctx}
}

func (m *DuckDBManager) CreateFileRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS file_records (
		id VARCHAR PRIMARY KEY,
		file_name VARCHAR NOT NULL,
		processed_at TIMESTAMP NOT NULL,
		status VARCHAR NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_ERRORS', 'PROCESSING', 'FATAL')),
		checksum VARCHAR,
		errors VARCHAR
	);`

	_, err := m.db.ExecContext(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating file_records table: %w", err)
	}

	return nil
}

func (m *DuckDBManager) CreatePublishedTable(spec TableSpec) error {
	_, err := m.db.ExecContext(m.ctx, spec.DDL)
	if err != nil {
		return fmt.Errorf("error creating published table %s: %w", spec.Name, err)
	}
	return nil
}

// CreateWorkerStagingTables creates one empty staging table per DB worker so
// workers never contend on the published table. Staging tables are replaced
// wholesale; a leftover from a crashed run is discarded, not merged.
func (m *DuckDBManager) CreateWorkerStagingTables(spec TableSpec, numTables int) ([]string, error) {
	if numTables <= 0 {
		return nil, nil
	}

	stagingTableNames := make([]string, numTables)
	for w := 1; w <= numTables; w++ {
		stagingTableNames[w-1] = fmt.Sprintf("%s_staging_worker_%d", spec.Name, w)
	}

	for _, tableName := range stagingTableNames {
		query := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS SELECT * FROM %s LIMIT 0;`, tableName, spec.Name)
		if _, err := m.db.ExecContext(m.ctx, query); err != nil {
			return nil, fmt.Errorf("error creating worker staging table %s: %w", tableName, err)
		}
		log.Printf("Created staging table %s", tableName)
	}

	return stagingTableNames, nil
}

func (m *DuckDBManager) DropWorkerStagingTable(tableName string) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, tableName)
	_, err := m.db.ExecContext(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error dropping worker staging table %s: %w", tableName, err)
	}
	return nil
}

// InsertRows writes one batch inside a transaction through a prepared
// statement.
func (m *DuckDBManager) InsertRows(tableName string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	tx, err := m.db.BeginTx(m.ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(m.ctx, query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error preparing insert into %s: %w", tableName, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(m.ctx, row...); err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting row into %s: %w", tableName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing batch insert into %s: %w", tableName, err)
	}

	return nil
}

// DeleteRowsForFiles removes published rows whose source extract is being
// re-processed in the current run: rows left by a run that died before its
// status write, and rows from an earlier revision of the same extract. The
// join goes through the ledger because published rows carry per-run file IDs.
func (m *DuckDBManager) DeleteRowsForFiles(spec TableSpec, fileNames []string) error {
	if len(fileNames) == 0 {
		return nil
	}

	placeholders := make([]string, len(fileNames))
	args := make([]any, len(fileNames))
	for i, fileName := range fileNames {
		placeholders[i] = "?"
		args[i] = fileName
	}
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE file_id IN (SELECT id FROM file_records WHERE file_name IN (%s))`,
		spec.Name, strings.Join(placeholders, ", "))

	if _, err := m.db.ExecContext(m.ctx, query, args...); err != nil {
		return fmt.Errorf("error deleting stale rows from %s: %w", spec.Name, err)
	}

	return nil
}

func (m *DuckDBManager) PublishFromStaging(spec TableSpec, stagingTables []string) error {
	for _, tableName := range stagingTables {
		query := fmt.Sprintf(`INSERT INTO %s SELECT * FROM %s;`, spec.Name, tableName)
		if _, err := m.db.ExecContext(m.ctx, query); err != nil {
			return fmt.Errorf("error publishing staging table %s into %s: %w", tableName, spec.Name, err)
		}
	}
	return nil
}

// SelectRows reads the published table in its deterministic order, used by
// the optional Postgres publish step.
func (m *DuckDBManager) SelectRows(spec TableSpec) ([][]any, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		strings.Join(spec.Columns, ", "), spec.Name, spec.OrderBy)

	rows, err := m.db.QueryContext(m.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error selecting rows from %s: %w", spec.Name, err)
	}
	defer rows.Close()

	var result [][]any
	for rows.Next() {
		values := make([]any, len(spec.Columns))
		pointers := make([]any, len(spec.Columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("error scanning row from %s: %w", spec.Name, err)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows of %s: %w", spec.Name, err)
	}

	return result, nil
}

// ExportParquet writes the published table to a Parquet artifact. The
// ORDER BY makes re-runs over unchanged input byte-identical.
func (m *DuckDBManager) ExportParquet(spec TableSpec, outPath string) error {
	query := fmt.Sprintf(`COPY (SELECT %s FROM %s ORDER BY %s) TO '%s' (FORMAT parquet);`,
		strings.Join(spec.Columns, ", "), spec.Name, spec.OrderBy, outPath)

	if _, err := m.db.ExecContext(m.ctx, query); err != nil {
		return fmt.Errorf("error exporting %s to parquet: %w", spec.Name, err)
	}

	log.Printf("Exported %s to %s", spec.Name, outPath)
	return nil
}

func (m *DuckDBManager) InsertFileRecord(fileName string, processedAt time.Time, status string, checksum string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO file_records (id, file_name, processed_at, status, checksum) VALUES (?, ?, ?, ?, ?)`

	if _, err := m.db.ExecContext(m.ctx, query, id, fileName, processedAt, status, checksum); err != nil {
		return "", fmt.Errorf("error inserting file record for %s: %w", fileName, err)
	}

	return id, nil
}

func (m *DuckDBManager) UpdateFileStatus(fileID string, status string, appErrors []models.AppError) error {
	var errorsJSON any
	if len(appErrors) > 0 {
		messages := make([]string, 0, len(appErrors))
		for i := range appErrors {
			messages = append(messages, appErrors[i].Error())
		}
		encoded, err := json.Marshal(messages)
		if err != nil {
			return fmt.Errorf("error marshalling errors for file %s: %w", fileID, err)
		}
		errorsJSON = string(encoded)
	}

	query := `UPDATE file_records SET status = ?, errors = ? WHERE id = ?`
	if _, err := m.db.ExecContext(m.ctx, query, status, errorsJSON, fileID); err != nil {
		return fmt.Errorf("error updating status for file %s: %w", fileID, err)
	}

	return nil
}

func (m *DuckDBManager) IsFileAlreadyProcessed(checksum string) (bool, error) {
	query := `SELECT count(*) FROM file_records WHERE checksum = ? AND status IN ('DONE', 'DONE_WITH_ERRORS')`

	var count int
	if err := m.db.QueryRowContext(m.ctx, query, checksum).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking processed files for checksum %s: %w", checksum, err)
	}

	return count > 0, nil
}

package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Optional publish sink: when PUBLISH_DATABASE_URL is set, the decoded
// tables are bulk-copied to Postgres for the downstream exploration UI.

func ConnectPostgres(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return dbpool, nil
}

type PostgresPublisher struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewPostgresPublisher(ctx context.Context, pool *pgxpool.Pool) *PostgresPublisher {
	return &PostgresPublisher{dbpool: pool, ctx: ctx}
}

// Publish replaces the table's content with the given rows. The table is
// re-created if missing and truncated before the copy, so the Postgres copy
// always mirrors the published DuckDB table exactly.
func (p *PostgresPublisher) Publish(spec TableSpec, rows [][]any) error {
	if _, err := p.dbpool.Exec(p.ctx, spec.PostgresDDL); err != nil {
		return fmt.Errorf("error creating publish table %s: %w", spec.Name, err)
	}

	tx, err := p.dbpool.Begin(p.ctx)
	if err != nil {
		return fmt.Errorf("error beginning publish transaction: %w", err)
	}

	truncate := fmt.Sprintf(`TRUNCATE TABLE %s;`, pgx.Identifier{spec.Name}.Sanitize())
	if _, err := tx.Exec(p.ctx, truncate); err != nil {
		if rx := tx.Rollback(p.ctx); rx != nil {
			log.Printf("Error rolling back publish transaction: %v", rx)
		}
		return fmt.Errorf("error truncating publish table %s: %w", spec.Name, err)
	}

	copied, err := tx.CopyFrom(p.ctx, pgx.Identifier{spec.Name}, spec.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		if rx := tx.Rollback(p.ctx); rx != nil {
			log.Printf("Error rolling back publish transaction: %v", rx)
		}
		return fmt.Errorf("error copying rows into publish table %s: %w", spec.Name, err)
	}

	if err := tx.Commit(p.ctx); err != nil {
		return fmt.Errorf("error committing publish transaction: %w", err)
	}

	log.Printf("Published %d rows to Postgres table %s", copied, spec.Name)
	return nil
}

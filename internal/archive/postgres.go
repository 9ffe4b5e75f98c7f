// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS keyword_runs (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	domain TEXT NOT NULL DEFAULT '',
	sources JSONB NOT NULL,
	depth_limit INTEGER NOT NULL,
	dedupe BOOLEAN NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	output_path TEXT NOT NULL DEFAULT '',
	results TEXT NOT NULL,
	keywords JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_keyword_runs_query ON keyword_runs(query);
`

// OpenPostgres connects to dsn and creates the schema if needed.
func OpenPostgres(ctx context.Context, dsn string) (Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging archive: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, run *Run) error {
	sources, results, keywords, err := encodePayload(run)
	if err != nil {
		return err
	}

	_, err = b.pool.Exec(ctx, `
	INSERT INTO keyword_runs (
		id, query, language, country, domain, sources, depth_limit, dedupe, format, output_path, results, keywords, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		run.ID, run.Query, run.Language, run.Country, run.Domain,
		sources, run.DepthLimit, run.Dedupe, run.Format, run.OutputPath,
		results, keywords, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// results is TEXT rather than JSONB: jsonb reorders object keys and the
// bucket's source order must survive.
const postgresColumns = `id, query, language, country, domain, sources::text, depth_limit, dedupe, format, output_path, results, keywords::text, created_at`

func (b *postgresBackend) List(ctx context.Context, filter Filter) ([]*Run, error) {
	query := `SELECT ` + postgresColumns + ` FROM keyword_runs WHERE 1=1`
	args := []any{}
	argID := 1

	if filter.Query != "" {
		query += fmt.Sprintf(` AND query = $%d`, argID)
		args = append(args, filter.Query)
		argID++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, argID)
		args = append(args, *filter.Since)
		argID++
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argID)
		args = append(args, filter.Limit)
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (b *postgresBackend) Get(ctx context.Context, id string) (*Run, error) {
	row := b.pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM keyword_runs WHERE id = $1`, id)
	run, err := scanPostgresRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}

func scanPostgresRun(row pgx.Row) (*Run, error) {
	var run Run
	var sources, results, keywords string

	err := row.Scan(&run.ID, &run.Query, &run.Language, &run.Country, &run.Domain,
		&sources, &run.DepthLimit, &run.Dedupe, &run.Format, &run.OutputPath,
		&results, &keywords, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := decodePayload(&run, sources, results, keywords); err != nil {
		return nil, err
	}
	return &run, nil
}

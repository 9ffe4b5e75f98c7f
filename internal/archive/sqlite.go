// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var _ Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	language TEXT,
	country TEXT,
	domain TEXT,
	sources TEXT NOT NULL,
	depth_limit INTEGER NOT NULL,
	dedupe BOOLEAN NOT NULL,
	format TEXT,
	output_path TEXT,
	results TEXT NOT NULL,
	keywords TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_query ON runs(query);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// OpenSQLite opens or creates the archive database at path.
func OpenSQLite(path string) (Backend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, run *Run) error {
	sources, results, keywords, err := encodePayload(run)
	if err != nil {
		return err
	}

	_, err = b.db.ExecContext(ctx, `
	INSERT INTO runs (
		id, query, language, country, domain, sources, depth_limit, dedupe, format, output_path, results, keywords, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Query, run.Language, run.Country, run.Domain,
		sources, run.DepthLimit, run.Dedupe, run.Format, run.OutputPath,
		results, keywords, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

const sqliteColumns = `id, query, language, country, domain, sources, depth_limit, dedupe, format, output_path, results, keywords, created_at`

func (b *sqliteBackend) List(ctx context.Context, filter Filter) ([]*Run, error) {
	query := `SELECT ` + sqliteColumns + ` FROM runs WHERE 1=1`
	args := []any{}

	if filter.Query != "" {
		query += ` AND query = ?`
		args = append(args, filter.Query)
	}
	if filter.Since != nil {
		// created_at compares as text; both sides must share the UTC offset.
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (b *sqliteBackend) Get(ctx context.Context, id string) (*Run, error) {
	row := b.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanSQLiteRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row rowScanner) (*Run, error) {
	var run Run
	var language, country, domain, format, outputPath sql.NullString
	var sources, results, keywords string

	err := row.Scan(&run.ID, &run.Query, &language, &country, &domain,
		&sources, &run.DepthLimit, &run.Dedupe, &format, &outputPath,
		&results, &keywords, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Language = language.String
	run.Country = country.String
	run.Domain = domain.String
	run.Format = format.String
	run.OutputPath = outputPath.String

	if err := decodePayload(&run, sources, results, keywords); err != nil {
		return nil, err
	}
	return &run, nil
}

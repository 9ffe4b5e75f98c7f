// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of keyword-research runs in SQLite or
// Postgres so earlier results can be listed and re-read.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/keyword-research/pkg/types"
)

// Run is one archived invocation.
type Run struct {
	ID         string         `json:"id"`
	Query      string         `json:"query"`
	Language   string         `json:"language"`
	Country    string         `json:"country"`
	Domain     string         `json:"domain"`
	Sources    []types.Source `json:"sources"`
	DepthLimit int            `json:"depth_limit"`
	Dedupe     bool           `json:"dedupe"`
	Format     string         `json:"format"`
	OutputPath string         `json:"output_path"`
	Bucket     *types.Bucket  `json:"results"`
	Keywords   []string       `json:"keywords,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewRun records cfg and its results under a fresh ID.
func NewRun(cfg types.ResearchConfig, bucket *types.Bucket, keywords []string, outputPath string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Query:      cfg.Query,
		Language:   cfg.Language,
		Country:    cfg.Country,
		Domain:     cfg.Domain,
		Sources:    bucket.Keys(),
		DepthLimit: cfg.DepthLimit,
		Dedupe:     cfg.Dedupe,
		Format:     cfg.OutputFormat,
		OutputPath: outputPath,
		Bucket:     bucket,
		Keywords:   keywords,
		CreatedAt:  time.Now().UTC(),
	}
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Query string
	Since *time.Time
	Limit int
}

// Backend stores and queries archived runs.
type Backend interface {
	Save(ctx context.Context, run *Run) error
	List(ctx context.Context, filter Filter) ([]*Run, error)
	Get(ctx context.Context, id string) (*Run, error)
	Close() error
}

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("run not found")

// Open picks a backend by DSN: postgres:// and postgresql:// URLs use
// Postgres, anything else is a SQLite file path with an optional sqlite://
// prefix.
func Open(ctx context.Context, dsn string) (Backend, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("archive DSN is empty")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	default:
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
	}
}

// encodePayload serializes the variable-length parts of a run.
func encodePayload(run *Run) (sources, results, keywords string, err error) {
	s, err := json.Marshal(run.Sources)
	if err != nil {
		return "", "", "", fmt.Errorf("encoding sources: %w", err)
	}
	bucket := run.Bucket
	if bucket == nil {
		bucket = types.NewBucket()
	}
	r, err := json.Marshal(bucket)
	if err != nil {
		return "", "", "", fmt.Errorf("encoding results: %w", err)
	}
	kw := run.Keywords
	if kw == nil {
		kw = []string{}
	}
	k, err := json.Marshal(kw)
	if err != nil {
		return "", "", "", fmt.Errorf("encoding keywords: %w", err)
	}
	return string(s), string(r), string(k), nil
}

// decodePayload is the inverse of encodePayload.
func decodePayload(run *Run, sources, results, keywords string) error {
	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return fmt.Errorf("decoding sources: %w", err)
	}
	run.Bucket = types.NewBucket()
	if err := json.Unmarshal([]byte(results), run.Bucket); err != nil {
		return fmt.Errorf("decoding results: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &run.Keywords); err != nil {
		return fmt.Errorf("decoding keywords: %w", err)
	}
	if len(run.Keywords) == 0 {
		run.Keywords = nil
	}
	return nil
}

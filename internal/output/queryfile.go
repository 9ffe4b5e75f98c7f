// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-research/pkg/types"
)

// QueryFile is the on-disk snapshot of a run: query, options, and results.
// A saved snapshot can be rendered again in any format without re-querying
// SerpApi. The API key is never written.
type QueryFile struct {
	Query    QueryParams   `yaml:"query"`
	Options  QueryOptions  `yaml:"options"`
	Sources  []SourceEntry `yaml:"sources"`
	Keywords []string      `yaml:"keywords,omitempty"`
	Summary  QuerySummary  `yaml:"summary"`
}

// QueryParams stores the query context minus the credential.
type QueryParams struct {
	Text     string `yaml:"text"`
	Language string `yaml:"language,omitempty"`
	Country  string `yaml:"country,omitempty"`
	Domain   string `yaml:"domain,omitempty"`
}

// QueryOptions stores the run options that shaped the results.
type QueryOptions struct {
	DepthLimit int              `yaml:"depth_limit"`
	Dedupe     bool             `yaml:"dedupe"`
	DedupeMode types.DedupeMode `yaml:"dedupe_mode,omitempty"`
}

// SourceEntry is one bucket column. A list keeps source order stable in YAML.
type SourceEntry struct {
	Source   types.Source `yaml:"source"`
	Keywords []string     `yaml:"keywords"`
}

// QuerySummary stores result counts and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves cfg and r to a YAML file at path.
func WriteQueryFile(path string, cfg types.ResearchConfig, r Result) error {
	qf := QueryFile{
		Query: QueryParams{
			Text:     cfg.Query,
			Language: cfg.Language,
			Country:  cfg.Country,
			Domain:   cfg.Domain,
		},
		Options: QueryOptions{
			DepthLimit: cfg.DepthLimit,
			Dedupe:     r.Deduplicated,
			DedupeMode: cfg.DedupeMode,
		},
		Summary: QuerySummary{Timestamp: time.Now().UTC()},
	}

	if r.Bucket != nil {
		for _, k := range r.Bucket.Keys() {
			qf.Sources = append(qf.Sources, SourceEntry{Source: k, Keywords: r.Bucket.Get(k)})
		}
		qf.Summary.Total = r.Bucket.Total()
	}
	if r.Deduplicated {
		qf.Keywords = r.Keywords
		qf.Summary.Total = len(r.Keywords)
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Bucket rebuilds the per-source bucket from the snapshot.
func (qf *QueryFile) Bucket() *types.Bucket {
	b := types.NewBucket()
	for _, e := range qf.Sources {
		b.Set(e.Source, e.Keywords)
	}
	return b
}

// Result rebuilds the Result that produced the snapshot.
func (qf *QueryFile) Result() Result {
	return Result{
		Bucket:       qf.Bucket(),
		Keywords:     qf.Keywords,
		Deduplicated: qf.Options.Dedupe,
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders collected keywords to CSV, JSON, or TXT files and
// reads/writes YAML query snapshots.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/pdiddy/keyword-research/pkg/types"
)

// Format is an output file format. Its value is the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// ParseFormat accepts csv, json, or txt in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatTXT:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use CSV, JSON, or TXT", s)
	}
}

// Label returns the upper-case name shown to users (e.g. "CSV").
func (f Format) Label() string { return strings.ToUpper(string(f)) }

// Result is what gets written: either the per-source bucket or, after
// deduplication, one flat keyword list.
type Result struct {
	Bucket       *types.Bucket
	Keywords     []string
	Deduplicated bool
}

// dedupeColumn is the CSV header used for a deduplicated result.
const dedupeColumn = "keywords"

// fallbackName is used when the query does not produce a usable file name.
const fallbackName = "data"

// FileName derives an output file name from the query, e.g.
// "Starbucks Coffee" -> "starbucks-coffee.csv".
func FileName(query string, f Format) string {
	name := slug.Make(query)
	if name == "" {
		name = fallbackName
	}
	return name + "." + string(f)
}

// Write renders r in format f to w.
func Write(w io.Writer, f Format, r Result) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatTXT:
		return WriteTXT(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// Save writes r to path in format f, creating parent directories.
func Save(path string, f Format, r Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, f, r); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// columns returns the header and per-column values for r.
func columns(r Result) ([]string, [][]string) {
	if r.Deduplicated {
		return []string{dedupeColumn}, [][]string{r.Keywords}
	}
	if r.Bucket == nil {
		return nil, nil
	}
	keys := r.Bucket.Keys()
	header := make([]string, len(keys))
	cols := make([][]string, len(keys))
	for i, k := range keys {
		header[i] = string(k)
		cols[i] = r.Bucket.Get(k)
	}
	return header, cols
}

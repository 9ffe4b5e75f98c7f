// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pdiddy/keyword-research/pkg/types"
)

// WriteCSV writes one column per source: a header row of source names,
// then row i holds the i-th keyword of each source. Shorter columns are
// padded with empty cells.
func WriteCSV(w io.Writer, r Result) error {
	header, cols := columns(r)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	rows := 0
	for _, c := range cols {
		rows = max(rows, len(c))
	}

	record := make([]string, len(cols))
	for i := 0; i < rows; i++ {
		for j, c := range cols {
			record[j] = ""
			if i < len(c) {
				record[j] = c[i]
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV back into a bucket. Trailing
// empty cells of each column are treated as padding and dropped.
func ReadCSV(rd io.Reader) (*types.Bucket, error) {
	cr := csv.NewReader(rd)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return types.NewBucket(), nil
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		for j, cell := range record {
			cols[j] = append(cols[j], cell)
		}
	}

	b := types.NewBucket()
	for j, name := range header {
		col := cols[j]
		end := len(col)
		for end > 0 && col[end-1] == "" {
			end--
		}
		b.Set(types.Source(name), col[:end])
	}
	return b, nil
}

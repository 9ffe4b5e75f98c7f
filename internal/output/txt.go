// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"io"
	"strings"
)

// WriteTXT writes each source's keywords one per line, sources in bucket
// order. Every source block ends with a newline, so an empty source shows
// up as a blank line.
func WriteTXT(w io.Writer, r Result) error {
	_, cols := columns(r)
	for _, c := range cols {
		if _, err := io.WriteString(w, strings.Join(c, "\n")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

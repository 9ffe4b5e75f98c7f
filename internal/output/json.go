// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"io"
)

// WriteJSON writes the bucket as an object keyed by source, or the
// deduplicated keywords as an array. Indent is two spaces and non-ASCII
// and HTML characters are written as-is.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if r.Deduplicated {
		keywords := r.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		return enc.Encode(keywords)
	}
	return enc.Encode(r.Bucket)
}

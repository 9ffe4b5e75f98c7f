// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for keyword-research: the
// query context sent to SerpApi, the keyword sources, and the ordered
// result bucket that every output format is rendered from.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Source names one keyword data source. The string value doubles as the
// bucket key and the CSV/JSON column name.
type Source string

const (
	SourceAutoComplete     Source = "auto_complete"
	SourceRelatedSearches  Source = "related_searches"
	SourceRelatedQuestions Source = "related_questions"
)

// Sources lists every source in deduplication priority order.
var Sources = []Source{SourceAutoComplete, SourceRelatedSearches, SourceRelatedQuestions}

// sourceAliases maps the short CLI engine names to sources.
var sourceAliases = map[string]Source{
	"ac": SourceAutoComplete,
	"rs": SourceRelatedSearches,
	"rq": SourceRelatedQuestions,
}

// ParseSource accepts a short alias (ac, rs, rq) or a full source name,
// case-insensitively.
func ParseSource(s string) (Source, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if src, ok := sourceAliases[name]; ok {
		return src, nil
	}
	for _, src := range Sources {
		if string(src) == name {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown engine %q: use ac, rs, or rq", s)
}

// QueryContext is the immutable set of parameters for one invocation.
type QueryContext struct {
	// Query is the search text sent as q on top-level requests.
	Query string

	// Language is the hl parameter (e.g. "en").
	Language string

	// Country is the gl parameter (e.g. "us").
	Country string

	// Domain is the google_domain parameter (e.g. "google.com").
	Domain string

	// APIKey is the SerpApi credential.
	APIKey string
}

// Bucket maps sources to keyword lists while remembering the order in
// which sources were first inserted. The zero value is ready to use.
type Bucket struct {
	keys   []Source
	values map[Source][]string
}

// NewBucket returns an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{values: make(map[Source][]string)}
}

// Set stores keywords under src. A new source is appended to the key order;
// an existing one keeps its position and has its list replaced.
func (b *Bucket) Set(src Source, keywords []string) {
	if b.values == nil {
		b.values = make(map[Source][]string)
	}
	if keywords == nil {
		keywords = []string{}
	}
	if _, ok := b.values[src]; !ok {
		b.keys = append(b.keys, src)
	}
	b.values[src] = keywords
}

// Get returns the keywords for src, or nil if src is absent.
func (b *Bucket) Get(src Source) []string {
	return b.values[src]
}

// Has reports whether src has been set.
func (b *Bucket) Has(src Source) bool {
	_, ok := b.values[src]
	return ok
}

// Keys returns the sources in insertion order.
func (b *Bucket) Keys() []Source {
	out := make([]Source, len(b.keys))
	copy(out, b.keys)
	return out
}

// Len returns the number of sources.
func (b *Bucket) Len() int { return len(b.keys) }

// Total returns the number of keywords across all sources.
func (b *Bucket) Total() int {
	n := 0
	for _, k := range b.keys {
		n += len(b.values[k])
	}
	return n
}

// MarshalJSON writes the bucket as an object whose keys follow insertion
// order. HTML characters are not escaped.
func (b *Bucket) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalLiteral(string(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalLiteral(b.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of string arrays, keeping key order.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("bucket: expected object, got %v", tok)
	}
	*b = Bucket{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("bucket: expected key, got %v", tok)
		}
		var keywords []string
		if err := dec.Decode(&keywords); err != nil {
			return fmt.Errorf("bucket: decoding %s: %w", key, err)
		}
		b.Set(Source(key), keywords)
	}
	_, err = dec.Token()
	return err
}

func marshalLiteral(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

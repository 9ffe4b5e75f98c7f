// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"fmt"

	"github.com/pdiddy/keyword-research/pkg/types"
)

// Dedupe flattens b into one list in priority order (autocomplete, related
// searches, related questions). An entry from a source is kept only when
// it appears in none of the other sources' raw lists, so a keyword shared
// by two sources is dropped from both. Repeats inside one source are kept.
func Dedupe(b *types.Bucket) []string {
	out := []string{}
	for _, src := range types.Sources {
		if !b.Has(src) {
			continue
		}
		others := make(map[string]struct{})
		for _, other := range types.Sources {
			if other == src {
				continue
			}
			for _, kw := range b.Get(other) {
				others[kw] = struct{}{}
			}
		}
		for _, kw := range b.Get(src) {
			if _, shared := others[kw]; !shared {
				out = append(out, kw)
			}
		}
	}
	return out
}

// DedupeFirst flattens b in priority order keeping only the first
// occurrence of each keyword.
func DedupeFirst(b *types.Bucket) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, src := range types.Sources {
		for _, kw := range b.Get(src) {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// ParseDedupeMode accepts "exclusive" (or empty) and "first".
func ParseDedupeMode(s string) (types.DedupeMode, error) {
	switch types.DedupeMode(s) {
	case "", types.DedupeExclusive:
		return types.DedupeExclusive, nil
	case types.DedupeFirst:
		return types.DedupeFirst, nil
	default:
		return "", fmt.Errorf("unknown dedupe mode %q: use exclusive or first", s)
	}
}

// DedupeWith applies the rule selected by mode.
func DedupeWith(b *types.Bucket, mode types.DedupeMode) []string {
	if mode == types.DedupeFirst {
		return DedupeFirst(b)
	}
	return Dedupe(b)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pdiddy/keyword-research/internal/serpapi"
	"github.com/pdiddy/keyword-research/pkg/types"
)

// ClampDepth bounds a requested pagination depth to [0, types.MaxDepth].
func ClampDepth(depth int) int {
	switch {
	case depth < 0:
		return 0
	case depth > types.MaxDepth:
		return types.MaxDepth
	default:
		return depth
	}
}

// walker follows related-question continuation tokens. It owns the
// accumulating result list for one RelatedQuestions call.
type walker struct {
	searcher Searcher
	log      zerolog.Logger
	results  []string
	requests int
}

// walk visits every token-bearing entry of page in order. Each follow-up
// page is appended in full before its own tokens are followed, giving a
// pre-order traversal of the pagination tree. Questions are never
// deduplicated here.
func (w *walker) walk(ctx context.Context, page []serpapi.RelatedQuestion, depth int) error {
	if depth <= 0 {
		return nil
	}
	for _, entry := range page {
		if entry.NextPageToken == "" {
			continue
		}
		next, err := w.follow(ctx, entry.NextPageToken)
		if err != nil {
			return err
		}
		w.results = appendQuestions(w.results, next)
		if depth > 1 {
			if err := w.walk(ctx, next, depth-1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) follow(ctx context.Context, token string) ([]serpapi.RelatedQuestion, error) {
	w.requests++
	w.log.Trace().Int("request", w.requests).Msg("following related questions token")
	resp, err := w.searcher.Search(ctx, url.Values{
		"engine":          {serpapi.EngineRelatedQuestions},
		"next_page_token": {token},
	})
	if err != nil {
		return nil, err
	}
	return resp.RelatedQuestions, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords collects keyword suggestions from SerpApi: Google
// autocomplete, related searches, and "people also ask" related questions
// with optional pagination, plus cross-source deduplication.
package keywords

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pdiddy/keyword-research/internal/serpapi"
	"github.com/pdiddy/keyword-research/pkg/types"
)

// Searcher issues one SerpApi request. *serpapi.Client implements it.
type Searcher interface {
	Search(ctx context.Context, params url.Values) (*serpapi.Response, error)
}

// Researcher dispatches one request per source for a fixed query context.
type Researcher struct {
	searcher Searcher
	qc       types.QueryContext
	log      zerolog.Logger
}

// NewResearcher returns a Researcher bound to qc.
func NewResearcher(s Searcher, qc types.QueryContext, log zerolog.Logger) *Researcher {
	return &Researcher{searcher: s, qc: qc, log: log}
}

// AutoComplete returns Google autocomplete suggestions for the query.
func (r *Researcher) AutoComplete(ctx context.Context) ([]string, error) {
	resp, err := r.searcher.Search(ctx, url.Values{
		"engine": {serpapi.EngineAutoComplete},
		"q":      {r.qc.Query},
		"gl":     {r.qc.Country},
		"hl":     {r.qc.Language},
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		if s.Value != "" {
			out = append(out, s.Value)
		}
	}
	return out, nil
}

// RelatedSearches returns the "related searches" block of a Google search.
func (r *Researcher) RelatedSearches(ctx context.Context) ([]string, error) {
	resp, err := r.searcher.Search(ctx, r.googleParams())
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resp.RelatedSearches))
	for _, s := range resp.RelatedSearches {
		if s.Query != "" {
			out = append(out, s.Query)
		}
	}
	return out, nil
}

// RelatedQuestions returns the "people also ask" questions of a Google
// search, extended by following continuation tokens up to depth levels.
// depth is clamped to [0, types.MaxDepth].
func (r *Researcher) RelatedQuestions(ctx context.Context, depth int) ([]string, error) {
	resp, err := r.searcher.Search(ctx, r.googleParams())
	if err != nil {
		return nil, err
	}

	questions := appendQuestions(make([]string, 0, len(resp.RelatedQuestions)), resp.RelatedQuestions)

	w := &walker{searcher: r.searcher, log: r.log, results: questions}
	if err := w.walk(ctx, resp.RelatedQuestions, ClampDepth(depth)); err != nil {
		return nil, err
	}
	if w.requests > 0 {
		r.log.Debug().Int("requests", w.requests).Int("questions", len(w.results)).Msg("related questions paginated")
	}
	return w.results, nil
}

// Fetch returns the keywords for a single source.
func (r *Researcher) Fetch(ctx context.Context, src types.Source, depth int) ([]string, error) {
	switch src {
	case types.SourceAutoComplete:
		return r.AutoComplete(ctx)
	case types.SourceRelatedSearches:
		return r.RelatedSearches(ctx)
	case types.SourceRelatedQuestions:
		return r.RelatedQuestions(ctx, depth)
	default:
		return nil, fmt.Errorf("unsupported source %q", src)
	}
}

// Collect fetches every requested source in order and returns them in a
// bucket keyed by source. The first failing source aborts the run.
func (r *Researcher) Collect(ctx context.Context, sources []types.Source, depth int) (*types.Bucket, error) {
	bucket := types.NewBucket()
	for _, src := range sources {
		r.log.Info().Str("source", string(src)).Str("query", r.qc.Query).Msg("fetching")
		keywords, err := r.Fetch(ctx, src, depth)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", src, err)
		}
		r.log.Info().Str("source", string(src)).Int("keywords", len(keywords)).Msg("fetched")
		bucket.Set(src, keywords)
	}
	return bucket, nil
}

func (r *Researcher) googleParams() url.Values {
	return url.Values{
		"engine":        {serpapi.EngineGoogle},
		"q":             {r.qc.Query},
		"google_domain": {r.qc.Domain},
		"gl":            {r.qc.Country},
		"hl":            {r.qc.Language},
	}
}

func appendQuestions(dst []string, entries []serpapi.RelatedQuestion) []string {
	for _, q := range entries {
		if q.Question != "" {
			dst = append(dst, q.Question)
		}
	}
	return dst
}

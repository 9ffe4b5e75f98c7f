// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package serpapi is a minimal client for the SerpApi search endpoint. It
// decodes only the response fields keyword-research reads.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/keyword-research/internal/httputil"
	"github.com/pdiddy/keyword-research/pkg/types"
)

// searchBase is the SerpApi JSON search endpoint. Declared as a var so
// tests can substitute an httptest server.
var searchBase = "https://serpapi.com/search.json"

// Engine names understood by SerpApi.
const (
	EngineAutoComplete     = "google_autocomplete"
	EngineGoogle           = "google"
	EngineRelatedQuestions = "google_related_questions"
)

// Client issues one GET per Search call. Pacing and 429 retries are off
// unless Limiter and MaxRetries are set.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	UserAgent  string
	MaxRetries int
	Limiter    *rate.Limiter
	Log        zerolog.Logger
}

// NewClient builds a Client from cfg.
func NewClient(apiKey string, cfg types.HTTPConfig, log zerolog.Logger) *Client {
	c := &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		APIKey:     apiKey,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Log:        log,
	}
	if cfg.RequestsPerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Search sends params plus the api_key to SerpApi and decodes the response.
// A non-2xx status is an error. An "error" field in a 200 body is not: the
// response simply carries no results.
func (c *Client) Search(ctx context.Context, params url.Values) (*Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Log)
	if err != nil {
		return nil, fmt.Errorf("SerpApi request (%s): %w", params.Get("engine"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body Response
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error != "" {
			return nil, fmt.Errorf("SerpApi returned HTTP %d: %s", resp.StatusCode, body.Error)
		}
		return nil, fmt.Errorf("SerpApi returned HTTP %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing SerpApi response: %w", err)
	}

	ev := c.Log.Debug().
		Str("engine", params.Get("engine")).
		Str("search_id", out.Metadata.ID).
		Dur("elapsed", time.Since(start))
	if out.Error != "" {
		ev = ev.Str("api_error", out.Error)
	}
	ev.Msg("serpapi response")

	return &out, nil
}

package types

import "time"

// HTTPConfig holds HTTP settings for requests to SerpApi.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "keyword-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond paces outgoing requests. Zero or less disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// DedupeMode selects the cross-source deduplication rule.
type DedupeMode string

const (
	// DedupeExclusive keeps an entry only when no other source contains it.
	DedupeExclusive DedupeMode = "exclusive"

	// DedupeFirst keeps the first occurrence in priority order.
	DedupeFirst DedupeMode = "first"
)

// MaxDepth is the upper bound for the related-questions depth limit.
const MaxDepth = 4

// ResearchConfig holds everything one keyword-research run needs.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Query is the search text.
	Query string `json:"query" yaml:"query"`

	// Language is the search language code (default "en").
	Language string `json:"language" yaml:"language"`

	// Country is the search country code (default "us").
	Country string `json:"country" yaml:"country"`

	// Domain is the Google domain (default "google.com").
	Domain string `json:"domain" yaml:"domain"`

	// APIKey is the SerpApi credential. Never serialized.
	APIKey string `json:"-" yaml:"-"`

	// Sources lists the requested sources in request order.
	Sources []Source `json:"sources" yaml:"sources"`

	// DepthLimit bounds related-question pagination, clamped to [0, MaxDepth].
	DepthLimit int `json:"depth_limit" yaml:"depth_limit"`

	// Dedupe flattens the bucket into one cross-source deduplicated list.
	Dedupe bool `json:"dedupe" yaml:"dedupe"`

	// DedupeMode selects the deduplication rule (default exclusive).
	DedupeMode DedupeMode `json:"dedupe_mode" yaml:"dedupe_mode"`

	// OutputFormat is CSV, JSON, or TXT.
	OutputFormat string `json:"output_format" yaml:"output_format"`

	// OutputPath overrides the derived output file name when set.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// OutputDir is the directory for derived output file names (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// QueryContext returns the immutable query parameters for this run.
func (c ResearchConfig) QueryContext() QueryContext {
	return QueryContext{
		Query:    c.Query,
		Language: c.Language,
		Country:  c.Country,
		Domain:   c.Domain,
		APIKey:   c.APIKey,
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keyword-research/internal/archive"
	"github.com/pdiddy/keyword-research/internal/keywords"
	"github.com/pdiddy/keyword-research/internal/output"
	"github.com/pdiddy/keyword-research/internal/secrets"
	"github.com/pdiddy/keyword-research/internal/serpapi"
	"github.com/pdiddy/keyword-research/pkg/types"
)

const (
	defaultLanguage  = "en"
	defaultCountry   = "us"
	defaultDomain    = "google.com"
	defaultFormat    = "CSV"
	defaultUserAgent = "keyword-research/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Extract keywords for a query and save them to a file",
	Long: `Search queries SerpApi for the selected engines and saves the combined
results in the current directory (or --output-dir) as CSV, JSON, or TXT.

Engines: Autocomplete (ac), Related Searches (rs), People Also Ask (rq). All
engines are selected by default. --depth-limit follows People Also Ask
pagination up to 4 levels; 0 keeps the first 2-4 questions only.`,
	Example: `  keyword-research search -q "starbucks coffee"
  keyword-research search -q "starbucks coffee" -e rq --depth-limit 2 -s json
  keyword-research search -q "starbucks coffee" -e ac rs --dedupe -s txt`,
	Args: engineArgs,
	RunE: runSearch,
}

// engineArgs accepts trailing positional arguments as extra engine names, so
// "-e ac rs rq" selects all three. Anything else is rejected.
func engineArgs(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if _, err := types.ParseSource(arg); err != nil {
			return fmt.Errorf("unexpected argument %q: %w", arg, err)
		}
	}
	return nil
}

func init() {
	f := searchCmd.Flags()
	f.StringP("query", "q", "", "search query (required)")
	f.StringSliceP("engines", "e", []string{"ac", "rs", "rq"}, "engines to extract: ac, rs, rq")
	f.Int("depth-limit", 0, "People Also Ask pagination depth (0-4)")
	f.Bool("dedupe", false, "merge all sources into one deduplicated list")
	f.String("dedupe-mode", string(types.DedupeExclusive), "dedupe rule: exclusive (drop keywords found in more than one source) or first (keep first occurrence)")
	f.StringP("save-to", "s", defaultFormat, "output format: CSV, JSON, TXT")
	f.String("api-key", "", "SerpApi key (https://serpapi.com/manage-api-key)")
	f.String("domain", defaultDomain, "Google domain")
	f.String("country", defaultCountry, "country of the search (gl)")
	f.String("lang", defaultLanguage, "language of the search (hl)")
	f.StringP("output", "o", "", "output file path (default: derived from the query)")
	f.String("output-dir", ".", "directory for the derived output file")
	f.String("save-query", "", "also write a YAML snapshot of the query and results to this path")
	f.Bool("print", false, "print the results as JSON to stdout")
	f.Duration("timeout", 0, "HTTP request timeout (0 = none)")
	f.Int("retries", 0, "retries on HTTP 429 (0 = none)")
	f.Float64("rps", 0, "maximum SerpApi requests per second (0 = unlimited)")

	for key, flag := range map[string]string{
		"query":        "query",
		"engines":      "engines",
		"depth_limit":  "depth-limit",
		"dedupe":       "dedupe",
		"dedupe_mode":  "dedupe-mode",
		"save_to":      "save-to",
		"api_key":      "api-key",
		"domain":       "domain",
		"country":      "country",
		"lang":         "lang",
		"output":       "output",
		"output_dir":   "output-dir",
		"save_query":   "save-query",
		"print":        "print",
		"http.timeout": "timeout",
		"http.retries": "retries",
		"http.rps":     "rps",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}
	viper.SetDefault("http.user_agent", defaultUserAgent)

	rootCmd.AddCommand(searchCmd)
}

// searchOptions are the CLI-only switches that sit beside ResearchConfig.
type searchOptions struct {
	SaveQuery string
	Print     bool
	Archive   string
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := researchConfigFromViper(args)
	if err != nil {
		return err
	}
	opts := searchOptions{
		SaveQuery: viper.GetString("save_query"),
		Print:     viper.GetBool("print"),
		Archive:   viper.GetString("archive.dsn"),
	}

	if cfg.APIKey == "" {
		logger.Warn().Msg("no SerpApi key configured; requests will be rejected")
	}

	client := serpapi.NewClient(cfg.APIKey, cfg.HTTPConfig, logger)
	_, err = research(cmd.Context(), cfg, opts, client, os.Stdout, logger)
	return err
}

// researchConfigFromViper assembles the run configuration from flags,
// environment, and config file. extraEngines follow the --engines list.
func researchConfigFromViper(extraEngines []string) (types.ResearchConfig, error) {
	cfg := types.ResearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:           viper.GetDuration("http.timeout"),
			UserAgent:         viper.GetString("http.user_agent"),
			MaxRetries:        viper.GetInt("http.retries"),
			RequestsPerSecond: viper.GetFloat64("http.rps"),
		},
		Query:        viper.GetString("query"),
		Language:     orDefault(viper.GetString("lang"), defaultLanguage),
		Country:      orDefault(viper.GetString("country"), defaultCountry),
		Domain:       orDefault(viper.GetString("domain"), defaultDomain),
		APIKey:       secrets.APIKey(viper.GetString("api_key"), loadedSecrets),
		DepthLimit:   viper.GetInt("depth_limit"),
		Dedupe:       viper.GetBool("dedupe"),
		OutputFormat: orDefault(viper.GetString("save_to"), defaultFormat),
		OutputPath:   viper.GetString("output"),
		OutputDir:    orDefault(viper.GetString("output_dir"), "."),
	}

	if cfg.Query == "" {
		return cfg, fmt.Errorf("query is required: pass -q/--query or set query in the config file")
	}

	mode, err := keywords.ParseDedupeMode(viper.GetString("dedupe_mode"))
	if err != nil {
		return cfg, err
	}
	cfg.DedupeMode = mode
	engines := append(viper.GetStringSlice("engines"), extraEngines...)
	cfg.Sources = parseEngines(engines, logger)
	return cfg, nil
}

// parseEngines maps engine names to sources in the given order. Unknown
// names are logged and skipped; repeats are dropped.
func parseEngines(names []string, log zerolog.Logger) []types.Source {
	var out []types.Source
	seen := make(map[types.Source]bool)
	for _, name := range names {
		src, err := types.ParseSource(name)
		if err != nil {
			log.Warn().Err(err).Msg("skipping engine")
			continue
		}
		if seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

// research collects keywords for cfg and writes every requested output. It
// returns the path of the saved keyword file, or "" when nothing was saved.
func research(ctx context.Context, cfg types.ResearchConfig, opts searchOptions, s keywords.Searcher, w io.Writer, log zerolog.Logger) (string, error) {
	if len(cfg.Sources) == 0 {
		log.Warn().Msg("no engines selected; nothing to do")
		return "", nil
	}

	start := time.Now()
	r := keywords.NewResearcher(s, cfg.QueryContext(), log)
	bucket, err := r.Collect(ctx, cfg.Sources, cfg.DepthLimit)
	if err != nil {
		return "", err
	}
	log.Info().Int("keywords", bucket.Total()).Dur("elapsed", time.Since(start)).Msg("collection finished")

	result := output.Result{Bucket: bucket}
	if cfg.Dedupe {
		result.Keywords = keywords.DedupeWith(bucket, cfg.DedupeMode)
		result.Deduplicated = true
		log.Info().Int("before", bucket.Total()).Int("after", len(result.Keywords)).Str("mode", string(cfg.DedupeMode)).Msg("deduplicated")
	}

	if opts.Print {
		if err := output.WriteJSON(w, result); err != nil {
			return "", err
		}
	}

	path, err := saveResult(cfg, result, w, log)
	if err != nil {
		return "", err
	}

	if opts.SaveQuery != "" {
		if err := output.WriteQueryFile(opts.SaveQuery, cfg, result); err != nil {
			return "", err
		}
		log.Info().Str("path", opts.SaveQuery).Msg("query snapshot saved")
	}

	if opts.Archive != "" {
		if err := archiveRun(ctx, opts.Archive, archive.NewRun(cfg, bucket, result.Keywords, path), log); err != nil {
			return "", err
		}
	}

	return path, nil
}

// saveResult writes result in cfg.OutputFormat. An unrecognized format
// writes nothing and is not an error.
func saveResult(cfg types.ResearchConfig, result output.Result, w io.Writer, log zerolog.Logger) (string, error) {
	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		log.Debug().Err(err).Msg("no output file written")
		return "", nil
	}

	path := cfg.OutputPath
	if path == "" {
		path = filepath.Join(cfg.OutputDir, output.FileName(cfg.Query, format))
	}

	fmt.Fprintf(w, "Saving data in %s format...\n", format.Label())
	if err := output.Save(path, format, result); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "Data successfully saved to %s file\n", path)
	return path, nil
}

func archiveRun(ctx context.Context, dsn string, run *archive.Run, log zerolog.Logger) error {
	backend, err := archive.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Save(ctx, run); err != nil {
		return err
	}
	log.Info().Str("id", run.ID).Msg("run archived")
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

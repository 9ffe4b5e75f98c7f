// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-research/internal/archive"
	"github.com/pdiddy/keyword-research/internal/output"
	"github.com/pdiddy/keyword-research/internal/serpapi"
	"github.com/pdiddy/keyword-research/pkg/types"
)

// stubSearcher serves canned responses keyed by engine.
type stubSearcher struct {
	calls int
}

func (s *stubSearcher) Search(_ context.Context, params url.Values) (*serpapi.Response, error) {
	s.calls++
	switch params.Get("engine") {
	case serpapi.EngineAutoComplete:
		return &serpapi.Response{Suggestions: []serpapi.Suggestion{{Value: "a"}, {Value: "b"}}}, nil
	case serpapi.EngineGoogle:
		return &serpapi.Response{
			RelatedSearches:  []serpapi.RelatedSearch{{Query: "b"}, {Query: "c"}},
			RelatedQuestions: []serpapi.RelatedQuestion{{Question: "d"}},
		}, nil
	}
	return &serpapi.Response{}, nil
}

func testConfig(t *testing.T, format string) types.ResearchConfig {
	t.Helper()
	return types.ResearchConfig{
		Query:        "Starbucks Coffee",
		Language:     "en",
		Country:      "us",
		Domain:       "google.com",
		Sources:      []types.Source{types.SourceAutoComplete, types.SourceRelatedSearches, types.SourceRelatedQuestions},
		OutputFormat: format,
		OutputDir:    t.TempDir(),
		DedupeMode:   types.DedupeExclusive,
	}
}

func TestResearchWritesCSV(t *testing.T) {
	cfg := testConfig(t, "csv")
	var out bytes.Buffer

	path, err := research(context.Background(), cfg, searchOptions{}, &stubSearcher{}, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "starbucks-coffee.csv"), path)
	assert.Contains(t, out.String(), "Saving data in CSV format...")
	assert.Contains(t, out.String(), "Data successfully saved to "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	b, err := output.ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.Get(types.SourceAutoComplete))
	assert.Equal(t, []string{"b", "c"}, b.Get(types.SourceRelatedSearches))
	assert.Equal(t, []string{"d"}, b.Get(types.SourceRelatedQuestions))
}

func TestResearchDedupeJSON(t *testing.T) {
	cfg := testConfig(t, "JSON")
	cfg.Dedupe = true

	path, err := research(context.Background(), cfg, searchOptions{}, &stubSearcher{}, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"a", "c", "d"}, got)
}

func TestResearchUnknownFormatWritesNothing(t *testing.T) {
	cfg := testConfig(t, "xml")
	var out bytes.Buffer

	path, err := research(context.Background(), cfg, searchOptions{}, &stubSearcher{}, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResearchNoSources(t *testing.T) {
	cfg := testConfig(t, "csv")
	cfg.Sources = nil
	s := &stubSearcher{}

	path, err := research(context.Background(), cfg, searchOptions{}, s, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Zero(t, s.calls)
}

func TestResearchPrintSnapshotAndArchive(t *testing.T) {
	cfg := testConfig(t, "txt")
	dir := t.TempDir()
	opts := searchOptions{
		Print:     true,
		SaveQuery: filepath.Join(dir, "run.yaml"),
		Archive:   filepath.Join(dir, "runs.db"),
	}
	var out bytes.Buffer

	path, err := research(context.Background(), cfg, opts, &stubSearcher{}, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\"auto_complete\": [")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nb\nc\nd\n", string(data))

	qf, err := output.ReadQueryFile(opts.SaveQuery)
	require.NoError(t, err)
	assert.Equal(t, "Starbucks Coffee", qf.Query.Text)
	assert.Equal(t, 5, qf.Summary.Total)

	b, err := archive.Open(context.Background(), opts.Archive)
	require.NoError(t, err)
	defer b.Close()
	runs, err := b.List(context.Background(), archive.Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, path, runs[0].OutputPath)
	assert.Equal(t, []string{"d"}, runs[0].Bucket.Get(types.SourceRelatedQuestions))
}

func TestRenderFromSnapshot(t *testing.T) {
	cfg := testConfig(t, "csv")
	snapshot := filepath.Join(t.TempDir(), "run.yaml")
	_, err := research(context.Background(), cfg, searchOptions{SaveQuery: snapshot}, &stubSearcher{}, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)

	outDir := t.TempDir()
	path, err := render(snapshot, "json", "", outDir, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "starbucks-coffee.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"related_questions\": [\n    \"d\"\n  ]")
}

func TestParseEngines(t *testing.T) {
	got := parseEngines([]string{"RQ", "bogus", "ac", "rq", "related_searches"}, zerolog.Nop())
	assert.Equal(t, []types.Source{types.SourceRelatedQuestions, types.SourceAutoComplete, types.SourceRelatedSearches}, got)
}

func TestSpaceSeparatedEngines(t *testing.T) {
	cmd := &cobra.Command{Use: "search", Args: engineArgs}
	cmd.Flags().StringP("query", "q", "", "")
	cmd.Flags().StringSliceP("engines", "e", nil, "")
	require.NoError(t, cmd.ParseFlags([]string{"-q", "x", "-e", "ac", "rs", "RQ"}))

	args := cmd.Flags().Args()
	assert.Equal(t, []string{"rs", "RQ"}, args)
	require.NoError(t, cmd.ValidateArgs(args))
	assert.Error(t, cmd.ValidateArgs([]string{"rs", "coffee"}))

	t.Cleanup(viper.Reset)
	viper.Set("query", "x")
	viper.Set("engines", []string{"ac"})
	cfg, err := researchConfigFromViper(args)
	require.NoError(t, err)
	assert.Equal(t, []types.Source{types.SourceAutoComplete, types.SourceRelatedSearches, types.SourceRelatedQuestions}, cfg.Sources)
}

func TestFormatRunsTruncatesOnRunes(t *testing.T) {
	b := types.NewBucket()
	b.Set(types.SourceAutoComplete, []string{"a"})
	run := &archive.Run{
		ID:        "run-1",
		Query:     strings.Repeat("é", 40),
		Sources:   []types.Source{types.SourceAutoComplete},
		Bucket:    b,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, formatRuns([]*archive.Run{run}, false, &buf))
	assert.True(t, utf8.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), string([]rune(run.Query)[:27])+"...")
}

func TestFormatRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatRuns(nil, false, &buf))
	assert.Equal(t, "No runs found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatRuns(nil, true, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-research/pkg/types"
)

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := types.ResearchConfig{
		Query:      "starbucks coffee",
		Language:   "en",
		Country:    "us",
		Domain:     "google.com",
		APIKey:     "do-not-store",
		DepthLimit: 2,
	}
	b := sampleBucket()

	require.NoError(t, WriteQueryFile(path, cfg, Result{Bucket: b}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "do-not-store")

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, "starbucks coffee", qf.Query.Text)
	assert.Equal(t, "google.com", qf.Query.Domain)
	assert.Equal(t, 2, qf.Options.DepthLimit)
	assert.Equal(t, b.Total(), qf.Summary.Total)
	assert.False(t, qf.Summary.Timestamp.IsZero())

	got := qf.Result()
	assert.False(t, got.Deduplicated)
	assert.Equal(t, b.Keys(), got.Bucket.Keys())
	for _, k := range b.Keys() {
		assert.Equal(t, b.Get(k), got.Bucket.Get(k))
	}
}

func TestQueryFileDeduplicated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := types.ResearchConfig{Query: "q", DedupeMode: types.DedupeExclusive}

	require.NoError(t, WriteQueryFile(path, cfg, Result{Bucket: sampleBucket(), Keywords: []string{"a", "d"}, Deduplicated: true}))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.True(t, qf.Options.Dedupe)
	assert.Equal(t, types.DedupeExclusive, qf.Options.DedupeMode)
	assert.Equal(t, 2, qf.Summary.Total)
	assert.Equal(t, []string{"a", "d"}, qf.Result().Keywords)
}

func TestReadQueryFileErrors(t *testing.T) {
	_, err := ReadQueryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading query file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("query: [unterminated"), 0o644))
	_, err = ReadQueryFile(bad)
	assert.ErrorContains(t, err, "parsing query file")
}

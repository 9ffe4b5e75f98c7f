// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-research/pkg/types"
)

func sampleBucket() *types.Bucket {
	b := types.NewBucket()
	b.Set(types.SourceAutoComplete, []string{"starbucks coffee menu", "starbucks coffee near me", "starbucks coffee beans"})
	b.Set(types.SourceRelatedSearches, []string{"café au lait"})
	b.Set(types.SourceRelatedQuestions, []string{"Is Starbucks coffee good?", "Why is Starbucks so expensive?"})
	return b
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{" Txt ", FormatTXT, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "JSON", FormatJSON.Label())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "starbucks-coffee.csv", FileName("Starbucks Coffee", FormatCSV))
	assert.Equal(t, "data.json", FileName("   ", FormatJSON))
	assert.Equal(t, "data.txt", FileName("?!", FormatTXT))
}

func TestWriteCSVPadsShortColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Result{Bucket: sampleBucket()}))

	want := strings.Join([]string{
		"auto_complete,related_searches,related_questions",
		"starbucks coffee menu,café au lait,Is Starbucks coffee good?",
		"starbucks coffee near me,,Why is Starbucks so expensive?",
		"starbucks coffee beans,,",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	b := sampleBucket()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Result{Bucket: b}))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.Keys(), back.Keys())
	for _, k := range b.Keys() {
		assert.Equal(t, b.Get(k), back.Get(k), "column %s", k)
	}
}

func TestCSVRoundTripEmptyColumn(t *testing.T) {
	b := types.NewBucket()
	b.Set(types.SourceAutoComplete, []string{})
	b.Set(types.SourceRelatedSearches, []string{"x, with comma", "y \"quoted\""})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Result{Bucket: b}))
	back, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Empty(t, back.Get(types.SourceAutoComplete))
	assert.True(t, back.Has(types.SourceAutoComplete))
	assert.Equal(t, []string{"x, with comma", "y \"quoted\""}, back.Get(types.SourceRelatedSearches))
}

func TestReadCSVEmptyInput(t *testing.T) {
	b, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestWriteCSVDeduplicated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Result{Keywords: []string{"a", "c"}, Deduplicated: true}))
	assert.Equal(t, "keywords\na\nc\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	b := types.NewBucket()
	b.Set(types.SourceRelatedSearches, []string{"café <latte>"})
	b.Set(types.SourceAutoComplete, []string{})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Result{Bucket: b}))

	want := "{\n" +
		"  \"related_searches\": [\n" +
		"    \"café <latte>\"\n" +
		"  ],\n" +
		"  \"auto_complete\": []\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSONDeduplicated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Result{Deduplicated: true}))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, Result{Keywords: []string{"ü"}, Deduplicated: true}))
	assert.Equal(t, "[\n  \"ü\"\n]\n", buf.String())
}

func TestWriteTXT(t *testing.T) {
	b := types.NewBucket()
	b.Set(types.SourceAutoComplete, []string{"a", "b"})
	b.Set(types.SourceRelatedSearches, []string{})
	b.Set(types.SourceRelatedQuestions, []string{"c"})

	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, Result{Bucket: b}))
	assert.Equal(t, "a\nb\n\nc\n", buf.String())
}

func TestWriteTXTDeduplicated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, Result{Keywords: []string{"a", "d"}, Deduplicated: true}))
	assert.Equal(t, "a\nd\n", buf.String())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("xml"), Result{Bucket: sampleBucket()}))
	assert.Zero(t, buf.Len())
}

func TestSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "starbucks-coffee.json")
	require.NoError(t, Save(path, FormatJSON, Result{Bucket: sampleBucket()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"auto_complete\": [")
}

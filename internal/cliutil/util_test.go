package cliutil

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{
		"":       FormatPretty,
		"pretty": FormatPretty,
		"IDS":    FormatIDs,
		"json":   FormatJSON,
		"yaml":   FormatYAML,
	} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOutputFormat("paths")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	v := struct {
		IDs []int `json:"ids" yaml:"ids"`
	}{IDs: []int{3, 1}}

	var b bytes.Buffer
	require.NoError(t, PrintJSON(&b, v))
	assert.Equal(t, "{\n  \"ids\": [\n    3,\n    1\n  ]\n}\n", b.String())

	b.Reset()
	require.NoError(t, PrintYAML(&b, v))
	assert.Equal(t, "ids:\n  - 3\n  - 1\n", b.String())
}

func TestResolveSQLitePath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "papersearch.db"), ResolveSQLitePath(dir))
	file := filepath.Join(dir, "conf.db")
	assert.Equal(t, file, ResolveSQLitePath(file))
}

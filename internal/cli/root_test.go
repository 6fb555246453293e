package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/papersearch/papersearch/internal/cli/commands"
)

type harness struct {
	t    *testing.T
	base []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, base: []string{
		"--sqlite-path", filepath.Join(t.TempDir(), "cli.db"),
		"--fixture", filepath.Join("..", "fixture", "testdata", "conference.yaml"),
	}}
	out, _, code := h.run("load")
	require.Equal(t, 0, code)
	require.Equal(t, "Loaded 4 papers\n", out)
	return h
}

func (h *harness) run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), append(append([]string{}, h.base...), args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestSearchIDs(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("search", "--as", "chair@example.org", "-o", "ids", "ti:caches")
	require.Equal(t, 0, code)
	assert.Equal(t, "1\n", out)

	out, _, code = h.run("search", "--as", "4", "-o", "ids")
	require.Equal(t, 0, code)
	assert.Equal(t, "1\n", out)

	out, _, code = h.run("search", "--as", "chair@example.org", "-o", "ids", "4-1")
	require.Equal(t, 0, code)
	assert.Equal(t, "4\n2\n1\n", out)
}

func TestSearchJSON(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("search", "--as", "chair@example.org", "-o", "json", "in:all", "ti:caches")
	require.Equal(t, 0, code)
	var res commands.SearchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{1, 3}, res.IDs)
	assert.Equal(t, "all", res.Limit)
	assert.Equal(t, "in:all ti:caches", res.Query)

	out, _, code = h.run("search", "--as", "chair@example.org", "-o", "json", "1-4", "HIGHLIGHT:green", "ti:storage")
	require.Equal(t, 0, code)
	res = commands.SearchOutput{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{1, 2, 4}, res.IDs)
	assert.Equal(t, map[int][]string{2: {"green"}, 4: {"green"}}, res.Highlights)
}

func TestSearchPretty(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("search", "--as", "chair@example.org", "ti:caches", "THEN", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Found 2 papers")
	assert.Contains(t, out, "group 1:\n- #1 Scalable Caches\n")
	assert.Contains(t, out, "group 2:\n- #2 Flash Storage\n")

	out, _, code = h.run("search", "--as", "chair@example.org", "1", "frob:x")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `warning: 2-8: unknown search keyword "frob"`)
}

func TestSearchErrors(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run("search", "--as", "chair@example.org", "(1")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "query_parse")

	_, stderr, code = h.run("search", "--as", "nobody@example.org", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not_found")

	_, _, code = h.run("search", "-o", "paths", "1")
	assert.Equal(t, 2, code)

	_, _, code = h.run("--backend", "redis", "search", "1")
	assert.Equal(t, 2, code)
}

func TestExplain(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("explain", "--as", "chair@example.org", "-o", "json", "1-3")
	require.Equal(t, 0, code)
	var ex commands.Explanation
	require.NoError(t, json.Unmarshal([]byte(out), &ex))
	assert.Equal(t, "s", ex.Limit)
	assert.True(t, ex.Precise)
	assert.Nil(t, ex.QuickFilter)
	assert.Contains(t, ex.SQL, "select distinct Paper.paperId from Paper")

	out, _, code = h.run("explain", "--as", "chair@example.org", "-o", "json")
	require.Equal(t, 0, code)
	ex = commands.Explanation{}
	require.NoError(t, json.Unmarshal([]byte(out), &ex))
	require.NotNil(t, ex.QuickFilter)
	assert.True(t, ex.QuickFilter.Finalized)
}

func TestShow(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("show", "#2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "title: Flash Storage")
	assert.Contains(t, out, "token: 77")

	_, _, code = h.run("show", "99")
	assert.Equal(t, 1, code)

	_, _, code = h.run("show", "x")
	assert.Equal(t, 2, code)
}

func TestOpenMissingStore(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"--sqlite-path", filepath.Join(t.TempDir(), "missing.db"),
		"--fixture", filepath.Join("..", "fixture", "testdata", "conference.yaml"),
		"search", "1",
	}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "open store")
}

package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/adapters/filesystem"
	"icane/internal/adapters/sqlite"
	"icane/internal/domain"
)

func metadataJSON(uriTag, nodeType, children string) string {
	return `{
  "id": 1, "title": "Title ` + uriTag + `", "active": true,
  "uri": "u", "metadataUri": "m", "resourceUri": "r",
  "documentation": "", "methodology": "", "mapScope": null,
  "referenceResources": "", "description": "", "theme": "", "language": "es",
  "publisher": "ICANE", "license": "", "topics": "", "automatizedTopics": "",
  "uriTag": "` + uriTag + `", "uriTagEs": "` + uriTag + `",
  "initialPeriodDescription": "", "finalPeriodDescription": "",
  "dataUpdate": null, "dateCreated": 1262304000000, "lastUpdated": 1388534400000,
  "subsection": {"title": "Population", "section": {"title": "Society"}},
  "category": {"title": "Historical"},
  "nodeType": {"title": "Node", "uriTag": "` + nodeType + `"},
  "sources": [], "measures": [], "apiUris": [],
  "children": [` + children + `]
}`
}

type fixture struct {
	mirror *filesystem.Mirror
	store  *sqlite.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"section/society.json": metadataJSON("society", "section",
			metadataJSON("census", "time-series", "")+","+metadataJSON("labour", "subsection", "")),
		"time-series/census/data.json": `{"headers": ["Year"], "data": {"2001": 10, "1991": 8, "1981": 7}}`,
		"sections.json":                `[{"uriTag": "society", "title": "Society"}, {"uriTag": "economy", "title": "Economy"}]`,
		"data/last-updated.json":       `1388534400000`,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	store := sqlite.NewStore()
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "icane.db")))
	t.Cleanup(func() { store.Close() })

	return &fixture{mirror: filesystem.NewMirror(root, nil), store: store}
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestReadTools(t *testing.T) {
	f := newFixture(t)

	t.Run("get", func(t *testing.T) {
		out, isErr := call(t, getHandler(f.mirror), map[string]any{"entity": "section", "uri_tag": "society"})
		require.False(t, isErr, out)
		assert.Contains(t, out, `"uriTag": "society"`)
	})

	t.Run("get missing", func(t *testing.T) {
		out, isErr := call(t, getHandler(f.mirror), map[string]any{"entity": "section", "uri_tag": "health"})
		assert.True(t, isErr)
		assert.Contains(t, out, "section/health")
	})

	t.Run("list", func(t *testing.T) {
		out, isErr := call(t, listHandler(f.mirror), map[string]any{"entity": "sections"})
		require.False(t, isErr, out)
		assert.Equal(t, "society  Society\neconomy  Economy\n", out)
	})

	t.Run("last updated", func(t *testing.T) {
		out, isErr := call(t, lastUpdatedHandler(f.mirror), map[string]any{"entity": "data"})
		require.False(t, isErr, out)
		assert.Equal(t, "data  01/01/2014  1388534400000", out)
	})

	t.Run("tree", func(t *testing.T) {
		out, isErr := call(t, treeHandler(f.mirror, nil), map[string]any{"path": "section/society"})
		require.False(t, isErr, out)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "society  Title society  [section]", lines[0])
		assert.Equal(t, "  census  Title census  [time-series]", lines[1])
	})

	t.Run("flatten data with limit", func(t *testing.T) {
		out, isErr := call(t, flattenDataHandler(f.mirror), map[string]any{"path": "time-series/census/data", "limit": 2})
		require.False(t, isErr, out)
		assert.Equal(t, "Year,Value\n1981,7\n1991,8\n# truncated after 2 rows\n", out)
	})

	t.Run("flatten metadata", func(t *testing.T) {
		out, isErr := call(t, flattenMetadataHandler(f.mirror, nil), map[string]any{"path": "section/society"})
		require.False(t, isErr, out)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], strings.Join(domain.DigestColumns[:3], ",")))
	})

	t.Run("columns", func(t *testing.T) {
		out, _ := call(t, columnsHandler(), nil)
		assert.Len(t, strings.Split(out, "\n"), domain.DigestWidth)
	})

	t.Run("search over the mirror", func(t *testing.T) {
		out, isErr := call(t, searchHandler(f.mirror), map[string]any{"query": "census"})
		require.False(t, isErr, out)
		assert.Contains(t, out, "census  Title census")
	})
}

func TestWriteTools(t *testing.T) {
	f := newFixture(t)

	out, isErr := call(t, exportHandler(f.mirror, f.store, nil), map[string]any{"kind": "data", "path": "time-series/census/data"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "Stored 3 data rows")

	out, isErr = call(t, exportHandler(f.mirror, f.store, nil), map[string]any{"kind": "rows", "path": "x"})
	assert.True(t, isErr, out)

	runs, err := f.store.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	out, isErr = call(t, runsHandler(f.store), nil)
	require.False(t, isErr, out)
	assert.Contains(t, out, runs[0].ID)

	out, isErr = call(t, syncHandler(f.store, f.mirror, nil), nil)
	require.False(t, isErr, out)
	assert.Contains(t, out, "3 nodes")

	out, isErr = call(t, searchHandler(f.store), map[string]any{"query": "labour"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "labour")

	out, isErr = call(t, deleteRunHandler(f.store), map[string]any{"id": runs[0].ID})
	require.False(t, isErr, out)
	out, isErr = call(t, deleteRunHandler(f.store), map[string]any{"id": runs[0].ID})
	assert.True(t, isErr, out)
}

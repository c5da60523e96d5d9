package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/adapters/filesystem"
	"icane/internal/domain"
	"icane/internal/errors"
)

func metadataJSON(uriTag, title, nodeType, children string) string {
	return `{
  "id": 1, "title": "` + title + `", "active": true,
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

func writeMirrorFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newMirror(t *testing.T) (*filesystem.Mirror, string) {
	t.Helper()
	root := t.TempDir()
	writeMirrorFile(t, root, "section/society.json",
		metadataJSON("society", "Society", "section",
			metadataJSON("population-census", "Population census", "time-series", "")+","+
				metadataJSON("labour", "Labour market", "subsection", "")))
	writeMirrorFile(t, root, "data/census.json", `{"data": {"2001": "10"}}`)
	return filesystem.NewMirror(root, nil), root
}

func TestSyncFullAndSearch(t *testing.T) {
	s := openStore(t)
	m, root := newMirror(t)
	ctx := context.Background()
	f := domain.NewMetadataFlattener(nil)

	assert.True(t, s.NeedsFullRebuild(root))

	stats, err := s.SyncFull(ctx, m, f)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 3, stats.NodesAdded)
	assert.False(t, s.NeedsFullRebuild(root))

	results, err := s.Search(ctx, "CENSUS")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.SearchResult{
		Type:        "time-series",
		ID:          "population-census",
		Name:        "Population census",
		Path:        "section/society",
		MatchedText: "Population census",
	}, results[0])

	results, err = s.Search(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, results, "LIKE wildcards are escaped")

	digest, err := s.Digest(ctx, "labour")
	require.NoError(t, err)
	require.Len(t, digest, domain.DigestWidth)
	assert.Equal(t, "Labour market", digest[1])
	assert.Equal(t, "01/01/1970", digest[21])

	_, err = s.Digest(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSyncIncremental(t *testing.T) {
	s := openStore(t)
	m, root := newMirror(t)
	ctx := context.Background()
	f := domain.NewMetadataFlattener(nil)

	_, err := s.SyncFull(ctx, m, f)
	require.NoError(t, err)

	stats, err := s.SyncIncremental(ctx, m, f)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed+stats.FilesSkipped, "unchanged files are not re-read")

	path := writeMirrorFile(t, root, "section/economy.json",
		metadataJSON("economy", "Economy", "section", ""))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, os.Remove(filepath.Join(root, "data", "census.json")))

	stats, err = s.SyncIncremental(ctx, m, f)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesDeleted)

	results, err := s.Search(ctx, "economy")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "section/economy", results[0].Path)
}

func TestSyncMissingMirror(t *testing.T) {
	s := openStore(t)
	m := filesystem.NewMirror(filepath.Join(t.TempDir(), "none"), nil)

	_, err := s.SyncFull(context.Background(), m, domain.NewMetadataFlattener(nil))
	assert.True(t, errors.IsNotFoundError(err))
}

package views

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/adapters/filesystem"
	"icane/internal/domain"
)

const societyPayload = `{
  "uriTag": "society",
  "title": "Society",
  "nodeType": {"uriTag": "section"},
  "children": [
    {"uriTag": "population-census", "title": "Population census",
     "uri": "https://www.icane.es/data/population-census",
     "nodeType": {"uriTag": "time-series"}},
    {"uriTag": "labour", "title": "Labour market",
     "nodeType": {"uriTag": "subsection"}, "children": [
       {"uriTag": "unemployment", "title": "Unemployment",
        "nodeType": {"uriTag": "time-series"}, "active": false}
     ]}
  ]
}`

func newTestMirror(t *testing.T, files map[string]string) *filesystem.Mirror {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return filesystem.NewMirror(root, nil)
}

func loadedBrowser(t *testing.T, m *filesystem.Mirror) *BrowserModel {
	t.Helper()
	b := NewBrowserModel(m, nil)
	b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	b.Update(b.loadTree())
	require.NotNil(t, b.tree)
	return b
}

func TestLoadMirrorTree(t *testing.T) {
	m := newTestMirror(t, map[string]string{
		"section/society.json":        societyPayload,
		"population-census/data.json": `{"2001": {"Total": 100}}`,
	})

	tree, skipped, err := LoadMirrorTree(m, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	require.Len(t, tree.Root.Children, 1)
	file := tree.Root.Children[0]
	assert.Equal(t, FileNodeType, file.Type)
	assert.Equal(t, "section/society", file.ID)

	require.Len(t, file.Children, 1)
	society := file.Children[0]
	assert.Equal(t, "society", society.ID)
	assert.Same(t, file, society.Parent)
}

func TestMirrorTreeFileOf(t *testing.T) {
	m := newTestMirror(t, map[string]string{"section/society.json": societyPayload})

	tree, _, err := LoadMirrorTree(m, nil)
	require.NoError(t, err)

	node := tree.Root.Find("unemployment")
	require.NotNil(t, node)

	file, ok := tree.FileOf(node)
	require.True(t, ok)
	assert.Equal(t, m.FilePath("section/society"), file)

	_, ok = tree.FileOf(&domain.TreeNode{ID: "orphan"})
	assert.False(t, ok)
}

func TestMirrorTreeReveal(t *testing.T) {
	m := newTestMirror(t, map[string]string{"section/society.json": societyPayload})

	tree, _, err := LoadMirrorTree(m, nil)
	require.NoError(t, err)

	node := tree.Root.Find("unemployment")
	require.NotNil(t, node)
	tree.Reveal(node)
	for cur := node.Parent; cur != nil; cur = cur.Parent {
		assert.True(t, cur.IsExpanded, cur.ID)
	}
}

func TestBrowserSelectByID(t *testing.T) {
	b := loadedBrowser(t, newTestMirror(t, map[string]string{"section/society.json": societyPayload}))

	require.True(t, b.SelectByID("unemployment"))
	selected := b.SelectedNode()
	require.NotNil(t, selected)
	assert.Equal(t, "unemployment", selected.ID)

	assert.False(t, b.SelectByID("missing"))
	assert.True(t, b.MessageErr)
	assert.Equal(t, "unemployment", b.SelectedNode().ID)
}

func TestBrowserSelectByIDBeforeLoad(t *testing.T) {
	b := NewBrowserModel(newTestMirror(t, map[string]string{"section/society.json": societyPayload}), nil)

	assert.False(t, b.SelectByID("labour"))
	b.Update(b.loadTree())

	require.NotNil(t, b.SelectedNode())
	assert.Equal(t, "labour", b.SelectedNode().ID)
}

func TestBrowserReloadKeepsSelection(t *testing.T) {
	b := loadedBrowser(t, newTestMirror(t, map[string]string{"section/society.json": societyPayload}))
	require.True(t, b.SelectByID("population-census"))

	cmd := b.Reload()
	require.NotNil(t, cmd)
	assert.Nil(t, b.SelectedNode())

	b.Update(cmd())
	require.NotNil(t, b.SelectedNode())
	assert.Equal(t, "population-census", b.SelectedNode().ID)
}

func TestBrowserKeys(t *testing.T) {
	m := newTestMirror(t, map[string]string{"section/society.json": societyPayload})
	b := loadedBrowser(t, m)
	require.True(t, b.SelectByID("population-census"))

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenEditorMsg{Path: m.FilePath("section/society")}, cmd())

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenURLMsg{URI: "https://www.icane.es/data/population-census"}, cmd())

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	detail, ok := cmd().(SwitchToDetailMsg)
	require.True(t, ok)
	assert.Equal(t, "population-census", detail.Node.ID)

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchToSearchMsg{}, cmd())
}

func TestBrowserViewMarksInactive(t *testing.T) {
	b := loadedBrowser(t, newTestMirror(t, map[string]string{"section/society.json": societyPayload}))
	require.True(t, b.SelectByID("unemployment"))

	view := b.View()
	assert.Contains(t, view, "Unemployment")
	assert.Contains(t, view, "Population census")

	node := b.SelectedNode()
	assert.False(t, isActive(node))
	assert.True(t, isActive(node.Parent))
}

package tui

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/adapters/filesystem"
	"icane/internal/adapters/tui/views"
	"icane/internal/application/commands"
	"icane/internal/domain"
	"icane/internal/errors"
)

type fakeURLOpener struct {
	opened []string
	err    error
}

func (f *fakeURLOpener) OpenURL(uri string) error {
	f.opened = append(f.opened, uri)
	return f.err
}

type fakeEditor struct {
	err error
}

func (f *fakeEditor) OpenFile(string) error { return f.err }

func (f *fakeEditor) Command(path string) (*exec.Cmd, error) {
	if f.err != nil {
		return nil, f.err
	}
	return exec.Command("true", path), nil
}

func newTestApp(t *testing.T, urls *fakeURLOpener, ed *fakeEditor) *App {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "section", "society.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "uriTag": "society", "title": "Society", "nodeType": {"uriTag": "section"},
  "children": [{"uriTag": "census", "title": "Census", "nodeType": {"uriTag": "time-series"}}]
}`), 0o644))

	mirror := filesystem.NewMirror(root, nil)
	a := NewApp(mirror, nil, nil, ed, urls)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a.Update(a.Init()())
	return a
}

func TestAppSwitchesViews(t *testing.T) {
	a := newTestApp(t, nil, nil)
	assert.Equal(t, ViewBrowser, a.State())

	a.Update(views.SwitchToHelpMsg{})
	assert.Equal(t, ViewHelp, a.State())

	a.Update(views.SwitchToSearchMsg{})
	assert.Equal(t, ViewSearch, a.State())

	a.Update(views.SearchSelectMsg{Result: commands.SearchResult{
		SearchResult: domain.SearchResult{ID: "census"},
	}})
	assert.Equal(t, ViewBrowser, a.State())
	require.NotNil(t, a.browser.SelectedNode())
	assert.Equal(t, "census", a.browser.SelectedNode().ID)

	a.Update(views.SwitchToDetailMsg{Node: a.browser.SelectedNode()})
	assert.Equal(t, ViewDetail, a.State())
	assert.Equal(t, "census", a.detail.Node().ID)

	a.Update(views.SwitchToBrowserMsg{})
	assert.Equal(t, ViewBrowser, a.State())
}

func TestAppOpenURL(t *testing.T) {
	urls := &fakeURLOpener{}
	a := newTestApp(t, urls, nil)

	_, cmd := a.Update(views.OpenURLMsg{URI: "https://www.icane.es"})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, []string{"https://www.icane.es"}, urls.opened)

	urls.err = errors.New("no browser")
	_, cmd = a.Update(views.OpenURLMsg{URI: "https://www.icane.es"})
	msg := cmd()
	require.NotNil(t, msg)
	a.Update(msg)
	assert.Contains(t, a.View(), "no browser")
}

func TestAppEditorFailure(t *testing.T) {
	a := newTestApp(t, nil, &fakeEditor{err: errors.New("no editor found")})

	_, cmd := a.Update(views.OpenEditorMsg{Path: "society.json"})
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Contains(t, a.View(), "no editor found")
}

func TestAppWithoutOpeners(t *testing.T) {
	a := newTestApp(t, nil, nil)
	a.urls = nil
	a.editor = nil

	_, cmd := a.Update(views.OpenURLMsg{URI: "https://www.icane.es"})
	assert.Nil(t, cmd)
	_, cmd = a.Update(views.OpenEditorMsg{Path: "society.json"})
	assert.Nil(t, cmd)
}

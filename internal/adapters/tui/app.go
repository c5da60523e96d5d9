package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"icane/internal/adapters/tui/views"
	"icane/internal/domain"
	"icane/internal/logger"
	"icane/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewDetail
	ViewSearch
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor ports.EditorOpener
	urls   ports.URLOpener

	state   ViewState
	browser *views.BrowserModel
	detail  *views.DetailModel
	search  *views.SearchModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. searcher may be the mirror itself
// or a database index; ed and urls may be nil.
func NewApp(mirror ports.Mirror, searcher ports.Searcher, leaves domain.LeafSet, ed ports.EditorOpener, urls ports.URLOpener) *App {
	if searcher == nil {
		searcher = mirror
	}
	return &App{
		editor:  ed,
		urls:    urls,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(mirror, leaves),
		detail:  views.NewDetailModel(),
		search:  views.NewSearchModel(searcher),
		help:    views.NewHelpModel(domain.NewMetadataFlattener(leaves).Leaves().Types()),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// State returns the view on display
func (a *App) State() ViewState {
	return a.state
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.Update(msg)
		a.detail.Update(msg)
		a.search.Update(msg)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToDetailMsg:
		a.state = ViewDetail
		a.detail.SetNode(msg.Node)
		return a, a.detail.Init()

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		a.browser.SelectByID(msg.Result.ID)
		return a, nil

	case views.MirrorChangedMsg:
		logger.Named("tui").Debugw("Mirror changed",
			logger.FieldCount, len(msg.Files))
		return a, a.browser.Reload()

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case views.OpenURLMsg:
		return a, a.openURL(msg.URI)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(msg.err.Error(), true)
			return a, nil
		}
		// The payload may have been edited.
		return a, a.browser.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) openURL(uri string) tea.Cmd {
	if a.urls == nil {
		return nil
	}
	return func() tea.Msg {
		if err := a.urls.OpenURL(uri); err != nil {
			return views.ErrMsg(err)
		}
		return nil
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDetail:
		return a.detail.View()
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}

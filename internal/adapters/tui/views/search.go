package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"icane/internal/adapters/tui/styles"
	"icane/internal/application/commands"
	"icane/internal/ports"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Copy   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to node"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy uriTag"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// SearchModel is the model for the search view
type SearchModel struct {
	ViewState
	searcher  ports.Searcher
	input     textinput.Model
	results   []commands.SearchResult
	paginator *Paginator
	query     string // query the results belong to
}

// NewSearchModel creates a new search view model
func NewSearchModel(searcher ports.Searcher) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search titles, uriTags and node types..."
	input.Focus()

	return &SearchModel{
		searcher:  searcher,
		input:     input,
		paginator: NewPaginator(10),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.query = ""
	m.paginator.Reset()
	m.ClearMessage()
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.paginator.SetPageSize(max(msg.Height-12, 3))
		return m, nil

	case searchResultsMsg:
		// Drop answers to queries the user has already typed past.
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.query = msg.query
		m.results = msg.results
		m.paginator.Reset()
		m.paginator.SetTotal(len(m.results))
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
		} else {
			m.ClearMessage()
		}
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			m.paginator.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.paginator.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.Copy):
			if r, ok := m.selected(); ok {
				return m, copyToClipboard(r.ID)
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if r, ok := m.selected(); ok {
				return m, func() tea.Msg {
					return SearchSelectMsg{Result: r}
				}
			}
			return m, nil
		}
	}

	// Update input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Trigger search on input change
	query := m.input.Value()
	if query == m.query {
		return m, cmd
	}
	if len(query) >= 2 {
		return m, tea.Batch(cmd, m.search(query))
	}
	m.results = nil
	m.query = query
	m.paginator.Reset()

	return m, cmd
}

func (m *SearchModel) selected() (commands.SearchResult, bool) {
	i := m.paginator.Cursor()
	if i >= 0 && i < len(m.results) {
		return m.results[i], true
	}
	return commands.SearchResult{}, false
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchCommand(m.searcher, query).Execute(context.Background())
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

type searchResultsMsg struct {
	query   string
	results []commands.SearchResult
	err     error
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Result commands.SearchResult
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().
		Title("Search").
		Block(styles.InputFocused.Render(m.input.View())).
		Message(m.Message, m.MessageErr)

	switch {
	case len(m.results) > 0:
		v.Subtitle(fmt.Sprintf("%d results", len(m.results)))
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], i == m.paginator.Cursor()))
		}
		v.PageIndicator(m.paginator)
	case len(m.input.Value()) >= 2:
		v.b.WriteString(RenderMuted("No results found"))
	default:
		v.b.WriteString(RenderMuted("Type at least 2 characters to search"))
	}

	return v.BlankLine().
		Help(SearchKeys.Down, SearchKeys.Select, SearchKeys.Copy, SearchKeys.Cancel).
		String()
}

func (m *SearchModel) renderResult(result commands.SearchResult, selected bool) string {
	typeStr := styles.NodeTypeTag.Render(fmt.Sprintf("[%s]", result.Type))
	text := fmt.Sprintf("%s %s", result.ID, result.Name)

	if selected {
		return styles.NodeSelected.Render(text) + " " + typeStr
	}
	return highlightMatch(text, m.query, styles.NodeLeaf.Foreground(styles.NodeTypeColor(result.Type))) + " " + typeStr
}

// highlightMatch renders the first case-insensitive occurrence of query
// in text with the match style.
func highlightMatch(text, query string, base lipgloss.Style) string {
	lower := strings.ToLower(text)
	i := strings.Index(lower, strings.ToLower(query))
	// Byte offsets only line up when lowering kept the length.
	if query == "" || i < 0 || len(lower) != len(text) {
		return base.Render(text)
	}
	j := i + len(query)
	return base.Render(text[:i]) + styles.SearchMatch.Render(text[i:j]) + base.Render(text[j:])
}

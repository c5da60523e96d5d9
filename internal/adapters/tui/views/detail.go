package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"icane/internal/adapters/tui/styles"
	"icane/internal/domain"
)

// DetailKeyMap defines key bindings for the detail view
type DetailKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Copy     key.Binding
	Open     key.Binding
	Back     key.Binding
}

var DetailKeys = DetailKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d", "l", "right"),
		key.WithHelp("l/pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u", "h", "left"),
		key.WithHelp("h/pgup", "prev page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy value"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open uri"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "backspace"),
		key.WithHelp("esc", "back"),
	),
}

// DetailModel shows the digest of one metadata node, one column per line
type DetailModel struct {
	ViewState
	node      *domain.TreeNode
	digest    domain.Row
	paginator *Paginator
}

// NewDetailModel creates a new detail view model
func NewDetailModel() *DetailModel {
	return &DetailModel{paginator: NewPaginator(15)}
}

// SetNode projects the digest of node. A node whose payload lacks a
// required digest field shows the error instead.
func (m *DetailModel) SetNode(node *domain.TreeNode) {
	m.ClearMessage()
	m.node = node
	m.digest = nil
	m.paginator.Reset()

	if node == nil || node.Source == nil {
		m.SetMessage("not a metadata node", true)
		return
	}
	row, err := domain.ProjectDigest(node.Source)
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.digest = row
	m.paginator.SetTotal(len(row))
}

// Node returns the node on display
func (m *DetailModel) Node() *domain.TreeNode {
	return m.node
}

// SelectedValue returns the column and value under the cursor
func (m *DetailModel) SelectedValue() (string, string, bool) {
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.digest) {
		return "", "", false
	}
	return domain.DigestColumns[i], domain.FormatValue(m.digest[i]), true
}

// Init initializes the detail view
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		// title, subtitle, message, pager and help lines
		m.paginator.SetPageSize(msg.Height - 8)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DetailKeys.Back):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		case key.Matches(msg, DetailKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, DetailKeys.Down):
			m.paginator.CursorDown()
		case key.Matches(msg, DetailKeys.NextPage):
			m.paginator.NextPage()
		case key.Matches(msg, DetailKeys.PrevPage):
			m.paginator.PrevPage()
		case key.Matches(msg, DetailKeys.Copy):
			if _, value, ok := m.SelectedValue(); ok && value != "" {
				return m, copyToClipboard(value)
			}
		case key.Matches(msg, DetailKeys.Open):
			if m.node != nil && m.node.Source != nil {
				uri, _ := m.node.Source.Lookup("uri")
				return m, func() tea.Msg {
					return OpenURLMsg{URI: domain.FormatValue(uri)}
				}
			}
		}
	}
	return m, nil
}

// View renders the detail view
func (m *DetailModel) View() string {
	v := NewViewBuilder()
	if m.node == nil {
		return v.Title("Details").Muted("Nothing selected").String()
	}

	v.Title(fmt.Sprintf("%s  %s", m.node.ID, m.node.Name))
	v.Subtitle(fmt.Sprintf("%s node, %d digest columns", m.node.Type, len(m.digest)))
	v.Message(m.Message, m.MessageErr)

	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderField(i, i == m.paginator.Cursor()))
	}
	if m.paginator.TotalPages() > 1 {
		v.BlankLine().PageIndicator(m.paginator)
	}

	v.BlankLine()
	v.Help(DetailKeys.Down, DetailKeys.NextPage, DetailKeys.Copy, DetailKeys.Open, DetailKeys.Back)
	return v.String()
}

func (m *DetailModel) renderField(i int, selected bool) string {
	label := styles.DetailLabel.Render(domain.DigestColumns[i])
	value := domain.FormatValue(m.digest[i])

	switch {
	case selected && value == "":
		value = styles.NodeSelected.Render("(empty)")
	case selected:
		value = styles.NodeSelected.Render(truncate(value, m.valueWidth()))
	case value == "":
		value = styles.DetailEmpty.Render("(empty)")
	default:
		value = truncate(value, m.valueWidth())
	}
	return label + value
}

func (m *DetailModel) valueWidth() int {
	if m.Width <= 0 {
		return 80
	}
	return max(m.Width-36, 10)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

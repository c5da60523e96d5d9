package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"icane/internal/adapters/tui/styles"
	"icane/internal/domain"
	"icane/internal/logger"
	"icane/internal/ports"
)

// FileNodeType marks the tree nodes that stand for mirror payload files.
const FileNodeType = "file"

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Copy     key.Binding
	Edit     key.Binding
	Open     key.Binding
	Reload   key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy uriTag"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit payload"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// MirrorTree is the browsable view of every metadata payload in a mirror:
// one file node per payload, holding the payload's hierarchy.
type MirrorTree struct {
	Root  *domain.TreeNode
	files map[*domain.TreeNode]string
}

// LoadMirrorTree builds a MirrorTree. Payloads that are not metadata, or
// that fail to build, are skipped and counted.
func LoadMirrorTree(m ports.Mirror, leaves domain.LeafSet) (*MirrorTree, int, error) {
	files, err := m.Payloads()
	if err != nil {
		return nil, 0, err
	}

	t := &MirrorTree{
		Root:  &domain.TreeNode{Kind: domain.KindInternal, IsExpanded: true},
		files: make(map[*domain.TreeNode]string),
	}
	skipped := 0
	for _, file := range files {
		v, err := m.Load(file)
		if err != nil || !domain.IsMetadata(v) {
			skipped++
			continue
		}
		built, err := domain.BuildTree(v, leaves)
		if err != nil {
			logger.Logger.Debugw("Skipping payload in browser",
				logger.FieldFile, file,
				logger.FieldError, err)
			skipped++
			continue
		}
		apiPath, _ := m.APIPath(file)

		fileNode := &domain.TreeNode{
			Kind:   domain.KindInternal,
			Type:   FileNodeType,
			ID:     apiPath,
			Name:   apiPath,
			Parent: t.Root,
		}
		tops := []*domain.TreeNode{built}
		if built.Source == nil {
			tops = built.Children
		}
		for _, top := range tops {
			top.Parent = fileNode
			fileNode.Children = append(fileNode.Children, top)
		}
		t.files[fileNode] = file
		t.Root.Children = append(t.Root.Children, fileNode)
	}
	return t, skipped, nil
}

// FileOf returns the mirror file a node was read from.
func (t *MirrorTree) FileOf(n *domain.TreeNode) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if file, ok := t.files[cur]; ok {
			return file, true
		}
	}
	return "", false
}

// Reveal expands every ancestor of n.
func (t *MirrorTree) Reveal(n *domain.TreeNode) {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		cur.Expand()
	}
}

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	mirror    ports.Mirror
	leaves    domain.LeafSet
	tree      *MirrorTree
	flatNodes []*domain.TreeNode
	cursor    int
	offset    int
	pendingID string // uriTag to select once the tree is loaded
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(mirror ports.Mirror, leaves domain.LeafSet) *BrowserModel {
	return &BrowserModel{
		mirror: mirror,
		leaves: leaves,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	tree, skipped, err := LoadMirrorTree(m.mirror, m.leaves)
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{tree: tree, skipped: skipped}
}

type treeLoadedMsg struct {
	tree    *MirrorTree
	skipped int
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.tree = msg.tree
		m.refreshFlatNodes()
		if m.pendingID != "" {
			m.SelectByID(m.pendingID)
			m.pendingID = ""
		}
		if msg.skipped > 0 {
			m.SetMessage(fmt.Sprintf("%d payloads are not metadata", msg.skipped), false)
		}
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.moveCursor(-1)
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.moveCursor(1)
			return m, nil

		case key.Matches(msg, BrowserKeys.PageUp):
			m.moveCursor(-m.pageSize())
			return m, nil

		case key.Matches(msg, BrowserKeys.PageDown):
			m.moveCursor(m.pageSize())
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.SelectedNode(); node != nil {
				if node.IsExpanded && len(node.Children) > 0 {
					node.Collapse()
					m.refreshFlatNodes()
				} else if node.Parent != nil && node.Parent != m.tree.Root {
					m.selectNode(node.Parent)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right):
			if node := m.SelectedNode(); node != nil && len(node.Children) > 0 {
				node.Expand()
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			node := m.SelectedNode()
			if node == nil {
				return m, nil
			}
			if node.Source == nil {
				node.Toggle()
				m.refreshFlatNodes()
				return m, nil
			}
			return m, func() tea.Msg {
				return SwitchToDetailMsg{Node: node}
			}

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.SelectedNode(); node != nil {
				return m, copyToClipboard(node.ID)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Edit):
			if node := m.SelectedNode(); node != nil {
				if file, ok := m.tree.FileOf(node); ok {
					return m, func() tea.Msg {
						return OpenEditorMsg{Path: file}
					}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Open):
			if node := m.SelectedNode(); node != nil && node.Source != nil {
				uri, _ := node.Source.Lookup("uri")
				return m, func() tea.Msg {
					return OpenURLMsg{URI: domain.FormatValue(uri)}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Search):
			return m, func() tea.Msg {
				return SwitchToSearchMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{err}
		}
		return successMsg{fmt.Sprintf("Copied %s", text)}
	}
}

// SelectedNode returns the node under the cursor
func (m *BrowserModel) SelectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

// SelectByID reveals and selects the first node with the uriTag. If the
// tree is still loading the selection is applied once it arrives.
func (m *BrowserModel) SelectByID(id string) bool {
	if m.tree == nil {
		m.pendingID = id
		return false
	}
	node := m.tree.Root.Find(id)
	if node == nil {
		m.SetMessage(fmt.Sprintf("%s is not in any metadata payload", id), true)
		return false
	}
	m.tree.Reveal(node)
	m.refreshFlatNodes()
	m.selectNode(node)
	return true
}

// FileOf returns the mirror file behind a node.
func (m *BrowserModel) FileOf(n *domain.TreeNode) (string, bool) {
	if m.tree == nil {
		return "", false
	}
	return m.tree.FileOf(n)
}

func (m *BrowserModel) selectNode(node *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == node {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
}

func (m *BrowserModel) moveCursor(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.flatNodes)-1))
	m.scrollToCursor()
}

// pageSize is the number of tree lines that fit under the header.
func (m *BrowserModel) pageSize() int {
	if m.Height <= 0 {
		return 20
	}
	return max(m.Height-9, 1)
}

func (m *BrowserModel) scrollToCursor() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.tree == nil {
		return
	}
	m.flatNodes = m.tree.Root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	// Clamp cursor
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.tree == nil {
		if m.Message != "" {
			return NewViewBuilder().Title("ICANE").Message(m.Message, m.MessageErr).String()
		}
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("ICANE"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(m.mirror.Root()))
	b.WriteString("\n\n")

	if len(m.flatNodes) == 0 {
		b.WriteString(RenderMuted("No metadata payloads in the mirror"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.pageSize(), len(m.flatNodes))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderNode(m.flatNodes[i], i == m.cursor))
		b.WriteString("\n")
	}
	if node := m.SelectedNode(); node != nil {
		b.WriteString(m.statusLine(node))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Down, BrowserKeys.Right, BrowserKeys.Enter,
		BrowserKeys.Copy, BrowserKeys.Edit, BrowserKeys.Search,
		BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// statusLine shows the payload behind node and the cursor position.
func (m *BrowserModel) statusLine(node *domain.TreeNode) string {
	kind := node.Type
	if kind == "" {
		kind = "node"
	}
	payload := ""
	if file, ok := m.tree.FileOf(node); ok {
		payload, _ = m.mirror.APIPath(file)
	}
	return styles.StatusBar.Render(
		styles.StatusKey.Render(kind) +
			styles.StatusText.Render(fmt.Sprintf("%s  %d/%d", payload, m.cursor+1, len(m.flatNodes))))
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	// File nodes sit at depth 1 under the hidden root.
	indent := strings.Repeat("  ", node.Depth()-1)

	var prefix string
	switch {
	case len(node.Children) == 0:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	text := node.Name
	var style lipgloss.Style
	switch {
	case node.Type == FileNodeType:
		style = styles.NodeFile
	case !isActive(node):
		style = styles.NodeInactive
		text = fmt.Sprintf("%s %s", node.ID, node.Name)
	case node.IsLeaf():
		style = styles.NodeLeaf.Foreground(styles.NodeTypeColor(node.Type))
		text = fmt.Sprintf("%s %s", node.ID, node.Name)
	default:
		style = styles.NodeInternal.Foreground(styles.NodeTypeColor(node.Type))
		text = fmt.Sprintf("%s %s", node.ID, node.Name)
	}

	styledText := style.Render(text)
	if selected {
		styledText = styles.NodeSelected.Render(text)
	}
	if node.Source != nil && node.Type != "" {
		styledText += " " + styles.NodeTypeTag.Render("["+node.Type+"]")
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func isActive(node *domain.TreeNode) bool {
	if node.Source == nil {
		return true
	}
	v, ok := node.Source.Lookup("active")
	if !ok {
		return true
	}
	active, isBool := v.(bool)
	return !isBool || active
}

// Reload reloads the tree from the mirror, keeping the selection
func (m *BrowserModel) Reload() tea.Cmd {
	if node := m.SelectedNode(); node != nil && node.Source != nil {
		m.pendingID = node.ID
	}
	m.tree = nil
	m.flatNodes = nil
	m.cursor = 0
	m.offset = 0
	return m.loadTree
}

// Messages for view switching
type SwitchToDetailMsg struct {
	Node *domain.TreeNode
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// OpenEditorMsg asks the app to open a mirror file in the editor
type OpenEditorMsg struct {
	Path string
}

// OpenURLMsg asks the app to open a URI in the system browser
type OpenURLMsg struct {
	URI string
}

// MirrorChangedMsg reports payload files that changed on disk
type MirrorChangedMsg struct {
	Files []string
}

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Node type colors
	SectionColor    = lipgloss.Color("#6366F1") // Indigo
	SubsectionColor = lipgloss.Color("#8B5CF6") // Violet
	DataSetColor    = lipgloss.Color("#EC4899") // Pink
	DocumentColor   = lipgloss.Color("#F97316") // Orange

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeInternal = lipgloss.NewStyle().
			Bold(true)

	NodeLeaf = lipgloss.NewStyle()

	NodeFile = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")). // Blue
			Underline(true)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeInactive = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeTypeTag = lipgloss.NewStyle().
			Foreground(Muted)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Search
	SearchMatch = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black)

	// Detail view
	DetailLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(28)

	DetailEmpty = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// NodeTypeColor returns the color for a metadata node type
func NodeTypeColor(nodeType string) lipgloss.Color {
	switch nodeType {
	case "section":
		return SectionColor
	case "subsection":
		return SubsectionColor
	case "data-set", "non-olap-native":
		return DataSetColor
	case "document":
		return DocumentColor
	case "time-series":
		return Secondary
	default:
		return Primary
	}
}

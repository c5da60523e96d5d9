package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"icane/internal/adapters/tui/styles"
)

// RenderHelpLine renders key bindings as "key desc" pairs joined by bullets.
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage styles a status message, red for errors. Empty stays empty.
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderMuted renders secondary text.
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// ViewBuilder accumulates the sections of a screen. Headings are followed
// by a blank line, body lines by a single newline.
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) section(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n\n")
	return v
}

// Title adds the screen heading.
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.section(styles.Title.Render(title))
}

// Subtitle adds a secondary heading.
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.section(styles.Subtitle.Render(subtitle))
}

// Block adds pre-rendered content, such as a focused input, as a section.
func (v *ViewBuilder) Block(content string) *ViewBuilder {
	return v.section(content)
}

// Message adds a status message if there is one.
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	return v.section(RenderMessage(message, isError))
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds a line of secondary text.
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(RenderMuted(text))
}

// PageIndicator adds "Page n/m" when p spans more than one page.
func (v *ViewBuilder) PageIndicator(p *Paginator) *ViewBuilder {
	if p.TotalPages() <= 1 {
		return v
	}
	return v.Muted(fmt.Sprintf("Page %d/%d", p.CurrentPage(), p.TotalPages()))
}

// Help adds the key help line; it ends the view.
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}

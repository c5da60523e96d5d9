package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewBuilderPageIndicator(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(5)
	assert.NotContains(t, NewViewBuilder().PageIndicator(p).String(), "Page")

	p.SetTotal(25)
	p.NextPage()
	assert.Contains(t, NewViewBuilder().PageIndicator(p).String(), "Page 2/3")
}

func TestViewBuilderMessage(t *testing.T) {
	assert.Equal(t, NewViewBuilder().String(), NewViewBuilder().Message("", true).String())
	assert.Contains(t, NewViewBuilder().Message("reloaded", false).String(), "reloaded")
	assert.Empty(t, RenderMessage("", false))
}

func TestRenderHelpLine(t *testing.T) {
	line := RenderHelpLine(SearchKeys.Select, SearchKeys.Cancel)
	assert.Contains(t, line, SearchKeys.Select.Help().Desc)
	assert.Contains(t, line, SearchKeys.Cancel.Help().Desc)
}

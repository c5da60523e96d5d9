package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/domain"
)

type stubSearcher []domain.SearchResult

func (s stubSearcher) Search(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return s, nil
}

func TestSearchModelResults(t *testing.T) {
	m := NewSearchModel(stubSearcher{
		{Type: "time-series", ID: "population-census", Name: "Population census"},
		{Type: "subsection", ID: "labour", Name: "Labour market"},
	})

	m.input.SetValue("census")
	m.Update(m.search("census")())
	require.Len(t, m.results, 1)
	assert.Equal(t, "population-census", m.results[0].ID)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(SearchSelectMsg)
	require.True(t, ok)
	assert.Equal(t, "population-census", selected.Result.ID)
}

func TestSearchModelDropsStaleResults(t *testing.T) {
	m := NewSearchModel(stubSearcher{{Type: "section", ID: "society", Name: "Society"}})

	m.input.SetValue("soc")
	stale := m.search("so")()
	m.Update(stale)

	assert.Empty(t, m.results)
	assert.Empty(t, m.query)
}

func TestSearchModelReset(t *testing.T) {
	m := NewSearchModel(stubSearcher{{Type: "section", ID: "society", Name: "Society"}})
	m.input.SetValue("society")
	m.Update(m.search("society")())
	require.NotEmpty(t, m.results)

	m.Reset()
	assert.Empty(t, m.results)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Type at least 2 characters")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchToBrowserMsg{}, cmd())
}

func TestHighlightMatch(t *testing.T) {
	base := lipgloss.NewStyle()

	assert.Equal(t, "Population census", highlightMatch("Population census", "", base))
	assert.Equal(t, "Population census", highlightMatch("Population census", "labour", base))
	assert.Contains(t, highlightMatch("Population census", "CENSUS", base), "census")
}

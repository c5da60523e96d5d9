package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/domain"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			text:      "Population",
			query:     "Population",
			wantScore: 150,
		},
		{
			name:      "prefix match",
			text:      "Population census",
			query:     "Population",
			wantScore: 150,
		},
		{
			name:      "substring at word start",
			text:      "Active population",
			query:     "population",
			wantScore: 125,
		},
		{
			name:      "substring inside a word",
			text:      "Subpopulation",
			query:     "population",
			wantScore: 100,
		},
		{
			name:    "fuzzy match across separators",
			text:    "population-census",
			query:   "pcen",
			wantMin: 1,
		},
		{
			name:      "no match",
			text:      "Population",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			text:      "Population",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			text:    "POPULATION",
			query:   "population",
			wantMin: 100,
		},
		{
			name:      "accented title",
			text:      "Población activa",
			query:     "POBLACIÓN",
			wantScore: 150,
		},
		{
			name:      "uriTag match",
			text:      "labour-market-survey",
			query:     "market",
			wantScore: 125,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := MatchScore(tt.text, tt.query)
			switch {
			case tt.wantScore > 0:
				assert.Equal(t, tt.wantScore, score)
			case tt.wantMin > 0:
				assert.GreaterOrEqual(t, score, tt.wantMin)
			default:
				assert.Zero(t, score)
			}
		})
	}
}

func TestMatchScore_Ordering(t *testing.T) {
	query := "census"

	exactScore := MatchScore("census", query)
	prefixScore := MatchScore("census 2001", query)
	wordScore := MatchScore("population census", query)
	innerScore := MatchScore("popcensus", query)
	fuzzyScore := MatchScore("c.e.n.s.u.s", query)

	assert.GreaterOrEqual(t, exactScore, prefixScore)
	assert.Greater(t, prefixScore, wordScore)
	assert.Greater(t, wordScore, innerScore)
	assert.Greater(t, innerScore, fuzzyScore)
}

func TestScoreResult(t *testing.T) {
	byTag := domain.SearchResult{ID: "unemployment", Type: "time-series"}
	byType := domain.SearchResult{ID: "gdp", Type: "unemployment"}

	assert.Equal(t, 3*150, ScoreResult(byTag, "unemployment"))
	assert.Equal(t, 150, ScoreResult(byType, "unemployment"))
	assert.Zero(t, ScoreResult(domain.SearchResult{ID: "gdp"}, "census"))
}

func TestRank(t *testing.T) {
	results := []domain.SearchResult{
		{ID: "gdp", Name: "Gross domestic product", Type: "time-series", MatchedText: "nothing"},
		{ID: "census-2001", Name: "Census 2001", Type: "time-series"},
		{ID: "housing", Name: "Housing", Type: "subsection"},
		{ID: "population-census", Name: "Population census", Type: "data-set"},
		{ID: "census-1991", Name: "Census 1991", Type: "time-series"},
	}

	ranked := Rank(results, "census", 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "census-2001", ranked[0].ID)
	assert.Equal(t, "census-1991", ranked[1].ID, "ties keep index order")
	assert.Equal(t, "population-census", ranked[2].ID)

	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i].Score, ranked[i-1].Score)
	}

	limited := Rank(results, "census", 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "census-2001", limited[0].ID)
}

func TestSearchCommand(t *testing.T) {
	searcher := &fakeSearcher{results: []domain.SearchResult{
		{ID: "census-1991", Name: "Census 1991"},
		{ID: "census-2001", Name: "Census 2001"},
		{ID: "census-2011", Name: "Census 2011"},
	}}
	ctx := context.Background()

	got, err := NewSearchCommand(searcher, "c").Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, searcher.queries, "short queries never reach the index")

	cmd := NewSearchCommand(searcher, "census")
	cmd.Limit = 2
	got, err = cmd.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"census"}, searcher.queries)
}

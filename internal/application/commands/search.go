package commands

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"icane/internal/domain"
	"icane/internal/ports"
)

// SearchResult wraps domain.SearchResult with a relevance score
type SearchResult struct {
	domain.SearchResult
	Score int
}

// SearchCommand searches indexed metadata nodes with fuzzy matching
type SearchCommand struct {
	searcher ports.Searcher
	Query    string
	Limit    int
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(searcher ports.Searcher, query string) *SearchCommand {
	return &SearchCommand{
		searcher: searcher,
		Query:    query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	results, err := c.searcher.Search(ctx, c.Query)
	if err != nil {
		return nil, err
	}
	return Rank(results, c.Query, c.Limit), nil
}

// Score bands for MatchScore. Any substring hit outranks every scattered match.
const (
	scoreSubstring = 100
	scorePrefix    = 50
	scoreWordStart = 25
)

// resultFields lists what a node is matched on. A hit on the uri tag or
// title counts three times a hit on the node type.
var resultFields = []struct {
	weight int
	text   func(domain.SearchResult) string
}{
	{3, func(r domain.SearchResult) string { return r.ID }},
	{3, func(r domain.SearchResult) string { return r.Name }},
	{2, func(r domain.SearchResult) string { return r.MatchedText }},
	{1, func(r domain.SearchResult) string { return r.Type }},
}

// MatchScore rates how well text matches query, case-insensitively and
// rune by rune so accented titles compare correctly. Zero means no match.
func MatchScore(text, query string) int {
	t := []rune(strings.ToLower(text))
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return 0
	}

	if i := indexRunes(t, q); i >= 0 {
		switch {
		case i == 0:
			return scoreSubstring + scorePrefix
		case isWordBreak(t[i-1]):
			return scoreSubstring + scoreWordStart
		}
		return scoreSubstring
	}

	score, qi, last := 0, 0, -2
	for i, r := range t {
		if qi == len(q) {
			break
		}
		if r != q[qi] {
			continue
		}
		score++
		if last == i-1 {
			score += 10
		}
		if i == 0 {
			score += 15
		} else if isWordBreak(t[i-1]) {
			score += 10
		}
		last = i
		qi++
	}
	if qi < len(q) {
		return 0
	}
	return score
}

// ScoreResult returns the best weighted match of query over a node's fields.
func ScoreResult(r domain.SearchResult, query string) int {
	best := 0
	for _, f := range resultFields {
		best = max(best, f.weight*MatchScore(f.text(r), query))
	}
	return best
}

// Rank scores results against query, drops non-matches and orders the rest
// by descending score, keeping index order among ties. A positive limit caps
// the number of results returned.
func Rank(results []domain.SearchResult, query string, limit int) []SearchResult {
	ranked := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if s := ScoreResult(r, query); s > 0 {
			ranked = append(ranked, SearchResult{SearchResult: r, Score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func indexRunes(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if string(s[i:i+len(sub)]) == string(sub) {
			return i
		}
	}
	return -1
}

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

package commands

import (
	"context"
	"encoding/json"
	"strings"

	"icane/internal/domain"
	"icane/internal/errors"
)

// fakeSource serves payloads from JSON text keyed by API path.
type fakeSource map[string]string

func (s fakeSource) Fetch(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, ok := s[path]
	if !ok {
		return nil, errors.NewNotFoundError("payload %s not found", path)
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return domain.Decode(v), nil
}

type fakeSearcher struct {
	results []domain.SearchResult
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, nil
}

// recordingSink keeps what an export wrote.
type recordingSink struct {
	header  []string
	rows    []domain.Row
	closed  bool
	aborted bool
	failAt  int // fail the nth WriteRow when > 0
}

func (s *recordingSink) WriteHeader(h []string) error {
	s.header = h
	return nil
}

func (s *recordingSink) WriteRow(r domain.Row) error {
	if s.failAt > 0 && len(s.rows)+1 == s.failAt {
		return errors.New("disk full")
	}
	s.rows = append(s.rows, r)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func (s *recordingSink) Abort() error {
	s.aborted = true
	return nil
}

func metadataJSON(uriTag, nodeType, children string) string {
	return `{
  "id": 1, "title": "Title ` + uriTag + `", "active": true,
  "uri": "u", "metadataUri": "m", "resourceUri": "r",
  "documentation": "", "methodology": "", "mapScope": null,
  "referenceResources": "", "description": "", "theme": "", "language": "es",
  "publisher": "ICANE", "license": "", "topics": "", "automatizedTopics": "",
  "uriTag": "` + uriTag + `", "uriTagEs": "` + uriTag + `",
  "initialPeriodDescription": "", "finalPeriodDescription": "",
  "dataUpdate": null, "dateCreated": 1262304000000, "lastUpdated": 1388534400000,
  "subsection": {"title": "Population", "section": {"title": "Society"}},
  "category": {"title": "Historical"},
  "nodeType": {"title": "Node", "uriTag": "` + nodeType + `"},
  "sources": [], "measures": [], "apiUris": [],
  "children": [` + children + `]
}`
}

const censusData = `{"headers": ["Year", "Sex"], "data": {
  "2001": {"Men": 10, "Women": 11},
  "1991": {"Men": 8}
}}`

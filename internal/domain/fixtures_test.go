package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// parseJSON decodes JSON text the way the payload readers do.
func parseJSON(t *testing.T, text string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func decodeNode(t *testing.T, text string) *Node {
	t.Helper()
	n, err := DecodeObject(parseJSON(t, text))
	require.NoError(t, err)
	return n
}

// metaNode returns a raw metadata node with every digest field set.
func metaNode(uriTag, nodeType string, children ...map[string]any) map[string]any {
	kids := make([]any, 0, len(children))
	for _, c := range children {
		kids = append(kids, c)
	}
	return map[string]any{
		"id":                       json.Number("42"),
		"title":                    "Title " + uriTag,
		"active":                   true,
		"uri":                      "http://www.icane.es/data/" + uriTag,
		"metadataUri":              "http://www.icane.es/metadata/" + uriTag,
		"resourceUri":              "http://www.icane.es/resource/" + uriTag,
		"documentation":            "doc",
		"methodology":              "method",
		"mapScope":                 nil,
		"referenceResources":       "refs",
		"description":              "desc",
		"theme":                    "theme",
		"language":                 "es",
		"publisher":                "ICANE",
		"license":                  "cc-by",
		"topics":                   "population",
		"automatizedTopics":        "census",
		"uriTag":                   uriTag,
		"uriTagEs":                 uriTag + "-es",
		"initialPeriodDescription": "1900",
		"finalPeriodDescription":   "2001",
		"dataUpdate":               nil,
		"dateCreated":              json.Number("1262304000000"),
		"lastUpdated":              json.Number("1388534400000"),
		"subsection": map[string]any{
			"title":   "Population",
			"section": map[string]any{"title": "Society"},
		},
		"category":      map[string]any{"title": "Historical"},
		"dataSet":       map[string]any{"title": "Census"},
		"periodicity":   map[string]any{"title": "Decennial"},
		"nodeType":      map[string]any{"title": "Node " + nodeType, "uriTag": nodeType},
		"referenceArea": map[string]any{"title": "Cantabria"},
		"sources":       []any{map[string]any{"label": "INE"}},
		"measures": []any{
			map[string]any{"title": "Population", "unit": "persons"},
			map[string]any{"title": "Area", "unit": "km2"},
		},
		"apiUris": []any{
			map[string]any{"uri": "http://www.icane.es/data/api/" + uriTag + ".json"},
			map[string]any{"uri": "http://www.icane.es/data/api/" + uriTag + ".csv"},
		},
		"children": kids,
	}
}

// column returns the index of a digest column.
func column(name string) int {
	for i, c := range DigestColumns {
		if c == name {
			return i
		}
	}
	panic("unknown digest column " + name)
}

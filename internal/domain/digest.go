package domain

import (
	"strconv"
	"strings"
	"time"
)

// DigestColumns names the fields of a digest row, in order.
var DigestColumns = []string{
	"id", "title", "active", "uri", "metadataUri", "resourceUri",
	"documentation", "methodology", "mapScope", "referenceResources",
	"description", "theme", "language", "publisher", "license", "topics",
	"automatizedTopics", "uriTag", "uriTagEs", "initialPeriodDescription",
	"finalPeriodDescription", "dataUpdate", "dateCreated", "lastUpdated",
	"subsection", "section", "category", "dataset", "periodicity", "nodeType",
	"referenceArea", "sources", "measures", "apiUris",
}

// DigestWidth is the number of fields in every digest row.
var DigestWidth = len(DigestColumns)

// DateLayout is the day/month/year layout of digest dates.
const DateLayout = "02/01/2006"

// unsetMillis stands in for a null dataUpdate and formats as the epoch.
const unsetMillis = "0000"

// digestScalarFields are copied verbatim, in column order, ahead of the
// dates.
var digestScalarFields = []string{
	"id", "title", "active", "uri", "metadataUri", "resourceUri",
	"documentation", "methodology", "mapScope", "referenceResources",
	"description", "theme", "language", "publisher", "license", "topics",
	"automatizedTopics", "uriTag", "uriTagEs", "initialPeriodDescription",
	"finalPeriodDescription",
}

// ProjectDigest extracts the digest row of one metadata node. dataSet,
// periodicity and referenceArea may be absent or null and give an empty
// title; an empty sources list gives an empty label; a null dataUpdate
// formats as the epoch. Any other absent field is a MissingFieldError.
func ProjectDigest(n *Node) (Row, error) {
	p := &digestProjector{node: n}
	row := make(Row, 0, DigestWidth)

	for _, key := range digestScalarFields {
		row = append(row, p.value(key))
	}
	row = append(row,
		p.date("dataUpdate", true),
		p.date("dateCreated", false),
		p.date("lastUpdated", false),
		p.nestedTitle("subsection"),
		p.sectionTitle(),
		p.nestedTitle("category"),
		p.optionalTitle("dataSet"),
		p.optionalTitle("periodicity"),
		p.nestedTitle("nodeType"),
		p.optionalTitle("referenceArea"),
		p.firstSourceLabel(),
		p.measures(),
		p.apiURIs(),
	)

	if p.err != nil {
		return nil, p.err
	}
	return row, nil
}

// digestProjector keeps the first error so the row reads top to bottom.
type digestProjector struct {
	node *Node
	err  error
}

func (p *digestProjector) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *digestProjector) value(key string) any {
	v, err := p.node.Get(key)
	if err != nil {
		p.fail(err)
		return nil
	}
	return v
}

func (p *digestProjector) date(key string, nullable bool) string {
	v, err := p.node.Get(key)
	if err != nil {
		p.fail(err)
		return ""
	}
	if v == nil && nullable {
		v = unsetMillis
	}
	s, err := FormatMillis(v)
	if err != nil {
		p.fail(&FlattenError{Path: childPath(p.node.path, key), Reason: err.Error(), Err: err})
		return ""
	}
	return s
}

func (p *digestProjector) nestedTitle(key string) any {
	child, err := p.node.Node(key)
	if err != nil {
		p.fail(err)
		return nil
	}
	return p.title(child)
}

func (p *digestProjector) sectionTitle() any {
	sub, err := p.node.Node("subsection")
	if err != nil {
		p.fail(err)
		return nil
	}
	section, err := sub.Node("section")
	if err != nil {
		p.fail(err)
		return nil
	}
	return p.title(section)
}

func (p *digestProjector) optionalTitle(key string) any {
	child, ok, err := p.node.OptionalNode(key)
	if err != nil {
		p.fail(err)
		return ""
	}
	if !ok {
		return ""
	}
	return p.title(child)
}

func (p *digestProjector) title(n *Node) any {
	v, err := n.Get("title")
	if err != nil {
		p.fail(err)
		return nil
	}
	return v
}

func (p *digestProjector) firstSourceLabel() any {
	sources, err := p.node.Nodes("sources")
	if err != nil {
		p.fail(err)
		return ""
	}
	if len(sources) == 0 {
		return ""
	}
	v, err := sources[0].Get("label")
	if err != nil {
		p.fail(err)
		return ""
	}
	return v
}

// measures renders "title: unit" for every measure, comma joined.
func (p *digestProjector) measures() string {
	measures, err := p.node.Nodes("measures")
	if err != nil {
		p.fail(err)
		return ""
	}
	parts := make([]string, 0, len(measures))
	for _, m := range measures {
		title, err := m.Text("title")
		if err != nil {
			p.fail(err)
			return ""
		}
		unit, err := m.Text("unit")
		if err != nil {
			p.fail(err)
			return ""
		}
		parts = append(parts, title+": "+unit)
	}
	return strings.Join(parts, ", ")
}

// apiURIs renders the API URIs as a bracketed list of quoted "<uri>, "
// entries, e.g. ['http://a, ', 'http://b, ']. Items are always single
// quoted with \' escapes and never carry a u prefix; older consumers that
// switched to double quotes for such URIs will see different bytes.
func (p *digestProjector) apiURIs() string {
	uris, err := p.node.Nodes("apiUris")
	if err != nil {
		p.fail(err)
		return ""
	}
	parts := make([]string, 0, len(uris))
	for _, u := range uris {
		uri, err := u.Text("uri")
		if err != nil {
			p.fail(err)
			return ""
		}
		parts = append(parts, quoteListItem(uri+", "))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quoteListItem(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// FormatMillis formats a millisecond timestamp as dd/mm/yyyy in UTC. The
// seconds are the decimal text with its last three characters dropped,
// so the "0000" placeholder formats as the epoch.
func FormatMillis(v any) (string, error) {
	text := FormatValue(v)
	if len(text) <= 3 {
		return "", &strconv.NumError{Func: "FormatMillis", Num: text, Err: strconv.ErrSyntax}
	}
	secs, err := strconv.ParseInt(text[:len(text)-3], 10, 64)
	if err != nil {
		return "", err
	}
	return time.Unix(secs, 0).UTC().Format(DateLayout), nil
}

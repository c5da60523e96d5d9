package domain

import (
	"iter"
	"sort"
)

// DefaultLeafTypes are the node-type uriTags that stop metadata descent.
var DefaultLeafTypes = []string{"time-series", "non-olap-native", "document"}

// LeafSet is the closed set of node-type tags classified as leaves.
type LeafSet map[string]struct{}

// NewLeafSet builds a LeafSet from node-type tags.
func NewLeafSet(types ...string) LeafSet {
	s := make(LeafSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// DefaultLeafSet returns a LeafSet of DefaultLeafTypes.
func DefaultLeafSet() LeafSet {
	return NewLeafSet(DefaultLeafTypes...)
}

// Contains reports whether the node type is a leaf type.
func (s LeafSet) Contains(nodeType string) bool {
	_, ok := s[nodeType]
	return ok
}

// Types returns the leaf types in sorted order.
func (s LeafSet) Types() []string {
	types := make([]string, 0, len(s))
	for t := range s {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NodeKind tells whether a metadata node ends descent.
type NodeKind int

const (
	KindInternal NodeKind = iota
	KindLeaf
)

func (k NodeKind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "internal"
}

// NodeType returns the uriTag of a metadata node's nodeType.
func NodeType(n *Node) (string, error) {
	nt, err := n.Node("nodeType")
	if err != nil {
		return "", err
	}
	return nt.Text("uriTag")
}

// MetadataFlattener walks metadata hierarchies and yields digest rows.
type MetadataFlattener struct {
	leaves LeafSet
}

// NewMetadataFlattener creates a flattener. An empty set selects
// DefaultLeafTypes.
func NewMetadataFlattener(leaves LeafSet) *MetadataFlattener {
	if len(leaves) == 0 {
		leaves = DefaultLeafSet()
	}
	return &MetadataFlattener{leaves: leaves}
}

// Leaves returns the leaf set in use.
func (f *MetadataFlattener) Leaves() LeafSet {
	return f.leaves
}

// Classify reads the node-type tag and reports leaf or internal.
// Unknown types are internal.
func (f *MetadataFlattener) Classify(n *Node) (NodeKind, error) {
	t, err := NodeType(n)
	if err != nil {
		return KindInternal, err
	}
	if f.leaves.Contains(t) {
		return KindLeaf, nil
	}
	return KindInternal, nil
}

var defaultMetadataFlattener = NewMetadataFlattener(nil)

// FlattenMetadata flattens with DefaultLeafTypes. See MetadataFlattener.Flatten.
func FlattenMetadata(v any) iter.Seq2[Row, error] {
	return defaultMetadataFlattener.Flatten(v)
}

// Flatten yields one digest row per visited node in pre-order. v may be a
// *Node, a []*Node or a decoded array of nodes; a raw JSON object or
// array is decoded first. Sequences keep their input order. A leaf node
// yields its own row only, an internal node is followed by the rows of
// its "children".
func (f *MetadataFlattener) Flatten(v any) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		switch t := Decode(v).(type) {
		case *Node:
			f.walk(t, yield)
		case []*Node:
			f.walkAll(t, yield)
		case []any:
			nodes, err := asNodes(t, RootPath)
			if err != nil {
				yield(nil, &FlattenError{Path: RootPath, Reason: err.Error(), Err: err})
				return
			}
			f.walkAll(nodes, yield)
		default:
			yield(nil, &FlattenError{Path: RootPath, Reason: "expected node or list of nodes, got " + kindOf(v)})
		}
	}
}

func (f *MetadataFlattener) walkAll(nodes []*Node, yield func(Row, error) bool) bool {
	for _, n := range nodes {
		if !f.walk(n, yield) {
			return false
		}
	}
	return true
}

func (f *MetadataFlattener) walk(n *Node, yield func(Row, error) bool) bool {
	row, err := ProjectDigest(n)
	if err != nil {
		yield(nil, err)
		return false
	}
	if !yield(row, nil) {
		return false
	}

	kind, err := f.Classify(n)
	if err != nil {
		yield(nil, err)
		return false
	}
	if kind == KindLeaf {
		return true
	}

	children, err := Children(n)
	if err != nil {
		yield(nil, err)
		return false
	}
	return f.walkAll(children, yield)
}

// Children returns the "children" of a metadata node. Absent or null
// children are empty; anything other than an array of objects fails.
func Children(n *Node) ([]*Node, error) {
	v, ok := n.fields["children"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &FlattenError{Path: childPath(n.path, "children"), Reason: "expected array, got " + kindOf(v)}
	}
	nodes, err := asNodes(items, childPath(n.path, "children"))
	if err != nil {
		return nil, &FlattenError{Path: childPath(n.path, "children"), Reason: err.Error(), Err: err}
	}
	return nodes, nil
}

// IsMetadata reports whether a decoded payload is a metadata node or a
// non-empty list of them, judged by the uriTag and nodeType keys.
func IsMetadata(v any) bool {
	switch t := Decode(v).(type) {
	case *Node:
		return isMetadataNode(t)
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, item := range t {
			n, ok := item.(*Node)
			if !ok || !isMetadataNode(n) {
				return false
			}
		}
		return true
	}
	return false
}

func isMetadataNode(n *Node) bool {
	return n.Has("uriTag") && n.Has("nodeType")
}

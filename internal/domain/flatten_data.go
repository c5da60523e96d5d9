package domain

import "iter"

// DataWrapperKey is the top-level field holding the dimension hierarchy of
// a data payload.
const DataWrapperKey = "data"

// FlattenData walks a data payload and yields one row per observation:
// the dimension keys from root to leaf followed by the observed value.
//
// If n carries a "data" object it is the starting level, otherwise n is
// taken as already inside the hierarchy. Keys are visited in sorted order
// at every level so output is independent of source key order. Arrays
// inside the hierarchy fail with a FlattenError; rows yielded before a
// failure stay valid. Each call walks the tree afresh with its own path
// stack.
func FlattenData(n *Node) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if n == nil {
			yield(nil, &FlattenError{Path: RootPath, Reason: "nil node"})
			return
		}
		start := n
		if inner, ok := n.fields[DataWrapperKey].(*Node); ok {
			start = inner
		}
		w := &dataWalker{yield: yield}
		w.walk(start)
	}
}

// dataWalker holds the path stack of one FlattenData call.
type dataWalker struct {
	path  []string
	yield func(Row, error) bool
}

// walk returns false once the consumer stopped or an error was yielded.
func (w *dataWalker) walk(n *Node) bool {
	for _, key := range n.Keys() {
		switch v := n.fields[key].(type) {
		case *Node:
			if !w.descend(key, v) {
				return false
			}
		case []any:
			w.yield(nil, &FlattenError{
				Path:   childPath(n.path, key),
				Reason: "array found where a dimension level or observation was expected",
			})
			return false
		default:
			row := make(Row, 0, len(w.path)+2)
			for _, dim := range w.path {
				row = append(row, dim)
			}
			row = append(row, key, v)
			if !w.yield(row, nil) {
				return false
			}
		}
	}
	return true
}

func (w *dataWalker) descend(key string, n *Node) bool {
	w.path = append(w.path, key)
	defer func() { w.path = w.path[:len(w.path)-1] }()
	return w.walk(n)
}

// DataHeader returns the column names for FlattenData rows: the payload's
// "headers" list when present, followed by valueColumn.
func DataHeader(n *Node, valueColumn string) ([]string, error) {
	var header []string
	if n != nil && n.Has("headers") {
		items, err := n.List("headers")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			header = append(header, FormatValue(item))
		}
	}
	return append(header, valueColumn), nil
}

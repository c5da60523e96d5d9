package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// RootPath is the key path of a decoded root value.
const RootPath = "$"

// Node is a decoded JSON object. Every nested object, including objects
// inside arrays, is itself a *Node. A Node is read-only once decoded.
type Node struct {
	fields map[string]any
	path   string
}

// Decode converts a deserialized JSON value into its navigable form.
// Objects become *Node at any depth, arrays are copied with their objects
// decoded, scalars are returned unchanged. Decoding a *Node returns it as is.
func Decode(v any) any {
	return decodeValue(v, RootPath)
}

// DecodeObject decodes v and requires the result to be a *Node.
func DecodeObject(v any) (*Node, error) {
	n, ok := Decode(v).(*Node)
	if !ok {
		return nil, &InvalidPayloadError{Path: RootPath, Got: kindOf(v)}
	}
	return n, nil
}

// DecodeList decodes v and requires an array of objects, as returned by
// collection endpoints.
func DecodeList(v any) ([]*Node, error) {
	items, ok := Decode(v).([]any)
	if !ok {
		return nil, &InvalidPayloadError{Path: RootPath, Got: kindOf(v)}
	}
	return asNodes(items, RootPath)
}

// NewNode builds a Node from a plain map, decoding nested values.
func NewNode(fields map[string]any) *Node {
	return decodeMap(fields, RootPath)
}

func decodeValue(v any, path string) any {
	switch t := v.(type) {
	case *Node:
		return t
	case map[string]any:
		return decodeMap(t, path)
	case []any:
		return decodeArray(t, path)
	default:
		return v
	}
}

func decodeMap(m map[string]any, path string) *Node {
	n := &Node{fields: make(map[string]any, len(m)), path: path}
	for key, value := range m {
		n.fields[key] = decodeValue(value, childPath(path, key))
	}
	return n
}

func decodeArray(items []any, path string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = decodeValue(item, indexPath(path, i))
	}
	return out
}

func childPath(parent, key string) string {
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Path returns the key path of the node from the decoded root.
func (n *Node) Path() string {
	return n.path
}

// Len returns the number of fields.
func (n *Node) Len() int {
	return len(n.fields)
}

// Has reports whether the field is present, even if null.
func (n *Node) Has(key string) bool {
	_, ok := n.fields[key]
	return ok
}

// Keys returns the field names in lexicographic order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.fields))
	for k := range n.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the raw decoded value of a field.
func (n *Node) Get(key string) (any, error) {
	v, ok := n.fields[key]
	if !ok {
		return nil, &MissingFieldError{Path: n.path, Field: key}
	}
	return v, nil
}

// Lookup returns the value of a field and whether it was present.
func (n *Node) Lookup(key string) (any, bool) {
	v, ok := n.fields[key]
	return v, ok
}

// Node returns a required nested object.
func (n *Node) Node(key string) (*Node, error) {
	v, err := n.Get(key)
	if err != nil {
		return nil, err
	}
	child, ok := v.(*Node)
	if !ok {
		return nil, &InvalidPayloadError{Path: childPath(n.path, key), Got: kindOf(v)}
	}
	return child, nil
}

// OptionalNode returns a nested object that may be absent or null.
func (n *Node) OptionalNode(key string) (*Node, bool, error) {
	v, ok := n.fields[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	child, ok := v.(*Node)
	if !ok {
		return nil, false, &InvalidPayloadError{Path: childPath(n.path, key), Got: kindOf(v)}
	}
	return child, true, nil
}

// List returns a required array field. A null array is treated as empty.
func (n *Node) List(key string) ([]any, error) {
	v, err := n.Get(key)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	default:
		return nil, &FlattenError{Path: childPath(n.path, key), Reason: "expected array, got " + kindOf(v)}
	}
}

// Nodes returns a required array whose elements are all objects.
func (n *Node) Nodes(key string) ([]*Node, error) {
	items, err := n.List(key)
	if err != nil {
		return nil, err
	}
	return asNodes(items, childPath(n.path, key))
}

// Text returns a required scalar field rendered as text. Null renders empty.
func (n *Node) Text(key string) (string, error) {
	v, err := n.Get(key)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case *Node, []any:
		return "", &FlattenError{Path: childPath(n.path, key), Reason: "expected scalar, got " + kindOf(v)}
	}
	return FormatValue(v), nil
}

// Raw converts the node back to plain maps and slices.
func (n *Node) Raw() map[string]any {
	out := make(map[string]any, len(n.fields))
	for k, v := range n.fields {
		out[k] = rawValue(v)
	}
	return out
}

func rawValue(v any) any {
	switch t := v.(type) {
	case *Node:
		return t.Raw()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = rawValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the node as the object it was decoded from.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Raw())
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (any, error) {
	return yamlValue(n), nil
}

// yamlValue unwraps json.Number so YAML output keeps numbers unquoted.
func yamlValue(v any) any {
	switch t := v.(type) {
	case *Node:
		out := make(map[string]any, len(t.fields))
		for k, f := range t.fields {
			out[k] = yamlValue(f)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = yamlValue(item)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%s, %d fields)", n.path, len(n.fields))
}

func asNodes(items []any, path string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(items))
	for i, item := range items {
		child, ok := item.(*Node)
		if !ok {
			return nil, &InvalidPayloadError{Path: indexPath(path, i), Got: kindOf(item)}
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

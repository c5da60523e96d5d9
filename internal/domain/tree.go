package domain

// TreeNode is a metadata node placed in a navigable tree
type TreeNode struct {
	Kind       NodeKind
	Type       string // nodeType uriTag, e.g. "section"
	ID         string // uriTag
	Name       string // title
	Source     *Node
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// BuildTree arranges a metadata node, or a list of them under a synthetic
// root, into a tree. Leaf nodes get no children even if the payload lists some.
func BuildTree(v any, leaves LeafSet) (*TreeNode, error) {
	f := NewMetadataFlattener(leaves)

	switch t := Decode(v).(type) {
	case *Node:
		return f.buildNode(t, nil)
	case []any:
		nodes, err := asNodes(t, RootPath)
		if err != nil {
			return nil, err
		}
		return f.buildRoot(nodes)
	case []*Node:
		return f.buildRoot(t)
	default:
		return nil, &InvalidPayloadError{Path: RootPath, Got: kindOf(v)}
	}
}

func (f *MetadataFlattener) buildRoot(nodes []*Node) (*TreeNode, error) {
	root := &TreeNode{Kind: KindInternal, IsExpanded: true}
	for _, n := range nodes {
		child, err := f.buildNode(n, root)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func (f *MetadataFlattener) buildNode(n *Node, parent *TreeNode) (*TreeNode, error) {
	kind, err := f.Classify(n)
	if err != nil {
		return nil, err
	}
	nodeType, _ := NodeType(n)
	id, err := n.Text("uriTag")
	if err != nil {
		return nil, err
	}
	name, err := n.Text("title")
	if err != nil {
		return nil, err
	}

	tn := &TreeNode{
		Kind:   kind,
		Type:   nodeType,
		ID:     id,
		Name:   name,
		Source: n,
		Parent: parent,
	}
	if kind == KindLeaf {
		return tn, nil
	}

	children, err := Children(n)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		child, err := f.buildNode(c, tn)
		if err != nil {
			return nil, err
		}
		tn.Children = append(tn.Children, child)
	}
	return tn, nil
}

// IsLeaf reports whether the node ends descent
func (n *TreeNode) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Walk visits the node and all descendants in pre-order, expanded or not.
// It stops early when fn returns false.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// ExpandAll expands the node and every descendant
func (n *TreeNode) ExpandAll() {
	n.Walk(func(t *TreeNode) bool {
		t.IsExpanded = true
		return true
	})
}

// Find returns the first node with the given uriTag, or nil
func (n *TreeNode) Find(id string) *TreeNode {
	var found *TreeNode
	n.Walk(func(t *TreeNode) bool {
		if t.ID == id && t.Source != nil {
			found = t
			return false
		}
		return true
	})
	return found
}

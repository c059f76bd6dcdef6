package vdf

// Kind distinguishes scalar leaves from nested maps.
type Kind int

const (
	KindScalar Kind = iota
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Node is one value of a parsed document: either a scalar string or an
// ordered map of child nodes. Map keys are case-sensitive.
type Node struct {
	kind     Kind
	value    string
	keys     []string
	children map[string]*Node
}

// Scalar returns a leaf node holding value.
func Scalar(value string) *Node {
	return &Node{kind: KindScalar, value: value}
}

// NewMap returns an empty map node.
func NewMap() *Node {
	return &Node{kind: KindMap, children: make(map[string]*Node)}
}

// Kind reports whether the node is a scalar or a map.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsMap reports whether n is a non-nil map node.
func (n *Node) IsMap() bool {
	return n != nil && n.kind == KindMap
}

// IsScalar reports whether n is a non-nil scalar node.
func (n *Node) IsScalar() bool {
	return n != nil && n.kind == KindScalar
}

// Value returns the scalar value. ok is false for maps and nil nodes.
func (n *Node) Value() (string, bool) {
	if !n.IsScalar() {
		return "", false
	}
	return n.value, true
}

// Set binds key to child. A key that already exists keeps its original
// position and takes the new value. Set is a no-op on scalars.
func (n *Node) Set(key string, child *Node) {
	if !n.IsMap() || child == nil {
		return
	}
	if _, exists := n.children[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Get returns the direct child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMap() {
		return nil, false
	}
	child, ok := n.children[key]
	return child, ok
}

// Has reports whether key is a direct child of n.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Lookup walks path from n, returning the node at the end of it.
func (n *Node) Lookup(path ...string) (*Node, bool) {
	current := n
	for _, key := range path {
		next, ok := current.Get(key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, current != nil
}

// String returns the scalar at path. ok is false when the path is missing or
// ends at a map.
func (n *Node) String(path ...string) (string, bool) {
	node, ok := n.Lookup(path...)
	if !ok {
		return "", false
	}
	return node.Value()
}

// Keys returns the map keys in insertion order.
func (n *Node) Keys() []string {
	if !n.IsMap() {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of children of a map node.
func (n *Node) Len() int {
	if !n.IsMap() {
		return 0
	}
	return len(n.keys)
}

// Equal reports whether two trees hold the same scalars under the same key
// sets. Key order is not compared.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind {
		return false
	}
	if n.kind == KindScalar {
		return n.value == other.value
	}
	if len(n.keys) != len(other.keys) {
		return false
	}
	for key, child := range n.children {
		peer, ok := other.children[key]
		if !ok || !child.Equal(peer) {
			return false
		}
	}
	return true
}

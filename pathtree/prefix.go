package pathtree

import "strings"

// PrefixTree is a Tree whose lookups also succeed as prefix matches: when
// the walk reaches a valued node without children before the key is
// exhausted, that value is returned and the rest of the key is left over
// as the tail. Writes always consume the whole key.
type PrefixTree[V any] struct {
	Tree[V]
	equal func(a, b V) bool
}

// NewPrefix returns an empty prefix tree that compares values with ==
// during Optimize.
func NewPrefix[V comparable](opts ...Option) *PrefixTree[V] {
	return NewPrefixFunc(func(a, b V) bool { return a == b }, opts...)
}

// NewPrefixFunc returns an empty prefix tree using equal to decide whether
// sibling values are interchangeable during Optimize.
func NewPrefixFunc[V any](equal func(a, b V) bool, opts ...Option) *PrefixTree[V] {
	c := newConfig(opts)
	return &PrefixTree[V]{
		Tree: Tree[V]{
			root:      &node[V]{},
			separator: c.separator,
			prefix:    true,
		},
		equal: equal,
	}
}

// Match looks key up and returns the value together with the unconsumed
// part of the key (without a leading separator). The tail is empty for a
// full match.
func (t *PrefixTree[V]) Match(key string) (V, string, bool) {
	parts := t.split(key)
	n, depth := t.root.find(parts, true)
	if n == nil {
		var zero V
		return zero, "", false
	}
	return n.value, strings.Join(parts[depth:], t.separator), true
}

// Optimize collapses subtrees bottom-up. A node whose children are all
// childless and carry the same value, and whose own value is either unset
// or equal to that value, drops its children and adopts the value.
// Lookups of registered keys return the same values afterwards.
//
// Reports whether anything was collapsed.
func (t *PrefixTree[V]) Optimize() bool {
	return optimize(t.root, t.equal)
}

func optimize[V any](n *node[V], equal func(a, b V) bool) bool {
	if !n.hasChildren() {
		return false
	}

	var optimized bool
	for _, c := range n.children {
		if optimize(c, equal) {
			optimized = true
		}
	}

	var (
		shared    V
		hasShared bool
		first     = true
	)
	for _, c := range n.children {
		if c.hasChildren() {
			return optimized
		}
		if first {
			shared, hasShared, first = c.value, c.hasValue, false
			continue
		}
		if c.hasValue != hasShared || (hasShared && !equal(c.value, shared)) {
			return optimized
		}
	}

	if n.hasValue && (!hasShared || !equal(n.value, shared)) {
		return optimized
	}

	n.children = nil
	if hasShared {
		n.setValue(shared)
	}
	return true
}

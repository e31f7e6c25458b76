package pathtree

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
)

// DefaultSeparator splits keys into segments unless WithSeparator is used.
const DefaultSeparator = "/"

// ErrNotFound is returned by Get when no value is registered for a key.
var ErrNotFound = errors.New("pathtree: key not found")

// Option configures a Tree or PrefixTree.
type Option func(*config)

type config struct {
	separator string
}

// WithSeparator sets the segment separator. Empty values are ignored.
func WithSeparator(sep string) Option {
	return func(c *config) {
		if sep != "" {
			c.separator = sep
		}
	}
}

func newConfig(opts []Option) config {
	c := config{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type node[V any] struct {
	value    V
	hasValue bool
	children map[Segment]*node[V]
}

func (n *node[V]) setValue(v V) {
	n.value = v
	n.hasValue = true
}

func (n *node[V]) hasChildren() bool {
	return len(n.children) > 0
}

// child returns the child for seg, creating it when missing.
func (n *node[V]) child(seg Segment) *node[V] {
	if c, ok := n.children[seg]; ok {
		return c
	}
	if n.children == nil {
		n.children = make(map[Segment]*node[V])
	}
	c := &node[V]{}
	n.children[seg] = c
	return c
}

// find resolves parts below n. A literal child for the next part takes
// the search exclusively; the wildcard is only consulted when no such
// literal child exists. There is no backtracking. In prefix mode a valued
// leaf ends the search early and the remaining parts are left unconsumed.
//
// Returns the valued node and the number of parts it consumed, or nil.
func (n *node[V]) find(parts []string, prefix bool) (*node[V], int) {
	if prefix && n.hasValue && !n.hasChildren() {
		return n, 0
	}
	if len(parts) == 0 {
		if n.hasValue {
			return n, 0
		}
		return nil, 0
	}

	c, ok := n.children[Literal(parts[0])]
	if !ok {
		if c, ok = n.children[Wildcard]; !ok {
			return nil, 0
		}
	}

	found, depth := c.find(parts[1:], prefix)
	if found == nil {
		return nil, 0
	}
	return found, depth + 1
}

// sortedSegments returns the child segments with literals in lexical order
// followed by the wildcard, so traversal output is stable.
func (n *node[V]) sortedSegments() []Segment {
	segs := make([]Segment, 0, len(n.children))
	var hasWildcard bool
	for seg := range n.children {
		if seg.wildcard {
			hasWildcard = true
			continue
		}
		segs = append(segs, seg)
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].literal < segs[j].literal })
	if hasWildcard {
		segs = append(segs, Wildcard)
	}
	return segs
}

func (n *node[V]) walk(key string, sep string, root bool, yield func(string, V) bool) bool {
	if n.hasValue {
		k := key
		if k == "" {
			k = sep
		}
		if !yield(k, n.value) {
			return false
		}
	}

	next := key + sep
	if root {
		next = ""
	}
	for _, seg := range n.sortedSegments() {
		if !n.children[seg].walk(next+seg.String(), sep, false, yield) {
			return false
		}
	}
	return true
}

func (n *node[V]) dump(w io.Writer, indent string, level int) {
	if n.hasValue {
		fmt.Fprintf(w, "=> '%v'", n.value)
	}
	for _, seg := range n.sortedSegments() {
		fmt.Fprintf(w, "\n%s'%s':", strings.Repeat(indent, level), seg)
		n.children[seg].dump(w, indent, level+1)
	}
}

// Tree maps separator-delimited keys to values. Each level holds any
// number of literal children and at most one wildcard child; a key
// component enclosed in braces is stored under the wildcard.
//
// A Tree is built once and read many times: Add and Set must not run
// concurrently with lookups.
type Tree[V any] struct {
	root      *node[V]
	separator string
	prefix    bool
}

// New returns an empty tree.
func New[V any](opts ...Option) *Tree[V] {
	c := newConfig(opts)
	return &Tree[V]{
		root:      &node[V]{},
		separator: c.separator,
	}
}

// Separator returns the segment separator of the tree.
func (t *Tree[V]) Separator() string {
	return t.separator
}

// split breaks a key into components. A single trailing separator is
// dropped, so "/a/b" and "/a/b/" address the same node.
func (t *Tree[V]) split(key string) []string {
	parts := strings.Split(key, t.separator)
	if n := len(parts); n > 1 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// Add stores value under key, creating intermediate nodes as needed.
// Assigning to an existing node replaces its value and keeps its children.
func (t *Tree[V]) Add(key string, value V) {
	n := t.root
	for _, part := range t.split(key) {
		n = n.child(ParseSegment(part))
	}
	n.setValue(value)
}

// Set overwrites the value of the node matched by key, consuming the whole
// key. When nothing matches, the key is added.
func (t *Tree[V]) Set(key string, value V) {
	if n, _ := t.root.find(t.split(key), false); n != nil {
		n.setValue(value)
		return
	}
	t.Add(key, value)
}

// Lookup returns the value registered for key.
func (t *Tree[V]) Lookup(key string) (V, bool) {
	n, _ := t.root.find(t.split(key), t.prefix)
	if n == nil {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Get returns the value registered for key or ErrNotFound.
func (t *Tree[V]) Get(key string) (V, error) {
	v, ok := t.Lookup(key)
	if !ok {
		return v, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

// GetOr returns the value registered for key, or def when there is none.
func (t *Tree[V]) GetOr(key string, def V) V {
	if v, ok := t.Lookup(key); ok {
		return v
	}
	return def
}

// Contains reports whether a lookup of key would succeed.
func (t *Tree[V]) Contains(key string) bool {
	_, ok := t.Lookup(key)
	return ok
}

// All returns a depth-first sequence of (key, value) pairs. Wildcard
// levels are rendered as "{argument}". Each call starts a new traversal.
func (t *Tree[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		t.root.walk("", t.separator, true, yield)
	}
}

// Keys returns the keys produced by All.
func (t *Tree[V]) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns the values produced by All.
func (t *Tree[V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Len returns the number of valued nodes.
func (t *Tree[V]) Len() int {
	var n int
	for range t.All() {
		n++
	}
	return n
}

// Dump writes an indented rendering of the tree to w.
func (t *Tree[V]) Dump(w io.Writer, indent string) {
	t.root.dump(w, indent, 0)
	io.WriteString(w, "\n")
}

// String renders the tree using a four-space indent.
func (t *Tree[V]) String() string {
	var b strings.Builder
	t.Dump(&b, "    ")
	return b.String()
}

package pathtree

import "strings"

// Segment is a single level of a tree key: either a literal path component
// or the wildcard slot that matches any one component.
//
// Segment is comparable and is used directly as the key of a node's
// children map.
type Segment struct {
	literal  string
	wildcard bool
}

// Wildcard is the single placeholder slot available at each tree level.
var Wildcard = Segment{wildcard: true}

// wildcardName is how wildcard levels are rendered in keys produced by
// traversal and in Dump output.
const wildcardName = "{argument}"

// Literal returns a literal segment for the given path component.
func Literal(s string) Segment {
	return Segment{literal: s}
}

// ParseSegment classifies a raw key component. Components enclosed in
// braces (for example "{id}" or "{id:int}") become the Wildcard segment,
// everything else is literal.
func ParseSegment(s string) Segment {
	if IsPlaceholder(s) {
		return Wildcard
	}
	return Literal(s)
}

// IsPlaceholder reports whether s is a brace-enclosed placeholder.
func IsPlaceholder(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// IsWildcard reports whether the segment is the wildcard slot.
func (s Segment) IsWildcard() bool {
	return s.wildcard
}

// String returns the literal text, or "{argument}" for the wildcard.
func (s Segment) String() string {
	if s.wildcard {
		return wildcardName
	}
	return s.literal
}

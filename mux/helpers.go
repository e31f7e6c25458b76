package mux

import (
	"slices"
	"strings"

	"github.com/dimfeld/httppath"
)

// cleanPath returns the canonical path for p: a leading slash, no empty or
// dot segments, and the trailing slash kept when p had one.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return httppath.Clean(p)
}

// removeBasePath strips basePath from p when p lies below it. Empty
// segments of p are dropped first and the result always starts with a
// slash. Paths outside basePath are returned collapsed but otherwise
// unchanged.
func removeBasePath(p, basePath string) string {
	p = collapseSegments(p)

	base := strings.TrimRight(collapseSegments(basePath), "/")
	if base == "" {
		return p
	}

	if strings.EqualFold(p, base) {
		return "/"
	}
	if len(p) > len(base) && strings.EqualFold(p[:len(base)], base) && p[len(base)] == '/' {
		return p[len(base):]
	}
	return p
}

// collapseSegments drops empty segments: "//a///b/" becomes "/a/b".
func collapseSegments(p string) string {
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return "/" + strings.Join(kept, "/")
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	return slices.Contains(arr, value)
}

// joinMethods renders a method set for the Allow header.
func joinMethods(methods []string) string {
	return strings.Join(methods, ", ")
}

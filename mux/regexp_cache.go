package mux

import (
	"regexp"
	"sync"
)

// regexpCache holds compiled path expressions keyed by their source.
// Tables sharing templates (one per handler type, often with the same
// paths under different base paths) reuse the compiled value.
var regexpCache sync.Map

// compileRegexp returns the cached *regexp.Regexp for expr, compiling it
// on first use.
func compileRegexp(expr string) (*regexp.Regexp, error) {
	if v, ok := regexpCache.Load(expr); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	actual, _ := regexpCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

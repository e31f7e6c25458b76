package mux

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/pathtree"
)

// PrefixRouter is an application-level router backed by a prefix tree.
// Routes are registered from path expressions or from the endpoints of a
// Table; a request is served by the route whose key is its longest
// registered prefix, and the unconsumed part of the path is available to
// the handler through TailFromContext.
//
// The most recent lookup is memoised, so runs of requests for one path
// skip the tree. Register everything before serving; the first request
// freezes the router.
type PrefixRouter struct {
	// NotFoundHandler is called when no route matches. If nil, a JSON 404
	// is written.
	NotFoundHandler http.Handler

	tree        *pathtree.PrefixTree[*prefixTarget]
	targets     []*prefixTarget
	middlewares []MiddlewareFunc
	config      Config
	opts        []Option
	logger      logrus.FieldLogger

	last atomic.Pointer[prefixMatch]
	once sync.Once
}

// prefixTarget is the value stored in the tree. Keys registered together
// share one target, so compaction can merge them.
type prefixTarget struct {
	name     string
	matchArg string
	handler  http.Handler
	wrapped  http.Handler
}

type prefixMatch struct {
	key    string
	target *prefixTarget
}

// NewPrefixRouter returns an empty router. opts also apply to the Handlers
// created by Mount.
func NewPrefixRouter(opts ...Option) *PrefixRouter {
	o := newOptions(opts)
	return &PrefixRouter{
		tree:   pathtree.NewPrefix[*prefixTarget](),
		config: o.config,
		opts:   opts,
		logger: o.logger.WithField("component", "prefix_router"),
	}
}

// Handle registers h under a path expression. Both compiled patterns and
// plain templates are accepted; see UnescapePattern for the supported
// shapes.
func (p *PrefixRouter) Handle(pattern string, h http.Handler) error {
	key, matchArg, err := UnescapePattern(pattern)
	if err != nil {
		return err
	}
	if matchArg == "" {
		matchArg = key
	}

	p.add(&prefixTarget{name: pattern, matchArg: matchArg, handler: h}, key)
	return nil
}

// HandleFunc registers a handler function under a path expression.
func (p *PrefixRouter) HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) error {
	return p.Handle(pattern, http.HandlerFunc(f))
}

// Mount serves the endpoints of t below basePath through a Handler. opts
// are applied after the router's own options.
func (p *PrefixRouter) Mount(t *Table, basePath string, opts ...Option) *Handler {
	all := make([]Option, 0, len(p.opts)+len(opts)+1)
	all = append(all, p.opts...)
	all = append(all, WithBasePath(basePath))
	all = append(all, opts...)
	h := NewHandler(t, all...)

	base := pathKey(basePath)
	target := &prefixTarget{name: t.Name(), matchArg: base, handler: h}

	var keys []string
	for e := range t.All() {
		key := pathKey(base + e.Key)
		if !matchInArray(keys, key) {
			keys = append(keys, key)
		}
	}
	p.add(target, keys...)

	return h
}

// Use appends middleware applied to every route. It must be called before
// the first request.
func (p *PrefixRouter) Use(mwf ...MiddlewareFunc) {
	p.middlewares = append(p.middlewares, mwf...)
}

// Optimize compacts the routing tree. Config.OptimizeTree runs it
// automatically before the first request.
func (p *PrefixRouter) Optimize() bool {
	p.last.Store(nil)
	return p.tree.Optimize()
}

// Routes returns the registered keys in traversal order.
func (p *PrefixRouter) Routes() []string {
	var keys []string
	for k := range p.tree.Keys() {
		keys = append(keys, k)
	}
	return keys
}

func (p *PrefixRouter) add(target *prefixTarget, keys ...string) {
	p.targets = append(p.targets, target)
	for _, key := range keys {
		key = strings.ToLower(strings.TrimRight(key, "/"))
		p.logger.WithFields(logrus.Fields{
			"key":       key,
			"route":     target.name,
			"match_arg": target.matchArg,
		}).Debug("registering route")
		p.tree.Add(key, target)
	}
	p.last.Store(nil)
}

func (p *PrefixRouter) prepare() {
	if p.config.OptimizeTree {
		p.Optimize()
	}
	for _, t := range p.targets {
		h := t.handler
		for i := len(p.middlewares) - 1; i >= 0; i-- {
			h = p.middlewares[i](h)
		}
		t.wrapped = h
	}
}

// match resolves key, consulting the last-match memo first.
func (p *PrefixRouter) match(key string) *prefixTarget {
	if m := p.last.Load(); m != nil && m.key == key {
		return m.target
	}

	target, _ := p.tree.Lookup(key)
	p.logger.WithField("key", key).Debug("matching path")
	p.last.Store(&prefixMatch{key: key, target: target})
	return target
}

// tailOf returns the segments of path beyond matchArg.
func tailOf(path, matchArg string) string {
	parts := strings.Split(path, "/")
	skip := len(strings.Split(strings.TrimRight(matchArg, "/"), "/"))
	if skip >= len(parts) {
		return ""
	}
	return strings.Join(parts[skip:], "/")
}

// ServeHTTP implements http.Handler.
func (p *PrefixRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.once.Do(p.prepare)

	path := strings.TrimRight(cleanPath(r.URL.Path), "/")
	target := p.match(strings.ToLower(path))
	if target == nil {
		if p.NotFoundHandler != nil {
			p.NotFoundHandler.ServeHTTP(w, r)
			return
		}
		ResponseError(w, http.StatusNotFound, "")
		return
	}

	tail := tailOf(path, target.matchArg)
	p.logger.WithFields(logrus.Fields{
		"route":     target.name,
		"match_arg": target.matchArg,
		"tail":      tail,
	}).Trace("prefix match")

	ctx := withRouteContext(r.Context(), func(rc *routeContext) {
		rc.tail = tail
		rc.hasTail = true
	})
	h := target.wrapped
	if h == nil {
		h = target.handler
	}
	h.ServeHTTP(w, r.WithContext(ctx))
}

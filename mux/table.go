package mux

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/pathtree"
)

// Table is the endpoint registry of one handler type: method, then path
// key, to Endpoint.
//
// Register all endpoints during start-up. A Table is safe for concurrent
// lookups once registration is complete.
type Table struct {
	name      string
	trees     map[string]*pathtree.Tree[*Endpoint]
	fallbacks map[string]Action
	logger    logrus.FieldLogger
}

// NewTable returns an empty table. The name identifies the table in logs,
// metrics and generated documentation.
func NewTable(name string, opts ...Option) *Table {
	o := newOptions(opts)
	return &Table{
		name:      name,
		trees:     make(map[string]*pathtree.Tree[*Endpoint]),
		fallbacks: o.fallbacks,
		logger:    o.logger.WithField("table", name),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Register adds one endpoint per method of r and returns them.
func (t *Table) Register(r Route, action Action) ([]*Endpoint, error) {
	if action == nil {
		return nil, declarationError(r.Path, "nil action")
	}
	if r.Path == "" {
		return nil, declarationError(r.Path, "empty path")
	}

	pathArgs, err := canonicalizeList(SourcePath, r.PathArgs)
	if err != nil {
		return nil, err
	}
	queryArgs, err := canonicalizeList(SourceQuery, r.QueryArgs)
	if err != nil {
		return nil, err
	}
	bodyArgs, err := canonicalizeList(SourceBody, r.BodyArgs)
	if err != nil {
		return nil, err
	}
	headerArgs, err := canonicalizeList(SourceHeader, r.HeaderArgs)
	if err != nil {
		return nil, err
	}

	pattern, err := CompilePattern(r.Path, pathArgs)
	if err != nil {
		return nil, err
	}

	methods, err := expandMethods(r.Methods)
	if err != nil {
		return nil, declarationError(r.Path, "%v", err)
	}

	endpoints := make([]*Endpoint, 0, len(methods))
	for _, method := range methods {
		name := r.Name
		if name == "" {
			name = method + " " + r.Path
		}

		e := &Endpoint{
			Name:                   name,
			Method:                 method,
			Key:                    pattern.Key(),
			Template:               r.Path,
			Pattern:                pattern,
			PathArgs:               pattern.Args(),
			QueryArgs:              queryArgs,
			BodyArgs:               bodyArgs,
			HeaderArgs:             headerArgs,
			CapitalizationFallback: r.CapitalizationFallback,
			SimpleReturn:           r.SimpleReturn,
			Action:                 action,
			Table:                  t,
		}

		tree, ok := t.trees[method]
		if !ok {
			tree = pathtree.New[*Endpoint]()
			t.trees[method] = tree
		}
		tree.Add(e.Key, e)

		t.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   e.Key,
		}).Debug("registering endpoint")

		endpoints = append(endpoints, e)
	}

	return endpoints, nil
}

// MustRegister is like Register but panics on error.
func (t *Table) MustRegister(r Route, action Action) []*Endpoint {
	eps, err := t.Register(r, action)
	if err != nil {
		panic(err)
	}
	return eps
}

// Handle registers action for a single method and template, with args
// read from the query string.
func (t *Table) Handle(method, path string, action Action, args ...Decl) error {
	_, err := t.Register(Route{Path: path, Methods: []string{method}, QueryArgs: args}, action)
	return err
}

// Fallback returns the fallback action for method.
func (t *Table) Fallback(method string) (Action, bool) {
	a, ok := t.fallbacks[strings.ToUpper(method)]
	return a, ok
}

// SetFallback sets the action requests of method are forwarded to when
// the method has no endpoint and Return405 is disabled.
func (t *Table) SetFallback(method string, action Action) {
	if t.fallbacks == nil {
		t.fallbacks = make(map[string]Action)
	}
	t.fallbacks[strings.ToUpper(method)] = action
}

// Resolve finds the endpoint for method and requestPath after removing
// basePath. It returns ErrMethodNotAllowed when nothing is registered for
// method and ErrNotFound when the path is unknown.
func (t *Table) Resolve(method, requestPath, basePath string) (*Endpoint, error) {
	tree, ok := t.trees[strings.ToUpper(method)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, strings.ToUpper(method))
	}

	e, ok := tree.Lookup(pathKey(removeBasePath(requestPath, basePath)))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}
	return e, nil
}

// Methods returns the registered methods in lexical order.
func (t *Table) Methods() []string {
	return slices.Sorted(maps.Keys(t.trees))
}

// AllowedMethods returns the methods with an endpoint for requestPath, in
// lexical order.
func (t *Table) AllowedMethods(requestPath, basePath string) []string {
	key := pathKey(removeBasePath(requestPath, basePath))

	var allowed []string
	for _, method := range t.Methods() {
		if t.trees[method].Contains(key) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// Endpoints returns a sequence of (method, template) pairs ordered by
// method and then by key.
func (t *Table) Endpoints() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for e := range t.All() {
			if !yield(e.Method, e.Template) {
				return
			}
		}
	}
}

// All returns every registered endpoint ordered by method and then by key.
func (t *Table) All() iter.Seq[*Endpoint] {
	return func(yield func(*Endpoint) bool) {
		for _, method := range t.Methods() {
			for e := range t.trees[method].Values() {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Len returns the number of registered endpoints.
func (t *Table) Len() int {
	var n int
	for _, tree := range t.trees {
		n += tree.Len()
	}
	return n
}

func expandMethods(methods []string) ([]string, error) {
	if len(methods) == 0 {
		return []string{"GET"}, nil
	}

	var out []string
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "*" {
			for _, dm := range DefaultMethods {
				if !matchInArray(out, dm) {
					out = append(out, dm)
				}
			}
			continue
		}
		if m == "" || strings.ContainsAny(m, " \t/") {
			return nil, fmt.Errorf("invalid method %q", m)
		}
		if !matchInArray(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

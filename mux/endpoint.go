package mux

import (
	"context"
	"net/http"
)

// Action handles a matched request. ctx is the context passed to
// Dispatcher.Dispatch; args holds the bound path, query, body and header
// arguments.
type Action func(ctx context.Context, args Args) (any, error)

// DefaultMethods are the methods a route declared with "*" is registered
// for.
var DefaultMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodHead,
}

// Route declares an endpoint for Table.Register.
type Route struct {
	// Path is the template, for example "/users/{id:int}".
	Path string
	// Methods defaults to GET. "*" expands to DefaultMethods.
	Methods []string

	// PathArgs overrides the descriptors derived from the template
	// placeholders.
	PathArgs   []Decl
	QueryArgs  []Decl
	BodyArgs   []Decl
	HeaderArgs []Decl

	// CapitalizationFallback retries missing query, body and header
	// argument names in camelCase and snake_case.
	CapitalizationFallback bool
	// SimpleReturn makes the HTTP adapter encode the action result as the
	// JSON response body.
	SimpleReturn bool
	// Name overrides the endpoint name, "METHOD /path" by default.
	Name string
}

// Endpoint is a registered (method, path) pair. Endpoints are immutable;
// registering the same pair again replaces the endpoint.
type Endpoint struct {
	Name     string
	Method   string
	Key      string
	Template string
	Pattern  *Pattern

	PathArgs   []Descriptor
	QueryArgs  []Descriptor
	BodyArgs   []Descriptor
	HeaderArgs []Descriptor

	CapitalizationFallback bool
	SimpleReturn           bool

	Action Action
	Table  *Table
}

// bindRequest binds every argument source of req against e.
func (e *Endpoint) bindRequest(vars map[string]string, req Request, trim bool) (Args, error) {
	args := make(Args, len(e.PathArgs)+len(e.QueryArgs)+len(e.BodyArgs)+len(e.HeaderArgs))

	pathOpts := BindOptions{NoTrim: !trim}
	if err := bindInto(args, SourcePath, e.PathArgs, VarsSource(vars), pathOpts); err != nil {
		return nil, err
	}

	opts := BindOptions{CapitalizationFallback: e.CapitalizationFallback, NoTrim: !trim}
	if err := bindInto(args, SourceQuery, e.QueryArgs, req.Query, opts); err != nil {
		return nil, err
	}
	if err := bindInto(args, SourceBody, e.BodyArgs, req.Body, opts); err != nil {
		return nil, err
	}
	if err := bindInto(args, SourceHeader, e.HeaderArgs, req.Header, opts); err != nil {
		return nil, err
	}

	return args, nil
}

package mux

import (
	"context"
	"net/http"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey is the single context key used to store the request context.
var ctxKey = routeContextKey{}

// routeContext is the per-request state exposed to actions. It is never
// modified once stored; updates store a copy.
type routeContext struct {
	writer  http.ResponseWriter
	request *http.Request
	tail    string
	hasTail bool
}

func routeContextFrom(ctx context.Context) *routeContext {
	rc, _ := ctx.Value(ctxKey).(*routeContext)
	return rc
}

// withRouteContext stores a copy of the current route context after
// applying update.
func withRouteContext(ctx context.Context, update func(*routeContext)) context.Context {
	var rc routeContext
	if cur := routeContextFrom(ctx); cur != nil {
		rc = *cur
	}
	update(&rc)
	return context.WithValue(ctx, ctxKey, &rc)
}

// ResponseWriterFromContext returns the response writer of the request an
// action is serving. It is only set when the action runs behind a Handler.
func ResponseWriterFromContext(ctx context.Context) (http.ResponseWriter, bool) {
	if rc := routeContextFrom(ctx); rc != nil && rc.writer != nil {
		return rc.writer, true
	}
	return nil, false
}

// RequestFromContext returns the HTTP request an action is serving. It is
// only set when the action runs behind a Handler.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	if rc := routeContextFrom(ctx); rc != nil && rc.request != nil {
		return rc.request, true
	}
	return nil, false
}

// TailFromContext returns the part of the request path left unconsumed by
// a PrefixRouter match, without a leading slash.
func TailFromContext(ctx context.Context) (string, bool) {
	if rc := routeContextFrom(ctx); rc != nil && rc.hasTail {
		return rc.tail, true
	}
	return "", false
}

// Tail is a shorthand for TailFromContext(r.Context()).
func Tail(r *http.Request) string {
	tail, _ := TailFromContext(r.Context())
	return tail
}

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the Middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// Middleware wraps a handler.
type Middleware interface {
	Middleware(handler http.Handler) http.Handler
}

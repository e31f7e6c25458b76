package mux

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the stage a dispatch reached.
type State int

const (
	StateReceived State = iota
	StatePathNormalized
	StateMatched
	StateNotFound
	StateMethodNotAllowed
	StateArgumentsBound
	StateArgumentError
	StateHandlerInvoked
	StateResponseSent
)

var stateNames = [...]string{
	StateReceived:         "received",
	StatePathNormalized:   "path_normalized",
	StateMatched:          "matched",
	StateNotFound:         "not_found",
	StateMethodNotAllowed: "method_not_allowed",
	StateArgumentsBound:   "arguments_bound",
	StateArgumentError:    "argument_error",
	StateHandlerInvoked:   "handler_invoked",
	StateResponseSent:     "response_sent",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Request is the transport-independent input of Dispatch. The source maps
// hold strings, byte slices, string slices or decoded JSON values.
type Request struct {
	Method string
	Path   string
	Query  map[string]any
	Body   map[string]any
	Header map[string]any
}

// Result describes how a dispatch ended.
type Result struct {
	// State is the terminal state.
	State State
	// Path is the normalized request path.
	Path string
	// Endpoint is the matched endpoint, nil for unmatched requests, fallback
	// invocations and generated OPTIONS answers.
	Endpoint *Endpoint
	// Args are the bound arguments.
	Args Args
	// Value is the action result.
	Value any
	// Allow is the method set of the path for 405 responses and generated
	// OPTIONS answers.
	Allow []string
	// Options is set when the result is a generated OPTIONS answer.
	Options bool
}

// Dispatcher routes requests to the endpoints of one Table.
type Dispatcher struct {
	table   *Table
	config  Config
	logger  logrus.FieldLogger
	metrics *Metrics
}

// NewDispatcher returns a dispatcher for t.
func NewDispatcher(t *Table, opts ...Option) *Dispatcher {
	o := newOptions(opts)
	return &Dispatcher{
		table:   t,
		config:  o.config,
		logger:  o.logger.WithField("table", t.Name()),
		metrics: o.metrics,
	}
}

// Table returns the dispatched table.
func (d *Dispatcher) Table() *Table {
	return d.table
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Dispatch runs req through routing, binding and the matched action.
//
// Unmatched requests end in StateNotFound or StateMethodNotAllowed with an
// error wrapping ErrNotFound or ErrMethodNotAllowed. Binding failures end in
// StateArgumentError with an *ArgumentError. An action error is returned
// unchanged with StateHandlerInvoked. ctx is passed to the action as is.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	method := normalizeMethod(req.Method)
	defer func() {
		d.metrics.observe(d.table.Name(), method, res.State, time.Since(start))
	}()

	res.State = StateReceived
	res.Path = cleanPath(req.Path)
	res.State = StatePathNormalized

	log := d.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   res.Path,
	})

	if method == http.MethodOptions && d.config.GenerateOptions {
		return d.options(res, log)
	}

	e, err := d.table.Resolve(method, res.Path, d.config.BasePath)
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		if fallback, ok := d.table.Fallback(method); ok && !d.config.Return405 {
			log.Debug("forwarding to fallback action")
			return d.invoke(ctx, res, fallback, Args{}, log)
		}
		res.State = StateMethodNotAllowed
		res.Allow = d.table.AllowedMethods(res.Path, d.config.BasePath)
		log.Debug("method not allowed")
		return res, err

	case err != nil:
		res.State = StateNotFound
		log.Debug("no endpoint")
		return res, err
	}

	vars, ok := e.Pattern.Captures(removeBasePath(res.Path, d.config.BasePath))
	if !ok {
		res.State = StateNotFound
		log.WithField("endpoint", e.Name).Debug("path does not satisfy endpoint pattern")
		return res, fmt.Errorf("%w: %s", ErrNotFound, res.Path)
	}
	res.State = StateMatched
	res.Endpoint = e

	args, err := e.bindRequest(vars, req, d.config.TrimStrings)
	if err != nil {
		res.State = StateArgumentError
		log.WithField("endpoint", e.Name).WithError(err).Info("argument binding failed")
		return res, err
	}
	res.State = StateArgumentsBound

	return d.invoke(ctx, res, e.Action, args, log.WithField("endpoint", e.Name))
}

func (d *Dispatcher) invoke(ctx context.Context, res Result, action Action, args Args, log logrus.FieldLogger) (Result, error) {
	res.Args = args
	res.State = StateHandlerInvoked

	v, err := action(ctx, args)
	if err != nil {
		log.WithError(err).Debug("action failed")
		return res, err
	}

	res.Value = v
	res.State = StateResponseSent
	log.Debug("request dispatched")
	return res, nil
}

// options answers an OPTIONS request with the methods registered for the
// path plus OPTIONS itself. A path without any endpoint is NotFound, not
// an empty Allow set.
func (d *Dispatcher) options(res Result, log logrus.FieldLogger) (Result, error) {
	allow := d.table.AllowedMethods(res.Path, d.config.BasePath)
	if len(allow) == 0 {
		res.State = StateNotFound
		log.Debug("no endpoint for generated OPTIONS")
		return res, fmt.Errorf("%w: %s", ErrNotFound, res.Path)
	}

	if !slices.Contains(allow, http.MethodOptions) {
		allow = append(allow, http.MethodOptions)
		slices.Sort(allow)
	}

	res.Allow = allow
	res.Options = true
	res.State = StateResponseSent
	log.WithField("allow", allow).Debug("generated OPTIONS answer")
	return res, nil
}

func normalizeMethod(m string) string {
	if m == "" {
		return http.MethodGet
	}
	return strings.ToUpper(m)
}

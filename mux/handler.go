package mux

import (
	"errors"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Handler serves a Table over HTTP. It builds the dispatch Request from
// the query string, headers and body, and turns the outcome into a
// response:
//
//	not found              404
//	method not allowed     405 with Allow
//	invalid body           400
//	argument error         400
//	action error           500
//	generated OPTIONS      200 with Allow and Access-Control-Allow-Methods
//
// Endpoints declared with SimpleReturn get the action result written as a
// JSON body. Other actions write their own response through
// ResponseWriterFromContext.
type Handler struct {
	dispatcher *Dispatcher
	logger     logrus.FieldLogger
}

// NewHandler returns an HTTP handler for t.
func NewHandler(t *Table, opts ...Option) *Handler {
	o := newOptions(opts)
	return &Handler{
		dispatcher: NewDispatcher(t, opts...),
		logger:     o.logger.WithField("table", t.Name()),
	}
}

// Dispatcher returns the underlying dispatcher.
func (h *Handler) Dispatcher() *Dispatcher {
	return h.dispatcher
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		ResponseError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := withRouteContext(r.Context(), func(rc *routeContext) {
		rc.writer = w
		rc.request = r
	})

	res, err := h.dispatcher.Dispatch(ctx, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  ValuesSource(r.URL.Query()),
		Body:   body,
		Header: HeaderSource(r.Header),
	})

	var argErr *ArgumentError
	switch {
	case res.Options:
		allow := joinMethods(res.Allow)
		w.Header().Set("Allow", allow)
		w.Header().Set("Access-Control-Allow-Methods", allow)
		w.WriteHeader(http.StatusOK)

	case errors.Is(err, ErrNotFound):
		ResponseError(w, http.StatusNotFound, "")

	case errors.Is(err, ErrMethodNotAllowed):
		if len(res.Allow) > 0 {
			w.Header().Set("Allow", joinMethods(res.Allow))
		}
		ResponseError(w, http.StatusMethodNotAllowed, "Method not supported")

	case errors.As(err, &argErr):
		responseArgumentError(w, argErr)

	case err != nil:
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   res.Path,
		}).WithError(err).Error("action failed")
		ResponseError(w, http.StatusInternalServerError, "")

	case res.Endpoint != nil && res.Endpoint.SimpleReturn:
		ResponseJSON(w, http.StatusOK, res.Value)
	}
}

// readBody decodes the request body into body fields: form posts through
// ParseForm and everything else as JSON.
func readBody(r *http.Request) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return ValuesSource(r.PostForm), nil
	}

	return DecodeJSONBody(r.Body)
}

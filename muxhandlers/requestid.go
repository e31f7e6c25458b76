package muxhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/mux"
)

type requestIDKey struct{}

// DefaultRequestIDQueryNames are the query parameters searched for an
// incoming request ID when RequestIDConfig.QueryNames is nil.
var DefaultRequestIDQueryNames = []string{"requuid", "request-id", "requestId", "request_id"}

// RequestIDFromContext returns the request ID stored in the context by
// RequestIDMiddleware. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// LoggerFromContext returns base with a request_id field when ctx carries
// a request ID.
func LoggerFromContext(ctx context.Context, base logrus.FieldLogger) logrus.FieldLogger {
	if id := RequestIDFromContext(ctx); id != "" {
		return base.WithField("request_id", id)
	}
	return base
}

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName is the header used to propagate the request ID.
	// Defaults to "X-Request-Id" when empty.
	HeaderName string

	// AltHeaderNames are additional headers searched for an incoming ID.
	AltHeaderNames []string

	// QueryNames are the query parameters searched for an incoming ID
	// before the headers. Defaults to DefaultRequestIDQueryNames; an empty
	// non-nil slice disables the query search.
	QueryNames []string

	// GenerateFunc returns a new unique ID. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses an ID found in the query or the headers instead
	// of generating a new one.
	TrustIncoming bool
}

// RequestIDMiddleware returns a middleware that generates or propagates a
// request ID. The ID is set on the request header, the response header and
// the request context.
func RequestIDMiddleware(cfg RequestIDConfig) mux.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-Id"
	}

	queryNames := cfg.QueryNames
	if queryNames == nil {
		queryNames = DefaultRequestIDQueryNames
	}
	headerNames := append([]string{headerName}, cfg.AltHeaderNames...)

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.TrustIncoming {
				id = incomingRequestID(r, queryNames, headerNames)
			}

			if id == "" {
				id = generate(r)
			}

			if id != "" {
				r.Header.Set(headerName, id)
				w.Header().Set(headerName, id)
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func incomingRequestID(r *http.Request, queryNames, headerNames []string) string {
	if len(queryNames) > 0 {
		q := r.URL.Query()
		for _, name := range queryNames {
			if id := q.Get(name); id != "" {
				return id
			}
		}
	}
	for _, name := range headerNames {
		if id := r.Header.Get(name); id != "" {
			return id
		}
	}
	return ""
}

// GenerateUUIDv4 returns a new random UUID.
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new time-ordered UUID: IDs generated later sort
// after earlier ones.
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}

package muxhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives an error entry for every recovered panic. When nil,
	// the logrus standard logger is used.
	Logger logrus.FieldLogger

	// PrintStack adds the goroutine stack to the log entry.
	PrintStack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers, logs them and answers 500 Internal Server Error.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				entry := LoggerFromContext(r.Context(), logger).WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
				})
				if cfg.PrintStack {
					entry = entry.WithField("stack", string(debug.Stack()))
				}
				entry.Error("recovered from panic")

				mux.ResponseError(w, http.StatusInternalServerError, "")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package muxhandlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/mux"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	// Logger receives one info entry per request. When nil, the logrus
	// standard logger is used.
	Logger logrus.FieldLogger
}

// AccessLogMiddleware logs method, URI, status, response size and duration
// of every request. The request ID is included when RequestIDMiddleware
// runs earlier in the chain.
func AccessLogMiddleware(cfg AccessLogConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			LoggerFromContext(r.Context(), logger).WithFields(logrus.Fields{
				"method":        r.Method,
				"uri":           r.RequestURI,
				"status":        sw.status,
				"response-size": sw.size,
				"duration":      time.Since(start).Milliseconds(),
			}).Info("request served")
		})
	}
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

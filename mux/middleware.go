package mux

import (
	"net/http"
	"strings"
)

// CORSMethodMiddleware sets the Access-Control-Allow-Methods response
// header (Fetch Standard, CORS protocol) to the methods t has registered
// for the request path below basePath. Paths without endpoints get no
// header.
func CORSMethodMiddleware(t *Table, basePath string) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if methods := t.AllowedMethods(cleanPath(req.URL.Path), basePath); len(methods) > 0 {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
			}
			next.ServeHTTP(w, req)
		})
	}
}

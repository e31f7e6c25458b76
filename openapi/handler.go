package openapi

import (
	"encoding/json"
	"fmt"
	"html"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/restmux/mux"
	"gopkg.in/yaml.v3"
)

// HandlerConfig configures Spec.Handler.
type HandlerConfig struct {
	// Title overrides the HTML page title (default: info.title).
	Title string

	// DisableDocs disables the interactive HTML docs page.
	DisableDocs bool
}

// encoded is a document serialized once on first request.
type encoded struct {
	once sync.Once
	data []byte
	err  error
}

func (e *encoded) get(build func() ([]byte, error)) ([]byte, error) {
	e.once.Do(func() {
		defer func() {
			if rv := recover(); rv != nil {
				e.err = fmt.Errorf("%v", rv)
			}
		}()
		e.data, e.err = build()
	})
	return e.data, e.err
}

// Handler serves the document. Mounted on a mux.PrefixRouter, the request
// tail selects the representation:
//
//	<prefix>              JSON, or YAML when the Accept header asks for it
//	<prefix>/json         JSON
//	<prefix>/yaml         YAML
//	<prefix>/docs         Swagger UI page (unless DisableDocs)
//
// "openapi.json", "schema.json" and their YAML counterparts are accepted
// as tails too. The document is built and serialized on first request and
// cached.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func (s *Spec) Handler(cfg *HandlerConfig) http.Handler {
	if cfg == nil {
		cfg = &HandlerConfig{}
	}

	var (
		docOnce sync.Once
		doc     *Document
		asJSON  encoded
		asYAML  encoded
	)
	build := func() *Document {
		docOnce.Do(func() { doc = s.Build() })
		return doc
	}

	serveJSON := func(w http.ResponseWriter) {
		data, err := asJSON.get(func() ([]byte, error) {
			return json.MarshalIndent(build(), "", "  ")
		})
		if err != nil {
			mux.ResponseError(w, http.StatusInternalServerError, "failed to serialize OpenAPI document as JSON")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}

	serveYAML := func(w http.ResponseWriter) {
		data, err := asYAML.get(func() ([]byte, error) {
			return yaml.Marshal(build())
		})
		if err != nil {
			mux.ResponseError(w, http.StatusInternalServerError, "failed to serialize OpenAPI document as YAML")
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch tail := strings.ToLower(mux.Tail(r)); tail {
		case "":
			if acceptsYAML(r.Header.Get("Accept")) {
				serveYAML(w)
				return
			}
			serveJSON(w)
		case "json", "openapi.json", "schema.json":
			serveJSON(w)
		case "yaml", "yml", "openapi.yaml", "schema.yaml":
			serveYAML(w)
		case "docs":
			if cfg.DisableDocs {
				mux.ResponseError(w, http.StatusNotFound, "")
				return
			}
			title := cfg.Title
			if title == "" {
				title = s.info.Title
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(swaggerUIPage(title, "json")))
		default:
			mux.ResponseError(w, http.StatusNotFound, "")
		}
	})
}

// acceptsYAML reports whether a YAML media type is listed in accept.
func acceptsYAML(accept string) bool {
	for part := range strings.SplitSeq(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			return true
		}
	}
	return false
}

func swaggerUIPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"});
</script>
</body>
</html>`, html.EscapeString(title), specURL)
}

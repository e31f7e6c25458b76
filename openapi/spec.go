package openapi

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/restmux/mux"
)

// mount is a table served below a base path.
type mount struct {
	table    *mux.Table
	basePath string
}

// Spec collects the tables of a server and the hand-written documentation
// of their endpoints, and builds a Document from them.
type Spec struct {
	info       Info
	servers    []Server
	tags       []Tag
	mounts     []mount
	operations map[string]*OperationBuilder
	logger     logrus.FieldLogger
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:       info,
		operations: make(map[string]*OperationBuilder),
		logger:     logrus.StandardLogger(),
	}
}

// Describe builds the document of tables served at the root path.
func Describe(info Info, tables ...*mux.Table) *Document {
	s := NewSpec(info)
	for _, t := range tables {
		s.AddTable(t, "")
	}
	return s.Build()
}

// SetLogger sets the logger used to report endpoints that cannot be
// documented.
func (s *Spec) SetLogger(l logrus.FieldLogger) *Spec {
	if l != nil {
		s.logger = l
	}
	return s
}

// AddServer adds a server to the document.
func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

// AddTag adds a tag definition, typically describing a table.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// AddTable documents the endpoints of t below basePath, as mounted with
// mux.PrefixRouter.Mount. Endpoints are read when the document is built.
func (s *Spec) AddTable(t *mux.Table, basePath string) *Spec {
	s.mounts = append(s.mounts, mount{table: t, basePath: strings.TrimRight(basePath, "/")})
	return s
}

// Op returns the builder for the endpoint named name, creating it on first
// use. Endpoint names are "METHOD /template" unless the route sets one.
func (s *Spec) Op(name string) *OperationBuilder {
	b, ok := s.operations[name]
	if !ok {
		b = newOperationBuilder()
		s.operations[name] = b
	}
	return b
}

// Build assembles the document from the current endpoints of every added
// table.
func (s *Spec) Build() *Document {
	doc := &Document{
		OpenAPI: Version,
		Info:    s.info,
		Servers: s.servers,
		Tags:    s.tags,
		Paths:   make(map[string]*PathItem),
	}

	for _, m := range s.mounts {
		for e := range m.table.All() {
			path, suffixes := convertTemplate(e.Template)
			full := joinPath(m.basePath, path)

			item, ok := doc.Paths[full]
			if !ok {
				item = &PathItem{}
			}

			op := s.operations[e.Name].buildOperation(e, path, suffixes)
			if !item.setOperation(e.Method, op) {
				s.logger.WithFields(logrus.Fields{
					"method": e.Method,
					"path":   e.Template,
				}).Warn("method cannot be described in OpenAPI")
				continue
			}
			doc.Paths[full] = item
		}
	}

	return doc
}

// convertTemplate turns a route template into an OpenAPI path by dropping
// placeholder suffixes: "/users/{id:int}" becomes "/users/{id}". The
// suffixes are returned by placeholder name.
func convertTemplate(template string) (string, map[string]string) {
	var (
		b        strings.Builder
		suffixes map[string]string
	)

	for i := 0; i < len(template); i++ {
		if template[i] != '{' {
			b.WriteByte(template[i])
			continue
		}

		end := closingBrace(template, i)
		if end < 0 {
			b.WriteString(template[i:])
			break
		}

		name, suffix, found := strings.Cut(template[i+1:end], ":")
		b.WriteString("{" + name + "}")
		if found {
			if suffixes == nil {
				suffixes = make(map[string]string)
			}
			suffixes[name] = suffix
		}
		i = end
	}

	path := b.String()
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, suffixes
}

func joinPath(base, path string) string {
	if base == "" {
		return path
	}
	if path == "/" {
		return base
	}
	return base + path
}

// closingBrace returns the index of the brace closing the one at
// s[open], or -1.
func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return -1
}

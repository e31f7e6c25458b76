package openapi

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/vitalvas/restmux/mux"
)

// operationMeta holds the documentation added to an endpoint by hand.
type operationMeta struct {
	operationID string
	summary     string
	description string
	tags        []string
	deprecated  bool
	responses   map[string]string
}

// OperationBuilder documents one endpoint. Obtain one with Spec.Op.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type OperationBuilder struct {
	meta operationMeta
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{}
}

// OperationID overrides the generated operation ID.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.meta.operationID = id
	return b
}

// Summary sets a short summary of the operation.
func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.meta.summary = s
	return b
}

// Description sets a verbose explanation of the operation. CommonMark
// syntax may be used.
func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.meta.description = d
	return b
}

// Tags replaces the table name as the operation tags.
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.meta.tags = append(b.meta.tags, tags...)
	return b
}

// Deprecated marks the operation as deprecated.
func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.meta.deprecated = true
	return b
}

// ResponseDescription overrides the description of a response.
func (b *OperationBuilder) ResponseDescription(statusCode int, desc string) *OperationBuilder {
	if b.meta.responses == nil {
		b.meta.responses = make(map[string]string)
	}
	b.meta.responses[statusKey(statusCode)] = desc
	return b
}

// buildOperation describes e. b may be nil.
func (b *OperationBuilder) buildOperation(e *mux.Endpoint, path string, suffixes map[string]string) *Operation {
	var meta operationMeta
	if b != nil {
		meta = b.meta
	}

	op := &Operation{
		OperationID: meta.operationID,
		Summary:     meta.summary,
		Description: meta.description,
		Tags:        meta.tags,
		Deprecated:  meta.deprecated,
	}
	if op.OperationID == "" {
		op.OperationID = operationID(e, path)
	}
	if len(op.Tags) == 0 {
		op.Tags = []string{e.Table.Name()}
	}

	for _, d := range e.PathArgs {
		op.Parameters = append(op.Parameters, pathParameter(d, suffixes[d.Name]))
	}
	for _, d := range e.QueryArgs {
		op.Parameters = append(op.Parameters, parameter(d, "query"))
	}
	for _, d := range e.HeaderArgs {
		op.Parameters = append(op.Parameters, parameter(d, "header"))
	}

	if len(e.BodyArgs) > 0 {
		schema := bodySchema(e.BodyArgs)
		op.RequestBody = &RequestBody{
			Required: len(schema.Required) > 0,
			Content: map[string]*MediaType{
				"application/json":                  {Schema: schema},
				"application/x-www-form-urlencoded": {Schema: schema},
			},
		}
	}

	op.Responses = map[string]*Response{
		statusKey(http.StatusOK): {Description: http.StatusText(http.StatusOK)},
	}
	if len(op.Parameters) > 0 || op.RequestBody != nil {
		op.Responses[statusKey(http.StatusBadRequest)] = &Response{
			Description: "Invalid argument",
			Content:     map[string]*MediaType{"application/json": {Schema: errorSchema()}},
		}
	}
	for key, desc := range meta.responses {
		if resp, ok := op.Responses[key]; ok {
			resp.Description = desc
			continue
		}
		op.Responses[key] = &Response{Description: desc}
	}

	return op
}

func parameter(d mux.Descriptor, in string) *Parameter {
	return &Parameter{
		Name:     d.Name,
		In:       in,
		Required: d.Required,
		Schema:   DescriptorSchema(d),
	}
}

// pathParameter describes a path argument. Macro and raw expression
// suffixes of the template narrow the string schema.
func pathParameter(d mux.Descriptor, suffix string) *Parameter {
	p := parameter(d, "path")
	p.Required = true

	if suffix == "" || len(p.Schema.Enum) > 0 {
		return p
	}
	if _, err := mux.ParseArgType(suffix); err == nil {
		return p
	}

	p.Schema = &Schema{Type: TypeString("string")}
	if format, ok := macroFormats[suffix]; ok {
		p.Schema.Format = format
	} else {
		p.Schema.Pattern = "^(?:" + suffix + ")$"
	}
	return p
}

// operationID returns the endpoint name when it was set explicitly, and
// otherwise a camelCase ID such as getUsersById.
func operationID(e *mux.Endpoint, path string) string {
	if e.Name != e.Method+" "+e.Template {
		return e.Name
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(e.Method))

	words := 0
	for seg := range strings.SplitSeq(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("By")
			seg = seg[1 : len(seg)-1]
		}
		for word := range strings.FieldsFuncSeq(seg, isSeparator) {
			b.WriteString(capitalize(word))
			words++
		}
	}
	if words == 0 {
		b.WriteString("Root")
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func statusKey(code int) string {
	return strconv.Itoa(code)
}

package openapi

import (
	"fmt"
	"time"

	"github.com/vitalvas/restmux/mux"
)

// typeSchemas maps argument types to their OpenAPI type and format.
var typeSchemas = map[mux.ArgType][2]string{
	mux.TypeString: {"string", ""},
	mux.TypeInt:    {"integer", "int64"},
	mux.TypeFloat:  {"number", "double"},
	mux.TypeBool:   {"boolean", ""},
	mux.TypeList:   {"array", ""},
	mux.TypeMap:    {"object", ""},
	mux.TypeUUID:   {"string", "uuid"},
	mux.TypeTime:   {"string", "date-time"},
}

// macroFormats maps path macros to the string format they enforce.
var macroFormats = map[string]string{
	"slug":     "",
	"alpha":    "",
	"alphanum": "",
	"date":     "date",
	"hex":      "",
}

// TypeSchema returns the schema of a single argument type. TypeAny yields
// the empty schema.
func TypeSchema(t mux.ArgType) *Schema {
	ts, ok := typeSchemas[t]
	if !ok {
		return &Schema{}
	}

	s := &Schema{Type: TypeString(ts[0]), Format: ts[1]}
	switch t {
	case mux.TypeList:
		s.Items = &Schema{}
	case mux.TypeMap:
		s.AdditionalProperties = &Schema{}
	}
	return s
}

// DescriptorSchema returns the schema of the values a descriptor accepts.
// Literal sets become an enum, several types a oneOf and optional
// arguments carry their default.
func DescriptorSchema(d mux.Descriptor) *Schema {
	var s *Schema

	switch {
	case d.Kind == mux.KindOneOfLiteral:
		s = &Schema{Enum: jsonValues(d.Values)}
	case d.AcceptsAny():
		s = &Schema{}
	case len(d.Types) == 1:
		s = TypeSchema(d.Types[0])
	default:
		s = &Schema{}
		for _, t := range d.Types {
			s.OneOf = append(s.OneOf, TypeSchema(t))
		}
	}

	if !d.Required && d.Default != nil {
		s.Default = jsonValue(d.Default)
	}
	return s
}

// bodySchema describes the body fields of an endpoint as one object.
func bodySchema(args []mux.Descriptor) *Schema {
	s := &Schema{
		Type:       TypeString("object"),
		Properties: make(map[string]*Schema, len(args)),
	}
	for _, d := range args {
		s.Properties[d.Name] = DescriptorSchema(d)
		if d.Required {
			s.Required = append(s.Required, d.Name)
		}
	}
	return s
}

// errorSchema describes mux.ErrorResponse.
func errorSchema() *Schema {
	return &Schema{
		Type: TypeString("object"),
		Properties: map[string]*Schema{
			"code":     {Type: TypeString("integer")},
			"message":  {Type: TypeString("string")},
			"argument": {Type: TypeString("string")},
			"source":   {Type: TypeString("string"), Enum: []any{"path", "query", "body", "header"}},
		},
		Required: []string{"code", "message"},
	}
}

// jsonValue converts a literal to a value both encoders render as the
// client would send it.
func jsonValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}
	return v
}

func jsonValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = jsonValue(v)
	}
	return out
}

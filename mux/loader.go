package mux

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// RouteFile is the document read by LoadRoutes:
//
//	routes:
//	  - path: /users/{id:int}
//	    methods: [GET, DELETE]
//	    action: user
//	    simple_return: true
//	    query_args:
//	      - "?expand"
//	      - name: format
//	        one_of: [json, csv]
//	        default: json
//	    header_args:
//	      - name: X-Tenant
//	        types: [int]
type RouteFile struct {
	Routes []RouteSpec `yaml:"routes" validate:"required,dive"`
}

// RouteSpec is one route of a RouteFile. Action names an entry of the
// action map given to LoadRoutes.
type RouteSpec struct {
	Name    string   `yaml:"name"`
	Path    string   `yaml:"path" validate:"required,startswith=/"`
	Methods []string `yaml:"methods" validate:"dive,required"`
	Action  string   `yaml:"action" validate:"required"`

	PathArgs   []Decl `yaml:"path_args"`
	QueryArgs  []Decl `yaml:"query_args"`
	BodyArgs   []Decl `yaml:"body_args"`
	HeaderArgs []Decl `yaml:"header_args"`

	CapitalizationFallback bool `yaml:"capitalization_fallback"`
	SimpleReturn           bool `yaml:"simple_return"`
}

// Route returns the registration form of s.
func (s RouteSpec) Route() Route {
	return Route{
		Path:                   s.Path,
		Methods:                s.Methods,
		PathArgs:               s.PathArgs,
		QueryArgs:              s.QueryArgs,
		BodyArgs:               s.BodyArgs,
		HeaderArgs:             s.HeaderArgs,
		CapitalizationFallback: s.CapitalizationFallback,
		SimpleReturn:           s.SimpleReturn,
		Name:                   s.Name,
	}
}

// LoadRoutes reads a RouteFile and registers every route in t with the
// action of the same name. Nothing is registered unless the whole file is
// valid and every action exists; registration errors stop at the first
// failing route.
func LoadRoutes(r io.Reader, t *Table, actions map[string]Action) ([]*Endpoint, error) {
	var file RouteFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("mux: decode routes: %w", err)
	}

	if err := configValidator.Struct(file); err != nil {
		return nil, fmt.Errorf("mux: invalid routes: %w", err)
	}

	for _, spec := range file.Routes {
		if _, ok := actions[spec.Action]; !ok {
			return nil, declarationError(spec.Path, "unknown action %q", spec.Action)
		}
	}

	var endpoints []*Endpoint
	for _, spec := range file.Routes {
		eps, err := t.Register(spec.Route(), actions[spec.Action])
		if err != nil {
			return endpoints, err
		}
		endpoints = append(endpoints, eps...)
	}

	return endpoints, nil
}

// declFields are the keys of the mapping form of a declaration.
var declFields = map[string]bool{
	"name":     true,
	"types":    true,
	"default":  true,
	"one_of":   true,
	"optional": true,
}

// UnmarshalYAML reads a declaration either as a string in the Arg grammar
// or as a mapping with name, types, default, one_of and optional keys.
func (d *Decl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		*d = Arg(name)
		return nil
	}

	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: argument must be a string or a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if key := value.Content[i].Value; !declFields[key] {
			return fmt.Errorf("line %d: unknown argument field %q", value.Content[i].Line, key)
		}
	}

	var raw struct {
		Name     string    `yaml:"name"`
		Types    []ArgType `yaml:"types"`
		Default  yaml.Node `yaml:"default"`
		OneOf    []any     `yaml:"one_of"`
		Optional bool      `yaml:"optional"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	decl := Decl{name: raw.Name, types: raw.Types, oneOf: raw.OneOf}

	switch {
	case !raw.Default.IsZero():
		var def any
		if err := raw.Default.Decode(&def); err != nil {
			return err
		}
		decl = decl.Default(def)
	case raw.Optional:
		decl = decl.Default(nil)
	}

	*d = decl
	return nil
}

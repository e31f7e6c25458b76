package mux

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Kind classifies a Descriptor.
type Kind int

const (
	// KindRequired arguments must be present in their source.
	KindRequired Kind = iota
	// KindOptionalWithDefault arguments fall back to Descriptor.Default.
	KindOptionalWithDefault
	// KindOneOfLiteral arguments must equal one of Descriptor.Values.
	KindOneOfLiteral
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptionalWithDefault:
		return "optional"
	case KindOneOfLiteral:
		return "one-of"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Descriptor is the canonical form of an argument declaration.
// It is built once at registration and never modified.
type Descriptor struct {
	Name string
	Kind Kind
	// Types lists the allowed types in declaration order. Empty means any.
	Types []ArgType
	// Values is the literal set of a KindOneOfLiteral descriptor.
	Values []any
	// Default is returned when an optional argument is missing.
	Default any
	// Required is false for optional arguments, including one-of
	// arguments declared with a default.
	Required bool
}

// AcceptsAny reports whether any value is accepted as is.
func (d Descriptor) AcceptsAny() bool {
	return d.Kind != KindOneOfLiteral && (len(d.Types) == 0 || slices.Contains(d.Types, TypeAny))
}

// Accepts reports whether t is one of the allowed types.
func (d Descriptor) Accepts(t ArgType) bool {
	return slices.Contains(d.Types, t)
}

// Decl is an argument declaration as written at a registration site.
// Build one with Arg, ArgDefault or ArgOneOf.
type Decl struct {
	name       string
	types      []ArgType
	def        any
	hasDefault bool
	oneOf      []any
}

// Arg declares an argument. The name accepts a small grammar:
//
//	"name"          required
//	"?name"         optional, nil when missing
//	"name=default"  optional with the literal text default
//
// Types restrict the accepted values and are tried in order.
// No types means any value is accepted.
func Arg(name string, types ...ArgType) Decl {
	return Decl{name: name, types: types}
}

// ArgDefault declares an optional argument that is def when missing.
func ArgDefault(name string, def any, types ...ArgType) Decl {
	return Decl{name: name, types: types, def: def, hasDefault: true}
}

// ArgOneOf declares a required argument restricted to a literal set.
// Chain Default to make it optional.
func ArgOneOf(name string, values ...any) Decl {
	if values == nil {
		values = []any{}
	}
	return Decl{name: name, oneOf: values}
}

// Default returns a copy of d that is optional with def as its default.
func (d Decl) Default(def any) Decl {
	d.def = def
	d.hasDefault = true
	return d
}

// Name returns the argument name with grammar markers removed.
func (d Decl) Name() string {
	name := strings.TrimPrefix(d.name, "?")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name
}

// Canonicalize turns a declaration into its Descriptor.
func Canonicalize(d Decl) (Descriptor, error) {
	name := strings.TrimSpace(d.name)
	desc := Descriptor{
		Kind:     KindRequired,
		Required: true,
		Types:    slices.Clone(d.types),
	}

	if strings.HasPrefix(name, "?") {
		name = name[1:]
		desc.Kind = KindOptionalWithDefault
		desc.Required = false
	}

	if before, after, found := strings.Cut(name, "="); found {
		if d.hasDefault {
			return Descriptor{}, declarationError(d.name, "default given both inline and explicitly")
		}
		name = before
		desc.Kind = KindOptionalWithDefault
		desc.Required = false
		desc.Default = after
	}

	if d.hasDefault {
		desc.Kind = KindOptionalWithDefault
		desc.Required = false
		desc.Default = d.def
	}

	if name == "" {
		return Descriptor{}, declarationError(d.name, "argument name is empty")
	}
	if strings.ContainsAny(name, "{}/ \t") {
		return Descriptor{}, declarationError(d.name, "argument name contains reserved characters")
	}
	desc.Name = name

	if d.oneOf != nil {
		if len(d.oneOf) == 0 {
			return Descriptor{}, declarationError(name, "empty literal set")
		}
		if len(d.types) > 0 {
			return Descriptor{}, declarationError(name, "literal set combined with types")
		}
		desc.Kind = KindOneOfLiteral
		desc.Values = slices.Clone(d.oneOf)
	}

	for _, t := range desc.Types {
		if t < TypeAny || t > TypeTime {
			return Descriptor{}, declarationError(name, "unknown type %s", t)
		}
	}

	return desc, nil
}

// canonicalizeList canonicalizes the declarations of one source.
// Names must be unique case-insensitively because lookups are.
func canonicalizeList(src Source, decls []Decl) ([]Descriptor, error) {
	if len(decls) == 0 {
		return nil, nil
	}

	out := make([]Descriptor, 0, len(decls))
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		desc, err := Canonicalize(d)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(desc.Name)
		if seen[key] {
			return nil, declarationError(desc.Name, "duplicated %s argument", src)
		}
		seen[key] = true

		if src == SourceHeader && !httpguts.ValidHeaderFieldName(desc.Name) {
			return nil, declarationError(desc.Name, "not a valid header field name")
		}

		out = append(out, desc)
	}
	return out, nil
}

package mux

import (
	"regexp"
	"strings"
)

// unconstrainedFragment matches one path segment of any content.
const unconstrainedFragment = `[^/?#]+`

// typeFragments maps argument types to the expression used for their path
// captures. Types without an entry are unconstrained.
var typeFragments = map[ArgType]string{
	TypeInt:   `[0-9]+`,
	TypeFloat: `[0-9]+(?:\.[0-9]*)?`,
	TypeBool:  `true|false`,
	TypeUUID:  `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
}

// patternMacros are named expressions usable as placeholder suffixes,
// {name:macro}, in addition to the argument type names. Their captures
// bind as strings.
var patternMacros = map[string]string{
	"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":      `[0-9a-fA-F]+`,
}

// fragmentFor returns the capture expression for a descriptor. A literal
// set becomes an alternation of its quoted values; several types become
// an alternation of their fragments unless one of them is unconstrained.
func fragmentFor(d Descriptor) string {
	if d.Kind == KindOneOfLiteral {
		alts := make([]string, 0, len(d.Values))
		for _, v := range d.Values {
			alts = append(alts, quoteLiteral(v))
		}
		return strings.Join(alts, "|")
	}

	if d.AcceptsAny() {
		return unconstrainedFragment
	}

	alts := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		f, ok := typeFragments[t]
		if !ok {
			return unconstrainedFragment
		}
		alts = append(alts, f)
	}
	return strings.Join(alts, "|")
}

// expandSuffix resolves the part after the colon in {name:suffix}.
// Argument type names yield a typed descriptor, macros a string
// descriptor, and anything else is used as a raw expression.
func expandSuffix(name, suffix string) (Descriptor, string) {
	d := Descriptor{Name: name, Kind: KindRequired, Required: true}
	if t, err := ParseArgType(suffix); err == nil {
		if t != TypeAny {
			d.Types = []ArgType{t}
		}
		return d, fragmentFor(d)
	}
	if m, ok := patternMacros[suffix]; ok {
		d.Types = []ArgType{TypeString}
		return d, m
	}
	d.Types = []ArgType{TypeString}
	return d, suffix
}

func quoteLiteral(v any) string {
	return regexp.QuoteMeta(formatValue(v))
}

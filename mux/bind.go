package mux

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidBody is returned by DecodeJSONBody for bodies that are not a
// single valid JSON value.
var ErrInvalidBody = errors.New("request body is not valid JSON")

// BindOptions tune Bind.
type BindOptions struct {
	// CapitalizationFallback retries missing names in camelCase and then
	// snake_case, and stores the results under snake_case keys.
	CapitalizationFallback bool
	// NoTrim keeps surrounding whitespace of text values.
	NoTrim bool
}

// Bind resolves every descriptor against values and returns the coerced
// arguments.
//
// Names are matched case-insensitively. A missing required argument yields
// an *ArgumentError wrapping ErrMissingArgument and a value that fails all
// coercions one wrapping ErrArgumentTypeMismatch; binding stops at the first
// failure. values is never modified.
func Bind(src Source, decls []Descriptor, values map[string]any, opts BindOptions) (Args, error) {
	out := make(Args, len(decls))
	if err := bindInto(out, src, decls, values, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func bindInto(dst Args, src Source, decls []Descriptor, values map[string]any, opts BindOptions) error {
	if len(decls) == 0 {
		return nil
	}
	lowered := lowerKeys(values)

	for _, d := range decls {
		key := resultName(d.Name, opts.CapitalizationFallback)

		raw, found := lookup(lowered, d.Name, opts.CapitalizationFallback)
		if !found {
			if d.Required {
				return missingArgument(src, d.Name)
			}
			dst[key] = d.Default
			continue
		}

		v, err := coerce(src, d, normalize(d, raw, !opts.NoTrim))
		if err != nil {
			return err
		}
		dst[key] = v
	}
	return nil
}

func lookup(values map[string]any, name string, fallback bool) (any, bool) {
	for _, n := range lookupNames(name, fallback) {
		if v, ok := values[n]; ok {
			return v, true
		}
	}
	return nil, false
}

// lowerKeys returns a copy of values keyed by lower-cased names. Keys that
// collide after lower-casing resolve to the lexically smallest original.
func lowerKeys(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		lk := strings.ToLower(k)
		if _, ok := out[lk]; !ok {
			out[lk] = values[k]
		}
	}
	return out
}

// ValuesSource converts query or form values to a binding source.
func ValuesSource(v url.Values) map[string]any {
	out := make(map[string]any, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}

// HeaderSource converts request headers to a binding source.
func HeaderSource(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, vals := range h {
		out[k] = slices.Clone(vals)
	}
	return out
}

// VarsSource converts path captures to a binding source.
func VarsSource(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}

// DecodeJSONBody reads a JSON body into body fields. An object yields its
// members, any other value is stored under "value" and an empty body
// yields no fields. Anything but exactly one valid JSON value returns
// ErrInvalidBody.
func DecodeJSONBody(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidBody
	}

	switch v := JSONValue(gjson.ParseBytes(data)).(type) {
	case map[string]any:
		return v, nil
	default:
		return map[string]any{"value": v}, nil
	}
}

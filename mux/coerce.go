package mux

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// normalize prepares a raw source value for coercion: byte slices become
// text, a single-element list is unwrapped unless lists are accepted, and
// text is trimmed unless trim is false.
func normalize(d Descriptor, v any, trim bool) any {
	switch x := v.(type) {
	case []byte:
		v = string(x)
	case []string:
		if len(x) == 1 && !d.Accepts(TypeList) {
			v = x[0]
		}
	case []any:
		if len(x) == 1 && !d.Accepts(TypeList) {
			v = x[0]
		}
	}

	if s, ok := v.(string); ok && trim {
		v = strings.TrimSpace(s)
	}
	return v
}

// coerce converts v according to d. The checks run in a fixed order and
// the first success wins: any type, equality with the default, literal set
// membership, then each allowed type in declared order, trying an exact
// type match before parsing text.
func coerce(src Source, d Descriptor, v any) (any, error) {
	if d.AcceptsAny() {
		return v, nil
	}

	if !d.Required && reflect.DeepEqual(v, d.Default) {
		return v, nil
	}

	if d.Kind == KindOneOfLiteral {
		if lit, ok := oneOf(d.Values, v); ok {
			return lit, nil
		}
		return nil, typeMismatch(src, d.Name, fmt.Sprintf(
			"argument %q must be one of %s, got %q", d.Name, formatValues(d.Values), formatValue(v)))
	}

	s, isText := v.(string)
	for _, t := range d.Types {
		if out, ok := exactType(t, v); ok {
			return out, nil
		}
		if isText {
			if out, ok := parseText(t, s); ok {
				return out, nil
			}
		}
	}

	return nil, typeMismatch(src, d.Name, fmt.Sprintf(
		"argument %q must be of type %s, got %q", d.Name, formatTypes(d.Types), formatValue(v)))
}

func oneOf(values []any, v any) (any, bool) {
	for _, lit := range values {
		if reflect.DeepEqual(lit, v) {
			return lit, true
		}
	}
	text := formatValue(v)
	for _, lit := range values {
		if formatValue(lit) == text {
			return lit, true
		}
	}
	return nil, false
}

// exactType converts values that already have the Go representation of t.
// Integer kinds widen to int64 and float kinds to float64; an integral
// float64, as produced by JSON decoders, counts as an int.
func exactType(t ArgType, v any) (any, bool) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeInt:
		switch x := v.(type) {
		case int:
			return int64(x), true
		case int32:
			return int64(x), true
		case int64:
			return x, true
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				return int64(x), true
			}
		}
	case TypeFloat:
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		case int64:
			return float64(x), true
		case int:
			return float64(x), true
		}
	case TypeBool:
		b, ok := v.(bool)
		return b, ok
	case TypeList:
		switch x := v.(type) {
		case []any:
			return x, true
		case []string:
			out := make([]any, len(x))
			for i, s := range x {
				out[i] = s
			}
			return out, true
		}
	case TypeMap:
		m, ok := v.(map[string]any)
		return m, ok
	case TypeUUID:
		u, ok := v.(uuid.UUID)
		return u, ok
	case TypeTime:
		tm, ok := v.(time.Time)
		return tm, ok
	}
	return nil, false
}

// parseText converts the text form of a value. Structured types go
// through a JSON decode.
func parseText(t ArgType, s string) (any, bool) {
	switch t {
	case TypeBool:
		switch {
		case strings.EqualFold(s, "true"):
			return true, true
		case strings.EqualFold(s, "false"):
			return false, true
		}
	case TypeInt:
		if r, ok := parseJSON(s); ok && r.Type == gjson.Number && isIntegral(r.Raw) {
			n, err := strconv.ParseInt(r.Raw, 10, 64)
			return n, err == nil
		}
	case TypeFloat:
		if r, ok := parseJSON(s); ok && r.Type == gjson.Number {
			return r.Float(), true
		}
	case TypeList:
		if r, ok := parseJSON(s); ok && r.IsArray() {
			return JSONValue(r), true
		}
	case TypeMap:
		if r, ok := parseJSON(s); ok && r.IsObject() {
			return JSONValue(r), true
		}
	case TypeUUID:
		if u, err := uuid.Parse(s); err == nil {
			return u, true
		}
	case TypeTime:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if tm, err := time.Parse(layout, s); err == nil {
				return tm, true
			}
		}
	}
	return nil, false
}

func parseJSON(s string) (gjson.Result, bool) {
	if !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	return gjson.Parse(s), true
}

func isIntegral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}

// JSONValue converts a parsed JSON value to plain Go values. Objects become
// map[string]any, arrays []any, integral numbers int64 and other numbers
// float64.
func JSONValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(k, v gjson.Result) bool {
			m[k.String()] = JSONValue(v)
			return true
		})
		return m
	case r.IsArray():
		arr := r.Array()
		out := make([]any, len(arr))
		for i, v := range arr {
			out[i] = JSONValue(v)
		}
		return out
	}

	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if isIntegral(r.Raw) {
			if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return n
			}
		}
		return r.Float()
	case gjson.String:
		return r.String()
	}
	return r.Value()
}

// formatValue renders a value the way it appears in a URL or header.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatTypes(types []ArgType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " or ")
}

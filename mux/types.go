package mux

import (
	"fmt"
	"strings"
)

// ArgType is a type an argument value may be coerced to.
type ArgType int

const (
	// TypeAny accepts every value unchanged.
	TypeAny ArgType = iota
	// TypeString accepts text.
	TypeString
	// TypeInt accepts integers and produces int64.
	TypeInt
	// TypeFloat accepts numbers and produces float64.
	TypeFloat
	// TypeBool accepts booleans and the case-insensitive words true and false.
	TypeBool
	// TypeList accepts JSON arrays and repeated values and produces []any.
	TypeList
	// TypeMap accepts JSON objects and produces map[string]any.
	TypeMap
	// TypeUUID accepts RFC 9562 UUIDs and produces uuid.UUID.
	TypeUUID
	// TypeTime accepts RFC 3339 timestamps and produces time.Time.
	TypeTime
)

var argTypeNames = [...]string{
	TypeAny:    "any",
	TypeString: "string",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeList:   "list",
	TypeMap:    "map",
	TypeUUID:   "uuid",
	TypeTime:   "time",
}

func (t ArgType) String() string {
	if t >= 0 && int(t) < len(argTypeNames) {
		return argTypeNames[t]
	}
	return fmt.Sprintf("ArgType(%d)", int(t))
}

// ParseArgType returns the ArgType named s. Names are case-insensitive and
// accept the common aliases used in route files ("str", "integer",
// "number", "boolean", "array", "object", "dict").
func ParseArgType(s string) (ArgType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return TypeAny, nil
	case "string", "str":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "float", "number":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "list", "array":
		return TypeList, nil
	case "map", "object", "dict":
		return TypeMap, nil
	case "uuid":
		return TypeUUID, nil
	case "time", "datetime":
		return TypeTime, nil
	}
	return TypeAny, fmt.Errorf("%w: unknown argument type %q", ErrInvalidDeclaration, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ArgType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ArgType) UnmarshalText(b []byte) error {
	v, err := ParseArgType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Source identifies where an argument is read from.
type Source int

const (
	SourcePath Source = iota
	SourceQuery
	SourceBody
	SourceHeader
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceBody:
		return "body"
	case SourceHeader:
		return "header"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Args holds bound argument values keyed by argument name.
type Args map[string]any

// Has reports whether name was bound, including to a nil default.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// ArgValue returns the bound value of name converted to T.
// The second result is false when the argument is absent or of another type.
func ArgValue[T any](a Args, name string) (T, bool) {
	v, ok := a[name].(T)
	return v, ok
}

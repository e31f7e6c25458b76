package mux

import (
	"strings"
	"unicode"
)

// SnakeCase converts a camelCase name to snake_case. Runs of capitals are
// treated as one acronym: "userHTTPId" becomes "user_http_id".
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i == 0 || !unicode.IsUpper(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}

		prevUpper := unicode.IsUpper(runes[i-1])
		nextUpper := i+1 >= len(runes) || unicode.IsUpper(runes[i+1])
		if !prevUpper || !nextUpper {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// CamelCase converts a snake_case name to camelCase: "user_id" becomes
// "userId". A leading underscore is kept as a private marker.
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	if strings.HasPrefix(s, "_") {
		b.WriteByte('_')
		s = s[1:]
	}

	upper := false
	for _, r := range s {
		switch {
		case r == '_':
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// lookupNames returns the lower-cased keys tried for name, in order.
func lookupNames(name string, fallback bool) []string {
	lower := strings.ToLower(name)
	if !fallback {
		return []string{lower}
	}

	names := []string{lower}
	for _, alt := range []string{strings.ToLower(CamelCase(name)), strings.ToLower(SnakeCase(name))} {
		if alt != "" && !matchInArray(names, alt) {
			names = append(names, alt)
		}
	}
	return names
}

// resultName returns the key a bound value is stored under.
func resultName(name string, fallback bool) string {
	if !fallback {
		return name
	}
	return SnakeCase(name)
}

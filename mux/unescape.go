package mux

import (
	"fmt"
	"strings"
)

// patternIdioms are trailing expressions stripped by UnescapePattern. They
// only loosen the end of a match (optional slash, optional query, catch-all
// tail) and carry no key information.
var patternIdioms = []string{
	`(\?.*)`,
	`(\?.+)`,
	`(|(/.*))`,
	`(|/.*)`,
	`(.*)`,
	`.*`,
	`$`,
	`?`,
	`/`,
}

// UnescapePattern turns a path expression back into a routing tree key.
//
// Anchors, the case-insensitivity flag and the trailing idioms in
// patternIdioms are stripped. Named groups become {name} placeholders,
// literal groups are unwrapped and escaped characters are unescaped.
// When exactly one group is present, matchArg is the literal text before
// it with trailing separators removed; it marks where the unconsumed tail
// of a request path begins.
//
// Expressions that still contain regular expression syntax after that
// cannot be keyed and yield ErrUnsupportedMatcherShape.
func UnescapePattern(pattern string) (key, matchArg string, err error) {
	s := strings.TrimPrefix(pattern, "^")
	s = strings.TrimPrefix(s, "(?i)")
	s = trimIdioms(s)

	var (
		b      strings.Builder
		groups int
		prefix string
	)

	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '\\':
			lit, err := unescapeChar(s, i)
			if err != nil {
				return "", "", unsupported(pattern, err.Error())
			}
			b.WriteByte(lit)
			i += 2

		case '(':
			end := closingParen(s, i)
			if end < 0 {
				return "", "", unsupported(pattern, "unbalanced parenthesis")
			}
			inner := s[i+1 : end]

			if groups == 0 {
				prefix = b.String()
			}
			groups++

			if name, ok := groupName(inner); ok {
				b.WriteString("{" + name + "}")
			} else {
				lit, err := unescapeLiteral(strings.TrimPrefix(inner, "?:"))
				if err != nil {
					return "", "", unsupported(pattern, err.Error())
				}
				b.WriteString(lit)
			}
			i = end + 1

		case '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", "", unsupported(pattern, "stray brace")
			}
			name, _, _ := strings.Cut(s[i+1:i+end], ":")
			if !placeholderName.MatchString(name) {
				return "", "", unsupported(pattern, "stray brace")
			}
			b.WriteString("{" + name + "}")
			i += end + 1

		default:
			if strings.IndexByte(`.*+?[]}|^$)`, c) >= 0 {
				return "", "", unsupported(pattern, fmt.Sprintf("operator %q", c))
			}
			b.WriteByte(c)
			i++
		}
	}

	key = strings.TrimRight(b.String(), "/")
	if key == "" {
		key = "/"
	}
	if groups == 1 {
		matchArg = strings.TrimRight(prefix, "/")
	}
	return key, matchArg, nil
}

func unsupported(pattern, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrUnsupportedMatcherShape, pattern, reason)
}

// trimIdioms strips trailing idioms until none applies. An idiom preceded
// by an escaping backslash is literal text and stays.
func trimIdioms(s string) string {
	for {
		trimmed := false
		for _, idiom := range patternIdioms {
			if !strings.HasSuffix(s, idiom) {
				continue
			}
			rest := s[:len(s)-len(idiom)]
			if escaped(rest) {
				continue
			}
			s = rest
			trimmed = true
			break
		}
		if !trimmed {
			return s
		}
	}
}

// escaped reports whether the character following s would be escaped.
func escaped(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// unescapeChar returns the literal character of the escape at s[i].
// Class escapes such as \d or \w have no literal form.
func unescapeChar(s string, i int) (byte, error) {
	if i+1 >= len(s) {
		return 0, fmt.Errorf("trailing backslash")
	}
	c := s[i+1]
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return 0, fmt.Errorf("class escape \\%c", c)
	}
	return c, nil
}

// unescapeLiteral unescapes the body of a non-capturing literal group.
func unescapeLiteral(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			lit, err := unescapeChar(s, i)
			if err != nil {
				return "", err
			}
			b.WriteByte(lit)
			i++
			continue
		}
		if strings.IndexByte(`.*+?[](){}|^$`, c) >= 0 {
			return "", fmt.Errorf("operator %q in group", c)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// groupName returns the name of a named group body "?P<name>..." or
// "?<name>...".
func groupName(inner string) (string, bool) {
	var rest string
	switch {
	case strings.HasPrefix(inner, "?P<"):
		rest = inner[3:]
	case strings.HasPrefix(inner, "?<"):
		rest = inner[2:]
	default:
		return "", false
	}
	end := strings.IndexByte(rest, '>')
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}

// closingParen returns the index of the parenthesis closing the one at
// s[open], skipping escapes and character classes, or -1.
func closingParen(s string, open int) int {
	depth := 0
	inClass := false
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

package mux

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled path template.
//
// The strict expression constrains every capture to its declared type. The
// loose expression accepts any segment in every typed capture, so a request
// that reached the endpoint through the routing tree still yields its
// captures and a bad value is reported by the binder instead of being
// dropped. Macro and raw expression captures keep their expression in both.
type Pattern struct {
	template string
	key      string
	strict   *regexp.Regexp
	loose    *regexp.Regexp
	names    []string
	args     []Descriptor
}

// placeholder is one {name} or {name:suffix} occurrence in a template.
type placeholder struct {
	raw    string // text preceding the placeholder
	name   string
	suffix string
}

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompilePattern compiles a path template into an anchored, case-insensitive
// expression of the form
//
//	^(?i)/literal/(?P<name>fragment)/?(\?.*)?$
//
// Placeholders are {name} or {name:type}. When pathArgs is empty, the
// descriptors are derived from the placeholders and their suffixes;
// otherwise every placeholder must have exactly one descriptor, which then
// decides the capture fragment.
func CompilePattern(template string, pathArgs []Descriptor) (*Pattern, error) {
	phs, tail, err := parseTemplate(template)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Descriptor, len(pathArgs))
	for _, d := range pathArgs {
		byName[d.Name] = d
	}

	var (
		strict strings.Builder
		loose  strings.Builder
		names  = make([]string, 0, len(phs))
		args   = make([]Descriptor, 0, len(phs))
	)

	strict.WriteString("^(?i)")
	loose.WriteString("^(?i)")

	for _, ph := range phs {
		var (
			desc     Descriptor
			fragment string
			relaxed  = unconstrainedFragment
		)
		if len(pathArgs) > 0 {
			d, ok := byName[ph.name]
			if !ok {
				return nil, declarationError(template, "placeholder %q has no path argument", ph.name)
			}
			desc, fragment = d, fragmentFor(d)
		} else if ph.suffix != "" {
			desc, fragment = expandSuffix(ph.name, ph.suffix)
			if fragment != fragmentFor(desc) {
				// macros and raw expressions are not checked by the binder
				relaxed = fragment
			}
		} else {
			desc = Descriptor{Name: ph.name, Kind: KindRequired, Required: true}
			fragment = unconstrainedFragment
		}

		quoted := regexp.QuoteMeta(ph.raw)
		fmt.Fprintf(&strict, "%s(?P<%s>%s)", quoted, ph.name, fragment)
		fmt.Fprintf(&loose, "%s(?P<%s>%s)", quoted, ph.name, relaxed)

		names = append(names, ph.name)
		args = append(args, desc)
	}

	if err := checkDuplicateVars(names); err != nil {
		return nil, declarationError(template, "%v", err)
	}
	if len(pathArgs) > 0 && len(pathArgs) != len(phs) {
		for _, d := range pathArgs {
			if !matchInArray(names, d.Name) {
				return nil, declarationError(template, "path argument %q has no placeholder", d.Name)
			}
		}
	}

	end := regexp.QuoteMeta(strings.TrimSuffix(tail, "/")) + `/?(\?.*)?$`
	strict.WriteString(end)
	loose.WriteString(end)

	strictRe, err := compileRegexp(strict.String())
	if err != nil {
		return nil, declarationError(template, "invalid expression: %v", err)
	}
	looseRe, err := compileRegexp(loose.String())
	if err != nil {
		return nil, declarationError(template, "invalid expression: %v", err)
	}

	return &Pattern{
		template: template,
		key:      templateKey(phs, tail),
		strict:   strictRe,
		loose:    looseRe,
		names:    names,
		args:     args,
	}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(template string, pathArgs []Descriptor) *Pattern {
	p, err := CompilePattern(template, pathArgs)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source of the strict expression.
func (p *Pattern) String() string { return p.strict.String() }

// Template returns the template the pattern was compiled from.
func (p *Pattern) Template() string { return p.template }

// Key returns the routing tree key: lower-cased, without empty segments,
// placeholders reduced to {name}.
func (p *Pattern) Key() string { return p.key }

// Names returns the capture names in template order.
func (p *Pattern) Names() []string { return p.names }

// Args returns the path argument descriptors in template order.
func (p *Pattern) Args() []Descriptor { return p.args }

// Regexp returns the strict expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.strict }

// MatchString reports whether path satisfies every capture constraint.
func (p *Pattern) MatchString(path string) bool {
	return p.strict.MatchString(path)
}

// Captures extracts the placeholder values of path. The strict expression
// is tried first; when it fails, the loose one is. The second result is
// false when neither matches.
func (p *Pattern) Captures(path string) (map[string]string, bool) {
	for _, re := range []*regexp.Regexp{p.strict, p.loose} {
		m := re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		vars := make(map[string]string, len(p.names))
		for _, name := range p.names {
			if i := re.SubexpIndex(name); i > 0 && i < len(m) {
				vars[name] = m[i]
			}
		}
		return vars, true
	}
	return nil, false
}

// parseTemplate splits a template into placeholders and the literal text
// following the last one. Each placeholder must span a whole segment.
func parseTemplate(tpl string) ([]placeholder, string, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, "", declarationError(tpl, "%v", err)
	}

	var (
		phs []placeholder
		end int
	)
	for i := 0; i < len(idxs); i += 2 {
		start, stop := idxs[i], idxs[i+1]
		if start > 0 && tpl[start-1] != '/' {
			return nil, "", declarationError(tpl, "placeholder %s does not start a segment", tpl[start:stop])
		}
		if stop < len(tpl) && tpl[stop] != '/' {
			return nil, "", declarationError(tpl, "placeholder %s does not end a segment", tpl[start:stop])
		}

		name, suffix, _ := strings.Cut(tpl[start+1:stop-1], ":")
		if !placeholderName.MatchString(name) {
			return nil, "", declarationError(tpl, "invalid placeholder name %q", name)
		}

		phs = append(phs, placeholder{raw: tpl[end:start], name: name, suffix: suffix})
		end = stop
	}

	return phs, tpl[end:], nil
}

// templateKey renders the routing tree key of a parsed template.
func templateKey(phs []placeholder, tail string) string {
	var b strings.Builder
	for _, ph := range phs {
		b.WriteString(ph.raw)
		b.WriteString("{" + ph.name + "}")
	}
	b.WriteString(tail)
	return pathKey(b.String())
}

// pathKey lower-cases p and drops empty segments: "/A//b/" becomes "/a/b".
func pathKey(p string) string {
	return strings.ToLower(collapseSegments(p))
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("unbalanced braces in %q", s)
	}
	return idxs, nil
}

// checkDuplicateVars returns an error if any capture name is repeated.
func checkDuplicateVars(vars []string) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v] {
			return fmt.Errorf("duplicated route variable %q", v)
		}
		seen[v] = true
	}
	return nil
}

package wordpress

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FieldFilter drops custom fields whose full key matches any of its
// shell-style patterns.
type FieldFilter struct {
	patterns []string
	globs    []glob.Glob
}

func NewFieldFilter(patterns []string) (FieldFilter, error) {
	var f FieldFilter
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(fnmatchToGlob(p))
		if err != nil {
			return FieldFilter{}, fmt.Errorf("invalid custom field pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, p)
		f.globs = append(f.globs, g)
	}
	return f, nil
}

func (f FieldFilter) Excludes(key string) bool {
	for _, g := range f.globs {
		if g.Match(key) {
			return true
		}
	}
	return false
}

func (f FieldFilter) Patterns() []string { return f.patterns }

// fnmatchToGlob rewrites a shell-style pattern into glob syntax. Braces and
// backslashes match literally, and a '[' with no closing ']' matches itself.
func fnmatchToGlob(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch c {
		case '\\', '{', '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '[':
			j := i + 1
			if j < len(p) && p[j] == '!' {
				j++
			}
			if j < len(p) && p[j] == ']' {
				j++
			}
			for j < len(p) && p[j] != ']' {
				j++
			}
			if j >= len(p) {
				b.WriteString(`\[`)
				continue
			}
			class := p[i+1 : j]
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('!')
				class = class[1:]
			}
			for k := 0; k < len(class); k++ {
				if class[k] == '\\' || class[k] == ']' {
					b.WriteByte('\\')
				}
				b.WriteByte(class[k])
			}
			b.WriteByte(']')
			i = j
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// TypeFilter selects which post types reach the output. The zero value
// admits everything.
type TypeFilter struct {
	types map[string]struct{}
}

func NewTypeFilter(types []string) TypeFilter {
	var f TypeFilter
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if f.types == nil {
			f.types = map[string]struct{}{}
		}
		f.types[t] = struct{}{}
	}
	return f
}

func (f TypeFilter) Includes(postType string) bool {
	if f.types == nil {
		return true
	}
	_, ok := f.types[postType]
	return ok
}

package tmod

import (
	"slices"
	"strings"
)

// Path is a dotted sequence of identifiers, e.g. Outside.Inside.T.
type Path []string

// ParsePath splits a dotted path. Empty input yields a nil path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path with name appended. The receiver is not modified.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Last returns the final segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Valid reports whether the path is non-empty and every segment is a valid
// identifier.
func (p Path) Valid() bool {
	if len(p) == 0 {
		return false
	}
	return !slices.ContainsFunc(p, func(s string) bool { return !IsIdentifier(s) })
}

// IsIdentifier reports whether s is a legal declaration name: a letter or
// underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

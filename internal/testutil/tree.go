package testutil

import (
	"strings"

	"github.com/golangsnmp/typemod/tmod"
)

// Outline renders a module tree as dotted names in pre-order, declaration
// order, with a trailing "/" on modules. Used to compare trees and views.
func Outline(m *tmod.Module) []string {
	var out []string
	var walk func(prefix string, m *tmod.Module)
	walk = func(prefix string, m *tmod.Module) {
		for name, n := range m.All() {
			full := name
			if prefix != "" {
				full = prefix + "." + name
			}
			if sub, ok := n.(*tmod.Module); ok {
				out = append(out, full+"/")
				walk(full, sub)
				continue
			}
			out = append(out, full)
		}
	}
	walk("", m)
	return out
}

// OutlineString joins Outline with spaces.
func OutlineString(m *tmod.Module) string {
	return strings.Join(Outline(m), " ")
}

// Surfaces is a tmod.Requirer over a fixed set of units.
type Surfaces map[string]*tmod.Unit

// Require returns the surface of the named unit.
func (s Surfaces) Require(unit string) (*tmod.Module, error) {
	u, ok := s[unit]
	if !ok {
		return nil, &tmod.Error{Kind: tmod.ErrorUnitNotFound, Segment: unit}
	}
	return u.Surface(), nil
}

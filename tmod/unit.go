package tmod

import (
	"cmp"
	"errors"
	"maps"
	"slices"
)

// Unit is a resolved compilation unit. All of its modules are frozen; a
// Unit is safe for concurrent readers.
type Unit struct {
	name        string
	root        *Module
	imports     map[string]*Module
	surface     *Module
	errors      []*Error
	diagnostics []Diagnostic
}

// Name returns the unit name.
func (u *Unit) Name() string { return u.name }

// Root returns the unit's synthetic root module (the raw tree).
func (u *Unit) Root() *Module { return u.root }

// Surface returns the unit's public surface, the exported view of its root.
func (u *Unit) Surface() *Module { return u.surface }

// Import returns the surface bound to a require name, or nil.
func (u *Unit) Import(name string) *Module { return u.imports[name] }

// ImportNames returns the require names in sorted order.
func (u *Unit) ImportNames() []string {
	return slices.Sorted(maps.Keys(u.imports))
}

// Errors returns the declaration and resolution errors, in the order they
// were found.
func (u *Unit) Errors() []*Error { return u.errors }

// Err joins all errors, or returns nil when the unit resolved cleanly.
func (u *Unit) Err() error {
	if len(u.errors) == 0 {
		return nil
	}
	errs := make([]error, len(u.errors))
	for i, e := range u.errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Diagnostics returns the diagnostics reported under the unit's
// DiagnosticConfig.
func (u *Unit) Diagnostics() []Diagnostic { return u.diagnostics }

// ResolvePath resolves a path as code inside the unit sees it: against the
// raw tree, then the require names.
func (u *Unit) ResolvePath(path Path) (Node, error) {
	return NewScope(u.root, u.imports).Resolve(path)
}

// ResolveExported resolves a path as another unit sees it: against the
// public surface only.
func (u *Unit) ResolveExported(path Path) (Node, error) {
	return NewScope(u.surface, nil).Resolve(path)
}

// Program is a set of units loaded together.
type Program struct {
	units       []*Unit
	byName      map[string]*Unit
	diagnostics []Diagnostic
}

// NewProgram returns a program over units. diagnostics are program-level
// findings (for example from loading) in addition to each unit's own.
func NewProgram(units []*Unit, diagnostics []Diagnostic) *Program {
	p := &Program{
		units:       slices.Clone(units),
		byName:      make(map[string]*Unit, len(units)),
		diagnostics: diagnostics,
	}
	slices.SortFunc(p.units, func(a, b *Unit) int { return cmp.Compare(a.name, b.name) })
	for _, u := range p.units {
		p.byName[u.name] = u
	}
	return p
}

// Unit returns the named unit, or nil.
func (p *Program) Unit(name string) *Unit { return p.byName[name] }

// Units returns all units sorted by name.
func (p *Program) Units() []*Unit { return p.units }

// Len returns the number of units.
func (p *Program) Len() int { return len(p.units) }

// Diagnostics returns the program-level diagnostics followed by every
// unit's diagnostics, units in name order.
func (p *Program) Diagnostics() []Diagnostic {
	out := slices.Clone(p.diagnostics)
	for _, u := range p.units {
		out = append(out, u.diagnostics...)
	}
	return out
}

// HasErrors reports whether any diagnostic is at least SeverityError.
func (p *Program) HasErrors() bool {
	return slices.ContainsFunc(p.Diagnostics(), func(d Diagnostic) bool {
		return d.Severity.AtLeast(SeverityError)
	})
}

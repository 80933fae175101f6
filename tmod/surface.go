package tmod

import (
	"log/slog"

	"github.com/golangsnmp/typemod/internal/types"
)

// buildSurface freezes the unit's tree and assembles its public surface:
// the exported view of the root, which holds the root's exported bindings
// and every exportable or re-exported top-level module.
func buildSurface(c *resolverContext) *Unit {
	// Aliases that failed stay in the tree until here so walks through them
	// report the alias; the finished unit does not contain them.
	for _, a := range c.aliases {
		if a.aliasStatus == aliasFailed && a.parent != nil {
			a.parent.remove(a.name)
		}
	}
	c.root.freeze()

	for _, a := range c.aliases {
		if a.aliasStatus != aliasBound || a.parent == nil {
			continue
		}
		if a.ExportedView().Len() == 0 {
			c.warnf(types.DiagAliasEmpty, SeverityMinor, a.pos,
				"alias %q re-exports %s, which has no exported content", a.name, a.aliasPath)
		}
	}

	surface := PublicSurface(c.root)
	if c.TraceEnabled() {
		for _, n := range surface.Children() {
			c.Trace("exported", slog.String("kind", n.Kind().String()), slog.String("name", n.Name()))
		}
	}

	imports := make(map[string]*Module, len(c.imports))
	for name, m := range c.imports {
		imports[name] = m
	}
	return &Unit{
		name:        c.unit,
		root:        c.root,
		imports:     imports,
		surface:     surface,
		errors:      c.errors,
		diagnostics: c.diagnostics,
	}
}

// PublicSurface returns the externally visible surface of a unit root: its
// exported view. Required units are handed to other units in this form.
func PublicSurface(root *Module) *Module {
	return root.ExportedView()
}

package tmod

import (
	"log/slog"

	"github.com/golangsnmp/typemod/internal/graph"
)

// resolveAliases binds every re-export alias in declaration order. An alias
// may name another alias declared later; walks bind such aliases on demand
// through the scope's enter hook, so order inside the unit does not matter.
func resolveAliases(c *resolverContext) {
	for _, a := range c.aliases {
		_ = c.bindAlias(a)
	}
	if c.TraceEnabled() {
		bound := 0
		for _, a := range c.aliases {
			if a.aliasStatus == aliasBound {
				bound++
			}
		}
		c.Trace("aliases bound", slog.Int("bound", bound), slog.Int("total", len(c.aliases)))
	}
}

// bindAlias resolves a pending alias to its target module. Non-alias
// modules pass through. The error returned is the one a walk through m
// should fail with; it is recorded against m only once.
func (c *resolverContext) bindAlias(m *Module) error {
	if !m.alias || m.view {
		return nil
	}
	switch m.aliasStatus {
	case aliasBound:
		return nil
	case aliasFailed:
		kind := ErrorUnknownModule
		if m.aliasErr == ErrorCyclicAlias {
			kind = ErrorCyclicAlias
		}
		return &Error{Kind: kind, Unit: c.unit, Name: m.name, Path: m.aliasPath}
	case aliasResolving:
		return &Error{Kind: ErrorCyclicAlias, Unit: c.unit, Name: m.name, Path: m.aliasPath}
	}

	m.aliasStatus = aliasResolving
	target, err := c.scope.ResolveModule(m.aliasPath)
	if err != nil {
		e := throughAlias(asError(err, ErrorUnknownModule), m.aliasPath).at(c.unit, m.name, m.pos)
		m.aliasStatus = aliasFailed
		m.aliasErr = e.Kind
		c.fail(e)
		return e
	}

	// Required units are only ever seen through their exported view.
	if target.unit != c.unit {
		target = target.ExportedView()
	}
	m.aliasOf = target
	m.aliasStatus = aliasBound

	if c.TraceEnabled() {
		c.Trace("alias bound",
			slog.String("alias", m.name),
			slog.String("target", m.aliasPath.String()),
			slog.String("unit", target.unit))
	}
	return nil
}

// checkContainment rejects aliases that would let a walk down the tree
// revisit a module, such as an alias inside M that names M. Each local
// module becomes a graph node; declared sub-modules and bound aliases add
// edges from their container to the module they expose. Aliases whose edge
// lies inside a cycle fail, and so does every alias bound through one.
func checkContainment(c *resolverContext) {
	if len(c.aliases) == 0 {
		return
	}

	type aliasEdge struct {
		alias    *Module
		from, to graph.Key
	}

	g := graph.New(len(c.aliases) + len(c.bindings))
	key := func(m *Module) graph.Key {
		return graph.Key{Unit: c.unit, Path: m.path.String()}
	}
	var edges []aliasEdge

	var visit func(m *Module)
	visit = func(m *Module) {
		g.AddNode(key(m))
		for _, name := range m.order {
			sub, ok := m.children[name].(*Module)
			if !ok {
				continue
			}
			if !sub.alias {
				g.AddEdge(key(m), key(sub))
				visit(sub)
				continue
			}
			if sub.aliasStatus != aliasBound {
				continue
			}
			target := sub.content()
			if target.unit != c.unit || target.view {
				continue
			}
			e := aliasEdge{alias: sub, from: key(m), to: key(target)}
			g.AddEdge(e.from, e.to)
			edges = append(edges, e)
		}
	}
	visit(c.root)

	dropped := false
	for _, cycle := range g.FindCycles() {
		members := make(map[graph.Key]bool, len(cycle))
		for _, k := range cycle {
			members[k] = true
		}
		for _, e := range edges {
			if !members[e.from] || !members[e.to] || e.alias.aliasStatus != aliasBound {
				continue
			}
			a := e.alias
			a.aliasStatus = aliasFailed
			a.aliasErr = ErrorCyclicAlias
			a.aliasOf = nil
			dropped = true
			c.fail(&Error{Kind: ErrorCyclicAlias, Name: a.name, Pos: a.pos, Path: a.aliasPath,
				Detail: "target contains the alias"})
		}
	}
	if dropped {
		failDependentAliases(c)
	}
}

// failDependentAliases re-walks every bound alias after others have failed.
// An alias whose path now passes through a failed alias fails too, naming
// that alias; the walk repeats until no more aliases fail.
func failDependentAliases(c *resolverContext) {
	for changed := true; changed; {
		changed = false
		for _, a := range c.aliases {
			if a.aliasStatus != aliasBound {
				continue
			}
			if _, err := c.scope.ResolveModule(a.aliasPath); err != nil {
				e := throughAlias(asError(err, ErrorUnknownModule), a.aliasPath).at(c.unit, a.name, a.pos)
				a.aliasStatus = aliasFailed
				a.aliasErr = e.Kind
				a.aliasOf = nil
				c.fail(e)
				changed = true
			}
		}
	}
}

// throughAlias rewrites an error raised while binding another alias on the
// way down path, so that it names that alias instead of the alias's own
// target path. Errors from plain walks carry no Name and pass through.
func throughAlias(e *Error, path Path) *Error {
	if e.Name == "" {
		return e
	}
	kind := ErrorUnknownModule
	if e.Kind == ErrorCyclicAlias {
		kind = ErrorCyclicAlias
	}
	return &Error{Kind: kind, Path: path, Segment: e.Name,
		Detail: "alias " + e.Name + " did not resolve"}
}

package tmod

import (
	"log/slog"
	"slices"

	"github.com/golangsnmp/typemod/internal/types"
)

// resolveReferences links every binding whose body is a path to the binding
// the path names, then breaks reference cycles.
func resolveReferences(c *resolverContext) {
	linked := 0
	for _, b := range c.bindings {
		ref, ok := b.expr.(Ref)
		if !ok {
			continue
		}
		target, err := c.scope.ResolveBinding(ref.Path)
		if err != nil {
			c.fail(throughAlias(asError(err, ErrorUnknownType), ref.Path).at(c.unit, b.name, b.pos))
			continue
		}
		b.target = target
		linked++
	}
	c.Log(slog.LevelDebug, "references linked", slog.String("unit", c.unit), slog.Int("count", linked))

	breakReferenceCycles(c)
}

// breakReferenceCycles finds chains such as type A = B; type B = A and
// unlinks every member. Only local bindings can form a cycle: required
// surfaces are frozen before this unit exists.
func breakReferenceCycles(c *resolverContext) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[*Binding]int, len(c.bindings))

	for _, b := range c.bindings {
		var chain []*Binding
		cur := b
		for cur != nil && state[cur] == unvisited {
			state[cur] = inProgress
			chain = append(chain, cur)
			cur = cur.target
		}
		if cur != nil && state[cur] == inProgress {
			start := slices.Index(chain, cur)
			cycle := chain[start:]
			for i, member := range cycle {
				next := cycle[(i+1)%len(cycle)]
				ref, _ := member.expr.(Ref)
				c.fail(&Error{Kind: ErrorCyclicReference, Name: member.name, Pos: member.pos,
					Path: ref.Path, Segment: next.name})
			}
			for _, member := range cycle {
				member.target = nil
			}
		}
		for _, member := range chain {
			state[member] = done
		}
	}
}

// reportUnusedRequires warns about require declarations no path started from.
func reportUnusedRequires(c *resolverContext) {
	names := make([]string, 0, len(c.imports))
	for name := range c.imports {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !c.scope.used[name] {
			c.warnf(types.DiagRequireUnused, SeverityMinor, c.importPos[name], "required name %q is never used", name)
		}
	}
}

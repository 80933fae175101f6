// Package graph provides dependency graph construction and analysis for
// unit require ordering and module containment checks.
package graph

import (
	"cmp"
	"slices"
)

// Key uniquely identifies a graph node: a unit, or a module path inside a unit.
type Key struct {
	Unit string
	Path string
}

// String renders the key as "unit" or "unit::path".
func (k Key) String() string {
	if k.Path == "" {
		return k.Unit
	}
	return k.Unit + "::" + k.Path
}

// Graph is a dependency graph of keys with forward edges.
type Graph struct {
	nodes map[Key]struct{}
	edges map[Key][]Key
}

// New returns a graph with no nodes or edges. sizeHint preallocates
// for the expected number of nodes.
func New(sizeHint int) *Graph {
	return &Graph{
		nodes: make(map[Key]struct{}, sizeHint),
		edges: make(map[Key][]Key, sizeHint),
	}
}

// AddNode registers a key. Duplicate calls are no-ops.
func (g *Graph) AddNode(k Key) {
	g.nodes[k] = struct{}{}
}

// AddEdge records that "from" depends on "to", meaning "to" must be
// resolved before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to Key) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the keys that k depends on (forward edges).
func (g *Graph) Dependencies(k Key) []Key {
	return g.edges[k]
}

// HasNode reports whether the key exists in the graph.
func (g *Graph) HasNode(k Key) bool {
	_, ok := g.nodes[k]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// ResolutionOrder returns keys ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the resolution order. Nodes that depend on a
// cycle are still ordered; callers decide how to treat them.
//
// Iteration starts from keys in sorted order so the result is deterministic.
func (g *Graph) ResolutionOrder() (order []Key, cycles [][]Key) {
	var (
		index    int
		stack    []Key
		onStack  = make(map[Key]bool)
		indices  = make(map[Key]int)
		lowlinks = make(map[Key]int)
	)

	var strongConnect func(k Key)
	strongConnect = func(k Key) {
		indices[k] = index
		lowlinks[k] = index
		index++
		stack = append(stack, k)
		onStack[k] = true

		for _, dep := range g.edges[k] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[k] = min(lowlinks[k], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[k] = min(lowlinks[k], indices[dep])
			}
		}

		if lowlinks[k] == indices[k] {
			var scc []Key
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == k {
					break
				}
			}
			if len(scc) > 1 {
				slices.SortFunc(scc, compareKeys)
				cycles = append(cycles, scc)
			} else if slices.Contains(g.edges[scc[0]], scc[0]) {
				cycles = append(cycles, scc)
			} else {
				order = append(order, scc[0])
			}
		}
	}

	sorted := make([]Key, 0, len(g.nodes))
	for k := range g.nodes {
		sorted = append(sorted, k)
	}
	slices.SortFunc(sorted, compareKeys)

	for _, k := range sorted {
		if _, visited := indices[k]; !visited {
			strongConnect(k)
		}
	}

	return order, cycles
}

// FindCycles returns every cycle in the graph (see ResolutionOrder).
func (g *Graph) FindCycles() [][]Key {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Unit, b.Unit); c != 0 {
		return c
	}
	return cmp.Compare(a.Path, b.Path)
}

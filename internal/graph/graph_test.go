package graph

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(name string) Key { return Key{Unit: name} }

func indexOf(order []Key, k Key) int {
	return slices.Index(order, k)
}

func TestGraphBasic(t *testing.T) {
	g := New(0)
	a, b := unit("a"), unit("b")

	g.AddNode(a)
	g.AddNode(b)
	g.AddEdge(a, b)

	assert.True(t, g.HasNode(a))
	assert.True(t, g.HasNode(b))
	assert.Equal(t, []Key{b}, g.Dependencies(a))
	assert.Equal(t, 2, g.Len())
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New(0)
	a, b := unit("a"), unit("b")

	g.AddEdge(a, b)

	assert.True(t, g.HasNode(a), "AddEdge should create 'from' node")
	assert.True(t, g.HasNode(b), "AddEdge should create 'to' node")
}

func TestDuplicateEdges(t *testing.T) {
	g := New(0)
	a, b := unit("a"), unit("b")

	g.AddEdge(a, b)
	g.AddEdge(a, b)
	g.AddEdge(a, b)

	assert.Len(t, g.Dependencies(a), 1)
	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	assert.Len(t, order, 2)
}

func TestResolutionOrderEmpty(t *testing.T) {
	order, cycles := New(0).ResolutionOrder()
	assert.Empty(t, order)
	assert.Empty(t, cycles)
}

func TestResolutionOrderChain(t *testing.T) {
	g := New(0)
	a, b, c := unit("a"), unit("b"), unit("c")
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	order, cycles := g.ResolutionOrder()
	require.Empty(t, cycles)
	require.Len(t, order, 3)
	assert.Less(t, indexOf(order, c), indexOf(order, b))
	assert.Less(t, indexOf(order, b), indexOf(order, a))
}

func TestResolutionOrderDiamond(t *testing.T) {
	g := New(0)
	top, left, right, bottom := unit("top"), unit("left"), unit("right"), unit("bottom")
	g.AddEdge(top, left)
	g.AddEdge(top, right)
	g.AddEdge(left, bottom)
	g.AddEdge(right, bottom)

	order, cycles := g.ResolutionOrder()
	require.Empty(t, cycles)
	require.Len(t, order, 4)
	assert.Equal(t, bottom, order[0])
	assert.Equal(t, top, order[3])
}

func TestResolutionOrderSimpleCycle(t *testing.T) {
	g := New(0)
	a, b := unit("a"), unit("b")
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, order)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []Key{a, b}, cycles[0])
	assert.True(t, g.HasCycles())
}

func TestResolutionOrderCycleDependents(t *testing.T) {
	g := New(0)
	a, b, c := unit("a"), unit("b"), unit("c")
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	g.AddEdge(c, a)

	order, cycles := g.ResolutionOrder()
	assert.Equal(t, []Key{c}, order)
	require.Len(t, cycles, 1)
}

func TestSelfLoop(t *testing.T) {
	g := New(0)
	m := Key{Unit: "u", Path: "M"}
	g.AddEdge(m, m)

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, order)
	require.Len(t, cycles, 1)
	assert.Equal(t, []Key{m}, cycles[0])
}

func TestResolutionOrderDisconnected(t *testing.T) {
	g := New(0)
	g.AddNode(unit("x"))
	g.AddNode(unit("y"))
	g.AddEdge(unit("b"), unit("a"))

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	assert.Equal(t, []Key{unit("a"), unit("b"), unit("x"), unit("y")}, order)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "shapes", unit("shapes").String())
	assert.Equal(t, "shapes::M.N", Key{Unit: "shapes", Path: "M.N"}.String())
}

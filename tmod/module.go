package tmod

import (
	"iter"
	"slices"
)

type aliasState int

const (
	aliasNone aliasState = iota
	aliasPending
	aliasResolving
	aliasBound
	aliasFailed
)

// Module is a named grouping of bindings and nested modules.
//
// Three flavors share this type: declared modules (and the synthetic unit
// root), re-export aliases whose content is another module, and exported
// views, which are read-only projections produced by ExportedView.
type Module struct {
	name string
	unit string
	path Path // location inside the unit; nil for the root
	pos  Pos

	root bool
	view bool

	// Alias state. aliasOf is the immediate target once bound; an alias
	// has no children of its own and delegates to its target.
	alias       bool
	aliasPath   Path
	aliasOf     *Module
	aliasStatus aliasState
	aliasErr    ErrorKind // why a failed alias failed

	parent   *Module // declaring module; nil for roots and views
	children map[string]Node
	order    []string

	frozen       bool
	exportable   bool
	exportedView *Module
}

// NewModule returns an empty declared module that belongs to no unit.
// Modules built by the resolver are attributed to the unit being resolved.
func NewModule(name string) *Module {
	return newModule(name, "", nil, Pos{})
}

func newModule(name, unit string, path Path, pos Pos) *Module {
	return &Module{
		name:     name,
		unit:     unit,
		path:     path,
		pos:      pos,
		children: make(map[string]Node),
	}
}

func newRoot(unit string) *Module {
	m := newModule(unit, unit, nil, Pos{})
	m.root = true
	return m
}

func newAlias(name, unit string, path, target Path, pos Pos) *Module {
	m := newModule(name, unit, path, pos)
	m.alias = true
	m.aliasPath = target
	m.aliasStatus = aliasPending
	return m
}

// Name returns the module identifier. The unit root is named after the unit.
func (m *Module) Name() string { return m.name }

// Kind returns KindModule.
func (m *Module) Kind() NodeKind { return KindModule }

// Pos returns the declaration position, or the zero Pos for roots.
func (m *Module) Pos() Pos { return m.pos }

// Unit returns the name of the unit the module belongs to.
func (m *Module) Unit() string { return m.unit }

// Path returns the module's location inside its unit. The root has an
// empty path.
func (m *Module) Path() Path { return slices.Clone(m.path) }

// IsSyntheticRoot reports whether the module is a unit's implicit file-level
// module (or the exported view of one).
func (m *Module) IsSyntheticRoot() bool { return m.root }

// IsAlias reports whether the module was introduced by a re-export alias.
func (m *Module) IsAlias() bool { return m.alias }

// AliasPath returns the path an alias was declared with.
func (m *Module) AliasPath() Path { return slices.Clone(m.aliasPath) }

// AliasOf returns the module an alias is bound to, or nil for non-aliases,
// unbound aliases, and views.
func (m *Module) AliasOf() *Module { return m.aliasOf }

// IsView reports whether the module is an exported view.
func (m *Module) IsView() bool { return m.view }

// IsFrozen reports whether the module's tree is complete and read-only.
func (m *Module) IsFrozen() bool { return m.frozen }

// content returns the module whose children m exposes: m itself, or the
// end of the alias chain.
func (m *Module) content() *Module {
	for m.aliasOf != nil {
		m = m.aliasOf
	}
	return m
}

// Child looks up a direct child by name.
func (m *Module) Child(name string) (Node, bool) {
	n, ok := m.content().children[name]
	return n, ok
}

// Binding looks up a direct binding child by name.
func (m *Module) Binding(name string) *Binding {
	n, _ := m.Child(name)
	b, _ := n.(*Binding)
	return b
}

// Module looks up a direct module child by name.
func (m *Module) Module(name string) *Module {
	n, _ := m.Child(name)
	sub, _ := n.(*Module)
	return sub
}

// Len returns the number of direct children.
func (m *Module) Len() int {
	return len(m.content().order)
}

// Names returns the names of the direct children in declaration order.
func (m *Module) Names() []string {
	return slices.Clone(m.content().order)
}

// Children returns the direct children in declaration order.
func (m *Module) Children() []Node {
	c := m.content()
	out := make([]Node, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.children[name])
	}
	return out
}

// All returns an iterator over the direct children in declaration order.
func (m *Module) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		c := m.content()
		for _, name := range c.order {
			if !yield(name, c.children[name]) {
				return
			}
		}
	}
}

// Bindings returns the direct binding children in declaration order.
func (m *Module) Bindings() []*Binding {
	var out []*Binding
	for _, n := range m.All() {
		if b, ok := n.(*Binding); ok {
			out = append(out, b)
		}
	}
	return out
}

// Modules returns the direct module children in declaration order.
func (m *Module) Modules() []*Module {
	var out []*Module
	for _, n := range m.All() {
		if sub, ok := n.(*Module); ok {
			out = append(out, sub)
		}
	}
	return out
}

// add inserts a child. Names are unique across bindings and modules.
func (m *Module) add(n Node) bool {
	if _, exists := m.children[n.Name()]; exists {
		return false
	}
	m.children[n.Name()] = n
	m.order = append(m.order, n.Name())
	if sub, ok := n.(*Module); ok && !sub.view {
		sub.parent = m
	}
	return true
}

// remove detaches a child. Used to drop aliases that failed to bind.
func (m *Module) remove(name string) {
	if _, ok := m.children[name]; !ok {
		return
	}
	delete(m.children, name)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == name })
}

// Insert adds a child to an unfrozen declared module. It reports a
// DuplicateDeclaration error when the name is already taken.
func (m *Module) Insert(n Node) error {
	if m.frozen || m.alias {
		return &Error{Kind: ErrorMalformedDeclaration, Unit: m.unit, Segment: n.Name(),
			Detail: "module " + m.name + " is read-only"}
	}
	if !m.add(n) {
		return &Error{Kind: ErrorDuplicateDeclaration, Unit: m.unit, Name: n.Name(),
			Pos: n.Pos(), Segment: n.Name()}
	}
	return nil
}

// Resolve resolves a dotted path starting at m, treating m as a root.
func (m *Module) Resolve(path Path) (Node, error) {
	return NewScope(m, nil).Resolve(path)
}

func (m *Module) String() string {
	switch {
	case m.root:
		return "unit " + m.name
	case m.alias:
		return "alias " + m.name + " = " + m.aliasPath.String()
	case len(m.path) == 0:
		return "module " + m.name
	default:
		return "module " + m.path.String()
	}
}

func (*Module) node() {}

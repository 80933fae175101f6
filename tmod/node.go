package tmod

import "fmt"

// Pos is a 1-based line/column position in a unit's source.
// The zero value means no position is known.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%d", p.Line)
}

// Node is a direct child of a Module: a *Binding or a *Module.
type Node interface {
	Name() string
	Kind() NodeKind
	Pos() Pos
	node()
}

// TypeExpr is the right-hand side of a type declaration. The resolver does
// not interpret it beyond following Ref expressions.
type TypeExpr interface {
	String() string
	typeExpr()
}

// Opaque is an uninterpreted type expression supplied by the host parser.
type Opaque string

func (o Opaque) String() string { return string(o) }
func (Opaque) typeExpr()        {}

// Ref is a type expression that names another type by path.
type Ref struct {
	Path Path
}

func (r Ref) String() string { return r.Path.String() }
func (Ref) typeExpr()        {}

// Binding is a named type declaration. It is created once during tree
// construction and shared by pointer with every exported view.
type Binding struct {
	name     string
	unit     string
	expr     TypeExpr
	exported bool
	pos      Pos

	// target is the binding a Ref expression denotes, linked during
	// reference resolution. Nil for non-references and failed references.
	target *Binding
}

// NewBinding returns a binding that belongs to no unit. Bindings built by
// the resolver are attributed to the unit being resolved.
func NewBinding(name string, expr TypeExpr, exported bool) *Binding {
	return &Binding{name: name, expr: expr, exported: exported}
}

// Name returns the declared identifier.
func (b *Binding) Name() string { return b.name }

// Kind returns KindBinding.
func (b *Binding) Kind() NodeKind { return KindBinding }

// Pos returns the declaration position.
func (b *Binding) Pos() Pos { return b.pos }

// Unit returns the name of the unit that declared the binding.
func (b *Binding) Unit() string { return b.unit }

// Expr returns the right-hand side as declared.
func (b *Binding) Expr() TypeExpr { return b.expr }

// Exported reports whether the binding was declared with the exporting form.
func (b *Binding) Exported() bool { return b.exported }

// IsRef reports whether the right-hand side is a path reference.
func (b *Binding) IsRef() bool {
	_, ok := b.expr.(Ref)
	return ok
}

// Target returns the binding a reference resolved to, or nil.
func (b *Binding) Target() *Binding { return b.target }

// Underlying follows reference links to the first binding whose right-hand
// side is not a reference. It returns nil when the chain ends in a
// reference that did not resolve.
func (b *Binding) Underlying() *Binding {
	cur := b
	for cur != nil && cur.IsRef() {
		cur = cur.target
	}
	return cur
}

// Definition returns the type expression the binding ultimately stands
// for, or nil when the reference chain is broken.
func (b *Binding) Definition() TypeExpr {
	if u := b.Underlying(); u != nil {
		return u.expr
	}
	return nil
}

func (b *Binding) String() string {
	prefix := "type "
	if b.exported {
		prefix = "export type "
	}
	if b.expr == nil {
		return prefix + b.name
	}
	return prefix + b.name + " = " + b.expr.String()
}

func (*Binding) node() {}

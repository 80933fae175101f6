package tmod

import (
	"errors"
	"log/slog"
	"strconv"
)

// buildTree walks the declaration sequence, keeping a stack of the modules
// being built. Only structure is recorded here; paths are resolved in later
// phases against the completed tree, so declaration order inside a unit does
// not matter.
func buildTree(c *resolverContext, decls []Decl) {
	stack := []*Module{c.root}

	for _, d := range decls {
		cur := stack[len(stack)-1]

		switch d.Kind {
		case DeclType:
			if !c.checkName(d) {
				continue
			}
			b := &Binding{
				name:     d.Name,
				unit:     c.unit,
				expr:     d.Expr,
				exported: d.Exported,
				pos:      d.Pos,
			}
			if b.expr == nil {
				b.expr = Opaque("")
			}
			c.bindings = append(c.bindings, b)
			c.declare(cur, b)

		case DeclModuleOpen:
			if !c.checkName(d) {
				// Still push a detached module so the body stays balanced.
				stack = append(stack, newModule(d.Name, c.unit, cur.path.Child(d.Name), d.Pos))
				continue
			}
			m := newModule(d.Name, c.unit, cur.path.Child(d.Name), d.Pos)
			// A duplicate module keeps building detached from the tree so
			// errors inside its body are still reported.
			c.declare(cur, m)
			stack = append(stack, m)

		case DeclModuleClose:
			if len(stack) == 1 {
				c.fail(&Error{Kind: ErrorMalformedDeclaration, Pos: d.Pos, Detail: "end without matching module"})
				continue
			}
			stack = stack[:len(stack)-1]

		case DeclAlias:
			if !c.checkName(d) {
				continue
			}
			if !d.Path.Valid() {
				c.fail(&Error{Kind: ErrorMalformedDeclaration, Name: d.Name, Pos: d.Pos, Path: d.Path,
					Detail: "alias target must be a dotted path of identifiers"})
				continue
			}
			a := newAlias(d.Name, c.unit, cur.path.Child(d.Name), d.Path, d.Pos)
			if c.declare(cur, a) {
				c.aliases = append(c.aliases, a)
			}

		case DeclRequire:
			c.require(d)

		default:
			c.fail(&Error{Kind: ErrorMalformedDeclaration, Name: d.Name, Pos: d.Pos,
				Detail: "unknown declaration kind " + d.Kind.String()})
		}
	}

	for i := len(stack) - 1; i > 0; i-- {
		m := stack[i]
		c.fail(&Error{Kind: ErrorMalformedDeclaration, Name: m.name, Pos: m.pos,
			Detail: "module " + m.name + " is not closed"})
	}
}

// checkName rejects declarations without a legal identifier.
func (c *resolverContext) checkName(d Decl) bool {
	if IsIdentifier(d.Name) {
		return true
	}
	c.fail(&Error{Kind: ErrorMalformedDeclaration, Name: d.Name, Pos: d.Pos,
		Detail: "invalid " + d.Kind.String() + " name " + strconv.Quote(d.Name)})
	return false
}

// declare inserts n into parent. At the root, names bound by requires are
// taken as well.
func (c *resolverContext) declare(parent *Module, n Node) bool {
	_, imported := c.imports[n.Name()]
	if (parent == c.root && imported) || !parent.add(n) {
		c.fail(&Error{Kind: ErrorDuplicateDeclaration, Name: n.Name(), Pos: n.Pos(), Segment: n.Name()})
		return false
	}
	if c.TraceEnabled() {
		c.Trace("declared",
			slog.String("kind", n.Kind().String()),
			slog.String("name", n.Name()),
			slog.String("in", parent.path.String()))
	}
	return true
}

// require binds d.Name to the surface of d.Unit.
func (c *resolverContext) require(d Decl) {
	if !c.checkName(d) {
		return
	}
	if d.Unit == "" {
		c.fail(&Error{Kind: ErrorMalformedDeclaration, Name: d.Name, Pos: d.Pos, Detail: "require without unit"})
		return
	}
	if _, taken := c.imports[d.Name]; taken {
		c.fail(&Error{Kind: ErrorDuplicateDeclaration, Name: d.Name, Pos: d.Pos, Segment: d.Name})
		return
	}
	if _, taken := c.root.children[d.Name]; taken {
		c.fail(&Error{Kind: ErrorDuplicateDeclaration, Name: d.Name, Pos: d.Pos, Segment: d.Name})
		return
	}

	if c.requirer == nil {
		c.fail(&Error{Kind: ErrorUnitNotFound, Name: d.Name, Pos: d.Pos, Segment: d.Unit})
		return
	}
	surface, err := c.requirer.Require(d.Unit)
	if err != nil {
		e := asError(err, ErrorUnitNotFound)
		if !errors.Is(e, ErrUnitNotFound) {
			e = &Error{Kind: ErrorUnitNotFound, Detail: err.Error()}
		}
		e = e.at(c.unit, d.Name, d.Pos)
		e.Segment = d.Unit
		c.fail(e)
		return
	}

	c.imports[d.Name] = surface.ExportedView()
	c.importPos[d.Name] = d.Pos
	if c.TraceEnabled() {
		c.Trace("required",
			slog.String("name", d.Name),
			slog.String("unit", d.Unit))
	}
}

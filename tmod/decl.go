package tmod

// Decl is one element of a unit's parsed declaration sequence. Module
// bodies are delimited by DeclModuleOpen and DeclModuleClose.
type Decl struct {
	Kind     DeclKind
	Name     string   // declared identifier; empty for DeclModuleClose
	Exported bool     // DeclType only
	Expr     TypeExpr // DeclType only
	Path     Path     // DeclAlias target
	Unit     string   // DeclRequire target unit
	Pos      Pos
}

// TypeDecl returns a private type declaration.
func TypeDecl(name string, expr TypeExpr) Decl {
	return Decl{Kind: DeclType, Name: name, Expr: expr}
}

// ExportDecl returns an exported type declaration.
func ExportDecl(name string, expr TypeExpr) Decl {
	return Decl{Kind: DeclType, Name: name, Expr: expr, Exported: true}
}

// ModuleDecls returns the open/close sequence for a type module with the
// given body.
func ModuleDecls(name string, body ...Decl) []Decl {
	out := make([]Decl, 0, len(body)+2)
	out = append(out, Decl{Kind: DeclModuleOpen, Name: name})
	out = append(out, body...)
	return append(out, Decl{Kind: DeclModuleClose})
}

// AliasDecl returns a re-export alias declaration.
func AliasDecl(name string, target Path) Decl {
	return Decl{Kind: DeclAlias, Name: name, Path: target}
}

// RequireDecl binds name to the public surface of unit.
func RequireDecl(name, unit string) Decl {
	return Decl{Kind: DeclRequire, Name: name, Unit: unit}
}

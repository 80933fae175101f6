// Package testutil provides declaration builders and fixtures for tests.
package testutil

import (
	"fmt"

	"github.com/golangsnmp/typemod/tmod"
)

// Decls flattens its arguments into one declaration sequence. Each item
// must be a tmod.Decl or a []tmod.Decl (as returned by Module).
func Decls(items ...any) []tmod.Decl {
	var out []tmod.Decl
	for _, item := range items {
		switch v := item.(type) {
		case tmod.Decl:
			out = append(out, v)
		case []tmod.Decl:
			out = append(out, v...)
		default:
			panic(fmt.Sprintf("testutil.Decls: unsupported item %T", item))
		}
	}
	return out
}

// Module returns the declarations of a type module with the given body.
func Module(name string, body ...any) []tmod.Decl {
	return tmod.ModuleDecls(name, Decls(body...)...)
}

// Type returns a private type declaration with an opaque body.
func Type(name, def string) tmod.Decl {
	return tmod.TypeDecl(name, tmod.Opaque(def))
}

// Export returns an exported type declaration with an opaque body.
func Export(name, def string) tmod.Decl {
	return tmod.ExportDecl(name, tmod.Opaque(def))
}

// Ref returns a private type declaration whose body is a dotted path.
func Ref(name, path string) tmod.Decl {
	return tmod.TypeDecl(name, tmod.Ref{Path: tmod.ParsePath(path)})
}

// ExportRef returns an exported type declaration whose body is a dotted path.
func ExportRef(name, path string) tmod.Decl {
	return tmod.ExportDecl(name, tmod.Ref{Path: tmod.ParsePath(path)})
}

// Alias returns a re-export alias declaration.
func Alias(name, path string) tmod.Decl {
	return tmod.AliasDecl(name, tmod.ParsePath(path))
}

// Require returns a require declaration.
func Require(name, unit string) tmod.Decl {
	return tmod.RequireDecl(name, unit)
}

// At sets the position of a declaration.
func At(d tmod.Decl, line, col int) tmod.Decl {
	d.Pos = tmod.Pos{Line: line, Column: col}
	return d
}

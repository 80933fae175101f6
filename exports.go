// Package typemod loads and resolves type modules: named groupings of
// type declarations that nest, export selectively, and re-export across
// compilation units.
package typemod

import "github.com/golangsnmp/typemod/tmod"

// Type aliases for the public API. All types come from the tmod subpackage.

// Program is a set of units loaded together.
type Program = tmod.Program

// Unit is a resolved compilation unit.
type Unit = tmod.Unit

// Module is a type module, a re-export alias, or an exported view.
type Module = tmod.Module

// Binding is a named type declaration.
type Binding = tmod.Binding

// Node is a *Binding or a *Module.
type Node = tmod.Node

// Path is a dotted sequence of identifiers.
type Path = tmod.Path

// Decl is one parsed declaration.
type Decl = tmod.Decl

// TypeExpr is the right-hand side of a type declaration.
type TypeExpr = tmod.TypeExpr

// Opaque is an uninterpreted type expression.
type Opaque = tmod.Opaque

// Ref is a type expression naming another type by path.
type Ref = tmod.Ref

// Pos is a line/column position.
type Pos = tmod.Pos

// Requirer supplies the surfaces of required units.
type Requirer = tmod.Requirer

// Error is a declaration or resolution failure.
type Error = tmod.Error

// Diagnostic represents a parse, resolution, or loading issue.
type Diagnostic = tmod.Diagnostic

// Severity for diagnostics.
type Severity = tmod.Severity

// Severity constants (lower = more severe).
const (
	SeverityFatal   = tmod.SeverityFatal   // 0: Cannot continue with the unit
	SeveritySevere  = tmod.SeveritySevere  // 1: Unit rejected
	SeverityError   = tmod.SeverityError   // 2: Declaration rejected
	SeverityMinor   = tmod.SeverityMinor   // 3: Minor issue
	SeverityStyle   = tmod.SeverityStyle   // 4: Style recommendation
	SeverityWarning = tmod.SeverityWarning // 5: Might be correct
	SeverityInfo    = tmod.SeverityInfo    // 6: Informational
)

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel = tmod.StrictnessLevel

// StrictnessLevel constants.
const (
	StrictnessStrict     = tmod.StrictnessStrict
	StrictnessNormal     = tmod.StrictnessNormal
	StrictnessPermissive = tmod.StrictnessPermissive
	StrictnessSilent     = tmod.StrictnessSilent
)

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig = tmod.DiagnosticConfig

// Config constructors.
var (
	DefaultConfig    = tmod.DefaultConfig
	StrictConfig     = tmod.StrictConfig
	PermissiveConfig = tmod.PermissiveConfig
)

// Sentinel errors. Every *Error matches the sentinel of its kind with
// errors.Is.
var (
	ErrDuplicateDeclaration  = tmod.ErrDuplicateDeclaration
	ErrUnknownModule         = tmod.ErrUnknownModule
	ErrUnknownType           = tmod.ErrUnknownType
	ErrExpectedModuleGotType = tmod.ErrExpectedModuleGotType
	ErrExpectedTypeGotModule = tmod.ErrExpectedTypeGotModule
	ErrUnitNotFound          = tmod.ErrUnitNotFound
	ErrCyclicAlias           = tmod.ErrCyclicAlias
	ErrCyclicReference       = tmod.ErrCyclicReference
	ErrMalformedDeclaration  = tmod.ErrMalformedDeclaration
)

// ParsePath splits a dotted path such as "Outside.Inside.T".
var ParsePath = tmod.ParsePath

// Package tmod builds, scopes, and exports type modules: named, nestable
// groupings of type declarations inside a compilation unit.
//
// A unit's declarations are assembled into a tree of Modules and Bindings.
// Dotted paths resolve against that tree starting at the unit root, never
// at the lexical position of the reference. Each module derives its
// exported view from the bindings marked for export, and re-export aliases
// graft local or required modules into the tree under a new name.
package tmod

import "fmt"

// Severity levels for diagnostics.
// Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // Cannot continue with the unit
	SeveritySevere  Severity = 1 // Unit rejected, must correct
	SeverityError   Severity = 2 // Declaration rejected, rest of the unit continues
	SeverityMinor   Severity = 3 // Minor issue, should correct
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Might be correct under some circumstances
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0 // Report everything
	StrictnessNormal     StrictnessLevel = 3 // Default, report minor issues and above
	StrictnessPermissive StrictnessLevel = 5 // Report warnings and above
	StrictnessSilent     StrictnessLevel = 6 // Report nothing
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// NodeKind identifies what a module child is.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindBinding          // type declaration
	KindModule           // type module, alias, or view
)

func (k NodeKind) String() string {
	switch k {
	case KindBinding:
		return "binding"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// DeclKind identifies a parsed declaration.
type DeclKind int

const (
	DeclUnknown     DeclKind = iota
	DeclType                 // type T = ... / export type T = ...
	DeclModuleOpen           // type module M
	DeclModuleClose          // end
	DeclAlias                // export type module A = Path
	DeclRequire              // local name bound to another unit's surface
)

func (k DeclKind) String() string {
	switch k {
	case DeclType:
		return "type"
	case DeclModuleOpen:
		return "module"
	case DeclModuleClose:
		return "end"
	case DeclAlias:
		return "alias"
	case DeclRequire:
		return "require"
	default:
		return fmt.Sprintf("DeclKind(%d)", k)
	}
}

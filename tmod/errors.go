package tmod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golangsnmp/typemod/internal/types"
)

// ErrorKind classifies declaration and resolution failures.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorDuplicateDeclaration
	ErrorUnknownModule
	ErrorUnknownType
	ErrorExpectedModuleGotType
	ErrorExpectedTypeGotModule
	ErrorUnitNotFound
	ErrorCyclicAlias
	ErrorCyclicReference
	ErrorMalformedDeclaration
)

// Sentinel errors, one per ErrorKind. Every *Error unwraps to the sentinel
// of its kind, so errors.Is(err, ErrUnknownType) works on returned errors.
var (
	ErrDuplicateDeclaration  = errors.New("duplicate declaration")
	ErrUnknownModule         = errors.New("unknown module")
	ErrUnknownType           = errors.New("unknown type")
	ErrExpectedModuleGotType = errors.New("expected module, got type")
	ErrExpectedTypeGotModule = errors.New("expected type, got module")
	ErrUnitNotFound          = errors.New("unit not found")
	ErrCyclicAlias           = errors.New("cyclic alias")
	ErrCyclicReference       = errors.New("cyclic type reference")
	ErrMalformedDeclaration  = errors.New("malformed declaration")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorDuplicateDeclaration:
		return ErrDuplicateDeclaration
	case ErrorUnknownModule:
		return ErrUnknownModule
	case ErrorUnknownType:
		return ErrUnknownType
	case ErrorExpectedModuleGotType:
		return ErrExpectedModuleGotType
	case ErrorExpectedTypeGotModule:
		return ErrExpectedTypeGotModule
	case ErrorUnitNotFound:
		return ErrUnitNotFound
	case ErrorCyclicAlias:
		return ErrCyclicAlias
	case ErrorCyclicReference:
		return ErrCyclicReference
	case ErrorMalformedDeclaration:
		return ErrMalformedDeclaration
	default:
		return nil
	}
}

// Code returns the diagnostic code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case ErrorDuplicateDeclaration:
		return types.DiagDuplicateDeclaration
	case ErrorUnknownModule:
		return types.DiagUnknownModule
	case ErrorUnknownType:
		return types.DiagUnknownType
	case ErrorExpectedModuleGotType:
		return types.DiagExpectedModuleGotType
	case ErrorExpectedTypeGotModule:
		return types.DiagExpectedTypeGotModule
	case ErrorUnitNotFound:
		return types.DiagUnitNotFound
	case ErrorCyclicAlias:
		return types.DiagCyclicAlias
	case ErrorCyclicReference:
		return types.DiagCyclicReference
	case ErrorMalformedDeclaration:
		return types.DiagMalformedDeclaration
	default:
		return "unknown"
	}
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a declaration or resolution failure. It reports the offending
// path and the declaration site.
type Error struct {
	Kind ErrorKind
	Unit string // unit being resolved
	Name string // declaration the failure belongs to, if any
	Pos  Pos    // position of that declaration

	Path    Path   // full path being resolved, if any
	Segment string // failing path segment, unit name, or duplicated name
	Detail  string // extra context
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Unit != "" {
		b.WriteString(e.Unit)
		if e.Pos.IsValid() {
			b.WriteByte(':')
			b.WriteString(e.Pos.String())
		}
		b.WriteString(": ")
	}
	b.WriteString(e.message())
	return b.String()
}

func (e *Error) message() string {
	var msg string
	switch e.Kind {
	case ErrorDuplicateDeclaration:
		msg = fmt.Sprintf("duplicate declaration %q", e.Segment)
	case ErrorUnknownModule:
		msg = fmt.Sprintf("unknown module %q in path %s", e.Segment, e.Path)
	case ErrorUnknownType:
		msg = fmt.Sprintf("unknown type %q in path %s", e.Segment, e.Path)
	case ErrorExpectedModuleGotType:
		msg = fmt.Sprintf("path %s names a type, expected a module", e.Path)
	case ErrorExpectedTypeGotModule:
		msg = fmt.Sprintf("path %s names a module, expected a type", e.Path)
	case ErrorUnitNotFound:
		msg = fmt.Sprintf("unit %q not found", e.Segment)
	case ErrorCyclicAlias:
		msg = fmt.Sprintf("alias %q to %s is cyclic", e.Name, e.Path)
	case ErrorCyclicReference:
		msg = fmt.Sprintf("type %q refers to itself through %s", e.Name, e.Path)
	case ErrorMalformedDeclaration:
		msg = "malformed declaration"
	default:
		msg = e.Kind.String()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel error for the kind.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// Diagnostic converts the error into a diagnostic at SeverityError.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     e.Kind.Code(),
		Message:  e.message(),
		Unit:     e.Unit,
		Line:     e.Pos.Line,
		Column:   e.Pos.Column,
	}
}

// at returns a copy of e attributed to the named declaration.
func (e *Error) at(unit, name string, pos Pos) *Error {
	c := *e
	c.Unit = unit
	c.Name = name
	c.Pos = pos
	return &c
}

// asError converts err into an *Error of the given fallback kind when it is
// not one already.
func asError(err error, fallback ErrorKind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: fallback, Detail: err.Error()}
}

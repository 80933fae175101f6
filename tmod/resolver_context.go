package tmod

import (
	"fmt"
	"log/slog"

	"github.com/golangsnmp/typemod/internal/types"
)

// resolverContext holds the working state for resolving one unit.
type resolverContext struct {
	unit     string
	root     *Module
	requirer Requirer

	// imports maps names bound by require declarations to surfaces.
	imports   map[string]*Module
	importPos map[string]Pos

	scope *Scope

	// aliases and bindings in declaration order, including those of
	// modules that were rejected as duplicates.
	aliases  []*Module
	bindings []*Binding

	errors []*Error

	diagConfig  DiagnosticConfig
	diagnostics []Diagnostic

	types.Logger
}

func newResolverContext(unit string, req Requirer, logger *slog.Logger, diagConfig DiagnosticConfig) *resolverContext {
	c := &resolverContext{
		unit:       unit,
		root:       newRoot(unit),
		requirer:   req,
		imports:    make(map[string]*Module),
		importPos:  make(map[string]Pos),
		diagConfig: diagConfig,
		Logger:     types.Logger{L: logger},
	}
	c.scope = &Scope{
		root:    c.root,
		imports: c.imports,
		used:    make(map[string]bool),
		enter:   c.bindAlias,
	}
	return c
}

// fail records a terminal error for one declaration. Resolution of the
// rest of the unit continues.
func (c *resolverContext) fail(err *Error) {
	if err.Unit == "" {
		err.Unit = c.unit
	}
	c.errors = append(c.errors, err)
	d := err.Diagnostic()
	c.emit(d.Code, d.Severity, err.Pos, d.Message)
	if c.TraceEnabled() {
		c.Trace("declaration failed",
			slog.String("code", d.Code),
			slog.String("name", err.Name),
			slog.String("path", err.Path.String()))
	}
}

// emit records a diagnostic, filtered by the current config's severity and code rules.
func (c *resolverContext) emit(code string, severity Severity, pos Pos, message string) {
	if !c.diagConfig.ShouldReport(code, severity) {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: c.diagConfig.Severity(code, severity),
		Code:     code,
		Message:  message,
		Unit:     c.unit,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

func (c *resolverContext) warnf(code string, severity Severity, pos Pos, format string, args ...any) {
	c.emit(code, severity, pos, fmt.Sprintf(format, args...))
}

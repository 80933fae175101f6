package main

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/typemod"
)

// DumpOutput is the top-level output for the dump command.
type DumpOutput struct {
	Units       []UnitJSON       `json:"units" yaml:"units"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// UnitJSON holds one unit and the module tree that was dumped for it.
type UnitJSON struct {
	Name     string      `json:"name" yaml:"name"`
	Requires []string    `json:"requires,omitempty" yaml:"requires,omitempty"`
	Root     *ModuleJSON `json:"root" yaml:"root"`
	Errors   []string    `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ModuleJSON holds a module and its children in declaration order.
type ModuleJSON struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Alias    string        `json:"alias,omitempty" yaml:"alias,omitempty"`
	Bindings []BindingJSON `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Modules  []*ModuleJSON `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// BindingJSON holds a type binding.
type BindingJSON struct {
	Name       string `json:"name" yaml:"name"`
	Unit       string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Exported   bool   `json:"exported,omitempty" yaml:"exported,omitempty"`
	Ref        string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// DiagnosticJSON holds a diagnostic.
type DiagnosticJSON struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// buildModuleJSON converts a module tree. Aliases are recorded by target
// and not descended into, which keeps re-exports from duplicating output.
func buildModuleJSON(m *typemod.Module) *ModuleJSON {
	out := &ModuleJSON{Path: m.Path().String()}
	if !m.IsSyntheticRoot() {
		out.Name = m.Name()
	}
	if m.IsAlias() {
		out.Alias = m.AliasPath().String()
		return out
	}
	for _, n := range m.Children() {
		switch n := n.(type) {
		case *typemod.Binding:
			out.Bindings = append(out.Bindings, buildBindingJSON(n))
		case *typemod.Module:
			out.Modules = append(out.Modules, buildModuleJSON(n))
		}
	}
	return out
}

func buildBindingJSON(b *typemod.Binding) BindingJSON {
	out := BindingJSON{
		Name:     b.Name(),
		Unit:     b.Unit(),
		Exported: b.Exported(),
		Line:     b.Pos().Line,
	}
	if b.IsRef() {
		out.Ref = b.Expr().String()
	}
	if def := b.Definition(); def != nil {
		out.Definition = def.String()
	}
	return out
}

func buildDiagnosticJSON(d typemod.Diagnostic) DiagnosticJSON {
	return DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code,
		Unit:     d.Unit,
		Line:     d.Line,
		Message:  d.Message,
	}
}

func marshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func marshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

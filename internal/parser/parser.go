// Package parser reads declaration files into tmod declaration sequences.
//
// A declaration file is a YAML document:
//
//	unit: shapes
//	decls:
//	  - require: Geo
//	    unit: geometry
//	  - type: Point
//	    ref: Geo.Point
//	    export: true
//	  - module: Solid
//	    decls:
//	      - type: Volume
//	        def: float64
//	  - alias: S
//	    path: Solid
//
// The parser recovers from malformed entries: each bad entry is reported
// as a diagnostic and skipped, and the rest of the file is still read.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/typemod/internal/types"
	"github.com/golangsnmp/typemod/tmod"
)

// File is the result of parsing one declaration file.
type File struct {
	// Unit is the declared unit name, or the default passed to Parse
	// when the file does not name one.
	Unit        string
	UnitPos     tmod.Pos
	Decls       []tmod.Decl
	Diagnostics []tmod.Diagnostic
}

// Requires returns the distinct unit names the file requires, sorted.
func (f *File) Requires() []string {
	var out []string
	for _, d := range f.Decls {
		if d.Kind == tmod.DeclRequire && d.Unit != "" {
			out = append(out, d.Unit)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// HasFatal reports whether the file could not be read at all.
func (f *File) HasFatal() bool {
	return slices.ContainsFunc(f.Diagnostics, func(d tmod.Diagnostic) bool {
		return d.Severity == tmod.SeverityFatal
	})
}

// Parser converts a YAML declaration file into declarations and diagnostics.
type Parser struct {
	source      []byte
	unit        string
	diagnostics []tmod.Diagnostic
	diagConfig  tmod.DiagnosticConfig
	types.Logger
}

// New returns a Parser over source. Pass nil for logger to disable logging.
func New(source []byte, logger *slog.Logger, diagConfig tmod.DiagnosticConfig) *Parser {
	return &Parser{
		source:     source,
		diagConfig: diagConfig,
		Logger:     types.Logger{L: logger},
	}
}

// Parse reads the file. defaultUnit names the unit when the file has no
// unit key; callers pass the file's base name.
func (p *Parser) Parse(defaultUnit string) *File {
	p.unit = defaultUnit
	f := &File{Unit: defaultUnit}

	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(p.source))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return f
		}
		p.fatal(err)
		f.Diagnostics = p.diagnostics
		return f
	}

	// An empty document holds no declarations.
	if len(doc.Content) == 0 {
		f.Diagnostics = p.diagnostics
		return f
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		p.errorf(types.DiagParseError, top, "declaration file must be a mapping, got %s", kindName(top))
		f.Diagnostics = p.diagnostics
		return f
	}

	var declsNode *yaml.Node
	for key, val := range pairs(top) {
		switch key.Value {
		case "unit":
			if val.Kind != yaml.ScalarNode || !tmod.IsIdentifier(val.Value) {
				p.errorf(types.DiagInvalidIdentifier, val, "invalid unit name %q", val.Value)
				continue
			}
			f.Unit = val.Value
			f.UnitPos = pos(val)
			p.unit = val.Value
		case "decls":
			declsNode = val
		default:
			p.unknownKey(key)
		}
	}

	if declsNode != nil {
		f.Decls = p.parseDecls(declsNode, 0)
	}
	f.Diagnostics = p.diagnostics

	p.Log(slog.LevelDebug, "parsing complete",
		slog.String("unit", f.Unit),
		slog.Int("decls", len(f.Decls)),
		slog.Int("diagnostics", len(f.Diagnostics)))
	return f
}

// Parse is a convenience wrapper around New(...).Parse(defaultUnit).
func Parse(source []byte, defaultUnit string, logger *slog.Logger, diagConfig tmod.DiagnosticConfig) *File {
	return New(source, logger, diagConfig).Parse(defaultUnit)
}

func (p *Parser) parseDecls(seq *yaml.Node, depth int) []tmod.Decl {
	if seq.Kind == yaml.ScalarNode && seq.Tag == "!!null" {
		return nil
	}
	if seq.Kind != yaml.SequenceNode {
		p.errorf(types.DiagParseError, seq, "decls must be a list, got %s", kindName(seq))
		return nil
	}
	var out []tmod.Decl
	for _, item := range seq.Content {
		out = append(out, p.parseDecl(item, depth)...)
	}
	return out
}

// entry collects the keys of one declaration mapping.
type entry struct {
	node   *yaml.Node
	kind   tmod.DeclKind
	head   *yaml.Node // value of the kind key
	fields map[string]*yaml.Node
}

var kindKeys = map[string]tmod.DeclKind{
	"type":    tmod.DeclType,
	"module":  tmod.DeclModuleOpen,
	"alias":   tmod.DeclAlias,
	"require": tmod.DeclRequire,
}

var allowedFields = map[tmod.DeclKind][]string{
	tmod.DeclType:       {"def", "ref", "export"},
	tmod.DeclModuleOpen: {"decls", "export"},
	tmod.DeclAlias:      {"path", "export"},
	tmod.DeclRequire:    {"unit"},
}

func (p *Parser) parseDecl(n *yaml.Node, depth int) []tmod.Decl {
	e, ok := p.readEntry(n)
	if !ok {
		return nil
	}
	name := e.head.Value
	if e.head.Kind != yaml.ScalarNode || !tmod.IsIdentifier(name) {
		p.errorf(types.DiagInvalidIdentifier, e.head, "invalid %s name %q", e.kind, name)
		return nil
	}
	at := pos(e.head)

	if p.TraceEnabled() {
		p.Trace("declaration",
			slog.String("kind", e.kind.String()),
			slog.String("name", name),
			slog.Int("depth", depth))
	}

	switch e.kind {
	case tmod.DeclType:
		expr, ok := p.typeExpr(e)
		if !ok {
			return nil
		}
		exported, ok := p.boolField(e, "export")
		if !ok {
			return nil
		}
		d := tmod.TypeDecl(name, expr)
		d.Exported = exported
		d.Pos = at
		return []tmod.Decl{d}

	case tmod.DeclModuleOpen:
		if v := e.fields["export"]; v != nil {
			p.errorf(types.DiagExportOnModule, v,
				"module %s cannot be exported directly; export its members", name)
		}
		var body []tmod.Decl
		if v := e.fields["decls"]; v != nil {
			body = p.parseDecls(v, depth+1)
		}
		decls := tmod.ModuleDecls(name, body...)
		decls[0].Pos = at
		decls[len(decls)-1].Pos = pos(n)
		return decls

	case tmod.DeclAlias:
		v := e.fields["path"]
		if v == nil {
			p.errorf(types.DiagParseError, n, "alias %s has no path", name)
			return nil
		}
		path, ok := p.path(v)
		if !ok {
			return nil
		}
		if v := e.fields["export"]; v != nil {
			exported, ok := p.boolField(e, "export")
			if !ok {
				return nil
			}
			if !exported {
				p.errorf(types.DiagParseError, v, "alias %s is always exported", name)
				return nil
			}
		}
		d := tmod.AliasDecl(name, path)
		d.Pos = at
		return []tmod.Decl{d}

	case tmod.DeclRequire:
		v := e.fields["unit"]
		if v == nil || v.Kind != yaml.ScalarNode || v.Value == "" {
			p.errorf(types.DiagParseError, n, "require %s has no unit", name)
			return nil
		}
		if !tmod.IsIdentifier(v.Value) {
			p.errorf(types.DiagInvalidIdentifier, v, "invalid unit name %q", v.Value)
			return nil
		}
		d := tmod.RequireDecl(name, v.Value)
		d.Pos = at
		return []tmod.Decl{d}
	}
	return nil
}

// readEntry checks that n is a mapping with exactly one kind key and only
// the fields that kind allows.
func (p *Parser) readEntry(n *yaml.Node) (entry, bool) {
	e := entry{node: n, fields: make(map[string]*yaml.Node)}
	if n.Kind != yaml.MappingNode {
		p.errorf(types.DiagParseError, n, "declaration must be a mapping, got %s", kindName(n))
		return e, false
	}

	var kindKey *yaml.Node
	for key, val := range pairs(n) {
		if k, ok := kindKeys[key.Value]; ok {
			if kindKey != nil {
				p.errorf(types.DiagParseError, key, "declaration has both %s and %s", kindKey.Value, key.Value)
				return e, false
			}
			kindKey = key
			e.kind = k
			e.head = val
			continue
		}
		e.fields[key.Value] = val
	}
	if kindKey == nil {
		p.errorf(types.DiagParseError, n, "declaration needs one of type, module, alias, require")
		return e, false
	}

	allowed := allowedFields[e.kind]
	for key := range pairs(n) {
		if _, isKind := kindKeys[key.Value]; isKind || slices.Contains(allowed, key.Value) {
			continue
		}
		p.unknownKey(key)
		delete(e.fields, key.Value)
	}
	return e, true
}

func (p *Parser) typeExpr(e entry) (tmod.TypeExpr, bool) {
	def, ref := e.fields["def"], e.fields["ref"]
	switch {
	case def != nil && ref != nil:
		p.errorf(types.DiagParseError, ref, "type %s has both def and ref", e.head.Value)
		return nil, false
	case ref != nil:
		path, ok := p.path(ref)
		if !ok {
			return nil, false
		}
		return tmod.Ref{Path: path}, true
	case def != nil:
		if def.Kind != yaml.ScalarNode {
			p.errorf(types.DiagParseError, def, "def of %s must be a scalar, got %s", e.head.Value, kindName(def))
			return nil, false
		}
		return tmod.Opaque(def.Value), true
	default:
		p.errorf(types.DiagParseError, e.node, "type %s needs def or ref", e.head.Value)
		return nil, false
	}
}

func (p *Parser) path(n *yaml.Node) (tmod.Path, bool) {
	if n.Kind != yaml.ScalarNode {
		p.errorf(types.DiagParseError, n, "path must be a string, got %s", kindName(n))
		return nil, false
	}
	path := tmod.ParsePath(n.Value)
	if !path.Valid() {
		p.errorf(types.DiagInvalidIdentifier, n, "invalid path %q", n.Value)
		return nil, false
	}
	return path, true
}

func (p *Parser) boolField(e entry, key string) (bool, bool) {
	v := e.fields[key]
	if v == nil {
		return false, true
	}
	var b bool
	if v.Kind != yaml.ScalarNode || v.Decode(&b) != nil {
		p.errorf(types.DiagParseError, v, "%s must be true or false, got %q", key, v.Value)
		return false, false
	}
	return b, true
}

func (p *Parser) unknownKey(key *yaml.Node) {
	p.emit(types.DiagUnknownKey, tmod.SeverityMinor, pos(key), fmt.Sprintf("unknown key %q", key.Value))
}

func (p *Parser) errorf(code string, n *yaml.Node, format string, args ...any) {
	p.emit(code, tmod.SeverityError, pos(n), fmt.Sprintf(format, args...))
}

// yamlLine matches the location prefix of yaml.v3 syntax errors.
var yamlLine = regexp.MustCompile(`^yaml: line (\d+): `)

func (p *Parser) fatal(err error) {
	msg := err.Error()
	var at tmod.Pos
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		at.Line, _ = strconv.Atoi(m[1])
		msg = msg[len(m[0]):]
	}
	p.emit(types.DiagParseError, tmod.SeverityFatal, at, msg)
}

// emit records a diagnostic if the current config reports it.
func (p *Parser) emit(code string, severity tmod.Severity, at tmod.Pos, message string) {
	if !p.diagConfig.ShouldReport(code, severity) {
		return
	}
	p.diagnostics = append(p.diagnostics, tmod.Diagnostic{
		Severity: p.diagConfig.Severity(code, severity),
		Code:     code,
		Message:  message,
		Unit:     p.unit,
		Line:     at.Line,
		Column:   at.Column,
	})
}

func pos(n *yaml.Node) tmod.Pos {
	return tmod.Pos{Line: n.Line, Column: n.Column}
}

// pairs iterates over the key/value pairs of a mapping node.
func pairs(n *yaml.Node) iter.Seq2[*yaml.Node, *yaml.Node] {
	return func(yield func(key, val *yaml.Node) bool) {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i], n.Content[i+1]) {
				return
			}
		}
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	case yaml.AliasNode:
		return "yaml alias"
	default:
		return "node"
	}
}

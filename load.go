package typemod

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/golangsnmp/typemod/internal/graph"
	"github.com/golangsnmp/typemod/internal/parser"
	"github.com/golangsnmp/typemod/internal/types"
	"github.com/golangsnmp/typemod/tmod"
)

// parsedUnit is one declaration file after parsing.
type parsedUnit struct {
	file *parser.File
	path string
}

// loader holds the state of one Load call.
type loader struct {
	sources []Source
	cfg     loadConfig
	types.Logger

	units       map[string]*parsedUnit
	diagnostics []tmod.Diagnostic
}

func loadProgram(ctx context.Context, sources []Source, cfg loadConfig) (*tmod.Program, error) {
	l := &loader{
		sources: sources,
		cfg:     cfg,
		Logger:  types.Logger{L: types.Component(cfg.logger, "loader")},
		units:   make(map[string]*parsedUnit),
	}

	var err error
	if cfg.units != nil {
		err = l.parseByName(ctx, cfg.units)
	} else {
		err = l.parseAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return l.resolve(ctx)
}

// parseAll parses every unit the sources list, in parallel.
func (l *loader) parseAll(ctx context.Context) error {
	var names []string
	seen := make(map[string]bool)
	for _, src := range l.sources {
		n, err := src.ListUnits()
		if err != nil {
			return fmt.Errorf("list units: %w", err)
		}
		for _, name := range n {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return nil
	}

	l.Log(slog.LevelInfo, "parallel loading", slog.Int("files", len(names)))

	results := make([]*parsedUnit, len(names))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			results[i] = l.parseOne(name)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Collect in name order so clashes are reported deterministically.
	for _, pu := range results {
		if pu != nil {
			l.add(pu)
		}
	}
	l.Log(slog.LevelInfo, "parallel loading complete", slog.Int("units", len(l.units)))
	return nil
}

// parseByName parses the named units and, transitively, the units they
// require.
func (l *loader) parseByName(ctx context.Context, names []string) error {
	queue := slices.Clone(names)
	tried := make(map[string]bool)
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := queue[0]
		queue = queue[1:]
		if tried[name] {
			continue
		}
		tried[name] = true
		if _, ok := l.units[name]; ok {
			continue
		}

		pu := l.parseOne(name)
		if pu == nil {
			l.Log(slog.LevelDebug, "unit not found", slog.String("unit", name))
			if requested[name] {
				l.emit(types.DiagUnitNotFound, tmod.SeveritySevere, name, tmod.Pos{},
					fmt.Sprintf("unit %q not found in any source", name))
			}
			continue
		}
		if l.add(pu) {
			queue = append(queue, pu.file.Requires()...)
		}
	}
	return nil
}

// parseOne finds and parses a unit file. It returns nil when no source
// has the unit or the content does not look like a declaration file.
func (l *loader) parseOne(name string) *parsedUnit {
	content, path, err := findUnitContent(l.sources, name)
	if err != nil {
		return nil
	}
	if !l.cfg.noHeuristic && !looksLikeDeclFile(content) {
		l.Log(slog.LevelDebug, "content rejected by heuristic", slog.String("unit", name), slog.String("path", path))
		return nil
	}
	f := parser.Parse(content, name, types.Component(l.cfg.logger, "parser"), l.cfg.diagConfig)
	return &parsedUnit{file: f, path: path}
}

// add records a parsed unit. A second file declaring the same unit name is
// reported and dropped.
func (l *loader) add(pu *parsedUnit) bool {
	l.diagnostics = append(l.diagnostics, pu.file.Diagnostics...)
	if pu.file.HasFatal() {
		return false
	}
	name := pu.file.Unit
	if prev, exists := l.units[name]; exists {
		l.emit(types.DiagUnitNameClash, tmod.SeveritySevere, name, pu.file.UnitPos,
			fmt.Sprintf("unit %s in %s is already defined in %s", name, pu.path, prev.path))
		return false
	}
	l.units[name] = pu
	return true
}

// resolve orders the parsed units by their requires, rejects require
// cycles, and resolves the rest in dependency order.
func (l *loader) resolve(ctx context.Context) (*tmod.Program, error) {
	g := graph.New(len(l.units))
	for name, pu := range l.units {
		from := graph.Key{Unit: name}
		g.AddNode(from)
		for _, req := range pu.file.Requires() {
			g.AddEdge(from, graph.Key{Unit: req})
		}
	}

	order, cycles := g.ResolutionOrder()
	for _, cycle := range cycles {
		names := make([]string, len(cycle))
		for i, k := range cycle {
			names[i] = k.Unit
		}
		for _, k := range cycle {
			pu, ok := l.units[k.Unit]
			if !ok {
				continue
			}
			l.emit(types.DiagCyclicRequire, tmod.SeveritySevere, k.Unit, pu.file.UnitPos,
				fmt.Sprintf("unit %s is part of a require cycle: %s", k.Unit, strings.Join(names, ", ")))
		}
		l.Log(slog.LevelWarn, "require cycle", slog.Any("units", names))
	}

	registry := tmod.NewRegistry()
	req := tmod.ChainRequirers(registry, l.cfg.requirer)
	resolverLogger := types.Component(l.cfg.logger, "resolver")

	var units []*tmod.Unit
	for _, k := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pu, ok := l.units[k.Unit]
		if !ok {
			// Required but not loaded; the requiring unit reports it.
			continue
		}
		u := tmod.Resolve(k.Unit, pu.file.Decls, req, resolverLogger, &l.cfg.diagConfig)
		if err := registry.Publish(u); err != nil {
			return nil, fmt.Errorf("publish %s: %w", k.Unit, err)
		}
		units = append(units, u)
	}

	slices.SortStableFunc(l.diagnostics, func(a, b tmod.Diagnostic) int {
		if c := cmp.Compare(a.Unit, b.Unit); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})

	l.Log(slog.LevelInfo, "load complete",
		slog.Int("units", len(units)),
		slog.Int("cycles", len(cycles)))
	return tmod.NewProgram(units, l.diagnostics), nil
}

// emit records a loader diagnostic, filtered by the diagnostic config.
func (l *loader) emit(code string, severity tmod.Severity, unit string, pos tmod.Pos, message string) {
	cfg := l.cfg.diagConfig
	if !cfg.ShouldReport(code, severity) {
		return
	}
	l.diagnostics = append(l.diagnostics, tmod.Diagnostic{
		Severity: cfg.Severity(code, severity),
		Code:     code,
		Message:  message,
		Unit:     unit,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

func findUnitContent(sources []Source, name string) ([]byte, string, error) {
	for _, src := range sources {
		result, err := src.Find(name)
		if err != nil {
			continue
		}
		content, err := io.ReadAll(result.Reader)
		_ = result.Reader.Close()
		if err == nil {
			return content, result.Path, nil
		}
	}
	return nil, "", fs.ErrNotExist
}

var sigDecls = []byte("decls")

// binaryCheckSize bounds the prefix scanned for NUL bytes.
const binaryCheckSize = 1024

// looksLikeDeclFile rejects binary files and YAML that has no decls key,
// so unrelated files sharing an extension are skipped.
func looksLikeDeclFile(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	probe := content[:min(binaryCheckSize, len(content))]
	if bytes.IndexByte(probe, 0) >= 0 {
		return false
	}
	return bytes.Contains(content, sigDecls)
}

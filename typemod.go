package typemod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golangsnmp/typemod/internal/types"
	"github.com/golangsnmp/typemod/tmod"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no unit sources provided")

// ErrDiagnosticThreshold is returned when a reported diagnostic reaches
// DiagnosticConfig.FailAt.
var ErrDiagnosticThreshold = errors.New("diagnostic threshold reached")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (declarations, aliases, references).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// LoadOption configures Load and BuildUnit.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger      *slog.Logger
	sources     []Source
	units       []string
	systemPaths bool
	requirer    tmod.Requirer
	diagConfig  tmod.DiagnosticConfig
	noHeuristic bool
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{diagConfig: tmod.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithSource adds unit sources, searched in the order given.
func WithSource(srcs ...Source) LoadOption {
	return func(c *loadConfig) { c.sources = append(c.sources, srcs...) }
}

// WithUnits restricts loading to the named units and the units they
// require, transitively. Without it, every unit file in the sources is
// loaded.
func WithUnits(names ...string) LoadOption {
	return func(c *loadConfig) { c.units = append(c.units, names...) }
}

// WithDiagnosticConfig sets the strictness, failure threshold and
// per-code filtering for diagnostics.
func WithDiagnosticConfig(cfg DiagnosticConfig) LoadOption {
	return func(c *loadConfig) { c.diagConfig = cfg }
}

// WithRequirer supplies surfaces for units that are not found in the
// sources, for example units resolved by an earlier Load.
func WithRequirer(r Requirer) LoadOption {
	return func(c *loadConfig) { c.requirer = r }
}

// WithNoHeuristic disables the content check that skips files which do
// not look like declaration files.
func WithNoHeuristic() LoadOption {
	return func(c *loadConfig) { c.noHeuristic = true }
}

// Load finds, parses and resolves units, and returns them as a Program.
//
// Units are resolved in require order; a unit's surface is published only
// after the unit is fully resolved. Units that require each other in a
// cycle are reported with cyclic-require diagnostics and not resolved.
//
// The returned error is non-nil when sources cannot be read, ctx is
// cancelled, or a reported diagnostic reaches the FailAt severity. In the
// last case the program is returned as well.
//
// Example:
//
//	prog, err := typemod.Load(ctx,
//	    typemod.WithSource(typemod.MustDir("./units")),
//	    typemod.WithLogger(slog.Default()),
//	)
func Load(ctx context.Context, opts ...LoadOption) (*Program, error) {
	cfg := newLoadConfig(opts)
	logger := types.Logger{L: cfg.logger}

	sources := cfg.sources
	if cfg.systemPaths {
		sources = append(sources, discoverSystemSources(logger)...)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	prog, err := loadProgram(ctx, sources, cfg)
	if err != nil {
		return nil, err
	}
	if err := checkThreshold(prog.Diagnostics(), cfg.diagConfig); err != nil {
		return prog, err
	}
	return prog, nil
}

// BuildUnit resolves one unit from an in-memory declaration list. Required
// units are served by the requirer set with WithRequirer. The unit is
// returned even when it has errors; the error joins all of them.
func BuildUnit(name string, decls []Decl, opts ...LoadOption) (*Unit, error) {
	cfg := newLoadConfig(opts)
	u := tmod.Resolve(name, decls, cfg.requirer, types.Component(cfg.logger, "resolver"), &cfg.diagConfig)
	return u, u.Err()
}

// PublicSurface returns the externally visible surface of a unit root.
func PublicSurface(root *Module) *Module {
	return tmod.PublicSurface(root)
}

func checkThreshold(diags []Diagnostic, cfg DiagnosticConfig) error {
	count := 0
	var first Diagnostic
	for _, d := range diags {
		if cfg.ShouldFail(d.Severity) {
			if count == 0 {
				first = d
			}
			count++
		}
	}
	if count == 0 {
		return nil
	}
	if count == 1 {
		return fmt.Errorf("%w: %s", ErrDiagnosticThreshold, first)
	}
	return fmt.Errorf("%w: %s (and %d more)", ErrDiagnosticThreshold, first, count-1)
}

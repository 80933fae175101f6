package tmod

import (
	"log/slog"
)

// Resolve builds and resolves one unit from its parsed declarations.
//
// Resolution runs in phases:
//
//  1. Build: construct the module tree, bind requires, reserve alias names
//  2. Aliases: bind every re-export alias to its target module
//  3. Containment: reject aliases that would make the tree cyclic
//  4. References: link type bodies that are paths to the bindings they name
//  5. Export: freeze the tree and compute exportability and views
//
// Errors are collected per declaration; a failing declaration never stops
// the rest of the unit from resolving. req supplies the surfaces of required
// units and may be nil when the unit has no requires. If logger is nil,
// logging is disabled. If diagConfig is nil, DefaultConfig is used.
func Resolve(unit string, decls []Decl, req Requirer, logger *slog.Logger, diagConfig *DiagnosticConfig) *Unit {
	cfg := DefaultConfig()
	if diagConfig != nil {
		cfg = *diagConfig
	}
	c := newResolverContext(unit, req, logger, cfg)

	c.Log(slog.LevelDebug, "starting phase", slog.String("unit", unit), slog.String("phase", "build"))
	buildTree(c, decls)
	c.Log(slog.LevelDebug, "phase complete", slog.String("unit", unit), slog.String("phase", "build"),
		slog.Int("bindings", len(c.bindings)),
		slog.Int("aliases", len(c.aliases)),
		slog.Int("requires", len(c.imports)))

	c.Log(slog.LevelDebug, "starting phase", slog.String("unit", unit), slog.String("phase", "aliases"))
	resolveAliases(c)
	checkContainment(c)

	c.Log(slog.LevelDebug, "starting phase", slog.String("unit", unit), slog.String("phase", "references"))
	resolveReferences(c)
	reportUnusedRequires(c)

	c.Log(slog.LevelDebug, "starting phase", slog.String("unit", unit), slog.String("phase", "export"))
	u := buildSurface(c)

	if len(c.errors) > 0 {
		c.Log(slog.LevelWarn, "unit has errors",
			slog.String("unit", unit),
			slog.Int("count", len(c.errors)))
	}
	c.Log(slog.LevelInfo, "resolution complete",
		slog.String("unit", unit),
		slog.Int("exported", u.surface.Len()))

	return u
}

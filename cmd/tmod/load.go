package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golangsnmp/typemod"
)

const loadUsage = `tmod load - Load and resolve units

Usage:
  tmod load [options] [UNIT...]

Loads the named units and everything they require, or every unit on the
search path when no unit is named.

Options:
  --strict      Report everything and fail on any resolution error
  --permissive  Only fail on fatal problems
  --level N     Set strictness level (0-6, lower is stricter)
  --stats       Show detailed statistics
  -h, --help    Show help

Examples:
  tmod load -p testdata/units shapes
  tmod load -p testdata/units --strict
  tmod load -vv -p testdata/units shapes   # Trace logging
`

func (c *cli) cmdLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, loadUsage) }

	strict := fs.Bool("strict", false, "strict mode")
	permissive := fs.Bool("permissive", false, "permissive mode")
	level := fs.Int("level", -1, "set strictness level (0-6)")
	stats := fs.Bool("stats", false, "show detailed statistics")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, loadUsage)
		return exitOK
	}

	cfg := typemod.DefaultConfig()
	switch {
	case *strict:
		cfg = typemod.StrictConfig()
	case *permissive:
		cfg = typemod.PermissiveConfig()
	case *level >= 0:
		cfg.Level = typemod.StrictnessLevel(*level)
	}

	prog, loadErr := c.load(fs.Args(), typemod.WithDiagnosticConfig(cfg))
	if loadErr != nil && prog == nil {
		printError("failed to load: %v", loadErr)
		return exitError
	}

	st := collectStats(prog)
	if *stats {
		printDetailedStats(os.Stdout, st)
	} else {
		fmt.Printf("Loaded %d units (%d bindings, %d modules, %d aliases)\n",
			st.units, st.bindings, st.modules, st.aliases)
	}

	diags := prog.Diagnostics()
	hasSevere := false
	for _, d := range diags {
		if d.Severity.AtLeast(typemod.SeveritySevere) {
			hasSevere = true
		}
	}
	if len(diags) > 0 {
		fmt.Println()
		fmt.Println("Diagnostics:")
		for _, d := range diags {
			printDiagnostic(os.Stdout, d)
		}
	}

	if loadErr != nil {
		printError("%v", loadErr)
		return exitError
	}
	if hasSevere {
		return exitError
	}
	if *strict && prog.HasErrors() {
		return exitStrictViolation
	}
	return exitOK
}

type loadStats struct {
	units    int
	bindings int
	exported int
	modules  int
	aliases  int
	errors   int
}

func collectStats(prog *typemod.Program) loadStats {
	st := loadStats{units: prog.Len()}
	var walk func(m *typemod.Module)
	walk = func(m *typemod.Module) {
		for _, n := range m.Children() {
			switch n := n.(type) {
			case *typemod.Binding:
				st.bindings++
				if n.Exported() {
					st.exported++
				}
			case *typemod.Module:
				if n.IsAlias() {
					st.aliases++
					continue
				}
				st.modules++
				walk(n)
			}
		}
	}
	for _, u := range prog.Units() {
		walk(u.Root())
		st.errors += len(u.Errors())
	}
	return st
}

func printDiagnostic(w io.Writer, d typemod.Diagnostic) {
	prefix := "  " + d.Severity.String() + ": "
	if d.Code != "" {
		prefix += "[" + d.Code + "] "
	}
	switch {
	case d.Unit != "" && d.Line > 0:
		fmt.Fprintf(w, "%s%s:%d: %s\n", prefix, d.Unit, d.Line, d.Message)
	case d.Unit != "":
		fmt.Fprintf(w, "%s%s: %s\n", prefix, d.Unit, d.Message)
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, d.Message)
	}
}

func printDetailedStats(w io.Writer, st loadStats) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Units:          %d\n", st.units)
	fmt.Fprintf(w, "  Bindings:       %d\n", st.bindings)
	fmt.Fprintf(w, "  Exported:       %d\n", st.exported)
	fmt.Fprintf(w, "  Modules:        %d\n", st.modules)
	fmt.Fprintf(w, "  Aliases:        %d\n", st.aliases)
	fmt.Fprintf(w, "  Errors:         %d\n", st.errors)
}

// Command tmod is a CLI tool for loading, querying, and dumping type module units.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/golangsnmp/typemod"
	"github.com/golangsnmp/typemod/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK              = 0 // success
	exitError           = 1 // user error, processing failure, or severe diagnostic
	exitStrictViolation = 2 // strict mode found resolution errors
)

const usage = `tmod - type module resolver

Usage:
  tmod <command> [options] [arguments]

Commands:
  load    Load and resolve units
  get     Resolve a path inside a unit
  dump    Output unit surfaces as JSON or YAML
  list    List available unit names
  paths   Show unit search paths
  version Show version

Common options:
  -p, --path PATH   Add unit search path (repeatable)
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  -h, --help        Show help

Examples:
  tmod load -p testdata/units shapes
  tmod get -p testdata/units -u shapes Shape.Origin
  tmod dump -p testdata/units shapes
  tmod paths
`

type cli struct {
	cliutil.GlobalFlags
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	flags, cmd, cmdArgs := cliutil.ParseGlobalArgs(args)
	c := &cli{GlobalFlags: flags}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "load":
		return c.cmdLoad(cmdArgs)
	case "get":
		return c.cmdGet(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "list":
		return c.cmdList(cmdArgs)
	case "paths":
		return c.cmdPaths(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = typemod.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSources returns the composed source list from -p paths or system path
// discovery. Returns (nil, true) when no explicit paths are set, indicating
// that WithSystemPaths() should be used instead.
func (c *cli) buildSources() ([]typemod.Source, bool, error) {
	if len(c.Paths) == 0 {
		return nil, true, nil
	}
	var sources []typemod.Source
	for _, p := range c.Paths {
		if src, err := typemod.DirTree(p); err == nil {
			sources = append(sources, src)
		} else {
			fmt.Fprintf(os.Stderr, "warning: cannot access path %s: %v\n", p, err)
		}
	}
	if len(sources) == 0 {
		return nil, false, typemod.ErrNoSources
	}
	return sources, false, nil
}

// load loads the named units (all units when names is empty).
func (c *cli) load(names []string, extraOpts ...typemod.LoadOption) (*typemod.Program, error) {
	var opts []typemod.LoadOption

	sources, useSystem, err := c.buildSources()
	if err != nil {
		return nil, err
	}
	if useSystem {
		opts = append(opts, typemod.WithSystemPaths())
	} else {
		opts = append(opts, typemod.WithSource(sources...))
	}

	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, typemod.WithLogger(logger))
	}
	opts = append(opts, extraOpts...)

	if len(names) > 0 {
		opts = append(opts, typemod.WithUnits(names...))
	}
	return typemod.Load(context.Background(), opts...)
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("tmod %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}

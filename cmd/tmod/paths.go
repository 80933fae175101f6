package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golangsnmp/typemod"
)

const pathsUsage = `tmod paths - Show unit search paths

Usage:
  tmod paths [options]

Shows the unit search paths that would be used. When -p paths are specified,
shows those. Otherwise shows system-discovered paths (defaults, config files,
and TYPEMOD_PATH).

Options:
  -h, --help   Show help

Examples:
  tmod paths
  TYPEMOD_PATH=+/opt/units tmod paths
`

func (c *cli) cmdPaths(args []string) int {
	fs := flag.NewFlagSet("paths", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, pathsUsage) }

	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, pathsUsage)
		return exitOK
	}

	paths := c.Paths
	if len(paths) == 0 {
		paths = typemod.SystemPaths(c.setupLogger())
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no search paths found")
		return exitOK
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return exitOK
}

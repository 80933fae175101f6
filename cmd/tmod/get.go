package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golangsnmp/typemod"
)

const getUsage = `tmod get - Resolve a path inside a unit

Usage:
  tmod get [options] -u UNIT PATH

Resolves PATH the way declarations inside UNIT see it: against the unit's
own tree first, then its require names. With --surface the path is resolved
against the public surface instead, as a requiring unit would see it.

Options:
  -u, --unit UNIT   Unit to resolve in (required)
  --surface         Resolve against the public surface
  --format FMT      Output format: text, json (default: text)
  -h, --help        Show help

Examples:
  tmod get -p testdata/units -u shapes Shape.Origin
  tmod get -p testdata/units -u shapes Geo.Vec.Point
  tmod get -p testdata/units -u geometry --surface Vec
`

func (c *cli) cmdGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, getUsage) }

	unit := fs.String("u", "", "unit to resolve in")
	fs.StringVar(unit, "unit", "", "unit to resolve in")
	surface := fs.Bool("surface", false, "resolve against the public surface")
	format := fs.String("format", formatText, "output format: text, json")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, getUsage)
		return exitOK
	}

	if *unit == "" {
		printError("specify -u UNIT")
		fmt.Fprint(os.Stderr, getUsage)
		return exitError
	}
	if fs.NArg() != 1 {
		printError("specify exactly one path")
		fmt.Fprint(os.Stderr, getUsage)
		return exitError
	}
	path := typemod.ParsePath(fs.Arg(0))

	prog, err := c.load([]string{*unit})
	if err != nil && prog == nil {
		printError("failed to load: %v", err)
		return exitError
	}
	u := prog.Unit(*unit)
	if u == nil {
		printError("unit %s did not load", *unit)
		return exitError
	}

	var node typemod.Node
	if *surface {
		node, err = u.ResolveExported(path)
	} else {
		node, err = u.ResolvePath(path)
	}
	if err != nil {
		var terr *typemod.Error
		if errors.As(err, &terr) {
			printError("%s: %s", terr.Kind.Code(), terr.Error())
		} else {
			printError("%v", err)
		}
		return exitError
	}

	switch *format {
	case formatJSON:
		return printNodeJSON(os.Stdout, node)
	case formatText:
		printNode(os.Stdout, node)
		return exitOK
	default:
		printError("unknown format: %s", *format)
		return exitError
	}
}

func printNodeJSON(w io.Writer, node typemod.Node) int {
	var v any
	switch n := node.(type) {
	case *typemod.Binding:
		v = buildBindingJSON(n)
	case *typemod.Module:
		v = buildModuleJSON(n)
	}
	data, err := marshalJSON(v, true)
	if err != nil {
		printError("encoding JSON: %v", err)
		return exitError
	}
	fmt.Fprintln(w, string(data))
	return exitOK
}

func printNode(w io.Writer, node typemod.Node) {
	switch n := node.(type) {
	case *typemod.Binding:
		fmt.Fprintf(w, "%s  (%s)\n", n.Name(), n.Unit())
		fmt.Fprintf(w, "  kind:     %s\n", n.Kind())
		fmt.Fprintf(w, "  exported: %t\n", n.Exported())
		if n.Pos().IsValid() {
			fmt.Fprintf(w, "  line:     %d\n", n.Pos().Line)
		}
		if n.IsRef() {
			fmt.Fprintf(w, "  ref:      %s\n", n.Expr())
		}
		if def := n.Definition(); def != nil {
			fmt.Fprintf(w, "  type:     %s\n", def)
		} else {
			fmt.Fprintln(w, "  type:     (unresolved)")
		}
	case *typemod.Module:
		fmt.Fprintf(w, "%s  (%s)\n", n.Name(), n.Unit())
		fmt.Fprintf(w, "  kind:     %s\n", n.Kind())
		if n.IsAlias() {
			fmt.Fprintf(w, "  alias:    %s\n", n.AliasPath())
		}
		for _, child := range n.Children() {
			switch c := child.(type) {
			case *typemod.Binding:
				fmt.Fprintf(w, "    type %s\n", c.Name())
			case *typemod.Module:
				fmt.Fprintf(w, "    module %s\n", c.Name())
			}
		}
	}
}

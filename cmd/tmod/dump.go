package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/golangsnmp/typemod"
	"github.com/golangsnmp/typemod/cmd/internal/cliutil"
)

const dumpUsage = `tmod dump - Output unit surfaces as JSON or YAML

Usage:
  tmod dump [options] UNIT...

Dumps the public surface of each named unit. With --raw the full internal
tree is dumped instead, private bindings included.

Options:
  --raw            Dump the internal tree instead of the surface
  --compact        Minified JSON (no indentation)
  --format FMT     Output format: json, yaml (default: json)
  -o, --output F   Write to file instead of stdout
  -h, --help       Show help

Examples:
  tmod dump -p testdata/units shapes
  tmod dump -p testdata/units --raw geometry
  tmod dump -p testdata/units --format yaml shapes
  tmod dump -p testdata/units shapes | jq '.units[0].root'
`

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, dumpUsage) }

	raw := fs.Bool("raw", false, "dump the internal tree")
	compact := fs.Bool("compact", false, "minified JSON")
	format := fs.String("format", formatJSON, "output format: json, yaml")
	output := fs.String("o", "", "output file")
	fs.StringVar(output, "output", "", "output file")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, dumpUsage)
		return exitOK
	}

	units := fs.Args()
	if len(units) == 0 {
		printError("no units specified")
		fmt.Fprint(os.Stderr, dumpUsage)
		return exitError
	}

	prog, err := c.load(units)
	if err != nil && prog == nil {
		printError("failed to load: %v", err)
		return exitError
	}

	out := buildDumpOutput(prog, units, *raw)

	var data []byte
	switch *format {
	case formatJSON:
		data, err = marshalJSON(out, !*compact)
	case formatYAML:
		data, err = marshalYAML(out)
	default:
		printError("unknown format: %s", *format)
		return exitError
	}
	if err != nil {
		printError("encoding %s: %v", *format, err)
		return exitError
	}

	w, cleanup, err := cliutil.GetOutput(*output)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer cleanup()

	if _, err := w.Write(data); err != nil {
		printError("writing output: %v", err)
		return exitError
	}
	if *format == formatJSON {
		_, _ = fmt.Fprintln(w)
	}
	return exitOK
}

// buildDumpOutput collects the requested units in the order they were
// named. Units that failed to load are skipped; their diagnostics remain.
func buildDumpOutput(prog *typemod.Program, names []string, raw bool) *DumpOutput {
	out := &DumpOutput{Units: []UnitJSON{}}
	for _, name := range names {
		u := prog.Unit(name)
		if u == nil {
			continue
		}
		uj := UnitJSON{
			Name:     u.Name(),
			Requires: u.ImportNames(),
		}
		if raw {
			uj.Root = buildModuleJSON(u.Root())
		} else {
			uj.Root = buildModuleJSON(u.Surface())
		}
		for _, e := range u.Errors() {
			uj.Errors = append(uj.Errors, e.Error())
		}
		out.Units = append(out.Units, uj)
	}
	for _, d := range prog.Diagnostics() {
		if d.Unit == "" || slices.Contains(names, d.Unit) {
			out.Diagnostics = append(out.Diagnostics, buildDiagnosticJSON(d))
		}
	}
	return out
}

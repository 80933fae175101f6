package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/typemod"
)

const listUsage = `tmod list - List available unit names

Usage:
  tmod list [options]

Lists the unit names the configured sources provide, without resolving
anything. A unit's name is its file name; with --long each file is also
opened and its "unit:" key compared against that name. Files declaring a
different unit are flagged, since loading by name will not find them under
the declared name.

Options:
  --count      Print only the unit count
  --json       Output as JSON
  -l, --long   Show file path and declared unit name
  -h, --help   Show help

Examples:
  tmod list -p testdata/units
  tmod list -p testdata/units --long
  tmod list --json
`

// unitEntry describes one unit file found by the sources.
type unitEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Declared string `json:"declared,omitempty"`
	Mismatch bool   `json:"mismatch,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (c *cli) cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, listUsage) }

	count := fs.Bool("count", false, "print only unit count")
	jsonOut := fs.Bool("json", false, "output as JSON")
	long := fs.Bool("l", false, "show path and declared unit")
	fs.BoolVar(long, "long", false, "show path and declared unit")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, listUsage)
		return exitOK
	}

	sources, useSystem, err := c.buildSources()
	if err != nil {
		printError("%v", err)
		return exitError
	}
	if useSystem {
		sources = typemod.SystemSources(c.setupLogger())
	}
	if len(sources) == 0 {
		printError("no sources available")
		return exitError
	}

	src := typemod.Multi(sources...)
	names, err := src.ListUnits()
	if err != nil {
		printError("listing units: %v", err)
		return exitError
	}
	slices.Sort(names)

	if *count {
		fmt.Println(len(names))
		return exitOK
	}

	if !*long {
		if *jsonOut {
			return writeJSON(os.Stdout, names)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return exitOK
	}

	entries := make([]unitEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, describeUnit(src, name))
	}
	if *jsonOut {
		return writeJSON(os.Stdout, entries)
	}
	printEntries(os.Stdout, entries)
	return exitOK
}

// describeUnit opens the file behind name and reads its unit key. A file
// without one declares the unit named after it.
func describeUnit(src typemod.Source, name string) unitEntry {
	e := unitEntry{Name: name, Declared: name}
	found, err := src.Find(name)
	if err != nil {
		e.Error = err.Error()
		return e
	}
	e.Path = found.Path
	defer found.Reader.Close() //nolint:errcheck // read-only

	declared, err := declaredUnit(found.Reader)
	if err != nil {
		e.Error = err.Error()
		return e
	}
	if declared != "" {
		e.Declared = declared
	}
	e.Mismatch = e.Declared != name
	return e
}

func declaredUnit(r io.Reader) (string, error) {
	var header struct {
		Unit string `yaml:"unit"`
	}
	if err := yaml.NewDecoder(r).Decode(&header); err != nil && err != io.EOF {
		return "", err
	}
	return header.Unit, nil
}

func printEntries(w io.Writer, entries []unitEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		note := ""
		switch {
		case e.Error != "":
			note = "error: " + e.Error
		case e.Mismatch:
			note = "declares unit " + e.Declared
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Path, note)
	}
	_ = tw.Flush()
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		printError("encoding JSON: %v", err)
		return exitError
	}
	return exitOK
}

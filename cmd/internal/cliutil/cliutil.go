// Package cliutil provides shared CLI utilities for the typemod command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// GlobalFlags holds the flags accepted before or after any subcommand.
type GlobalFlags struct {
	Paths    []string
	Verbose  int
	HelpFlag bool
}

// ParseGlobalArgs parses global flags and extracts the subcommand from args.
// Flags handled: -p/--path, -v/--verbose, -vv, -h/--help.
// Unrecognized flags are passed through to the subcommand.
func ParseGlobalArgs(args []string) (flags GlobalFlags, cmd string, cmdArgs []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			flags.Verbose = max(flags.Verbose, 1)
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "-p" || arg == "--path":
			if i+1 < len(args) {
				i++
				flags.Paths = append(flags.Paths, args[i])
			}
		case strings.HasPrefix(arg, "--path="):
			flags.Paths = append(flags.Paths, arg[7:])
		case strings.HasPrefix(arg, "-p") && len(arg) > 2:
			flags.Paths = append(flags.Paths, arg[2:])
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (io.Writer, func(), error) {
	if outputFile == "" || outputFile == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

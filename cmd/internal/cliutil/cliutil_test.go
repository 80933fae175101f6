package cliutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGlobalArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		flags   GlobalFlags
		cmd     string
		cmdArgs []string
	}{
		{
			name: "command only",
			args: []string{"list"},
			cmd:  "list",
		},
		{
			name:    "paths in every form",
			args:    []string{"-p", "a", "dump", "-pb", "--path=c", "--path", "d", "shapes"},
			flags:   GlobalFlags{Paths: []string{"a", "b", "c", "d"}},
			cmd:     "dump",
			cmdArgs: []string{"shapes"},
		},
		{
			name:    "verbosity",
			args:    []string{"-vv", "load", "-v"},
			flags:   GlobalFlags{Verbose: 2},
			cmd:     "load",
			cmdArgs: nil,
		},
		{
			name:    "subcommand flags pass through",
			args:    []string{"get", "-u", "shapes", "--surface", "Shape.Origin"},
			cmd:     "get",
			cmdArgs: []string{"-u", "shapes", "--surface", "Shape.Origin"},
		},
		{
			name:  "help",
			args:  []string{"--help"},
			flags: GlobalFlags{HelpFlag: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, cmd, cmdArgs := ParseGlobalArgs(tt.args)
			assert.Equal(t, tt.flags, flags)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.cmdArgs, cmdArgs)
		})
	}
}

func TestGetOutputStdout(t *testing.T) {
	w, done, err := GetOutput("")
	assert.NoError(t, err)
	assert.NotNil(t, w)
	done()
}

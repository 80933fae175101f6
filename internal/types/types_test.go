package types

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		// Wildcard only
		{"*", "anything", true},
		{"*", "", true},

		// Trailing wildcard
		{"cyclic-*", "cyclic-alias", true},
		{"cyclic-*", "cyclic-", true},
		{"cyclic-*", "unknown-type", false},
		{"cyclic-*", "cyclic", false},

		// Leading wildcard
		{"*-type", "unknown-type", true},
		{"*-TYPE", "unknown-type", false},

		// Exact match
		{"alias-empty", "alias-empty", true},
		{"alias-empty", "alias", false},

		// Edge cases
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchGlob(tt.pattern, tt.s))
		})
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l Logger
	assert.False(t, l.Enabled(slog.LevelError))
	assert.False(t, l.TraceEnabled())
	l.Log(slog.LevelError, "dropped")
	l.Trace("dropped")
	assert.Nil(t, Component(nil, "resolver"))
}

func TestAllDiagnosticCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range AllDiagnosticCodes() {
		assert.False(t, seen[info.Code], "duplicate code %q", info.Code)
		seen[info.Code] = true
		assert.NotEmpty(t, info.Phase)
	}
}

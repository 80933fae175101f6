package tmod

import (
	"fmt"
	"slices"
	"strings"

	"github.com/golangsnmp/typemod/internal/types"
)

// Diagnostic represents an issue found during parsing, resolution, or loading.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g., "unknown-type", "cyclic-require"
	Message  string
	Unit     string // source unit name
	Line     int    // 1-based line number, 0 if not applicable
	Column   int    // 1-based column, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] unit:line:col: message" with location parts omitted when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if d.Unit != "" {
		b.WriteString(d.Unit)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig struct {
	// Level sets the base strictness level.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// FailAt sets the severity threshold for failure.
	// If any reported diagnostic has severity <= FailAt, loading fails.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "cyclic-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration (Normal strictness).
// Resolution errors are reported but do not fail loading; a unit that is
// rejected outright (require cycle, unreadable file) does.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessNormal,
		FailAt: SeveritySevere,
	}
}

// StrictConfig returns a configuration that reports everything and fails
// on any resolution error.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessStrict,
		FailAt: SeverityError,
	}
}

// PermissiveConfig returns a configuration that only fails on fatal
// problems and ignores unused requires.
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{
			types.DiagRequireUnused,
		},
	}
}

// Severity returns the effective severity for a code after overrides.
func (c DiagnosticConfig) Severity(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
//
// Lower severity numbers are more severe (Fatal=0, Info=6).
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return types.MatchGlob(pattern, code)
	}) {
		return false
	}

	sev = c.Severity(code, sev)

	if c.Level >= StrictnessSilent {
		return false
	}
	if c.Level == StrictnessStrict {
		return true
	}
	return int(sev) <= int(c.Level)
}

// ShouldFail returns true if a diagnostic with the given severity should
// cause loading to fail.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

package tmod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/typemod/internal/testutil"
	"github.com/golangsnmp/typemod/tmod"
)

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    tmod.Diagnostic
		want string
	}{
		{tmod.Diagnostic{Severity: tmod.SeverityError, Unit: "u", Line: 3, Column: 5, Message: "bad"}, "[error] u:3:5: bad"},
		{tmod.Diagnostic{Severity: tmod.SeverityMinor, Unit: "u", Line: 3, Message: "bad"}, "[minor] u:3: bad"},
		{tmod.Diagnostic{Severity: tmod.SeveritySevere, Unit: "u", Message: "bad"}, "[severe] u: bad"},
		{tmod.Diagnostic{Severity: tmod.SeverityInfo, Message: "bad"}, "[info] bad"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}

func TestDiagnosticConfigShouldReport(t *testing.T) {
	tests := []struct {
		name string
		cfg  tmod.DiagnosticConfig
		code string
		sev  tmod.Severity
		want bool
	}{
		{"default reports errors", tmod.DefaultConfig(), "unknown-type", tmod.SeverityError, true},
		{"default reports minor", tmod.DefaultConfig(), "alias-empty", tmod.SeverityMinor, true},
		{"default hides info", tmod.DefaultConfig(), "x", tmod.SeverityInfo, false},
		{"strict reports info", tmod.StrictConfig(), "x", tmod.SeverityInfo, true},
		{"permissive ignores unused", tmod.PermissiveConfig(), "require-unused", tmod.SeverityMinor, false},
		{"permissive reports warnings", tmod.PermissiveConfig(), "x", tmod.SeverityWarning, true},
		{"silent", tmod.DiagnosticConfig{Level: tmod.StrictnessSilent}, "x", tmod.SeverityFatal, false},
		{"glob ignore", tmod.DiagnosticConfig{Level: tmod.StrictnessStrict, Ignore: []string{"cyclic-*"}}, "cyclic-alias", tmod.SeverityError, false},
		{
			name: "override raises severity",
			cfg: tmod.DiagnosticConfig{
				Level:     tmod.StrictnessNormal,
				Overrides: map[string]tmod.Severity{"x": tmod.SeverityError},
			},
			code: "x",
			sev:  tmod.SeverityInfo,
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ShouldReport(tt.code, tt.sev))
		})
	}
}

func TestDiagnosticConfigShouldFail(t *testing.T) {
	assert.True(t, tmod.DefaultConfig().ShouldFail(tmod.SeveritySevere))
	assert.False(t, tmod.DefaultConfig().ShouldFail(tmod.SeverityError))
	assert.True(t, tmod.StrictConfig().ShouldFail(tmod.SeverityError))
	assert.False(t, tmod.PermissiveConfig().ShouldFail(tmod.SeveritySevere))
	assert.True(t, tmod.PermissiveConfig().ShouldFail(tmod.SeverityFatal))
}

func TestResolveAppliesOverrides(t *testing.T) {
	cfg := tmod.DefaultConfig()
	cfg.Overrides = map[string]tmod.Severity{"unknown-type": tmod.SeverityWarning}
	cfg.Level = tmod.StrictnessStrict

	u := tmod.Resolve("main", testutil.Decls(testutil.At(testutil.Ref("X", "Nope"), 2, 4)), nil, nil, &cfg)
	require.Len(t, u.Errors(), 1, "overrides change reporting, not resolution")
	require.Len(t, u.Diagnostics(), 1)
	d := u.Diagnostics()[0]
	assert.Equal(t, tmod.SeverityWarning, d.Severity)
	assert.Equal(t, "main", d.Unit)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 4, d.Column)
}

func TestErrorDiagnostic(t *testing.T) {
	e := &tmod.Error{Kind: tmod.ErrorCyclicAlias, Unit: "u", Name: "A", Path: tmod.Path{"B"}, Pos: tmod.Pos{Line: 1}}
	d := e.Diagnostic()
	assert.Equal(t, "cyclic-alias", d.Code)
	assert.Equal(t, tmod.SeverityError, d.Severity)
	assert.Equal(t, `alias "A" to B is cyclic`, d.Message)
	assert.Equal(t, `u:1: alias "A" to B is cyclic`, e.Error())
	assert.Equal(t, "cyclic alias", tmod.ErrorCyclicAlias.String())
}

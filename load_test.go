package typemod

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/typemod/internal/types"
	"github.com/golangsnmp/typemod/tmod"
)

func mapSource(files map[string]string) Source {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return FS("mem", fsys)
}

func diagCodes(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestLoadTestdata(t *testing.T) {
	prog, err := Load(context.Background(), WithSource(MustDir("testdata/units")))
	require.NoError(t, err)
	require.Equal(t, 2, prog.Len())
	assert.Empty(t, prog.Diagnostics())

	shapes := prog.Unit("shapes")
	require.NotNil(t, shapes)
	require.NoError(t, shapes.Err())

	var outline []string
	var walk func(prefix string, m *Module)
	walk = func(prefix string, m *Module) {
		for name, n := range m.All() {
			outline = append(outline, prefix+name)
			if sub, ok := n.(*Module); ok {
				walk(prefix+name+".", sub)
			}
		}
	}
	walk("", shapes.Surface())
	assert.Equal(t, []string{"Shape", "Shape.Origin", "Shape.Detail", "Shape.Detail.Radius", "Detail", "Detail.Radius"}, outline)

	origin, err := shapes.ResolveExported(Path{"Shape", "Origin"})
	require.NoError(t, err)
	assert.Equal(t, Opaque("struct { x: f64, y: f64 }"), origin.(*Binding).Definition())
	assert.Equal(t, "geometry", origin.(*Binding).Underlying().Unit())

	geometry := prog.Unit("geometry")
	_, err = geometry.ResolveExported(Path{"Vec", "Scale"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLoadRequireCycle(t *testing.T) {
	prog, err := Load(context.Background(), WithSource(MustDir("testdata/cycle")))
	require.ErrorIs(t, err, ErrDiagnosticThreshold, "cyclic units are rejected at Severe")
	require.NotNil(t, prog, "the partial program is returned")

	assert.Nil(t, prog.Unit("a"))
	assert.Nil(t, prog.Unit("b"))

	c := prog.Unit("c")
	require.NotNil(t, c, "units depending on a cycle still resolve")
	require.NotEmpty(t, c.Errors())
	assert.ErrorIs(t, c.Errors()[0], ErrUnitNotFound)

	d := prog.Unit("d")
	require.NotNil(t, d)
	assert.NoError(t, d.Err())

	var cyclic []string
	for _, diag := range prog.Diagnostics() {
		if diag.Code == types.DiagCyclicRequire {
			assert.Equal(t, SeveritySevere, diag.Severity)
			cyclic = append(cyclic, diag.Unit)
		}
	}
	assert.Equal(t, []string{"a", "b"}, cyclic)
}

func TestLoadSelfRequire(t *testing.T) {
	src := mapSource(map[string]string{
		"self.yaml": "decls:\n  - require: S\n    unit: self\n",
	})
	prog, err := Load(context.Background(), WithSource(src))
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
	assert.Equal(t, []string{types.DiagCyclicRequire}, diagCodes(prog.Diagnostics()))
	assert.Zero(t, prog.Len())
}

func TestLoadOrdersByRequires(t *testing.T) {
	// Names sort opposite to the require order.
	src := mapSource(map[string]string{
		"a_top.yaml":  "decls:\n  - require: M\n    unit: m_mid\n  - type: X\n    ref: M.Count\n",
		"m_mid.yaml":  "decls:\n  - require: B\n    unit: z_base\n  - type: Count\n    ref: B.Int\n    export: true\n",
		"z_base.yaml": "decls:\n  - type: Int\n    def: int64\n    export: true\n",
	})
	prog, err := Load(context.Background(), WithSource(src))
	require.NoError(t, err)
	require.Equal(t, 3, prog.Len())
	assert.False(t, prog.HasErrors())

	x, err := prog.Unit("a_top").ResolvePath(Path{"X"})
	require.NoError(t, err)
	assert.Equal(t, Opaque("int64"), x.(*Binding).Definition())
}

func TestLoadWithUnits(t *testing.T) {
	src := MustDir("testdata/units")
	prog, err := Load(context.Background(), WithSource(src), WithUnits("shapes"))
	require.NoError(t, err)
	assert.Equal(t, 2, prog.Len(), "required units are loaded too")

	prog, err = Load(context.Background(), WithSource(src), WithUnits("geometry"))
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Len())
	assert.NotNil(t, prog.Unit("geometry"))
}

func TestLoadWithUnitsMissing(t *testing.T) {
	prog, err := Load(context.Background(), WithSource(MustDir("testdata/units")), WithUnits("nope"))
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
	assert.Equal(t, []string{types.DiagUnitNotFound}, diagCodes(prog.Diagnostics()))
}

func TestLoadUnitNameClash(t *testing.T) {
	src := mapSource(map[string]string{
		"one.yaml": "unit: same\ndecls:\n  - type: A\n    def: x\n    export: true\n",
		"two.yaml": "unit: same\ndecls:\n  - type: B\n    def: x\n    export: true\n",
	})
	prog, err := Load(context.Background(), WithSource(src))
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
	require.Equal(t, 1, prog.Len())
	assert.NotNil(t, prog.Unit("same").Surface().Binding("A"), "the first file wins")
	assert.Equal(t, []string{types.DiagUnitNameClash}, diagCodes(prog.Diagnostics()))
}

func TestLoadParseErrors(t *testing.T) {
	src := mapSource(map[string]string{
		"broken.yaml": "decls:\n  - type: [unclosed\n",
		"user.yaml":   "decls:\n  - require: X\n    unit: broken\n  - type: U\n    ref: X.T\n",
		"fine.yaml":   "decls:\n  - type: A\n    def: x\n    export: true\n",
	})
	prog, err := Load(context.Background(), WithSource(src), WithDiagnosticConfig(PermissiveConfig()))
	require.ErrorIs(t, err, ErrDiagnosticThreshold, "parse-error is fatal")
	assert.Nil(t, prog.Unit("broken"))
	require.NotNil(t, prog.Unit("user"))
	assert.ErrorIs(t, prog.Unit("user").Errors()[0], ErrUnitNotFound)
	assert.NoError(t, prog.Unit("fine").Err())
}

func TestLoadThreshold(t *testing.T) {
	src := mapSource(map[string]string{
		"bad.yaml": "decls:\n  - type: U\n    ref: Nope\n",
	})

	prog, err := Load(context.Background(), WithSource(src))
	require.NoError(t, err, "resolution errors do not fail the default config")
	assert.True(t, prog.HasErrors())

	prog, err = Load(context.Background(), WithSource(src), WithDiagnosticConfig(StrictConfig()))
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
	require.NotNil(t, prog)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestLoadWithRequirer(t *testing.T) {
	external, err := BuildUnit("ext", []Decl{
		tmod.ExportDecl("T", Opaque("ext-type")),
	})
	require.NoError(t, err)

	src := mapSource(map[string]string{
		"app.yaml": "decls:\n  - require: E\n    unit: ext\n  - type: U\n    ref: E.T\n",
	})
	reg := tmod.NewRegistry()
	require.NoError(t, reg.Publish(external))

	prog, err := Load(context.Background(), WithSource(src), WithRequirer(reg))
	require.NoError(t, err)
	u, err := prog.Unit("app").ResolvePath(Path{"U"})
	require.NoError(t, err)
	assert.Equal(t, Opaque("ext-type"), u.(*Binding).Definition())
}

func TestLoadNoSources(t *testing.T) {
	_, err := Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestLoadEmptySource(t *testing.T) {
	prog, err := Load(context.Background(), WithSource(mapSource(nil)))
	require.NoError(t, err)
	assert.Zero(t, prog.Len())
}

func TestLoadContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, WithSource(MustDir("testdata/units")))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Load(ctx, WithSource(MustDir("testdata/units")), WithUnits("shapes"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadHeuristic(t *testing.T) {
	src := mapSource(map[string]string{
		"config.yaml": "name: not a unit\n",
		"real.yaml":   "decls: []\n",
	})
	prog, err := Load(context.Background(), WithSource(src))
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Len())

	prog, err = Load(context.Background(), WithSource(src), WithNoHeuristic())
	require.NoError(t, err)
	assert.Equal(t, 2, prog.Len())
	assert.Equal(t, []string{types.DiagUnknownKey}, diagCodes(prog.Diagnostics()))
}

func TestLoadLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	_, err := Load(context.Background(), WithSource(MustDir("testdata/units")), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "component=loader")
	assert.Contains(t, out, "component=parser")
	assert.Contains(t, out, "component=resolver")
	assert.Contains(t, out, "load complete")
}

func TestBuildUnit(t *testing.T) {
	decls := []Decl{
		{Kind: tmod.DeclModuleOpen, Name: "M"},
		tmod.ExportDecl("T", Opaque("number")),
		{Kind: tmod.DeclModuleOpen, Name: "N"},
		tmod.TypeDecl("U", Opaque("string")),
		{Kind: tmod.DeclModuleClose},
		{Kind: tmod.DeclModuleClose},
	}
	u, err := BuildUnit("main", decls)
	require.NoError(t, err)

	surface := PublicSurface(u.Root())
	assert.Equal(t, []string{"M"}, surface.Names())
	assert.Equal(t, []string{"T"}, surface.Module("M").Names())

	_, err = BuildUnit("main", []Decl{
		tmod.TypeDecl("T", Opaque("a")),
		tmod.TypeDecl("T", Opaque("b")),
	})
	assert.ErrorIs(t, err, ErrDuplicateDeclaration)
}

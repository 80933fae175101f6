package tmod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/typemod/internal/testutil"
	"github.com/golangsnmp/typemod/tmod"
)

func TestResolvePath(t *testing.T) {
	u := resolveClean(t, testutil.Decls(
		testutil.Type("A", "number"),
		testutil.Module("Outside",
			testutil.Module("Inside", testutil.Type("T", "string")),
		),
	))

	tests := []struct {
		path string
		kind tmod.NodeKind
	}{
		{"A", tmod.KindBinding},
		{"Outside", tmod.KindModule},
		{"Outside.Inside", tmod.KindModule},
		{"Outside.Inside.T", tmod.KindBinding},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := u.ResolvePath(tmod.ParsePath(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, n.Kind())
			assert.Equal(t, tmod.ParsePath(tt.path).Last(), n.Name())
		})
	}
}

func TestResolvePathErrors(t *testing.T) {
	u := resolveClean(t, testutil.Decls(
		testutil.Type("A", "number"),
		testutil.Module("M", testutil.Type("T", "string")),
	))

	tests := []struct {
		path    string
		want    error
		segment string
	}{
		{"B", tmod.ErrUnknownType, "B"},
		{"M.U", tmod.ErrUnknownType, "U"},
		{"X.T", tmod.ErrUnknownModule, "X"},
		{"M.X.T", tmod.ErrUnknownModule, "X"},
		{"A.T", tmod.ErrUnknownModule, "A"},
		{"M.T.U", tmod.ErrUnknownModule, "T"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := u.ResolvePath(tmod.ParsePath(tt.path))
			require.ErrorIs(t, err, tt.want)

			var e *tmod.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.segment, e.Segment)
			assert.Equal(t, tt.path, e.Path.String(), "full path is reported")
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestResolveEmptyPath(t *testing.T) {
	u := resolveClean(t, nil)
	_, err := u.ResolvePath(nil)
	assert.ErrorIs(t, err, tmod.ErrMalformedDeclaration)
}

func TestReferenceScopeIsFileGlobal(t *testing.T) {
	// A reference inside M reaches the unrelated top-level module N, and
	// names inside M are not visible without qualification.
	u := resolve(t, testutil.Decls(
		testutil.Module("M",
			testutil.Type("Local", "number"),
			testutil.Ref("ToSibling", "N.T"),
			testutil.Ref("Unqualified", "Local"),
		),
		testutil.Module("N", testutil.Type("T", "string")),
	))

	toSibling, err := u.ResolvePath(tmod.Path{"M", "ToSibling"})
	require.NoError(t, err)
	assert.Equal(t, tmod.Opaque("string"), toSibling.(*tmod.Binding).Definition())

	require.Len(t, u.Errors(), 1)
	e := u.Errors()[0]
	assert.ErrorIs(t, e, tmod.ErrUnknownType)
	assert.Equal(t, "Unqualified", e.Name)
	assert.Equal(t, "Local", e.Segment)
}

func TestSelfReferenceThroughOwnPath(t *testing.T) {
	// type module M { type T = number; type U = M.T }
	u := resolveClean(t, testutil.Decls(
		testutil.Module("M",
			testutil.Type("T", "number"),
			testutil.Ref("U", "M.T"),
		),
	))

	un, err := u.ResolvePath(tmod.Path{"M", "U"})
	require.NoError(t, err)
	tn, err := u.ResolvePath(tmod.Path{"M", "T"})
	require.NoError(t, err)

	ub := un.(*tmod.Binding)
	tb := tn.(*tmod.Binding)
	assert.Same(t, tb, ub.Target())
	assert.Same(t, tb, ub.Underlying())
	assert.Equal(t, tb.Definition(), ub.Definition())
	assert.Equal(t, tmod.Opaque("number"), ub.Definition())
}

func TestForwardReference(t *testing.T) {
	u := resolveClean(t, testutil.Decls(
		testutil.Ref("Early", "Later.T"),
		testutil.Module("Later", testutil.Type("T", "number")),
	))
	n, err := u.ResolvePath(tmod.Path{"Early"})
	require.NoError(t, err)
	assert.Equal(t, tmod.Opaque("number"), n.(*tmod.Binding).Definition())
}

func TestValidPathsStayResolvable(t *testing.T) {
	decls := testutil.Decls(
		testutil.Type("A", "n"),
		testutil.Module("M", testutil.Export("T", "n"), testutil.Module("N", testutil.Type("U", "n"))),
		testutil.Alias("R", "M.N"),
	)
	u := resolveClean(t, decls)

	var paths []tmod.Path
	var collect func(prefix tmod.Path, m *tmod.Module)
	collect = func(prefix tmod.Path, m *tmod.Module) {
		for name, n := range m.All() {
			p := prefix.Child(name)
			paths = append(paths, p)
			if sub, ok := n.(*tmod.Module); ok {
				collect(p, sub)
			}
		}
	}
	collect(nil, u.Root())
	require.NotEmpty(t, paths)

	for range 3 {
		for _, p := range paths {
			_, err := u.ResolvePath(p)
			assert.NoError(t, err, p.String())
		}
	}
}

func TestScopeResolveModuleAndBinding(t *testing.T) {
	u := resolveClean(t, testutil.Decls(testutil.Module("M", testutil.Type("T", "n"))))
	s := tmod.NewScope(u.Root(), nil)

	m, err := s.ResolveModule(tmod.Path{"M"})
	require.NoError(t, err)
	assert.Equal(t, "M", m.Name())

	_, err = s.ResolveModule(tmod.Path{"M", "T"})
	assert.ErrorIs(t, err, tmod.ErrExpectedModuleGotType)

	b, err := s.ResolveBinding(tmod.Path{"M", "T"})
	require.NoError(t, err)
	assert.Equal(t, "T", b.Name())

	_, err = s.ResolveBinding(tmod.Path{"M"})
	assert.ErrorIs(t, err, tmod.ErrExpectedTypeGotModule)
}

func TestParsePath(t *testing.T) {
	assert.Nil(t, tmod.ParsePath(""))
	assert.Equal(t, tmod.Path{"A", "B", "C"}, tmod.ParsePath("A.B.C"))
	assert.Equal(t, "A.B.C", tmod.Path{"A", "B", "C"}.String())
	assert.True(t, tmod.ParsePath("A.b_2").Valid())
	assert.False(t, tmod.ParsePath("A..B").Valid())
	assert.False(t, tmod.ParsePath("2A").Valid())

	p := tmod.Path{"A"}
	c := p.Child("B")
	assert.Equal(t, tmod.Path{"A"}, p, "Child does not modify the receiver")
	assert.Equal(t, "B", c.Last())
	assert.True(t, c.Equal(tmod.Path{"A", "B"}))
}

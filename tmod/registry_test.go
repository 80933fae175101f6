package tmod_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/typemod/internal/testutil"
	"github.com/golangsnmp/typemod/tmod"
)

func TestRegistry(t *testing.T) {
	r := tmod.NewRegistry()
	lib := tmod.Resolve("lib", testutil.Decls(testutil.Export("T", "n")), nil, nil, nil)
	require.NoError(t, r.Publish(lib))

	m, err := r.Require("lib")
	require.NoError(t, err)
	assert.Same(t, lib.Surface(), m)
	assert.Same(t, lib, r.Unit("lib"))
	assert.Len(t, r.Units(), 1)

	_, err = r.Require("other")
	assert.ErrorIs(t, err, tmod.ErrUnitNotFound)

	assert.ErrorIs(t, r.Publish(lib), tmod.ErrDuplicateDeclaration)
	assert.Error(t, r.Publish(nil))
}

func TestRegistryFeedsLaterUnits(t *testing.T) {
	r := tmod.NewRegistry()
	base := tmod.Resolve("base", testutil.Decls(testutil.Module("Num", testutil.Export("Int", "int64"))), r, nil, nil)
	require.NoError(t, r.Publish(base))

	mid := tmod.Resolve("mid", testutil.Decls(
		testutil.Require("B", "base"),
		testutil.Alias("Num", "B.Num"),
		testutil.ExportRef("Count", "B.Num.Int"),
	), r, nil, nil)
	require.NoError(t, mid.Err())
	require.NoError(t, r.Publish(mid))

	top := tmod.Resolve("top", testutil.Decls(
		testutil.Require("M", "mid"),
		testutil.Ref("X", "M.Num.Int"),
		testutil.Ref("Y", "M.Count"),
	), r, nil, nil)
	require.NoError(t, top.Err())

	x := top.Root().Binding("X")
	y := top.Root().Binding("Y")
	assert.Equal(t, tmod.Opaque("int64"), x.Definition())
	assert.Equal(t, tmod.Opaque("int64"), y.Definition())
	assert.Equal(t, "base", x.Underlying().Unit())
}

func TestRegistryConcurrentReaders(t *testing.T) {
	r := tmod.NewRegistry()
	lib := tmod.Resolve("lib", testutil.Decls(testutil.Module("M", testutil.Export("T", "n"))), nil, nil, nil)
	require.NoError(t, r.Publish(lib))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := tmod.Resolve("user", testutil.Decls(testutil.Require("L", "lib"), testutil.Ref("X", "L.M.T")), r, nil, nil)
			assert.NoError(t, u.Err())
		}()
	}
	wg.Wait()
}

func TestChainRequirers(t *testing.T) {
	a := tmod.Resolve("a", testutil.Decls(testutil.Export("A", "n")), nil, nil, nil)
	b := tmod.Resolve("b", testutil.Decls(testutil.Export("B", "n")), nil, nil, nil)
	failing := tmod.RequirerFunc(func(string) (*tmod.Module, error) {
		return nil, errors.New("backend unavailable")
	})

	chain := tmod.ChainRequirers(failing, nil, testutil.Surfaces{"a": a}, testutil.Surfaces{"a": b, "b": b})

	m, err := chain.Require("a")
	require.NoError(t, err)
	assert.Same(t, a.Surface(), m, "first requirer to succeed wins")

	m, err = chain.Require("b")
	require.NoError(t, err)
	assert.Same(t, b.Surface(), m)

	_, err = chain.Require("c")
	assert.ErrorIs(t, err, tmod.ErrUnitNotFound)
}

func TestRequirerErrorBecomesUnitNotFound(t *testing.T) {
	failing := tmod.RequirerFunc(func(string) (*tmod.Module, error) {
		return nil, errors.New("backend unavailable")
	})
	u := tmod.Resolve("main", testutil.Decls(testutil.Require("L", "lib")), failing, nil, nil)
	require.Len(t, u.Errors(), 1)
	e := u.Errors()[0]
	assert.ErrorIs(t, e, tmod.ErrUnitNotFound)
	assert.Equal(t, "lib", e.Segment)
	assert.Contains(t, e.Error(), "backend unavailable")
}

func TestProgram(t *testing.T) {
	good := tmod.Resolve("zeta", testutil.Decls(testutil.Export("T", "n")), nil, nil, nil)
	bad := tmod.Resolve("alpha", testutil.Decls(testutil.Ref("X", "Nope")), nil, nil, nil)
	extra := tmod.Diagnostic{Severity: tmod.SeverityWarning, Code: "note", Message: "loaded"}

	p := tmod.NewProgram([]*tmod.Unit{good, bad}, []tmod.Diagnostic{extra})
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "alpha", p.Units()[0].Name())
	assert.Same(t, good, p.Unit("zeta"))
	assert.Nil(t, p.Unit("missing"))

	diags := p.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "note", diags[0].Code)
	assert.Equal(t, "unknown-type", diags[1].Code)
	assert.True(t, p.HasErrors())

	clean := tmod.NewProgram([]*tmod.Unit{good}, nil)
	assert.False(t, clean.HasErrors())
}

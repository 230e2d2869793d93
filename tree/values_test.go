package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

func TestValues_SetGetUnset(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")

	require.NoError(t, c.Set(n, "color", "red"))
	v, err := c.Get(n, "color")
	require.NoError(t, err)
	assert.Equal(t, "red", v)
	assert.True(t, c.ValueExists(n, "color"))

	require.NoError(t, c.Set(n, "color", "blue"))
	v, _ = c.Get(n, "color")
	assert.Equal(t, "blue", v)

	require.NoError(t, c.Unset(n, "color"))
	assert.False(t, c.ValueExists(n, "color"))
	_, err = c.Get(n, "color")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestValues_UnsetAbsentIsNoop(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")
	fired := false
	_, err := c.CreateTrace(types.NoNode, "", "", TraceUnset, func(*Client, types.NodeID, keys.Key, TraceFlags) error {
		fired = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Unset(n, "never-set"))
	require.NoError(t, c.Unset(n, "never-set(elem)"))
	assert.False(t, fired)
}

func TestValues_ByKey(t *testing.T) {
	c := newTestClient(t)
	k := keys.Intern("size")
	require.NoError(t, c.SetKey(c.Root(), k, "10"))
	v, err := c.GetKey(c.Root(), k)
	require.NoError(t, err)
	assert.Equal(t, "10", v)
	assert.True(t, c.ValueExistsKey(c.Root(), k))
	require.NoError(t, c.UnsetKey(c.Root(), k))
	assert.False(t, c.ValueExistsKey(c.Root(), k))
}

func TestValues_Arrays(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")

	require.NoError(t, c.Set(n, "addr(v4)", "10.0.0.1"))
	require.NoError(t, c.SetArray(n, "addr", "v6", "::1"))

	v, err := c.Get(n, "addr(v4)")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", v)

	whole, err := c.Get(n, "addr")
	require.NoError(t, err)
	assert.Equal(t, "v4 10.0.0.1 v6 ::1", whole)

	names, err := c.ArrayNames(n, "addr")
	require.NoError(t, err)
	assert.Equal(t, []string{"v4", "v6"}, names)

	assert.True(t, c.ExistsArray(n, "addr", "v6"))
	require.NoError(t, c.UnsetArray(n, "addr", "v6"))
	assert.False(t, c.ValueExists(n, "addr(v6)"))

	// The cached serialized form follows element writes.
	whole, _ = c.Get(n, "addr")
	assert.Equal(t, "v4 10.0.0.1", whole)

	_, err = c.Get(n, "addr(missing)")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestValues_ScalarConvertsToArray(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")

	require.NoError(t, c.Set(n, "pairs", "a 1 {b c} {2 3}"))
	v, err := c.Get(n, "pairs(b c)")
	require.NoError(t, err)
	assert.Equal(t, "2 3", v)

	require.NoError(t, c.Set(n, "odd", "a b c"))
	_, err = c.Get(n, "odd(a)")
	require.ErrorIs(t, err, types.ErrMalformedInput)

	// Whole-value writes replace an array with a scalar.
	require.NoError(t, c.Set(n, "pairs", "plain"))
	v, _ = c.Get(n, "pairs")
	assert.Equal(t, "plain", v)
}

func TestValues_PrivateAcrossClients(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)
	defer b.Close()

	n := mustCreate(t, a, a.Root(), "n")
	require.NoError(t, a.Set(n, "secret", "s3"))
	require.NoError(t, a.Set(n, "public", "p"))
	require.NoError(t, a.SetPrivate(n, "secret"))
	assert.True(t, b.IsPrivate(n, "secret"))

	_, err = b.Get(n, "secret")
	require.ErrorIs(t, err, types.ErrPermissionDenied)
	require.ErrorIs(t, b.Set(n, "secret", "x"), types.ErrPermissionDenied)
	require.ErrorIs(t, b.Unset(n, "secret"), types.ErrPermissionDenied)
	assert.False(t, b.ValueExists(n, "secret"))

	names, err := b.ValueNames(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"public"}, names)

	// The owner still has full access.
	v, err := a.Get(n, "secret")
	require.NoError(t, err)
	assert.Equal(t, "s3", v)

	require.NoError(t, a.SetPublic(n, "secret"))
	v, err = b.Get(n, "secret")
	require.NoError(t, err)
	assert.Equal(t, "s3", v)
	names, _ = b.ValueNames(n)
	assert.ElementsMatch(t, []string{"public", "secret"}, names)
}

func TestValues_PrivateReleasedOnClose(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)

	require.NoError(t, b.Set(a.Root(), "mine", "1"))
	require.NoError(t, b.SetPrivate(a.Root(), "mine"))
	require.NoError(t, b.Close())

	v, err := a.Get(a.Root(), "mine")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestValues_ManyValuesIndexed(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")
	for i := range 60 {
		require.NoError(t, c.Set(n, fmt.Sprintf("v%d", i), fmt.Sprint(i)))
	}
	for i := range 60 {
		v, err := c.Get(n, fmt.Sprintf("v%d", i))
		require.NoError(t, err)
		require.Equal(t, fmt.Sprint(i), v)
	}
	for i := range 50 {
		require.NoError(t, c.Unset(n, fmt.Sprintf("v%d", i)))
	}
	names, err := c.ValueNames(n)
	require.NoError(t, err)
	assert.Len(t, names, 10)
	mustCheck(t, c)
}

func TestValues_MaxValues(t *testing.T) {
	rt := NewRuntime(Options{Limits: types.Limits{MaxValues: 2}})
	c, err := rt.Open("", OpenCreate)
	require.NoError(t, err)
	require.NoError(t, c.Set(c.Root(), "a", "1"))
	require.NoError(t, c.Set(c.Root(), "b", "2"))
	require.NoError(t, c.Set(c.Root(), "a", "3"), "overwrite does not count")
	require.ErrorIs(t, c.Set(c.Root(), "c", "4"), types.ErrOutOfMemory)
}

func TestValues_Iterate(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.Set(c.Root(), "a", "1"))
	require.NoError(t, c.Set(c.Root(), "b", "2"))

	got := map[string]string{}
	require.NoError(t, c.Iterate(c.Root(), func(k keys.Key, s string) bool {
		got[k.String()] = s
		return true
	}))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)

	require.ErrorIs(t, c.Iterate(99, func(keys.Key, string) bool { return true }), types.ErrNotFound)
}

func TestParseValueName(t *testing.T) {
	tests := []struct {
		in, name, elem string
		ok             bool
	}{
		{"plain", "plain", "", false},
		{"arr(x)", "arr", "x", true},
		{"arr(a(b))", "arr", "a(b)", true},
		{"arr()", "arr", "", true},
		{"(x)", "(x)", "", false},
		{"arr(x", "arr(x", "", false},
	}
	for _, tt := range tests {
		name, elem, ok := ParseValueName(tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.elem, elem, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

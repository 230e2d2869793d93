package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

func TestOpen_CreateAndAttach(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	a, err := rt.Open("settings", OpenCreate)
	require.NoError(t, err)
	assert.Equal(t, "::settings", a.Name())

	label, err := a.Label(a.Root())
	require.NoError(t, err)
	assert.Equal(t, "settings", label)

	_, err = rt.Open("settings", OpenCreate)
	require.ErrorIs(t, err, types.ErrInvalidOperation)

	b, err := rt.Open("::settings", OpenAttach)
	require.NoError(t, err)
	assert.Equal(t, a.Name(), b.Name())

	// Clients of one core see each other's mutations.
	n := mustCreate(t, a, a.Root(), "n")
	require.NoError(t, a.Set(n, "k", "v"))
	v, err := b.Get(n, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = rt.Open("missing", OpenAttach)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = rt.Open("x", 0)
	require.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestOpen_AutoNames(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	taken, err := rt.Open("tree0", OpenCreate)
	require.NoError(t, err)
	defer taken.Close()

	c, err := rt.Open("", OpenCreate)
	require.NoError(t, err)
	assert.Equal(t, "::tree1", c.Name())
	assert.True(t, rt.Exists("tree1"))
	assert.Equal(t, []string{"::tree0", "::tree1"}, rt.Names())
}

func TestClose_LastClientTearsDown(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	a, err := rt.Open("shared", OpenCreate)
	require.NoError(t, err)
	b, err := rt.Open("shared", OpenAttach)
	require.NoError(t, err)

	n := mustCreate(t, a, a.Root(), "n")
	require.NoError(t, a.Close())
	assert.True(t, rt.Exists("shared"))
	assert.True(t, b.Exists(n))

	require.NoError(t, b.Close())
	assert.False(t, rt.Exists("shared"))
	require.ErrorIs(t, b.Close(), types.ErrInvalidOperation)
	_, err = b.Label(n)
	require.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestClose_CancelsDeferred(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	a, err := rt.Open("t", OpenCreate)
	require.NoError(t, err)
	b, err := rt.Open("t", OpenAttach)
	require.NoError(t, err)
	defer a.Close()

	fired := 0
	_, err = b.CreateTrace(types.NoNode, "", "", TraceWrite|TraceWhenIdle, func(*Client, types.NodeID, keys.Key, TraceFlags) error {
		fired++
		return nil
	})
	require.NoError(t, err)
	_, err = b.CreateEventHandler(EventCreate|EventWhenIdle, func(*Client, Event) error {
		fired++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, a.Set(a.Root(), "k", "v"))
	mustCreate(t, a, a.Root(), "n")
	require.NoError(t, b.Close())

	assert.Equal(t, 0, rt.RunIdle())
	assert.Equal(t, 0, fired)
}

func TestAttach_DropsNotificationsAndSwitchesCore(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	first, err := rt.Open("first", OpenCreate)
	require.NoError(t, err)
	defer first.Close()
	second, err := rt.Open("second", OpenCreate)
	require.NoError(t, err)
	defer second.Close()

	c, err := rt.Open("first", OpenAttach)
	require.NoError(t, err)
	defer c.Close()

	fired := 0
	_, err = c.CreateTrace(types.NoNode, "", "", TraceWrite|TraceWhenIdle, func(*Client, types.NodeID, keys.Key, TraceFlags) error {
		fired++
		return nil
	})
	require.NoError(t, err)
	_, err = c.CreateEventHandler(EventCreate, func(*Client, Event) error {
		fired++
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, c.Set(c.Root(), "k", "v"))

	require.NoError(t, c.Attach("second"))
	assert.Equal(t, "::second", c.Name())
	assert.Empty(t, c.Traces())
	assert.Empty(t, c.EventHandlers())
	assert.True(t, c.SharesTagsWith(second))

	mustCreate(t, second, second.Root(), "x")
	rt.RunIdle()
	assert.Equal(t, 0, fired)

	require.ErrorIs(t, c.Attach("nowhere"), types.ErrNotFound)
}

func TestAttach_EmptyNameCreatesCore(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	c, err := rt.Open("only", OpenCreate)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Attach(""))
	assert.False(t, rt.Exists("only"), "the old core lost its last client")
	assert.True(t, rt.Exists(c.Name()))
	assert.Equal(t, 1, c.NodeCount())
}

func TestTagSharing(t *testing.T) {
	rt := NewRuntime(DefaultOptions())
	a, err := rt.Open("t", OpenCreate)
	require.NoError(t, err)
	defer a.Close()
	shared, err := rt.Open("t", OpenAttach)
	require.NoError(t, err)
	defer shared.Close()
	private, err := rt.Open("t", OpenAttach|OpenNewTags)
	require.NoError(t, err)
	defer private.Close()

	n := mustCreate(t, a, a.Root(), "n")
	require.NoError(t, a.AddTag(n, "hot"))
	assert.True(t, shared.HasTag(n, "hot"))
	assert.False(t, private.HasTag(n, "hot"))

	require.NoError(t, private.ShareTagsWith(a))
	assert.True(t, private.HasTag(n, "hot"))

	other, err := rt.Open("", OpenCreate)
	require.NoError(t, err)
	defer other.Close()
	require.ErrorIs(t, other.ShareTagsWith(a), types.ErrInvalidOperation)
}

package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

type traceCall struct {
	id  types.NodeID
	key string
	ops TraceFlags
}

func recorder(calls *[]traceCall) TraceFunc {
	return func(_ *Client, id types.NodeID, k keys.Key, ops TraceFlags) error {
		*calls = append(*calls, traceCall{id, k.String(), ops})
		return nil
	}
}

func TestTrace_Operations(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")
	var calls []traceCall
	_, err := c.CreateTrace(types.NoNode, "", "", TraceRead|TraceWrite|TraceCreate|TraceUnset, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, c.Set(n, "k", "1"))
	require.NoError(t, c.Set(n, "k", "2"))
	_, err = c.Get(n, "k")
	require.NoError(t, err)
	require.NoError(t, c.Unset(n, "k"))

	assert.Equal(t, []traceCall{
		{n, "k", TraceWrite | TraceCreate},
		{n, "k", TraceWrite},
		{n, "k", TraceRead},
		{n, "k", TraceUnset},
	}, calls)
}

func TestTrace_Filters(t *testing.T) {
	c := newTestClient(t)
	a := mustCreate(t, c, c.Root(), "a")
	b := mustCreate(t, c, c.Root(), "b")
	require.NoError(t, c.AddTag(b, "watched"))

	var byPattern, byNode, byTag []traceCall
	_, err := c.CreateTrace(types.NoNode, "net.*", "", TraceWrite, recorder(&byPattern))
	require.NoError(t, err)
	_, err = c.CreateTrace(a, "", "", TraceWrite, recorder(&byNode))
	require.NoError(t, err)
	_, err = c.CreateTrace(types.NoNode, "", "watched", TraceWrite, recorder(&byTag))
	require.NoError(t, err)

	require.NoError(t, c.Set(a, "net.mtu", "1500"))
	require.NoError(t, c.Set(b, "name", "x"))
	require.NoError(t, c.Set(b, "net.addr", "y"))

	assert.Equal(t, []string{"net.mtu", "net.addr"}, keysOf(byPattern))
	assert.Equal(t, []string{"net.mtu"}, keysOf(byNode))
	assert.Equal(t, []string{"name", "net.addr"}, keysOf(byTag))
}

func keysOf(calls []traceCall) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.key
	}
	return out
}

func TestTrace_ArrayElementFiresWholeValue(t *testing.T) {
	c := newTestClient(t)
	var calls []traceCall
	_, err := c.CreateTrace(types.NoNode, "addr", "", TraceRead|TraceWrite, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, c.Set(c.Root(), "addr(v4)", "10.0.0.1"))
	_, err = c.Get(c.Root(), "addr(v4)")
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, "addr", calls[0].key)
	assert.Equal(t, TraceRead, calls[1].ops)
}

func TestTrace_ReentrancyBlockedPerNode(t *testing.T) {
	c := newTestClient(t)
	a := mustCreate(t, c, c.Root(), "a")
	b := mustCreate(t, c, c.Root(), "b")

	var seen []types.NodeID
	_, err := c.CreateTrace(types.NoNode, "", "", TraceWrite, func(cl *Client, id types.NodeID, k keys.Key, _ TraceFlags) error {
		seen = append(seen, id)
		if id == a && k.String() == "x" {
			// Same node: suppressed. Other node: delivered.
			require.NoError(t, cl.Set(a, "y", "1"))
			require.NoError(t, cl.Set(b, "y", "1"))
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Set(a, "x", "1"))
	assert.Equal(t, []types.NodeID{a, b}, seen)

	v, err := c.Get(a, "y")
	require.NoError(t, err)
	assert.Equal(t, "1", v, "the nested write itself still happens")
}

func TestTrace_ForeignOnly(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)
	defer b.Close()

	var calls []traceCall
	_, err = a.CreateTrace(types.NoNode, "", "", TraceWrite|TraceForeignOnly, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, a.Set(a.Root(), "self", "1"))
	require.NoError(t, b.Set(a.Root(), "other", "1"))
	assert.Equal(t, []string{"other"}, keysOf(calls))
}

func TestTrace_DeferredCoalesced(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")
	var calls []traceCall
	_, err := c.CreateTrace(types.NoNode, "", "", TraceWrite|TraceWhenIdle, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, c.Set(n, "k", "1")) // write|create
	for range 5 {
		require.NoError(t, c.Set(n, "k", "2")) // write
	}
	assert.Empty(t, calls, "nothing delivered before idle")

	assert.Equal(t, 2, c.Runtime().RunIdle())
	assert.Equal(t, []traceCall{
		{n, "k", TraceWrite | TraceCreate},
		{n, "k", TraceWrite},
	}, calls)

	// The next idle cycle starts clean.
	require.NoError(t, c.Set(n, "k", "3"))
	require.NoError(t, c.Set(n, "k", "4"))
	assert.Equal(t, 1, c.Runtime().RunIdle())
	assert.Len(t, calls, 3)
}

func TestTrace_DeferredSkipsDeletedNode(t *testing.T) {
	c := newTestClient(t)
	n := mustCreate(t, c, c.Root(), "n")
	var calls []traceCall
	_, err := c.CreateTrace(types.NoNode, "", "", TraceWrite|TraceWhenIdle, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, c.Set(n, "k", "1"))
	require.NoError(t, c.DeleteNode(n))
	c.Runtime().RunIdle()
	assert.Empty(t, calls)
}

func TestTrace_DeleteCancelsPending(t *testing.T) {
	c := newTestClient(t)
	var calls []traceCall
	tr, err := c.CreateTrace(types.NoNode, "", "", TraceWrite|TraceWhenIdle, recorder(&calls))
	require.NoError(t, err)

	require.NoError(t, c.Set(c.Root(), "k", "1"))
	require.NoError(t, c.DeleteTrace(tr))
	assert.Equal(t, 0, c.Runtime().RunIdle())
	assert.Empty(t, calls)
	require.ErrorIs(t, c.DeleteTrace(tr), types.ErrNotFound)
}

func TestTrace_ErrorsReportedNotReturned(t *testing.T) {
	var reported []error
	rt := NewRuntime(Options{ErrorReporter: func(err error) { reported = append(reported, err) }})
	c, err := rt.Open("errs", OpenCreate)
	require.NoError(t, err)

	boom := errors.New("boom")
	secondRan := false
	_, err = c.CreateTrace(types.NoNode, "", "", TraceWrite, func(*Client, types.NodeID, keys.Key, TraceFlags) error {
		return boom
	})
	require.NoError(t, err)
	_, err = c.CreateTrace(types.NoNode, "", "", TraceWrite, func(*Client, types.NodeID, keys.Key, TraceFlags) error {
		secondRan = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Set(c.Root(), "k", "v"))
	assert.True(t, secondRan)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
}

func TestTrace_Validation(t *testing.T) {
	c := newTestClient(t)
	noop := func(*Client, types.NodeID, keys.Key, TraceFlags) error { return nil }

	_, err := c.CreateTrace(types.NoNode, "", "", TraceWhenIdle, noop)
	require.ErrorIs(t, err, types.ErrInvalidOperation)
	_, err = c.CreateTrace(77, "", "", TraceRead, noop)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = c.CreateTrace(types.NoNode, "[", "", TraceRead, noop)
	require.ErrorIs(t, err, types.ErrMalformedInput)
	_, err = c.CreateTrace(types.NoNode, "", "", TraceRead, nil)
	require.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestTraceFlags_StringParse(t *testing.T) {
	f, err := ParseTraceFlags("rwu")
	require.NoError(t, err)
	assert.Equal(t, TraceRead|TraceWrite|TraceUnset, f)
	assert.Equal(t, "rwu", f.String())
	_, err = ParseTraceFlags("rx")
	require.Error(t, err)
}

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
)

func eventRecorder(events *[]Event) EventFunc {
	return func(_ *Client, ev Event) error {
		*events = append(*events, ev)
		return nil
	}
}

func TestEvents_AllTypes(t *testing.T) {
	c := newTestClient(t)
	var events []Event
	_, err := c.CreateEventHandler(EventAll, eventRecorder(&events))
	require.NoError(t, err)

	a := mustCreate(t, c, c.Root(), "a")
	b := mustCreate(t, c, c.Root(), "b")
	require.NoError(t, c.MoveNode(b, a, types.NoNode))
	require.NoError(t, c.RelabelNode(b, "bb"))
	require.NoError(t, c.SortChildren(a, c.ByLabel))
	require.NoError(t, c.DeleteNode(a))

	assert.Equal(t, []Event{
		{EventCreate, a},
		{EventCreate, b},
		{EventMove, b},
		{EventRelabel, b},
		{EventSort, a},
		{EventDelete, b},
		{EventDelete, a},
	}, events)
}

func TestEvents_MaskAndRegistrationOrder(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)
	defer b.Close()

	var order []string
	_, err = a.CreateEventHandler(EventCreate, func(*Client, Event) error {
		order = append(order, "a")
		return nil
	})
	require.NoError(t, err)
	_, err = b.CreateEventHandler(EventCreate, func(*Client, Event) error {
		order = append(order, "b")
		return nil
	})
	require.NoError(t, err)
	_, err = b.CreateEventHandler(EventDelete, func(*Client, Event) error {
		order = append(order, "b-delete")
		return nil
	})
	require.NoError(t, err)

	mustCreate(t, b, b.Root(), "x")
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestEvents_ForeignOnly(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)
	defer b.Close()

	var events []Event
	_, err = a.CreateEventHandler(EventCreate|EventForeignOnly, eventRecorder(&events))
	require.NoError(t, err)

	mustCreate(t, a, a.Root(), "mine")
	theirs := mustCreate(t, b, b.Root(), "theirs")
	assert.Equal(t, []Event{{EventCreate, theirs}}, events)
}

func TestEvents_Deferred(t *testing.T) {
	c := newTestClient(t)
	var events []Event
	_, err := c.CreateEventHandler(EventAll|EventWhenIdle, eventRecorder(&events))
	require.NoError(t, err)

	a := mustCreate(t, c, c.Root(), "a")
	gone := mustCreate(t, c, c.Root(), "gone")
	require.NoError(t, c.RelabelNode(a, "a2"))
	require.NoError(t, c.RelabelNode(a, "a3")) // coalesced with the first relabel
	require.NoError(t, c.DeleteNode(gone))
	assert.Empty(t, events)

	c.Runtime().RunIdle()
	// The create of "gone" is skipped because the node no longer exists;
	// its delete is still reported.
	assert.Equal(t, []Event{
		{EventCreate, a},
		{EventRelabel, a},
		{EventDelete, gone},
	}, events)
}

func TestEvents_HandlerNotReentered(t *testing.T) {
	c := newTestClient(t)
	calls := 0
	_, err := c.CreateEventHandler(EventCreate, func(cl *Client, ev Event) error {
		calls++
		if calls == 1 {
			_, err := cl.CreateNode(ev.Node, "nested", -1)
			require.NoError(t, err)
		}
		return nil
	})
	require.NoError(t, err)

	mustCreate(t, c, c.Root(), "outer")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, c.NodeCount())
}

func TestEvents_DeleteHandler(t *testing.T) {
	c := newTestClient(t)
	var events []Event
	h, err := c.CreateEventHandler(EventCreate, eventRecorder(&events))
	require.NoError(t, err)
	assert.Equal(t, EventCreate, h.Mask())

	require.NoError(t, c.DeleteEventHandler(h))
	mustCreate(t, c, c.Root(), "x")
	assert.Empty(t, events)
	require.ErrorIs(t, c.DeleteEventHandler(h), types.ErrNotFound)

	_, err = c.CreateEventHandler(EventWhenIdle, eventRecorder(&events))
	require.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "create|move", (EventCreate | EventMove).String())
	ev, err := ParseEventType("relabel")
	require.NoError(t, err)
	assert.Equal(t, EventRelabel, ev)
	_, err = ParseEventType("explode")
	require.Error(t, err)
}

func TestEvents_DeleteHandlerRemovesSibling(t *testing.T) {
	a := newTestClient(t)
	b, err := a.Runtime().Open(a.Name(), OpenAttach)
	require.NoError(t, err)
	defer b.Close()

	parent := mustCreate(t, a, a.Root(), "a")
	c1 := mustCreate(t, a, parent, "c1")
	c2 := mustCreate(t, a, parent, "c2")
	c3 := mustCreate(t, a, parent, "c3")

	_, err = b.CreateEventHandler(EventDelete, func(cl *Client, ev Event) error {
		if ev.Node == c1 {
			return cl.DeleteNode(c2)
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, a.DeleteNode(parent))
	for _, id := range []types.NodeID{parent, c1, c2, c3} {
		assert.False(t, a.Exists(id), "node %d", id)
	}
	assert.Equal(t, 1, a.NodeCount())
	mustCheck(t, a)
}

package tree

import (
	"fmt"
	"strings"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/idle"
)

// EventType is a structural event or a mask of them, plus delivery flags.
type EventType uint16

const (
	EventCreate EventType = 1 << iota
	EventDelete
	EventMove
	EventSort
	EventRelabel

	// EventWhenIdle defers delivery to the next idle pass.
	EventWhenIdle

	// EventForeignOnly ignores mutations made through the registering
	// client.
	EventForeignOnly

	// EventAll selects every structural event.
	EventAll = EventCreate | EventDelete | EventMove | EventSort | EventRelabel
)

var eventNames = []struct {
	ev   EventType
	name string
}{
	{EventCreate, "create"},
	{EventDelete, "delete"},
	{EventMove, "move"},
	{EventSort, "sort"},
	{EventRelabel, "relabel"},
}

// String renders the structural bits, e.g. "create|move".
func (e EventType) String() string {
	var parts []string
	for _, en := range eventNames {
		if e&en.ev != 0 {
			parts = append(parts, en.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseEventType maps an event name to its bit.
func ParseEventType(name string) (EventType, error) {
	for _, en := range eventNames {
		if en.name == name {
			return en.ev, nil
		}
	}
	return 0, types.Errorf(types.ErrKindInvalid, "unknown event %q", name)
}

// Event describes one structural change.
type Event struct {
	Type EventType
	Node types.NodeID
}

// EventFunc is called with the registering client and the event.
type EventFunc func(c *Client, ev Event) error

// EventHandler is a registered event handler. It is the handle used to
// delete it.
type EventHandler struct {
	client  *Client
	mask    EventType
	fn      EventFunc
	active  bool
	pending map[Event]idle.Handle
	deleted bool
}

// Mask returns the registration mask.
func (h *EventHandler) Mask() EventType { return h.mask }

// CreateEventHandler registers fn for the structural events in mask.
func (c *Client) CreateEventHandler(mask EventType, fn EventFunc) (*EventHandler, error) {
	if c.core == nil {
		return nil, types.Errorf(types.ErrKindInvalid, "client is closed")
	}
	if fn == nil {
		return nil, types.Errorf(types.ErrKindInvalid, "event callback is nil")
	}
	if mask&EventAll == 0 {
		return nil, types.Errorf(types.ErrKindInvalid, "event handler selects no events")
	}
	h := &EventHandler{
		client:  c,
		mask:    mask,
		fn:      fn,
		pending: make(map[Event]idle.Handle),
	}
	c.handlers = append(c.handlers, h)
	return h, nil
}

// DeleteEventHandler unregisters h and drops its pending deliveries.
func (c *Client) DeleteEventHandler(h *EventHandler) error {
	for i, have := range c.handlers {
		if have == h {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			h.cancelPending()
			return nil
		}
	}
	return types.Errorf(types.ErrKindNotFound, "event handler is not registered with %s", c.Name())
}

// EventHandlers returns the client's handlers in registration order.
func (c *Client) EventHandlers() []*EventHandler {
	out := make([]*EventHandler, len(c.handlers))
	copy(out, c.handlers)
	return out
}

func (h *EventHandler) cancelPending() {
	h.deleted = true
	for ev, handle := range h.pending {
		h.client.rt.idle.Cancel(handle)
		delete(h.pending, ev)
	}
}

// notifyEvent delivers a structural event on n, made through c, to every
// client's handlers in registration order. A handler is not re-entered
// while it is running.
func (c *Client) notifyEvent(typ EventType, n *node) {
	ev := Event{Type: typ, Node: n.id}
	for _, cl := range snapshotClients(c.core) {
		for _, h := range snapshotHandlers(cl) {
			if h.deleted || h.mask&typ == 0 {
				continue
			}
			if h.mask&EventForeignOnly != 0 && cl == c {
				continue
			}
			if h.mask&EventWhenIdle != 0 {
				h.enqueue(ev)
				continue
			}
			if h.active {
				continue
			}
			h.active = true
			eventsFired.WithLabelValues(typ.String()).Inc()
			err := h.fn(cl, ev)
			h.active = false
			if err != nil {
				c.rt.report(fmt.Errorf("%s event on node %d: %w", typ, n.id, err))
			}
		}
	}
}

// enqueue queues one coalesced delivery of ev. DELETE events are delivered
// even though the node is gone; others are dropped if the node was deleted
// in the meantime.
func (h *EventHandler) enqueue(ev Event) {
	if _, queued := h.pending[ev]; queued {
		return
	}
	cl := h.client
	h.pending[ev] = cl.rt.idle.Schedule(cl, func() {
		delete(h.pending, ev)
		if h.deleted || cl.core == nil {
			return
		}
		if ev.Type != EventDelete && cl.nodeOrNil(ev.Node) == nil {
			return
		}
		eventsFired.WithLabelValues(ev.Type.String()).Inc()
		if err := h.fn(cl, ev); err != nil {
			cl.rt.report(fmt.Errorf("%s event on node %d: %w", ev.Type, ev.Node, err))
		}
	})
}

func snapshotHandlers(c *Client) []*EventHandler {
	out := make([]*EventHandler, len(c.handlers))
	copy(out, c.handlers)
	return out
}

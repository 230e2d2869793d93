package tree

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/idle"
	"github.com/joshuapare/treekit/tree/keys"
)

// TraceFlags selects the value operations a trace observes and how it is
// delivered.
type TraceFlags uint16

const (
	TraceRead TraceFlags = 1 << iota
	TraceWrite
	TraceCreate
	TraceUnset

	// TraceWhenIdle defers delivery to the next idle pass. Identical
	// pending notifications are coalesced into one.
	TraceWhenIdle

	// TraceForeignOnly ignores operations made through the registering
	// client.
	TraceForeignOnly

	traceOps = TraceRead | TraceWrite | TraceCreate | TraceUnset
)

// String renders the operation bits as letters (r, w, c, u).
func (f TraceFlags) String() string {
	out := make([]byte, 0, 4)
	for _, b := range []struct {
		flag TraceFlags
		ch   byte
	}{{TraceRead, 'r'}, {TraceWrite, 'w'}, {TraceCreate, 'c'}, {TraceUnset, 'u'}} {
		if f&b.flag != 0 {
			out = append(out, b.ch)
		}
	}
	return string(out)
}

// ParseTraceFlags parses a string of r, w, c, u letters.
func ParseTraceFlags(s string) (TraceFlags, error) {
	var f TraceFlags
	for _, ch := range s {
		switch ch {
		case 'r':
			f |= TraceRead
		case 'w':
			f |= TraceWrite
		case 'c':
			f |= TraceCreate
		case 'u':
			f |= TraceUnset
		default:
			return 0, types.Errorf(types.ErrKindInvalid, "bad trace operation %q in %q", ch, s)
		}
	}
	return f, nil
}

// TraceFunc is called with the registering client, the node, the value key
// and the operations that happened.
type TraceFunc func(c *Client, id types.NodeID, k keys.Key, ops TraceFlags) error

// traceEvent identifies one deferred trace delivery.
type traceEvent struct {
	id  types.NodeID
	key keys.Key
	ops TraceFlags
}

// Trace is a registered value trace. It is the handle used to delete it.
type Trace struct {
	client  *Client
	node    types.NodeID // NoNode matches any node
	pattern string
	match   glob.Glob // nil matches any key
	tag     string
	flags   TraceFlags
	fn      TraceFunc
	pending map[traceEvent]idle.Handle
	deleted bool
}

// Pattern returns the key pattern of the trace ("" when unfiltered).
func (t *Trace) Pattern() string { return t.pattern }

// Tag returns the tag filter of the trace ("" when unfiltered).
func (t *Trace) Tag() string { return t.tag }

// Node returns the node filter of the trace (NoNode when unfiltered).
func (t *Trace) Node() types.NodeID { return t.node }

// Flags returns the registration flags.
func (t *Trace) Flags() TraceFlags { return t.flags }

// CreateTrace registers fn for the value operations in flags. The trace
// fires for values whose key matches keyPattern (a glob, "" for all) on
// node id (NoNode for any node) carrying tag ("" for any).
func (c *Client) CreateTrace(id types.NodeID, keyPattern, tag string, flags TraceFlags, fn TraceFunc) (*Trace, error) {
	if c.core == nil {
		return nil, types.Errorf(types.ErrKindInvalid, "client is closed")
	}
	if fn == nil {
		return nil, types.Errorf(types.ErrKindInvalid, "trace callback is nil")
	}
	if flags&traceOps == 0 {
		return nil, types.Errorf(types.ErrKindInvalid, "trace selects no operations")
	}
	if id != types.NoNode {
		if _, err := c.node(id); err != nil {
			return nil, err
		}
	}
	t := &Trace{
		client:  c,
		node:    id,
		pattern: keyPattern,
		tag:     tag,
		flags:   flags,
		fn:      fn,
		pending: make(map[traceEvent]idle.Handle),
	}
	if keyPattern != "" {
		g, err := c.rt.compilePattern(keyPattern)
		if err != nil {
			return nil, err
		}
		t.match = g
	}
	c.traces = append(c.traces, t)
	return t, nil
}

// DeleteTrace unregisters t and drops its pending deliveries.
func (c *Client) DeleteTrace(t *Trace) error {
	for i, have := range c.traces {
		if have == t {
			c.traces = append(c.traces[:i], c.traces[i+1:]...)
			t.cancelPending()
			return nil
		}
	}
	return types.Errorf(types.ErrKindNotFound, "trace is not registered with %s", c.Name())
}

// Traces returns the client's traces in registration order.
func (c *Client) Traces() []*Trace {
	out := make([]*Trace, len(c.traces))
	copy(out, c.traces)
	return out
}

func (t *Trace) cancelPending() {
	t.deleted = true
	for ev, h := range t.pending {
		t.client.rt.idle.Cancel(h)
		delete(t.pending, ev)
	}
}

// matches reports whether t observes ops on key k of node n made by src.
func (t *Trace) matches(src *Client, n *node, k keys.Key, ops TraceFlags) bool {
	if t.flags&ops == 0 {
		return false
	}
	if t.flags&TraceForeignOnly != 0 && t.client == src {
		return false
	}
	if t.node != types.NoNode && t.node != n.id {
		return false
	}
	if t.tag != "" && !t.client.nodeHasTag(n, t.tag) {
		return false
	}
	if t.match != nil && !t.match.Match(k.String()) {
		return false
	}
	return true
}

// notifyValue delivers ops on key k of node n, made through c, to every
// matching trace of every client of the core, in registration order.
// Synchronous delivery is suppressed while traces for n are already
// running.
func (c *Client) notifyValue(n *node, k keys.Key, ops TraceFlags) {
	if n.state == stateNotifying {
		return
	}
	n.state = stateNotifying
	defer func() {
		if !n.deleted {
			n.state = stateIdle
		}
	}()

	for _, cl := range snapshotClients(c.core) {
		for _, t := range snapshotTraces(cl) {
			if t.deleted || !t.matches(c, n, k, ops) {
				continue
			}
			if t.flags&TraceWhenIdle != 0 {
				t.enqueue(n.id, k, ops&traceOps)
				continue
			}
			tracesFired.WithLabelValues("sync").Inc()
			if err := t.fn(cl, n.id, k, ops&traceOps); err != nil {
				c.rt.report(fmt.Errorf("trace on %q of node %d: %w", k, n.id, err))
			}
			if n.deleted {
				return
			}
		}
	}
}

// enqueue queues one coalesced delivery for (id, k, ops).
func (t *Trace) enqueue(id types.NodeID, k keys.Key, ops TraceFlags) {
	ev := traceEvent{id: id, key: k, ops: ops}
	if _, queued := t.pending[ev]; queued {
		return
	}
	cl := t.client
	t.pending[ev] = cl.rt.idle.Schedule(cl, func() {
		delete(t.pending, ev)
		if t.deleted || cl.core == nil {
			return
		}
		if cl.nodeOrNil(ev.id) == nil {
			return // deleted meanwhile
		}
		tracesFired.WithLabelValues("idle").Inc()
		if err := t.fn(cl, ev.id, ev.key, ev.ops); err != nil {
			cl.rt.report(fmt.Errorf("trace on %q of node %d: %w", ev.key, ev.id, err))
		}
	})
}

func snapshotClients(co *core) []*Client {
	out := make([]*Client, len(co.clients))
	copy(out, co.clients)
	return out
}

func snapshotTraces(c *Client) []*Trace {
	out := make([]*Trace, len(c.traces))
	copy(out, c.traces)
	return out
}

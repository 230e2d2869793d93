package tree

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/hashidx"
	"github.com/joshuapare/treekit/tree/keys"
)

// notifyState tracks whether value traces are currently being delivered
// for a node.
type notifyState uint8

const (
	stateIdle notifyState = iota
	stateNotifying
)

// node is one element of a core's hierarchy. Nodes are owned by their core's
// id table; the links below are navigation only.
type node struct {
	id    types.NodeID
	label keys.Key
	depth int

	parent *node
	first  *node
	last   *node
	next   *node
	prev   *node
	degree int

	// index is built once degree exceeds hashidx.HighWater.
	index *hashidx.Index[*node]

	values hashidx.Table[*value]

	state   notifyState
	deleted bool
}

func (n *node) isRoot() bool { return n.parent == nil }

// insertChild splices child into n's list before `before` (append when nil)
// and keeps the secondary index in step.
func (n *node) insertChild(child, before *node) {
	child.parent = n
	if before == nil {
		child.prev = n.last
		child.next = nil
		if n.last != nil {
			n.last.next = child
		} else {
			n.first = child
		}
		n.last = child
	} else {
		child.next = before
		child.prev = before.prev
		if before.prev != nil {
			before.prev.next = child
		} else {
			n.first = child
		}
		before.prev = child
	}
	n.degree++

	switch {
	case n.index != nil:
		n.index.Insert(child.label, child)
	case n.degree > hashidx.HighWater:
		n.buildIndex()
	}
}

// removeChild unlinks child from n.
func (n *node) removeChild(child *node) {
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.first = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.last = child.prev
	}
	child.prev, child.next, child.parent = nil, nil, nil
	n.degree--

	if n.index != nil {
		if !n.index.Remove(child.label, child) {
			panic(fmt.Sprintf("tree: child %d missing from index of node %d", child.id, n.id))
		}
		if n.degree < hashidx.LowWater {
			n.index = nil
		}
	}
}

func (n *node) buildIndex() {
	n.index = hashidx.New[*node]()
	for c := n.first; c != nil; c = c.next {
		n.index.Insert(c.label, c)
	}
}

// findChild returns the first child, in list order, labeled k.
func (n *node) findChild(k keys.Key) *node {
	if n.index == nil {
		return n.scanChild(k)
	}
	switch n.index.Count(k) {
	case 0:
		return nil
	case 1:
		c, _ := n.index.Find(k)
		return c
	default:
		// Duplicate labels: the list decides which one is first.
		return n.scanChild(k)
	}
}

func (n *node) scanChild(k keys.Key) *node {
	for c := n.first; c != nil; c = c.next {
		if c.label == k {
			return c
		}
	}
	return nil
}

// relabel changes the label of child n, moving its entry in the parent's
// index from the old bucket to the new one.
func (n *node) relabel(k keys.Key) {
	if p := n.parent; p != nil && p.index != nil {
		if !p.index.Remove(n.label, n) {
			panic(fmt.Sprintf("tree: node %d not found under its old label %q", n.id, n.label))
		}
		n.label = k
		p.index.Insert(k, n)
		return
	}
	n.label = k
}

// childAt returns the child at position pos, or nil when out of range.
func (n *node) childAt(pos int) *node {
	if pos < 0 || pos >= n.degree {
		return nil
	}
	c := n.first
	for ; pos > 0; pos-- {
		c = c.next
	}
	return c
}

// position returns n's index among its siblings.
func (n *node) position() int {
	pos := 0
	for c := n.prev; c != nil; c = c.prev {
		pos++
	}
	return pos
}

// isAncestorOf reports whether n is a proper ancestor of other.
func (n *node) isAncestorOf(other *node) bool {
	if other == nil || n == other {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// resetDepth recomputes depths of n's subtree from n's parent.
func (n *node) resetDepth() {
	base := 0
	if n.parent != nil {
		base = n.parent.depth + 1
	}
	if n.depth == base {
		return
	}
	var walk func(*node, int)
	walk = func(m *node, d int) {
		m.depth = d
		for c := m.first; c != nil; c = c.next {
			walk(c, d+1)
		}
	}
	walk(n, base)
}

// subtreeHeight returns the largest depth below n, relative to n.
func (n *node) subtreeHeight() int {
	h := 0
	for c := n.first; c != nil; c = c.next {
		if ch := c.subtreeHeight() + 1; ch > h {
			h = ch
		}
	}
	return h
}

package tree

import (
	"slices"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

// CreateNode adds a child labeled label under parent at position pos
// (append when pos is negative or past the end) and returns its id.
func (c *Client) CreateNode(parent types.NodeID, label string, pos int) (types.NodeID, error) {
	return c.CreateNodeWithID(parent, label, types.NoNode, pos)
}

// CreateNodeWithID is CreateNode with a caller-chosen id. It fails when id
// is already in use. Passing NoNode picks the next free id.
func (c *Client) CreateNodeWithID(parent types.NodeID, label string, id types.NodeID, pos int) (types.NodeID, error) {
	p, err := c.node(parent)
	if err != nil {
		return types.NoNode, err
	}
	n, err := c.core.newNode(p, keys.Intern(label), id, p.childAt(pos))
	if err != nil {
		return types.NoNode, err
	}
	c.notifyEvent(EventCreate, n)
	return n.id, nil
}

// DeleteNode removes id and its whole subtree. Children are deleted, and
// their DELETE events delivered, before their parent. The root cannot be
// deleted.
func (c *Client) DeleteNode(id types.NodeID) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	if n.isRoot() {
		return types.Errorf(types.ErrKindInvalid, "can't delete the root of %s", c.core.name)
	}
	c.deleteSubtree(n)
	return nil
}

func (c *Client) deleteSubtree(n *node) {
	// Handlers may delete siblings, so restart from the first child.
	for child := n.first; child != nil; child = n.first {
		c.deleteSubtree(child)
	}
	// A handler may already have removed the node.
	if n.deleted {
		return
	}
	c.notifyEvent(EventDelete, n)
	if n.deleted {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	c.core.forget(n)
}

// MoveNode relinks id under newParent before `before` (append when before
// is NoNode). It fails when newParent is id itself or one of its
// descendants, or when before is not a child of newParent. Moving a node
// before itself is a no-op.
func (c *Client) MoveNode(id, newParent, before types.NodeID) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	p, err := c.node(newParent)
	if err != nil {
		return err
	}
	var b *node
	if before != types.NoNode {
		if b, err = c.node(before); err != nil {
			return err
		}
		if b.parent != p {
			return types.Errorf(types.ErrKindInvalid, "node %d is not a child of node %d", before, newParent)
		}
	}
	if n.isRoot() {
		return types.Errorf(types.ErrKindInvalid, "can't move the root of %s", c.core.name)
	}
	if p == n || n.isAncestorOf(p) {
		return types.Errorf(types.ErrKindInvalid, "can't move node %d into its own subtree", id)
	}
	if b == n {
		return nil
	}
	if newDepth := p.depth + 1; newDepth != n.depth {
		if err := c.core.checkDepth(newDepth + n.subtreeHeight()); err != nil {
			return err
		}
	}

	n.parent.removeChild(n)
	p.insertChild(n, b)
	n.resetDepth()
	c.notifyEvent(EventMove, n)
	return nil
}

// SortChildren reorders the children of parent by cmp, which must define a
// total order (negative when a sorts before b). The sort is stable.
func (c *Client) SortChildren(parent types.NodeID, cmp func(a, b types.NodeID) int) error {
	p, err := c.node(parent)
	if err != nil {
		return err
	}
	if p.degree > 1 {
		children := make([]*node, 0, p.degree)
		for ch := p.first; ch != nil; ch = ch.next {
			children = append(children, ch)
		}
		slices.SortStableFunc(children, func(a, b *node) int { return cmp(a.id, b.id) })

		// Relink only; index membership does not depend on order.
		p.first, p.last = nil, nil
		var prev *node
		for _, ch := range children {
			ch.prev = prev
			ch.next = nil
			if prev == nil {
				p.first = ch
			} else {
				prev.next = ch
			}
			prev = ch
		}
		p.last = prev
	}
	c.notifyEvent(EventSort, p)
	return nil
}

// ByLabel orders nodes by label, for use with SortChildren.
func (c *Client) ByLabel(a, b types.NodeID) int {
	la, _ := c.Label(a)
	lb, _ := c.Label(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	}
	return 0
}

// RelabelNode changes the label of id.
func (c *Client) RelabelNode(id types.NodeID, label string) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	n.relabel(keys.Intern(label))
	c.notifyEvent(EventRelabel, n)
	return nil
}

package tree

import (
	"errors"
	"slices"

	"github.com/joshuapare/treekit/pkg/types"
)

// Stop may be returned by a VisitFunc to end a traversal early without
// error.
var Stop = errors.New("tree: stop traversal")

// VisitFunc is called for each node of a traversal. Returning Stop ends
// the walk successfully; any other error ends it and is returned.
type VisitFunc func(id types.NodeID) error

// NextNode returns the pre-order successor of id within the subtree rooted
// at top, or NoNode when id is the last node.
func (c *Client) NextNode(top, id types.NodeID) types.NodeID {
	n := c.nodeOrNil(id)
	r := c.nodeOrNil(top)
	if n == nil || r == nil {
		return types.NoNode
	}
	if n.first != nil {
		return n.first.id
	}
	for m := n; m != nil && m != r; m = m.parent {
		if m.next != nil {
			return m.next.id
		}
	}
	return types.NoNode
}

// PrevNode returns the pre-order predecessor of id within the subtree
// rooted at top, or NoNode when id is top.
func (c *Client) PrevNode(top, id types.NodeID) types.NodeID {
	n := c.nodeOrNil(id)
	r := c.nodeOrNil(top)
	if n == nil || r == nil || n == r {
		return types.NoNode
	}
	if n.prev == nil {
		return idOf(n.parent)
	}
	m := n.prev
	for m.last != nil {
		m = m.last
	}
	return m.id
}

// IsAncestor reports whether a is a proper ancestor of b. A node is never
// its own ancestor.
func (c *Client) IsAncestor(a, b types.NodeID) bool {
	na, nb := c.nodeOrNil(a), c.nodeOrNil(b)
	if na == nil || nb == nil {
		return false
	}
	return na.isAncestorOf(nb)
}

// IsBefore reports whether a precedes b in pre-order. It walks up from both
// nodes to their lowest common ancestor, so it costs O(depth).
func (c *Client) IsBefore(a, b types.NodeID) bool {
	na, nb := c.nodeOrNil(a), c.nodeOrNil(b)
	if na == nil || nb == nil || na == nb {
		return false
	}
	for na.depth > nb.depth {
		na = na.parent
		if na == nb {
			return false // b is an ancestor of a
		}
	}
	for nb.depth > na.depth {
		nb = nb.parent
		if nb == na {
			return true // a is an ancestor of b
		}
	}
	for na.parent != nb.parent {
		na, nb = na.parent, nb.parent
	}
	for m := na.next; m != nil; m = m.next {
		if m == nb {
			return true
		}
	}
	return false
}

// NodePath returns the labels from the root's child down to id. The root's
// path is empty.
func (c *Client) NodePath(id types.NodeID) ([]string, error) {
	n, err := c.node(id)
	if err != nil {
		return nil, err
	}
	return pathLabels(nil, n), nil
}

// PathFrom returns the labels from top down to id, top included. id must
// be top or one of its descendants.
func (c *Client) PathFrom(top, id types.NodeID) ([]string, error) {
	n, err := c.node(id)
	if err != nil {
		return nil, err
	}
	r, err := c.node(top)
	if err != nil {
		return nil, err
	}
	if n != r && !r.isAncestorOf(n) {
		return nil, types.Errorf(types.ErrKindInvalid, "node %d is not inside the subtree of node %d", id, top)
	}
	return append([]string{r.label.String()}, pathLabels(r, n)...), nil
}

// pathLabels returns the labels strictly below top down to n. A nil top
// means the root.
func pathLabels(top, n *node) []string {
	var labels []string
	for m := n; m != top && m.parent != nil; m = m.parent {
		labels = append(labels, m.label.String())
	}
	slices.Reverse(labels)
	return labels
}

// finish maps the Stop sentinel to success.
func finish(err error) error {
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

// ApplyPreOrder visits top and its descendants, parents before children.
// The visit may delete nodes; deleted subtrees are not descended into.
func (c *Client) ApplyPreOrder(top types.NodeID, visit VisitFunc) error {
	n, err := c.node(top)
	if err != nil {
		return err
	}
	return finish(preOrder(n, visit))
}

func preOrder(n *node, visit VisitFunc) error {
	if err := visit(n.id); err != nil {
		return err
	}
	for ch := n.first; ch != nil && !n.deleted; {
		next := ch.next
		if err := preOrder(ch, visit); err != nil {
			return err
		}
		ch = resume(n, ch, next)
	}
	return nil
}

// resume picks the sibling to continue with after ch was walked: the saved
// next sibling while it is still a child of parent, otherwise ch's current
// successor when ch itself survived.
func resume(parent, ch, next *node) *node {
	if next == nil {
		return nil
	}
	if !next.deleted && next.parent == parent {
		return next
	}
	if !ch.deleted && ch.parent == parent {
		return ch.next
	}
	return nil
}

// ApplyPostOrder visits top and its descendants, children before parents.
func (c *Client) ApplyPostOrder(top types.NodeID, visit VisitFunc) error {
	n, err := c.node(top)
	if err != nil {
		return err
	}
	return finish(postOrder(n, visit))
}

func postOrder(n *node, visit VisitFunc) error {
	for ch := n.first; ch != nil; {
		next := ch.next
		if err := postOrder(ch, visit); err != nil {
			return err
		}
		ch = resume(n, ch, next)
	}
	if n.deleted {
		return nil
	}
	return visit(n.id)
}

// ApplyInOrder visits the first child's subtree, then the node, then the
// remaining children.
func (c *Client) ApplyInOrder(top types.NodeID, visit VisitFunc) error {
	n, err := c.node(top)
	if err != nil {
		return err
	}
	return finish(inOrder(n, visit))
}

func inOrder(n *node, visit VisitFunc) error {
	first := n.first
	if first == nil {
		return visit(n.id)
	}
	next := first.next
	if err := inOrder(first, visit); err != nil {
		return err
	}
	if n.deleted {
		return nil
	}
	if err := visit(n.id); err != nil {
		return err
	}
	for ch := resume(n, first, next); ch != nil && !n.deleted; {
		next = ch.next
		if err := inOrder(ch, visit); err != nil {
			return err
		}
		ch = resume(n, ch, next)
	}
	return nil
}

// ApplyBFS visits top and its descendants level by level.
func (c *Client) ApplyBFS(top types.NodeID, visit VisitFunc) error {
	n, err := c.node(top)
	if err != nil {
		return err
	}
	queue := []*node{n}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if m.deleted {
			continue
		}
		if err := visit(m.id); err != nil {
			return finish(err)
		}
		if m.deleted {
			continue
		}
		for ch := m.first; ch != nil; ch = ch.next {
			queue = append(queue, ch)
		}
	}
	return nil
}

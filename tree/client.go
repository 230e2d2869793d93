package tree

import (
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

// Client is a named handle onto a tree core. Clients of the same core see
// each other's mutations; each keeps its own traces, event handlers and
// (unless shared) tag table.
type Client struct {
	rt       *Runtime
	core     *core
	tags     *tagTable
	traces   []*Trace
	handlers []*EventHandler
}

// link attaches c to co and picks its tag table.
func (c *Client) link(co *core, newTags bool) {
	c.core = co
	if !newTags && len(co.clients) > 0 && co.clients[0].tags != nil {
		c.tags = co.clients[0].tags
	} else {
		c.tags = newTagTable()
	}
	c.tags.refs++
	co.addClient(c)
	c.rt.log.Debug("client attached", "tree", co.name, "clients", len(co.clients))
}

// unlink detaches c from its core, dropping its notifications, and tears
// the core down when c was its last client.
func (c *Client) unlink() {
	if c.core == nil {
		return
	}
	c.dropNotifications()
	c.releaseTags()
	c.core.releaseOwner(c)
	co := c.core
	c.core = nil
	if co.removeClient(c) {
		co.teardown()
	}
	c.rt.log.Debug("client detached", "tree", co.name, "clients", len(co.clients))
}

// dropNotifications unregisters every trace and event handler of c and
// cancels their pending deferred deliveries.
func (c *Client) dropNotifications() {
	for _, t := range c.traces {
		t.cancelPending()
	}
	for _, h := range c.handlers {
		h.cancelPending()
	}
	c.rt.idle.CancelOwner(c)
	c.traces = nil
	c.handlers = nil
}

// Attach re-points c to the core named name, or to a brand-new core when
// name is empty. All of c's traces and event handlers are dropped. The tag
// table is shared with the target's first client, or fresh for a new core.
func (c *Client) Attach(name string) error {
	if c.core == nil {
		return types.Errorf(types.ErrKindInvalid, "client is closed")
	}
	var target *core
	if name == "" {
		qname := QualifyName(c.rt.nextAutoName())
		target = newCore(c.rt, qname)
		c.rt.cores[qname] = target
	} else {
		var ok bool
		if target, ok = c.rt.cores[QualifyName(name)]; !ok {
			return types.Errorf(types.ErrKindNotFound, "can't find a tree named %q", QualifyName(name))
		}
	}
	if target == c.core {
		c.dropNotifications()
		return nil
	}
	c.unlink()
	c.link(target, false)
	return nil
}

// Close detaches c. The core is destroyed with its last client. Using c
// after Close is an error.
func (c *Client) Close() error {
	if c.core == nil {
		return types.Errorf(types.ErrKindInvalid, "client is already closed")
	}
	c.unlink()
	return nil
}

// Name returns the qualified name of the attached tree.
func (c *Client) Name() string {
	if c.core == nil {
		return ""
	}
	return c.core.name
}

// Runtime returns the runtime that owns c.
func (c *Client) Runtime() *Runtime { return c.rt }

// Root returns the id of the root node.
func (c *Client) Root() types.NodeID { return rootID }

// NodeCount returns the number of live nodes, root included.
func (c *Client) NodeCount() int {
	if c.core == nil {
		return 0
	}
	return len(c.core.nodes)
}

// node resolves id on the attached core.
func (c *Client) node(id types.NodeID) (*node, error) {
	if c.core == nil {
		return nil, types.Errorf(types.ErrKindInvalid, "client is closed")
	}
	return c.core.lookup(id)
}

// nodeOrNil resolves id, returning nil when it does not exist.
func (c *Client) nodeOrNil(id types.NodeID) *node {
	if c.core == nil {
		return nil
	}
	return c.core.nodes[id]
}

func idOf(n *node) types.NodeID {
	if n == nil {
		return types.NoNode
	}
	return n.id
}

// Exists reports whether node id is live.
func (c *Client) Exists(id types.NodeID) bool {
	return c.nodeOrNil(id) != nil
}

// Label returns the label of node id.
func (c *Client) Label(id types.NodeID) (string, error) {
	n, err := c.node(id)
	if err != nil {
		return "", err
	}
	return n.label.String(), nil
}

// LabelKey returns the interned label of node id.
func (c *Client) LabelKey(id types.NodeID) (keys.Key, error) {
	n, err := c.node(id)
	if err != nil {
		return keys.Key{}, err
	}
	return n.label, nil
}

// Parent returns the parent of node id (NoNode for the root).
func (c *Client) Parent(id types.NodeID) (types.NodeID, error) {
	n, err := c.node(id)
	if err != nil {
		return types.NoNode, err
	}
	return idOf(n.parent), nil
}

// Depth returns the depth of node id; the root is at depth 0.
func (c *Client) Depth(id types.NodeID) (int, error) {
	n, err := c.node(id)
	if err != nil {
		return 0, err
	}
	return n.depth, nil
}

// Degree returns the number of children of node id.
func (c *Client) Degree(id types.NodeID) (int, error) {
	n, err := c.node(id)
	if err != nil {
		return 0, err
	}
	return n.degree, nil
}

// IsLeaf reports whether node id has no children.
func (c *Client) IsLeaf(id types.NodeID) bool {
	n := c.nodeOrNil(id)
	return n != nil && n.first == nil
}

// IsRoot reports whether id is the root.
func (c *Client) IsRoot(id types.NodeID) bool {
	n := c.nodeOrNil(id)
	return n != nil && n.isRoot()
}

// FirstChild returns the first child of id, or NoNode.
func (c *Client) FirstChild(id types.NodeID) types.NodeID {
	if n := c.nodeOrNil(id); n != nil {
		return idOf(n.first)
	}
	return types.NoNode
}

// LastChild returns the last child of id, or NoNode.
func (c *Client) LastChild(id types.NodeID) types.NodeID {
	if n := c.nodeOrNil(id); n != nil {
		return idOf(n.last)
	}
	return types.NoNode
}

// NextSibling returns the sibling after id, or NoNode.
func (c *Client) NextSibling(id types.NodeID) types.NodeID {
	if n := c.nodeOrNil(id); n != nil {
		return idOf(n.next)
	}
	return types.NoNode
}

// PrevSibling returns the sibling before id, or NoNode.
func (c *Client) PrevSibling(id types.NodeID) types.NodeID {
	if n := c.nodeOrNil(id); n != nil {
		return idOf(n.prev)
	}
	return types.NoNode
}

// ChildAt returns the child of parent at position pos.
func (c *Client) ChildAt(parent types.NodeID, pos int) (types.NodeID, error) {
	p, err := c.node(parent)
	if err != nil {
		return types.NoNode, err
	}
	child := p.childAt(pos)
	if child == nil {
		return types.NoNode, types.Errorf(types.ErrKindNotFound, "node %d has no child at position %d", parent, pos)
	}
	return child.id, nil
}

// NodePosition returns the index of id among its siblings.
func (c *Client) NodePosition(id types.NodeID) (int, error) {
	n, err := c.node(id)
	if err != nil {
		return 0, err
	}
	return n.position(), nil
}

// Children returns the children of id in order.
func (c *Client) Children(id types.NodeID) ([]types.NodeID, error) {
	n, err := c.node(id)
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeID, 0, n.degree)
	for ch := n.first; ch != nil; ch = ch.next {
		out = append(out, ch.id)
	}
	return out, nil
}

// FindChild returns the first child of parent labeled label.
func (c *Client) FindChild(parent types.NodeID, label string) (types.NodeID, error) {
	p, err := c.node(parent)
	if err != nil {
		return types.NoNode, err
	}
	k, ok := keys.Lookup(label)
	if !ok {
		return types.NoNode, types.Errorf(types.ErrKindNotFound, "can't find child %q of node %d", label, parent)
	}
	child := p.findChild(k)
	if child == nil {
		return types.NoNode, types.Errorf(types.ErrKindNotFound, "can't find child %q of node %d", label, parent)
	}
	return child.id, nil
}

// FindPath descends from top following labels and returns the node reached.
func (c *Client) FindPath(top types.NodeID, labels []string) (types.NodeID, error) {
	n, err := c.node(top)
	if err != nil {
		return types.NoNode, err
	}
	for _, label := range labels {
		k, ok := keys.Lookup(label)
		var child *node
		if ok {
			child = n.findChild(k)
		}
		if child == nil {
			return types.NoNode, types.Errorf(types.ErrKindNotFound, "can't find child %q of node %d", label, n.id)
		}
		n = child
	}
	return n.id, nil
}

// Size returns the number of nodes in the subtree rooted at id.
func (c *Client) Size(id types.NodeID) (int, error) {
	n, err := c.node(id)
	if err != nil {
		return 0, err
	}
	var count func(*node) int
	count = func(m *node) int {
		total := 1
		for ch := m.first; ch != nil; ch = ch.next {
			total += count(ch)
		}
		return total
	}
	return count(n), nil
}

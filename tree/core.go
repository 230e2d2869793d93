package tree

import (
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

// rootID is the id of every core's root node.
const rootID types.NodeID = 0

// core is the storage shared by all clients of one tree: the id table,
// the root and the id generator. It is torn down when its last client
// closes.
type core struct {
	rt      *Runtime
	name    string
	nodes   map[types.NodeID]*node
	root    *node
	nextID  types.NodeID
	clients []*Client
}

func newCore(rt *Runtime, qname string) *core {
	co := &core{
		rt:     rt,
		name:   qname,
		nodes:  make(map[types.NodeID]*node),
		nextID: rootID + 1,
	}
	co.root = &node{id: rootID, label: keys.Intern(TailName(qname))}
	co.nodes[rootID] = co.root
	nodesCreated.Inc()
	rt.log.Debug("tree created", "tree", qname)
	return co
}

// lookup resolves id to a live node.
func (co *core) lookup(id types.NodeID) (*node, error) {
	if n, ok := co.nodes[id]; ok {
		return n, nil
	}
	return nil, types.Errorf(types.ErrKindNotFound, "can't find node %d in %s", id, co.name)
}

// checkCapacity fails when one more node would exceed the node limit.
func (co *core) checkCapacity() error {
	limits := co.rt.opts.Limits
	if limits.MaxNodes > 0 && len(co.nodes) >= limits.MaxNodes {
		return &types.LimitError{Limit: "nodes", Current: int64(len(co.nodes) + 1), Maximum: int64(limits.MaxNodes)}
	}
	return nil
}

// checkDepth fails when depth exceeds the depth limit.
func (co *core) checkDepth(depth int) error {
	limits := co.rt.opts.Limits
	if limits.MaxDepth > 0 && depth > limits.MaxDepth {
		return &types.LimitError{Limit: "depth", Current: int64(depth), Maximum: int64(limits.MaxDepth)}
	}
	return nil
}

// newNode allocates a node with the given id (NoNode picks the next one)
// and links it under parent before `before`.
func (co *core) newNode(parent *node, label keys.Key, id types.NodeID, before *node) (*node, error) {
	if err := co.checkCapacity(); err != nil {
		return nil, err
	}
	if err := co.checkDepth(parent.depth + 1); err != nil {
		return nil, err
	}
	switch _, used := co.nodes[id]; {
	case id == types.NoNode:
		id = co.nextID
	case id < 0:
		return nil, types.Errorf(types.ErrKindInvalid, "invalid node id %d", id)
	case used:
		return nil, types.Errorf(types.ErrKindInvalid, "node id %d is already in use", id)
	}
	if id >= co.nextID {
		co.nextID = id + 1
	}

	n := &node{id: id, label: label, depth: parent.depth + 1}
	co.nodes[id] = n
	parent.insertChild(n, before)
	nodesCreated.Inc()
	return n, nil
}

// forget removes n from the id table and every tag table. The node must
// already be unlinked from its parent.
func (co *core) forget(n *node) {
	delete(co.nodes, n.id)
	n.values.Clear()
	n.index = nil
	n.first, n.last = nil, nil
	n.deleted = true
	for _, tt := range co.tagTables() {
		tt.forgetNode(n.id)
	}
	nodesDeleted.Inc()
}

// tagTables returns the distinct tag tables used by the core's clients.
func (co *core) tagTables() []*tagTable {
	var out []*tagTable
	for _, c := range co.clients {
		if c.tags != nil && !containsTable(out, c.tags) {
			out = append(out, c.tags)
		}
	}
	return out
}

func containsTable(tables []*tagTable, t *tagTable) bool {
	for _, have := range tables {
		if have == t {
			return true
		}
	}
	return false
}

// addClient registers c at the end of the notification order.
func (co *core) addClient(c *Client) {
	co.clients = append(co.clients, c)
}

// removeClient drops c and reports whether the core has no clients left.
func (co *core) removeClient(c *Client) bool {
	for i, have := range co.clients {
		if have == c {
			co.clients = append(co.clients[:i], co.clients[i+1:]...)
			break
		}
	}
	return len(co.clients) == 0
}

// teardown releases every node, children before parents.
func (co *core) teardown() {
	var destroy func(*node)
	destroy = func(n *node) {
		for c := n.first; c != nil; {
			next := c.next
			destroy(c)
			c = next
		}
		delete(co.nodes, n.id)
		n.values.Clear()
		n.index = nil
		n.first, n.last, n.next, n.prev, n.parent = nil, nil, nil, nil, nil
		n.deleted = true
		nodesDeleted.Inc()
	}
	destroy(co.root)
	delete(co.rt.cores, co.name)
	co.rt.log.Debug("tree destroyed", "tree", co.name)
}

// releaseOwner makes every value private to c public again.
func (co *core) releaseOwner(c *Client) {
	for _, n := range co.nodes {
		n.values.Range(func(_ keys.Key, v *value) bool {
			if v.owner == c {
				v.owner = nil
			}
			return true
		})
	}
}

package tree

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

// ValidationError describes a broken structural invariant found by Check.
type ValidationError struct {
	Type    string       // invariant category, e.g. "Depth"
	Node    types.NodeID // node where the violation was found
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: node %d: %s", e.Type, e.Node, e.Message)
}

// Unwrap classifies every violation as an invalid state.
func (e *ValidationError) Unwrap() error { return types.ErrInvalidOperation }

// Check walks the whole tree and verifies its structural invariants: depth
// rule, parent/child link symmetry, id table membership, child index and
// value index consistency, and that tag tables only name live nodes. It
// returns the first violation found.
func (c *Client) Check() error {
	if c.core == nil {
		return types.Errorf(types.ErrKindInvalid, "client is closed")
	}
	co := c.core
	if co.root.parent != nil || co.root.depth != 0 {
		return &ValidationError{Type: "Root", Node: co.root.id, Message: "root has a parent or non-zero depth"}
	}

	seen := 0
	var walk func(n *node) error
	walk = func(n *node) error {
		seen++
		if got, ok := co.nodes[n.id]; !ok || got != n {
			return &ValidationError{Type: "IDTable", Node: n.id, Message: "node reachable but not in id table"}
		}
		if n.deleted {
			return &ValidationError{Type: "IDTable", Node: n.id, Message: "deleted node still linked"}
		}
		if err := checkChildren(n); err != nil {
			return err
		}
		if err := checkValues(n); err != nil {
			return err
		}
		for ch := n.first; ch != nil; ch = ch.next {
			if err := walk(ch); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(co.root); err != nil {
		return err
	}
	if seen != len(co.nodes) {
		return &ValidationError{Type: "IDTable", Node: co.root.id,
			Message: fmt.Sprintf("%d nodes reachable, %d in id table", seen, len(co.nodes))}
	}

	for _, tt := range co.tagTables() {
		for tag, set := range tt.tags {
			for id := range set {
				if _, ok := co.nodes[id]; !ok {
					return &ValidationError{Type: "Tags", Node: id, Message: fmt.Sprintf("tag %q names a deleted node", tag)}
				}
			}
		}
	}
	return nil
}

func checkChildren(n *node) error {
	count := 0
	var prev *node
	labels := make(map[keys.Key]int)
	for ch := n.first; ch != nil; ch = ch.next {
		count++
		labels[ch.label]++
		if ch.parent != n {
			return &ValidationError{Type: "Links", Node: ch.id, Message: fmt.Sprintf("parent link does not point at %d", n.id)}
		}
		if ch.prev != prev {
			return &ValidationError{Type: "Links", Node: ch.id, Message: "prev link broken"}
		}
		if ch.depth != n.depth+1 {
			return &ValidationError{Type: "Depth", Node: ch.id,
				Message: fmt.Sprintf("depth %d, parent depth %d", ch.depth, n.depth)}
		}
		prev = ch
	}
	if n.last != prev {
		return &ValidationError{Type: "Links", Node: n.id, Message: "last child link broken"}
	}
	if count != n.degree {
		return &ValidationError{Type: "Links", Node: n.id, Message: fmt.Sprintf("degree %d, %d children linked", n.degree, count)}
	}
	if n.index == nil {
		return nil
	}
	if n.index.Len() != count {
		return &ValidationError{Type: "ChildIndex", Node: n.id,
			Message: fmt.Sprintf("index holds %d entries for %d children", n.index.Len(), count)}
	}
	for label, want := range labels {
		if got := n.index.Count(label); got != want {
			return &ValidationError{Type: "ChildIndex", Node: n.id,
				Message: fmt.Sprintf("label %q indexed %d times, linked %d times", label, got, want)}
		}
	}
	return nil
}

func checkValues(n *node) error {
	var err error
	n.values.Range(func(k keys.Key, v *value) bool {
		got, ok := n.values.Get(k)
		if !ok || got != v || v.key != k {
			err = &ValidationError{Type: "ValueIndex", Node: n.id, Message: fmt.Sprintf("value %q not found by key", k)}
			return false
		}
		return true
	})
	return err
}

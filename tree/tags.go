package tree

import (
	"slices"

	"github.com/joshuapare/treekit/pkg/types"
)

// Built-in tags. They are computed, never stored.
const (
	TagAll  = "all"
	TagRoot = "root"
)

// tagTable maps tag names to node id sets. A table may be shared by several
// clients of the same core; refs counts them.
type tagTable struct {
	refs int
	tags map[string]map[types.NodeID]struct{}
}

func newTagTable() *tagTable {
	return &tagTable{tags: make(map[string]map[types.NodeID]struct{})}
}

func (tt *tagTable) add(tag string, id types.NodeID) {
	set, ok := tt.tags[tag]
	if !ok {
		set = make(map[types.NodeID]struct{})
		tt.tags[tag] = set
	}
	set[id] = struct{}{}
}

func (tt *tagTable) remove(tag string, id types.NodeID) {
	if set, ok := tt.tags[tag]; ok {
		delete(set, id)
	}
}

func (tt *tagTable) has(tag string, id types.NodeID) bool {
	_, ok := tt.tags[tag][id]
	return ok
}

// forgetNode drops id from every tag. Empty tags stay defined.
func (tt *tagTable) forgetNode(id types.NodeID) {
	for _, set := range tt.tags {
		delete(set, id)
	}
}

func isBuiltinTag(tag string) bool {
	return tag == TagAll || tag == TagRoot
}

// AddTag attaches tag to node id. The built-in tags cannot be added.
func (c *Client) AddTag(id types.NodeID, tag string) error {
	if _, err := c.node(id); err != nil {
		return err
	}
	if isBuiltinTag(tag) {
		return types.Errorf(types.ErrKindInvalid, "can't add reserved tag %q", tag)
	}
	if tag == "" {
		return types.Errorf(types.ErrKindInvalid, "empty tag name")
	}
	c.tags.add(tag, id)
	return nil
}

// RemoveTag detaches tag from node id. Removing a tag the node does not
// carry is not an error.
func (c *Client) RemoveTag(id types.NodeID, tag string) error {
	if _, err := c.node(id); err != nil {
		return err
	}
	if isBuiltinTag(tag) {
		return types.Errorf(types.ErrKindInvalid, "can't remove reserved tag %q", tag)
	}
	c.tags.remove(tag, id)
	return nil
}

// ForgetTag removes tag and all its node associations.
func (c *Client) ForgetTag(tag string) error {
	if isBuiltinTag(tag) {
		return types.Errorf(types.ErrKindInvalid, "can't forget reserved tag %q", tag)
	}
	if _, ok := c.tags.tags[tag]; !ok {
		return types.Errorf(types.ErrKindNotFound, "can't find tag %q", tag)
	}
	delete(c.tags.tags, tag)
	return nil
}

// HasTag reports whether node id carries tag.
func (c *Client) HasTag(id types.NodeID, tag string) bool {
	n, err := c.node(id)
	if err != nil {
		return false
	}
	return c.nodeHasTag(n, tag)
}

func (c *Client) nodeHasTag(n *node, tag string) bool {
	switch tag {
	case TagAll:
		return true
	case TagRoot:
		return n == c.core.root
	}
	return c.tags.has(tag, n.id)
}

// ClearTags removes every tag from node id.
func (c *Client) ClearTags(id types.NodeID) error {
	if _, err := c.node(id); err != nil {
		return err
	}
	c.tags.forgetNode(id)
	return nil
}

// Tags returns the tags of node id, built-ins included, sorted.
func (c *Client) Tags(id types.NodeID) ([]string, error) {
	n, err := c.node(id)
	if err != nil {
		return nil, err
	}
	out := []string{TagAll}
	if n == c.core.root {
		out = append(out, TagRoot)
	}
	for tag, set := range c.tags.tags {
		if _, ok := set[id]; ok {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out, nil
}

// UserTags returns the stored (non built-in) tags of node id, sorted.
func (c *Client) UserTags(id types.NodeID) ([]string, error) {
	if _, err := c.node(id); err != nil {
		return nil, err
	}
	var out []string
	for tag, set := range c.tags.tags {
		if _, ok := set[id]; ok {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out, nil
}

// TagNames returns every tag known to the client's table plus the
// built-ins, sorted.
func (c *Client) TagNames() []string {
	out := []string{TagAll, TagRoot}
	for tag := range c.tags.tags {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// TaggedNodes returns the nodes carrying tag in ascending id order.
func (c *Client) TaggedNodes(tag string) ([]types.NodeID, error) {
	switch tag {
	case TagAll:
		ids := make([]types.NodeID, 0, len(c.core.nodes))
		for id := range c.core.nodes {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids, nil
	case TagRoot:
		return []types.NodeID{c.core.root.id}, nil
	}
	set, ok := c.tags.tags[tag]
	if !ok {
		return nil, types.Errorf(types.ErrKindNotFound, "can't find tag %q", tag)
	}
	ids := make([]types.NodeID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// ShareTagsWith makes c use other's tag table. Both clients must be
// attached to the same tree.
func (c *Client) ShareTagsWith(other *Client) error {
	if c.core == nil || other.core != c.core {
		return types.Errorf(types.ErrKindInvalid, "can't share tags: clients are not attached to the same tree")
	}
	if other.tags == c.tags {
		return nil
	}
	c.releaseTags()
	c.tags = other.tags
	c.tags.refs++
	return nil
}

// SharesTagsWith reports whether c and other use the same tag table.
func (c *Client) SharesTagsWith(other *Client) bool {
	return c.tags != nil && c.tags == other.tags
}

func (c *Client) releaseTags() {
	if c.tags == nil {
		return
	}
	c.tags.refs--
	c.tags = nil
}

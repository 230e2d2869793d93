package tree

import (
	"maps"
	"slices"
	"strings"

	"github.com/joshuapare/treekit/internal/listfmt"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/keys"
)

// value is a named datum on a node: a scalar string or a one-level array
// (string-keyed map). An array caches its serialized form until the next
// element write.
type value struct {
	key     keys.Key
	str     string
	strOK   bool // str reflects the current payload
	arr     map[string]string
	isArray bool
	owner   *Client // non-nil when private to one client
}

// text returns the scalar form, serializing an array if needed.
func (v *value) text() string {
	if !v.strOK {
		elems := make([]string, 0, 2*len(v.arr))
		for _, name := range slices.Sorted(maps.Keys(v.arr)) {
			elems = append(elems, name, v.arr[name])
		}
		v.str = listfmt.Join(elems)
		v.strOK = true
	}
	return v.str
}

// array converts the payload to array form, parsing scalar list text.
func (v *value) array() (map[string]string, error) {
	if v.isArray {
		return v.arr, nil
	}
	elems, err := listfmt.Split(v.str)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, types.Errorf(types.ErrKindMalformed, "value %q is not an array: odd number of elements", v.key)
	}
	arr := make(map[string]string, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		arr[elems[i]] = elems[i+1]
	}
	v.arr = arr
	v.isArray = true
	return arr, nil
}

func (v *value) setText(s string) {
	v.str = s
	v.strOK = true
	v.arr = nil
	v.isArray = false
}

// visible reports whether c may see v.
func (v *value) visible(c *Client) bool {
	return v.owner == nil || v.owner == c
}

// ParseValueName splits "name(elem)" into its parts. ok is false for a
// plain name.
func ParseValueName(s string) (name, elem string, ok bool) {
	if !strings.HasSuffix(s, ")") {
		return s, "", false
	}
	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return s, "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

func (c *Client) lookupValue(n *node, k keys.Key) (*value, error) {
	v, ok := n.values.Get(k)
	if !ok {
		return nil, types.Errorf(types.ErrKindNotFound, "can't find field %q in node %d", k, n.id)
	}
	if !v.visible(c) {
		return nil, types.Errorf(types.ErrKindPermission, "can't access private field %q in node %d", k, n.id)
	}
	return v, nil
}

// Get returns the value name of node id. name may address an array
// element as "name(elem)".
func (c *Client) Get(id types.NodeID, name string) (string, error) {
	if base, elem, ok := ParseValueName(name); ok {
		return c.GetArray(id, base, elem)
	}
	return c.GetKey(id, keys.Intern(name))
}

// GetKey returns the value k of node id.
func (c *Client) GetKey(id types.NodeID, k keys.Key) (string, error) {
	n, err := c.node(id)
	if err != nil {
		return "", err
	}
	v, err := c.lookupValue(n, k)
	if err != nil {
		return "", err
	}
	s := v.text()
	c.notifyValue(n, k, TraceRead)
	return s, nil
}

// Set stores s as value name of node id, creating it if absent. name may
// address an array element as "name(elem)".
func (c *Client) Set(id types.NodeID, name, s string) error {
	if base, elem, ok := ParseValueName(name); ok {
		return c.SetArray(id, base, elem, s)
	}
	return c.SetKey(id, keys.Intern(name), s)
}

// SetKey stores s as value k of node id.
func (c *Client) SetKey(id types.NodeID, k keys.Key, s string) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	v, created, err := c.valueForWrite(n, k)
	if err != nil {
		return err
	}
	v.setText(s)
	c.notifyWrite(n, k, created)
	return nil
}

// valueForWrite returns the existing value k or a new empty one.
func (c *Client) valueForWrite(n *node, k keys.Key) (*value, bool, error) {
	if v, ok := n.values.Get(k); ok {
		if !v.visible(c) {
			return nil, false, types.Errorf(types.ErrKindPermission, "can't set private field %q in node %d", k, n.id)
		}
		return v, false, nil
	}
	if limit := c.rt.opts.Limits.MaxValues; limit > 0 && n.values.Len() >= limit {
		return nil, false, &types.LimitError{Limit: "values", Current: int64(n.values.Len() + 1), Maximum: int64(limit)}
	}
	v := &value{key: k, strOK: true}
	n.values.Put(k, v)
	return v, true, nil
}

func (c *Client) notifyWrite(n *node, k keys.Key, created bool) {
	flags := TraceWrite
	if created {
		flags |= TraceCreate
	}
	c.notifyValue(n, k, flags)
}

// Unset removes value name of node id. Removing an absent value succeeds.
func (c *Client) Unset(id types.NodeID, name string) error {
	if base, elem, ok := ParseValueName(name); ok {
		return c.UnsetArray(id, base, elem)
	}
	return c.UnsetKey(id, keys.Intern(name))
}

// UnsetKey removes value k of node id.
func (c *Client) UnsetKey(id types.NodeID, k keys.Key) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	v, ok := n.values.Get(k)
	if !ok {
		return nil
	}
	if !v.visible(c) {
		return types.Errorf(types.ErrKindPermission, "can't unset private field %q in node %d", k, n.id)
	}
	n.values.Delete(k)
	c.notifyValue(n, k, TraceUnset)
	return nil
}

// ValueExists reports whether node id has a value name visible to c.
func (c *Client) ValueExists(id types.NodeID, name string) bool {
	if base, elem, ok := ParseValueName(name); ok {
		return c.ExistsArray(id, base, elem)
	}
	return c.ValueExistsKey(id, keys.Intern(name))
}

// ValueExistsKey reports whether node id has value k visible to c.
func (c *Client) ValueExistsKey(id types.NodeID, k keys.Key) bool {
	n := c.nodeOrNil(id)
	if n == nil {
		return false
	}
	v, ok := n.values.Get(k)
	return ok && v.visible(c)
}

// GetArray returns element elem of array value name.
func (c *Client) GetArray(id types.NodeID, name, elem string) (string, error) {
	n, err := c.node(id)
	if err != nil {
		return "", err
	}
	k := keys.Intern(name)
	v, err := c.lookupValue(n, k)
	if err != nil {
		return "", err
	}
	arr, err := v.array()
	if err != nil {
		return "", err
	}
	s, ok := arr[elem]
	if !ok {
		return "", types.Errorf(types.ErrKindNotFound, "can't find %s(%s) in node %d", name, elem, id)
	}
	c.notifyValue(n, k, TraceRead)
	return s, nil
}

// SetArray stores s as element elem of array value name, creating the
// array if absent.
func (c *Client) SetArray(id types.NodeID, name, elem, s string) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	k := keys.Intern(name)
	v, created, err := c.valueForWrite(n, k)
	if err != nil {
		return err
	}
	arr, err := v.array()
	if err != nil {
		return err
	}
	arr[elem] = s
	v.strOK = false
	c.notifyWrite(n, k, created)
	return nil
}

// UnsetArray removes element elem of array value name. Absent values and
// elements are not an error.
func (c *Client) UnsetArray(id types.NodeID, name, elem string) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	k := keys.Intern(name)
	v, ok := n.values.Get(k)
	if !ok {
		return nil
	}
	if !v.visible(c) {
		return types.Errorf(types.ErrKindPermission, "can't unset private field %q in node %d", k, n.id)
	}
	arr, err := v.array()
	if err != nil {
		return err
	}
	if _, ok := arr[elem]; !ok {
		return nil
	}
	delete(arr, elem)
	v.strOK = false
	c.notifyValue(n, k, TraceWrite)
	return nil
}

// ExistsArray reports whether array value name has element elem.
func (c *Client) ExistsArray(id types.NodeID, name, elem string) bool {
	n := c.nodeOrNil(id)
	if n == nil {
		return false
	}
	v, ok := n.values.Get(keys.Intern(name))
	if !ok || !v.visible(c) {
		return false
	}
	arr, err := v.array()
	if err != nil {
		return false
	}
	_, ok = arr[elem]
	return ok
}

// ArrayNames returns the sorted element names of array value name.
func (c *Client) ArrayNames(id types.NodeID, name string) ([]string, error) {
	n, err := c.node(id)
	if err != nil {
		return nil, err
	}
	k := keys.Intern(name)
	v, err := c.lookupValue(n, k)
	if err != nil {
		return nil, err
	}
	arr, err := v.array()
	if err != nil {
		return nil, err
	}
	c.notifyValue(n, k, TraceRead)
	return slices.Sorted(maps.Keys(arr)), nil
}

// Iterate calls fn for each value of node id visible to c until fn
// returns false. Iteration order is unspecified and may change once a node
// gains or loses its value index. No read traces fire.
func (c *Client) Iterate(id types.NodeID, fn func(k keys.Key, s string) bool) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	n.values.Range(func(k keys.Key, v *value) bool {
		if !v.visible(c) {
			return true
		}
		return fn(k, v.text())
	})
	return nil
}

// ValueNames returns the names of the values of node id visible to c, in
// iteration order.
func (c *Client) ValueNames(id types.NodeID) ([]string, error) {
	var names []string
	err := c.Iterate(id, func(k keys.Key, _ string) bool {
		names = append(names, k.String())
		return true
	})
	return names, err
}

// SetPrivate hides value name of node id from every other client.
func (c *Client) SetPrivate(id types.NodeID, name string) error {
	return c.setOwner(id, name, c)
}

// SetPublic makes value name of node id visible to all clients again.
func (c *Client) SetPublic(id types.NodeID, name string) error {
	return c.setOwner(id, name, nil)
}

func (c *Client) setOwner(id types.NodeID, name string, owner *Client) error {
	n, err := c.node(id)
	if err != nil {
		return err
	}
	v, err := c.lookupValue(n, keys.Intern(name))
	if err != nil {
		return err
	}
	v.owner = owner
	return nil
}

// IsPrivate reports whether value name of node id is private to some client.
func (c *Client) IsPrivate(id types.NodeID, name string) bool {
	n := c.nodeOrNil(id)
	if n == nil {
		return false
	}
	v, ok := n.values.Get(keys.Intern(name))
	return ok && v.owner != nil
}

package hashidx

import (
	"github.com/joshuapare/treekit/tree/keys"
)

// Table is a unique-key map from interned keys to values that stays a
// plain slice while small and adds an Index once it grows past HighWater.
// Iteration follows insertion order; removal swaps in the last element, so
// order is not stable across deletes.
type Table[V any] struct {
	keys  []keys.Key
	vals  []V
	index *Index[int] // key -> position in keys/vals
}

// Len returns the number of entries.
func (t *Table[V]) Len() int { return len(t.keys) }

// Indexed reports whether the hash index is currently built.
func (t *Table[V]) Indexed() bool { return t.index != nil }

func (t *Table[V]) position(k keys.Key) int {
	if t.index != nil {
		if pos, ok := t.index.Find(k); ok {
			return pos
		}
		return -1
	}
	for i, have := range t.keys {
		if have == k {
			return i
		}
	}
	return -1
}

// Get returns the value stored under k.
func (t *Table[V]) Get(k keys.Key) (V, bool) {
	if pos := t.position(k); pos >= 0 {
		return t.vals[pos], true
	}
	var zero V
	return zero, false
}

// Put stores v under k and reports whether k was newly added.
func (t *Table[V]) Put(k keys.Key, v V) bool {
	if pos := t.position(k); pos >= 0 {
		t.vals[pos] = v
		return false
	}
	t.keys = append(t.keys, k)
	t.vals = append(t.vals, v)
	pos := len(t.keys) - 1
	switch {
	case t.index != nil:
		t.index.Insert(k, pos)
	case len(t.keys) > HighWater:
		t.buildIndex()
	}
	return true
}

// Delete removes k and reports whether it was present.
func (t *Table[V]) Delete(k keys.Key) bool {
	pos := t.position(k)
	if pos < 0 {
		return false
	}
	last := len(t.keys) - 1
	if t.index != nil {
		t.index.Remove(k, pos)
		if pos != last {
			t.index.Remove(t.keys[last], last)
			t.index.Insert(t.keys[last], pos)
		}
	}
	t.keys[pos] = t.keys[last]
	t.vals[pos] = t.vals[last]
	var zero V
	t.vals[last] = zero
	t.keys = t.keys[:last]
	t.vals = t.vals[:last]
	if t.index != nil && len(t.keys) < LowWater {
		t.index = nil
	}
	return true
}

func (t *Table[V]) buildIndex() {
	t.index = New[int]()
	for i, k := range t.keys {
		t.index.Insert(k, i)
	}
}

// Range calls fn for each entry until fn returns false.
func (t *Table[V]) Range(fn func(keys.Key, V) bool) {
	for i, k := range t.keys {
		if !fn(k, t.vals[i]) {
			return
		}
	}
}

// Keys returns a copy of the keys in iteration order.
func (t *Table[V]) Keys() []keys.Key {
	out := make([]keys.Key, len(t.keys))
	copy(out, t.keys)
	return out
}

// Clear removes every entry.
func (t *Table[V]) Clear() {
	t.keys = nil
	t.vals = nil
	t.index = nil
}

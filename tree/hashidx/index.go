package hashidx

import (
	"github.com/joshuapare/treekit/tree/keys"
)

const (
	// HighWater is the count above which a collection gets a hash index.
	HighWater = 20

	// LowWater is the count below which an existing hash index is dropped.
	LowWater = 2 * HighWater

	// initialLog2 gives the starting bucket count (1 << 5 = 32).
	initialLog2 = 5

	// rebuildMultiplier triggers a resize once count >= buckets * rebuildMultiplier.
	rebuildMultiplier = 3

	// hashMultiplier is the multiplicative hashing constant.
	hashMultiplier = 1103515245
)

// entry is one chained bucket element.
type entry[T comparable] struct {
	key  keys.Key
	item T
	next *entry[T]
}

// Index is a chained hash table from interned keys to items. Several items
// may share a key. The zero value is not usable; call New.
type Index[T comparable] struct {
	buckets   []*entry[T]
	count     int
	log2      uint
	downShift uint
	mask      uint32
}

// New returns an empty index with the initial bucket count.
func New[T comparable]() *Index[T] {
	ix := &Index[T]{}
	ix.resize(initialLog2)
	return ix
}

func (ix *Index[T]) resize(log2 uint) {
	ix.log2 = log2
	ix.downShift = 32 - log2
	ix.mask = (uint32(1) << log2) - 1
	ix.buckets = make([]*entry[T], 1<<log2)
}

// slot returns the bucket number for k.
func (ix *Index[T]) slot(k keys.Key) uint32 {
	h := k.ID() * hashMultiplier
	return (h >> ix.downShift) & ix.mask
}

// Len returns the number of entries.
func (ix *Index[T]) Len() int { return ix.count }

// Buckets returns the current bucket count.
func (ix *Index[T]) Buckets() int { return len(ix.buckets) }

// Insert adds item under k. Existing entries for k are kept.
func (ix *Index[T]) Insert(k keys.Key, item T) {
	s := ix.slot(k)
	ix.buckets[s] = &entry[T]{key: k, item: item, next: ix.buckets[s]}
	ix.count++
	if ix.count >= len(ix.buckets)*rebuildMultiplier {
		ix.rebuild()
	}
}

// rebuild doubles the bucket count and rehashes every entry.
func (ix *Index[T]) rebuild() {
	old := ix.buckets
	ix.resize(ix.log2 + 1)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			s := ix.slot(e.key)
			e.next = ix.buckets[s]
			ix.buckets[s] = e
			e = next
		}
	}
}

// Remove deletes the entry (k, item). It reports whether one was found.
func (ix *Index[T]) Remove(k keys.Key, item T) bool {
	s := ix.slot(k)
	var prev *entry[T]
	for e := ix.buckets[s]; e != nil; prev, e = e, e.next {
		if e.key != k || e.item != item {
			continue
		}
		if prev == nil {
			ix.buckets[s] = e.next
		} else {
			prev.next = e.next
		}
		ix.count--
		return true
	}
	return false
}

// Find returns one item stored under k.
func (ix *Index[T]) Find(k keys.Key) (T, bool) {
	for e := ix.buckets[ix.slot(k)]; e != nil; e = e.next {
		if e.key == k {
			return e.item, true
		}
	}
	var zero T
	return zero, false
}

// FindAll calls fn for every item stored under k until fn returns false.
func (ix *Index[T]) FindAll(k keys.Key, fn func(T) bool) {
	for e := ix.buckets[ix.slot(k)]; e != nil; e = e.next {
		if e.key == k && !fn(e.item) {
			return
		}
	}
}

// Count returns the number of items stored under k.
func (ix *Index[T]) Count(k keys.Key) int {
	n := 0
	for e := ix.buckets[ix.slot(k)]; e != nil; e = e.next {
		if e.key == k {
			n++
		}
	}
	return n
}

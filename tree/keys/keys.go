// Package keys interns label and value names into stable Key handles.
//
// Every distinct string is stored once for the lifetime of the process and
// mapped to a Key. Two Keys are equal exactly when they were interned from
// equal strings, so lookups compare handles instead of bytes. Entries are
// never freed: the table is a process-lifetime pool, and a Key obtained once
// stays valid forever.
//
// Concurrency: the package-level table is guarded by a single RWMutex so
// independent trees may be used from different goroutines.
package keys

import (
	"sync"
)

// defaultCapacity is the initial size hint of the global table.
const defaultCapacity = 1024

// entry is the interned record a Key points at.
type entry struct {
	name string
	id   uint32
}

// Key is an interned, immutable string handle. The zero Key is not valid.
type Key struct {
	e *entry
}

// String returns the interned string ("" for the zero Key).
func (k Key) String() string {
	if k.e == nil {
		return ""
	}
	return k.e.name
}

// ID returns the integer handle of the key. IDs are dense, start at 1 and
// are assigned in interning order. The zero Key has ID 0.
func (k Key) ID() uint32 {
	if k.e == nil {
		return 0
	}
	return k.e.id
}

// Valid reports whether k was produced by Intern.
func (k Key) Valid() bool { return k.e != nil }

// table maps strings to their interned entries.
type table struct {
	mu      sync.RWMutex
	entries map[string]*entry
	next    uint32
}

func newTable(capacity int) *table {
	return &table{entries: make(map[string]*entry, capacity)}
}

func (t *table) intern(s string) Key {
	t.mu.RLock()
	e, ok := t.entries[s]
	t.mu.RUnlock()
	if ok {
		return Key{e: e}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Lost a race between the read miss and the write lock.
	if e, ok := t.entries[s]; ok {
		return Key{e: e}
	}
	t.next++
	e = &entry{name: s, id: t.next}
	t.entries[s] = e
	return Key{e: e}
}

func (t *table) lookup(s string) (Key, bool) {
	t.mu.RLock()
	e, ok := t.entries[s]
	t.mu.RUnlock()
	if !ok {
		return Key{}, false
	}
	return Key{e: e}, true
}

func (t *table) len() int {
	t.mu.RLock()
	n := len(t.entries)
	t.mu.RUnlock()
	return n
}

// global is the process-wide intern table.
var global = newTable(defaultCapacity)

// --- Package-level API (delegates to global singleton) ---

// Intern returns the Key for s, creating it on first use.
func Intern(s string) Key {
	return global.intern(s)
}

// Lookup returns the Key for s without creating one.
func Lookup(s string) (Key, bool) {
	return global.lookup(s)
}

// Len returns the number of interned strings.
func Len() int {
	return global.len()
}

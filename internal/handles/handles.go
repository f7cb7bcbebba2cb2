// Package handles maps integer IDs to Go values.
//
// A value referenced from the other side of the engine boundary cannot be
// stored there as a Go pointer. Instead it is registered in a Table and the
// returned uintptr ID is stored. The Table keeps the value reachable until it
// is taken back out.
//
// Reads and writes go through sync.Map and an atomic counter, so Lookup on the
// dereference path never waits for a Register or Take on another goroutine.
package handles

import (
	"sync"
	"sync/atomic"
)

// Table is a registry of Go values keyed by non-zero IDs.
// The zero value is ready to use.
type Table struct {
	entries sync.Map // uintptr -> any
	nextID  atomic.Uintptr
	count   atomic.Int64
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// Register stores v and returns its ID. IDs are never zero and are not reused.
//
// Thread-safe.
func (t *Table) Register(v any) uintptr {
	id := t.nextID.Add(1)
	t.entries.Store(id, v)
	t.count.Add(1)
	return id
}

// Lookup returns the value registered under id.
// Returns nil, false if id is not registered.
//
// Thread-safe.
func (t *Table) Lookup(id uintptr) (any, bool) {
	if id == 0 {
		return nil, false
	}
	return t.entries.Load(id)
}

// Take removes id and returns the value it held. Only one of several
// concurrent Take calls for the same id observes ok == true.
//
// Thread-safe.
func (t *Table) Take(id uintptr) (any, bool) {
	if id == 0 {
		return nil, false
	}
	v, ok := t.entries.LoadAndDelete(id)
	if ok {
		t.count.Add(-1)
	}
	return v, ok
}

// Unregister removes id, allowing its value to be garbage collected.
//
// Thread-safe.
func (t *Table) Unregister(id uintptr) {
	t.Take(id)
}

// Count returns the number of currently registered values.
// Useful for debugging and testing leaks.
//
// Thread-safe.
func (t *Table) Count() int {
	return int(t.count.Load())
}

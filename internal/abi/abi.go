// Package abi defines the fixed contract between a typed handle and the
// control-block engine that owns the allocation, the reference count and the
// deleter.
//
// Everything that crosses the boundary is a machine word. Go pointers never
// do: payloads are registered on the Go side and only their integer IDs are
// handed to the engine, so an engine compiled independently (for example a
// C++ library loaded at runtime) can hold them without violating the cgo
// pointer rules.
package abi

import "unsafe"

// Record is the binary representation of one shared handle.
//
// It is exactly two machine words regardless of the pointee type. What each
// word means is private to the engine that produced it.
type Record [2]uintptr

// RecordSize is the size in bytes of a Record.
const RecordSize = unsafe.Sizeof(Record{})

// IsZero reports whether r holds no reference.
func (r *Record) IsZero() bool {
	return r[0] == 0 && r[1] == 0
}

// Deleter destroys the payload identified by data. It is bound to the
// concrete payload type at construction and called exactly once, by whichever
// holder drops the last reference.
type Deleter func(data uintptr)

// Engine is the control-block engine. All four operations are synchronous and
// never fail when given records they produced.
type Engine interface {
	// Construct builds a control block with a shared count of one around
	// data and deleter and writes the new record to out.
	Construct(data uintptr, deleter Deleter, out *Record)

	// Copy atomically increments the count of src and writes a duplicate
	// record to out.
	Copy(src *Record, out *Record)

	// Destruct atomically decrements the count of r. When the count reaches
	// zero the deleter runs on the data word and the control block is freed.
	Destruct(r *Record)

	// Get returns the data word of r.
	Get(r *Record) uintptr
}

// Counter is implemented by engines that can report the shared count.
type Counter interface {
	UseCount(r *Record) int64
}

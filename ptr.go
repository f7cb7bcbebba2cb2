package sharedptr

import (
	"github.com/obinnaokechukwu/sharedptr/internal/abi"
)

// Ptr is a shared-ownership handle to a heap value of type T.
//
// A Ptr is exactly two machine words for every T; the type parameter exists
// only at compile time. Every Ptr obtained from New, NewFunc, Clone or FromRaw
// owns one reference and must be released exactly once:
//
//	p := sharedptr.New(conn)
//	defer p.Release()
//
// Ptr must not be copied by assignment; use Clone. go vet reports copies.
type Ptr[T any] struct {
	_   noCopy
	raw abi.Record
}

// New moves value to the heap and returns the first handle to it, with a
// shared count of one. If *T implements Dropper, Drop runs when the last
// handle is released.
func New[T any](value T) Ptr[T] {
	return Ptr[T]{raw: construct(&box[T]{value: value})}
}

// NewFunc is like New but runs drop instead of Dropper when the last handle
// is released.
func NewFunc[T any](value T, drop func(*T)) Ptr[T] {
	return Ptr[T]{raw: construct(&box[T]{value: value, drop: drop})}
}

// FromRaw adopts a record previously produced by IntoRaw. The reference held
// by the record moves into the returned handle; the count is unchanged.
//
// T must be the type the record was constructed with.
func FromRaw[T any](r Record) Ptr[T] {
	if r.IsZero() {
		panic(ErrReleased)
	}
	return Ptr[T]{raw: r}
}

// Clone returns a new handle to the same value and increments the count.
func (p *Ptr[T]) Clone() Ptr[T] {
	return Ptr[T]{raw: p.copyRecord()}
}

// Release drops this handle's reference. When it is the last one the value is
// destroyed and its control block freed. Release leaves p empty; releasing an
// empty handle does nothing.
func (p *Ptr[T]) Release() {
	release(&p.raw)
}

// Get returns a pointer to the shared value. Writes through it are visible to
// every clone; serializing them is the caller's job.
//
// The pointer is valid only while some handle to the value is live.
func (p *Ptr[T]) Get() *T {
	if p.raw.IsZero() {
		panic(ErrReleased)
	}
	return payloadOf[T](CurrentEngine().Get(&p.raw))
}

// Load returns a copy of the shared value.
func (p *Ptr[T]) Load() T {
	return *p.Get()
}

// Live reports whether p still holds a reference.
func (p *Ptr[T]) Live() bool {
	return !p.raw.IsZero()
}

// UseCount returns the number of live handles sharing the value, 0 for a
// released handle, or -1 if the engine cannot report it.
func (p *Ptr[T]) UseCount() int64 {
	return useCount(&p.raw)
}

// Raw returns the handle's two-word record without transferring ownership.
func (p *Ptr[T]) Raw() Record {
	return p.raw
}

// IntoRaw transfers this handle's reference to the returned record and leaves
// p empty. The record must eventually be passed to FromRaw, or the value
// leaks.
func (p *Ptr[T]) IntoRaw() Record {
	r := p.raw
	p.raw = abi.Record{}
	return r
}

func (p *Ptr[T]) copyRecord() abi.Record {
	return copyRecord(&p.raw)
}

func construct(b pointee) abi.Record {
	var r abi.Record
	data := payloads.Register(b)
	CurrentEngine().Construct(data, b.deleter(), &r)
	return r
}

func copyRecord(src *abi.Record) abi.Record {
	if src.IsZero() {
		panic(ErrReleased)
	}
	var out abi.Record
	CurrentEngine().Copy(src, &out)
	return out
}

func release(r *abi.Record) {
	if r.IsZero() {
		return
	}
	held := *r
	*r = abi.Record{}
	CurrentEngine().Destruct(&held)
}

func useCount(r *abi.Record) int64 {
	if r.IsZero() {
		return 0
	}
	if c, ok := CurrentEngine().(abi.Counter); ok {
		return c.UseCount(r)
	}
	return -1
}

package sharedptr

import (
	"github.com/obinnaokechukwu/sharedptr/internal/abi"
)

// View is a shared handle typed by a capability interface I instead of the
// concrete pointee type. It shares the control block of the Ptr it was made
// from: holding a View keeps the value alive, and releasing the last View or
// Ptr destroys it.
//
// Method calls through Get dispatch on the same *T that Ptr.Get returns.
type View[I any] struct {
	_   noCopy
	raw abi.Record
}

// As returns a View[I] sharing ownership with p when *T implements I. The
// returned view holds its own reference. If *T does not implement I, As
// returns an empty view and false and the count is unchanged.
func As[I any, T any](p *Ptr[T]) (View[I], bool) {
	if _, ok := any((*T)(nil)).(I); !ok {
		return View[I]{}, false
	}
	return View[I]{raw: p.copyRecord()}, true
}

// Concrete recovers a typed handle from a view when the value is a T. The
// returned Ptr holds its own reference.
func Concrete[T any, I any](v *View[I]) (Ptr[T], bool) {
	if v.raw.IsZero() {
		panic(ErrReleased)
	}
	if _, ok := lookup(CurrentEngine().Get(&v.raw)).(*box[T]); !ok {
		return Ptr[T]{}, false
	}
	return Ptr[T]{raw: copyRecord(&v.raw)}, true
}

// Get returns the shared value as I.
func (v *View[I]) Get() I {
	if v.raw.IsZero() {
		panic(ErrReleased)
	}
	return lookup(CurrentEngine().Get(&v.raw)).ptr().(I)
}

// Clone returns a new view of the same value and increments the count.
func (v *View[I]) Clone() View[I] {
	return View[I]{raw: copyRecord(&v.raw)}
}

// Release drops this view's reference. See Ptr.Release.
func (v *View[I]) Release() {
	release(&v.raw)
}

// Live reports whether v still holds a reference.
func (v *View[I]) Live() bool {
	return !v.raw.IsZero()
}

// UseCount returns the number of live handles and views sharing the value.
// See Ptr.UseCount.
func (v *View[I]) UseCount() int64 {
	return useCount(&v.raw)
}

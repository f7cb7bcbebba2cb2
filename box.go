package sharedptr

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
	"github.com/obinnaokechukwu/sharedptr/internal/handles"
)

// Dropper is implemented by values that need cleanup when the last handle to
// them is released. *T is checked first, then T itself when T is a pointer or
// interface type. A nil pointer payload owns nothing and is never dropped.
type Dropper interface {
	Drop()
}

// payloads holds every boxed value that still has a live control block. Its
// IDs are the data words handed to the engine.
var payloads handles.Table

// Outstanding returns the number of values constructed but not yet destroyed.
// Useful for leak checks in tests.
func Outstanding() int {
	return payloads.Count()
}

// pointee is the type-erased view of a box.
type pointee interface {
	// ptr returns the *T inside the box.
	ptr() any
	deleter() abi.Deleter
}

type box[T any] struct {
	value T
	drop  func(*T)
}

func (b *box[T]) ptr() any {
	return &b.value
}

func (b *box[T]) deleter() abi.Deleter {
	return deleteBox[T]
}

func (b *box[T]) destroy() {
	if b.drop != nil {
		b.drop(&b.value)
	} else if d, ok := any(&b.value).(Dropper); ok {
		d.Drop()
	} else if d, ok := dropperOf(any(b.value)); ok {
		d.Drop()
	}
	var zero T
	b.value = zero
	b.drop = nil
}

func dropperOf(v any) (Dropper, bool) {
	d, ok := v.(Dropper)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return d, true
}

// deleteBox is the deleter bound for T at construction. Its signature does not
// mention T, so engines can store it without knowing the payload type.
func deleteBox[T any](data uintptr) {
	v, ok := payloads.Take(data)
	if !ok {
		Logger().Warn("deleter called for unknown payload", zap.Uintptr("payload", data))
		return
	}
	v.(*box[T]).destroy()
}

func lookup(data uintptr) pointee {
	v, ok := payloads.Lookup(data)
	if !ok {
		panic(fmt.Errorf("%w: payload %d already destroyed", ErrReleased, data))
	}
	return v.(pointee)
}

func payloadOf[T any](data uintptr) *T {
	v := lookup(data)
	b, ok := v.(*box[T])
	if !ok {
		panic(fmt.Errorf("%w: handle holds %T, dereferenced as %T", ErrTypeMismatch, v.ptr(), (*T)(nil)))
	}
	return &b.value
}

//go:build (darwin || freebsd || linux || netbsd) && !ios && !android && (amd64 || arm64)

package shim

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
	"github.com/obinnaokechukwu/sharedptr/internal/handles"
)

// entry is what the C++ control block actually owns: its stored pointer is
// the entry's ID in entries, and its deleter is the shared trampoline.
type entry struct {
	data    uintptr
	deleter abi.Deleter
}

var (
	entries handles.Table

	trampolineOnce sync.Once
	trampolineCB   uintptr

	// deleterPanics holds panics recovered in the trampoline, keyed by entry
	// ID, until Destruct re-raises them on the Go side of the call.
	deleterPanics sync.Map
)

// Engine implements abi.Engine on top of std::shared_ptr<void>.
//
// Records are the raw bytes of a std::shared_ptr; their word order is whatever
// the C++ standard library uses.
type Engine struct{}

// NewEngine loads the shim and returns an engine bound to it.
func NewEngine() (*Engine, error) {
	if err := Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShimNotLoaded, err)
	}
	trampolineOnce.Do(func() {
		// purego callbacks are never freed, so every control block shares
		// this one and dispatches on the entry ID.
		trampolineCB = purego.NewCallback(deleterTrampoline)
	})
	return &Engine{}, nil
}

// Construct implements abi.Engine.
func (*Engine) Construct(data uintptr, deleter abi.Deleter, out *abi.Record) {
	id := entries.Register(&entry{data: data, deleter: deleter})
	shimConstruct(id, trampolineCB, unsafe.Pointer(out))

	if ce := Logger().Check(zap.DebugLevel, "shared_ptr constructed"); ce != nil {
		ce.Write(zap.Uintptr("entry", id), zap.Uintptr("data", data))
	}
}

// Copy implements abi.Engine.
func (*Engine) Copy(src *abi.Record, out *abi.Record) {
	shimCopy(unsafe.Pointer(src), unsafe.Pointer(out))
}

// Destruct implements abi.Engine. A panic raised by the deleter is re-raised
// here once the C++ control block has been freed.
func (*Engine) Destruct(r *abi.Record) {
	id := shimGet(unsafe.Pointer(r))
	shimDestruct(unsafe.Pointer(r))
	if rec, ok := deleterPanics.LoadAndDelete(id); ok {
		panic(rec)
	}
}

// Get implements abi.Engine.
func (*Engine) Get(r *abi.Record) uintptr {
	id := shimGet(unsafe.Pointer(r))
	v, ok := entries.Lookup(id)
	if !ok {
		return 0
	}
	return v.(*entry).data
}

// UseCount implements abi.Counter. Returns -1 when the shim was built without
// spshim_use_count.
func (*Engine) UseCount(r *abi.Record) int64 {
	if shimUseCount == nil {
		return -1
	}
	return shimUseCount(unsafe.Pointer(r))
}

// Entries returns the number of shim-owned payloads not yet deleted.
func Entries() int {
	return entries.Count()
}

// deleterTrampoline is called by the shim's std::shared_ptr deleter.
// Signature: void (*)(void *ptr)
func deleterTrampoline(id uintptr) {
	v, ok := entries.Take(id)
	if !ok {
		Logger().Warn("deleter called for unknown entry", zap.Uintptr("entry", id))
		return
	}
	e := v.(*entry)

	// A Go panic must not unwind through the C++ release frames.
	defer func() {
		if rec := recover(); rec != nil {
			deleterPanics.Store(id, rec)
		}
	}()
	if e.deleter != nil {
		e.deleter(e.data)
	}

	if ce := Logger().Check(zap.DebugLevel, "shared_ptr freed"); ce != nil {
		ce.Write(zap.Uintptr("entry", id), zap.Uintptr("data", e.data))
	}
}

var _ abi.Engine = (*Engine)(nil)
var _ abi.Counter = (*Engine)(nil)

// Package ctrl is the native control-block engine.
//
// A control block holds the shared count, the data word and the deleter. It
// is registered in a handles.Table so that the record's first word can be a
// plain integer while the block itself stays reachable for the garbage
// collector. The second word is the data word, returned by Get without
// touching the block.
//
// Record layout:
//
//	word 0: control block ID
//	word 1: data word passed to Construct
package ctrl

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
	"github.com/obinnaokechukwu/sharedptr/internal/handles"
)

var (
	// ErrUnknownBlock is the panic value when a record names a control block
	// that does not exist (already freed, or never produced by this engine).
	ErrUnknownBlock = errors.New("sharedptr: unknown control block")

	// ErrResurrect is the panic value when a record is copied after its count
	// already reached zero.
	ErrResurrect = errors.New("sharedptr: copy of a released control block")
)

// Engine implements abi.Engine and abi.Counter.
type Engine struct {
	blocks handles.Table
}

var (
	defaultEngine *Engine
	defaultOnce   sync.Once
)

// Default returns the process-wide native engine.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// New returns an engine with its own block table. Records from one Engine
// must not be passed to another.
func New() *Engine {
	return &Engine{}
}

// Construct implements abi.Engine.
func (e *Engine) Construct(data uintptr, deleter abi.Deleter, out *abi.Record) {
	b := &block{data: data, deleter: deleter}
	b.count.Store(1)
	id := e.blocks.Register(b)
	out[0] = id
	out[1] = data

	if ce := Logger().Check(zap.DebugLevel, "control block constructed"); ce != nil {
		ce.Write(zap.Uintptr("block", id), zap.Uintptr("data", data))
	}
}

// Copy implements abi.Engine.
func (e *Engine) Copy(src *abi.Record, out *abi.Record) {
	b := e.block(src)
	if b.count.Add(1) <= 1 {
		panic(fmt.Errorf("%w: block %d", ErrResurrect, src[0]))
	}
	*out = *src
}

// Destruct implements abi.Engine.
func (e *Engine) Destruct(r *abi.Record) {
	id := r[0]
	b := e.block(r)
	if b.count.Add(-1) != 0 {
		return
	}

	// Last reference. The block leaves the table before the deleter runs so
	// a deleter that inspects the engine sees it gone.
	e.blocks.Unregister(id)
	if b.deleter != nil {
		b.deleter(b.data)
	}

	if ce := Logger().Check(zap.DebugLevel, "control block freed"); ce != nil {
		ce.Write(zap.Uintptr("block", id), zap.Uintptr("data", b.data))
	}
}

// Get implements abi.Engine.
func (e *Engine) Get(r *abi.Record) uintptr {
	return r[1]
}

// UseCount implements abi.Counter. Returns 0 for records whose block is gone.
func (e *Engine) UseCount(r *abi.Record) int64 {
	v, ok := e.blocks.Lookup(r[0])
	if !ok {
		return 0
	}
	return v.(*block).count.Load()
}

// Blocks returns the number of live control blocks.
func (e *Engine) Blocks() int {
	return e.blocks.Count()
}

func (e *Engine) block(r *abi.Record) *block {
	v, ok := e.blocks.Lookup(r[0])
	if !ok {
		panic(fmt.Errorf("%w: block %d", ErrUnknownBlock, r[0]))
	}
	return v.(*block)
}

var _ abi.Engine = (*Engine)(nil)
var _ abi.Counter = (*Engine)(nil)

// Package sharedptr provides a reference-counted, shared-ownership handle to a
// heap value whose control block lives behind a fixed ABI boundary.
//
// A handle is two machine words for every pointee type. Those words are only
// ever interpreted by the control-block engine, which implements four
// operations:
//
//	Construct  build a block with count 1 around a data word and a deleter
//	Copy       increment the count and duplicate the record
//	Destruct   decrement the count; at zero run the deleter and free the block
//	Get        return the data word
//
// The deleter is bound to the concrete type when the value is constructed, so
// the engine can destroy any payload without knowing its type.
//
// # Usage
//
//	type session struct{ user string }
//
//	p := sharedptr.New(session{user: "a"})
//	defer p.Release()
//
//	q := p.Clone()         // count 2
//	q.Get().user = "b"     // visible through p
//	q.Release()            // count 1
//
// A Ptr must be released exactly once. Pair every New, Clone and FromRaw with
// a Release, typically deferred so it runs on every exit path. Values whose
// pointer type implements Dropper are notified when the last handle goes away.
//
// # Capability views
//
// As converts a Ptr[T] into a View[I] for an interface I that *T implements.
// The view shares the control block, so it keeps the value alive and counts
// toward the last release:
//
//	v, ok := sharedptr.As[io.Writer](&p)
//	defer v.Release()
//	v.Get().Write(buf)
//
// # Engines
//
// The native engine is written in Go and used by default. The shim engine
// drives std::shared_ptr<void> in the spshim C++ library, loaded at runtime
// with purego, so control blocks can be shared with independently compiled
// C++ code. Select it with SHAREDPTR_ENGINE=shim or SetEngine.
//
// # Concurrency
//
// Clone, Release and Get never block and may be called from any goroutine.
// The count is updated with atomic read-modify-write operations, and the
// goroutine that drops the last reference observes every write made by other
// holders before the value is destroyed. Access to the value itself is not
// synchronized.
package sharedptr

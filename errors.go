package sharedptr

import (
	"errors"

	"github.com/obinnaokechukwu/sharedptr/internal/ctrl"
	"github.com/obinnaokechukwu/sharedptr/internal/shim"
)

// Caller misuse is reported by panicking with one of these values (possibly
// wrapped), so recovered values can be matched with errors.Is.
var (
	// ErrReleased indicates a handle was used after Release or IntoRaw, or a
	// record outlived its value.
	ErrReleased = errors.New("sharedptr: use of released handle")

	// ErrTypeMismatch indicates a record was adopted at a different type than
	// it was constructed with.
	ErrTypeMismatch = errors.New("sharedptr: handle dereferenced at the wrong type")

	// ErrUnknownBlock indicates the native engine was given a record it did not produce.
	ErrUnknownBlock = ctrl.ErrUnknownBlock

	// ErrResurrect indicates a clone of a value whose count already reached zero.
	ErrResurrect = ctrl.ErrResurrect
)

// Engine selection errors.
var (
	// ErrUnknownEngine indicates SHAREDPTR_ENGINE named an engine that does not exist.
	ErrUnknownEngine = errors.New("sharedptr: unknown engine")

	// ErrShimUnsupported indicates the shim engine cannot run on this platform.
	ErrShimUnsupported = errors.New("sharedptr: shim engine not supported on this platform")

	// ErrShimNotLoaded indicates the shim library could not be loaded.
	ErrShimNotLoaded = shim.ErrShimNotLoaded

	// ErrShimNotFound indicates the shim library was not found on disk.
	ErrShimNotFound = shim.ErrShimNotFound
)

package shim

import "errors"

// ErrShimNotLoaded is returned when the shim engine is requested but the shim is not available.
var ErrShimNotLoaded = errors.New("sharedptr: shim library not loaded")

// ErrShimNotFound is returned when the shim library cannot be found.
var ErrShimNotFound = errors.New("sharedptr: shim library not found")

// ErrMissingSymbol is returned when the shim lacks one of the four boundary operations.
var ErrMissingSymbol = errors.New("sharedptr: shim library is missing a required symbol")

// ErrLayoutMismatch is returned when the shim's std::shared_ptr is not two machine words.
var ErrLayoutMismatch = errors.New("sharedptr: shim record layout mismatch")

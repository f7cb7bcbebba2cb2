package ctrl

import (
	"sync/atomic"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
)

// block is one control block. count is only ever changed with atomic
// read-modify-write operations; data and deleter are immutable after
// Construct.
type block struct {
	count   atomic.Int64
	data    uintptr
	deleter abi.Deleter
}

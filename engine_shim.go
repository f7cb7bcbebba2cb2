//go:build (darwin || freebsd || linux || netbsd) && !ios && !android && (amd64 || arm64)

package sharedptr

import (
	"github.com/obinnaokechukwu/sharedptr/internal/shim"
)

// Shim loads the spshim C++ library and returns an engine whose control blocks
// are std::shared_ptr<void> objects.
func Shim() (Engine, error) {
	e, err := shim.NewEngine()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ShimStatus returns a human-readable status of the shim library.
func ShimStatus() string {
	return shim.Status()
}

func isShim(e Engine) bool {
	_, ok := e.(*shim.Engine)
	return ok
}

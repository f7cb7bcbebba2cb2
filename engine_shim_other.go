//go:build !((darwin || freebsd || linux || netbsd) && !ios && !android && (amd64 || arm64))

package sharedptr

// Shim is not available on this platform.
func Shim() (Engine, error) {
	return nil, ErrShimUnsupported
}

// ShimStatus returns a human-readable status of the shim library.
func ShimStatus() string {
	return "not supported on this platform"
}

func isShim(Engine) bool {
	return false
}

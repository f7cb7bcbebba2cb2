// Package platform describes the machine-level facts the handle layout and the
// shim loader depend on.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// WordSize is the size in bytes of one machine word.
const WordSize = unsafe.Sizeof(uintptr(0))

// RecordWords is the number of machine words in a handle record.
const RecordWords = 2

// RecordSize is the size in bytes of a handle record.
const RecordSize = RecordWords * WordSize

// Is64Bit indicates whether the platform is 64-bit.
// The shim engine is only built for 64-bit platforms because of purego.
const Is64Bit = WordSize == 8

// ShimSupported reports whether purego can load the shim engine here.
const ShimSupported = Is64Bit &&
	(runtime.GOOS == "linux" || runtime.GOOS == "darwin" || runtime.GOOS == "freebsd" || runtime.GOOS == "netbsd") &&
	(runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("spshim", 1) -> "libspshim.so.1"
//   - macOS:   FormatLibraryName("spshim", 1) -> "libspshim.1.dylib"
//   - Windows: FormatLibraryName("spshim", 1) -> "spshim-1.dll"
func FormatLibraryName(name string, version int) string {
	return formatLibraryName(runtime.GOOS, name, version)
}

func formatLibraryName(goos, name string, version int) string {
	prefix, ext := "lib", ".so"
	switch goos {
	case "darwin":
		ext = ".dylib"
	case "windows":
		prefix, ext = "", ".dll"
	}

	switch goos {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", prefix, name, version, ext)
		}
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", prefix, name, version, ext)
		}
	default:
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", prefix, name, ext, version)
		}
	}
	return prefix + name + ext
}

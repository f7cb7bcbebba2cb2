//go:build (darwin || freebsd || linux || netbsd) && !ios && !android && (amd64 || arm64)

// Package shim provides bindings to the spshim helper library.
//
// The shim is a small C++ library that exports the four control-block
// operations on top of std::shared_ptr<void>:
//   - spshim_construct
//   - spshim_copy
//   - spshim_destruct
//   - spshim_get
//
// and, optionally, spshim_use_count and spshim_record_size.
//
// The shim is OPTIONAL - the native Go engine works without it. Load it to
// share control blocks with C++ code that holds std::shared_ptr values.
//
// To build the shim for your platform:
//
//	cd shim && make
package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
	"github.com/obinnaokechukwu/sharedptr/internal/platform"
)

var (
	libShim   uintptr
	loaded    bool
	loadErr   error
	loadMu    sync.Mutex
	shimPath  string
	searchErr string

	// Required boundary operations
	shimConstruct func(ptr, deleter uintptr, out unsafe.Pointer)
	shimCopy      func(sp, out unsafe.Pointer)
	shimDestruct  func(sp unsafe.Pointer)
	shimGet       func(sp unsafe.Pointer) uintptr

	// Optional
	shimUseCount   func(sp unsafe.Pointer) int64
	shimRecordSize func() uintptr
)

// Load attempts to load the spshim library.
// Returns nil if already loaded. Unlike a missing library, a library that is
// found but unusable (missing symbols, wrong layout) is reported as an error.
//
// The shim is searched for in the following locations (in order):
//  1. SetSearchDir, else the SHAREDPTR_SHIM_DIR environment variable
//  2. LD_LIBRARY_PATH / DYLD_LIBRARY_PATH
//  3. Standard library paths (/usr/local/lib, /usr/lib, etc.)
//  4. Executable directory
//  5. Module's shim/ directory
//  6. Current working directory
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded {
		return nil
	}
	if loadErr != nil {
		return loadErr
	}

	path, err := findShimLibrary()
	if err != nil {
		loadErr = err
		searchErr = err.Error()
		return loadErr
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		loadErr = fmt.Errorf("failed to load shim at %s: %w", path, err)
		searchErr = loadErr.Error()
		return loadErr
	}

	if err := registerBindings(lib); err != nil {
		loadErr = fmt.Errorf("shim at %s: %w", path, err)
		return loadErr
	}

	libShim = lib
	shimPath = path
	loaded = true

	Logger().Debug("shim loaded", zap.String("path", path))
	return nil
}

// IsLoaded returns true if the shim library was successfully loaded.
func IsLoaded() bool {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loaded
}

// Path returns the path where the shim was loaded from, or empty string if not loaded.
func Path() string {
	loadMu.Lock()
	defer loadMu.Unlock()
	return shimPath
}

// LoadError returns detailed error information if the shim failed to load.
func LoadError() error {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadErr
}

// Status returns a human-readable status of the shim library.
func Status() string {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded {
		return fmt.Sprintf("loaded from %s", shimPath)
	}
	if loadErr != nil {
		return fmt.Sprintf("not loaded: %s", loadErr)
	}
	if searchErr != "" {
		return "not loaded: " + searchErr
	}
	return "not loaded (Load() not called)"
}

// ExpectedLibraryName returns the expected shim library filename for the current platform.
func ExpectedLibraryName() string {
	return platform.FormatLibraryName("spshim", 0)
}

// BuildInstructions returns platform-specific instructions for building the shim.
func BuildInstructions() string {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd":
		return `To build the shim:
  1. Install a C++11 compiler (g++ or clang++)
  2. Build the shim:
     cd shim && make
  3. Install or set path:
     sudo make install
     # OR
     export ` + ShimDirEnv + `=$PWD/shim`
	default:
		return fmt.Sprintf("Platform %s/%s is not supported for shim building", runtime.GOOS, runtime.GOARCH)
	}
}

func registerBindings(lib uintptr) error {
	required := []struct {
		fptr any
		name string
	}{
		{&shimConstruct, "spshim_construct"},
		{&shimCopy, "spshim_copy"},
		{&shimDestruct, "spshim_destruct"},
		{&shimGet, "spshim_get"},
	}
	for _, r := range required {
		if _, err := purego.Dlsym(lib, r.name); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingSymbol, r.name)
		}
		purego.RegisterLibFunc(r.fptr, lib, r.name)
	}

	registerOptionalLibFunc(&shimUseCount, lib, "spshim_use_count")
	registerOptionalLibFunc(&shimRecordSize, lib, "spshim_record_size")

	if shimRecordSize != nil {
		if got := shimRecordSize(); got != abi.RecordSize {
			return fmt.Errorf("%w: std::shared_ptr is %d bytes, record is %d", ErrLayoutMismatch, got, abi.RecordSize)
		}
	}
	return nil
}

func registerOptionalLibFunc(fptr any, handle uintptr, name string) {
	defer func() {
		_ = recover() // purego.RegisterLibFunc panics if symbol is missing
	}()
	purego.RegisterLibFunc(fptr, handle, name)
}

// findShimLibrary looks for the shim library in standard locations.
func findShimLibrary() (string, error) {
	names := []string{
		platform.FormatLibraryName("spshim", 0),
		platform.FormatLibraryName("spshim", 1),
	}

	// SetSearchDir / SHAREDPTR_SHIM_DIR override (highest priority)
	if dir := SearchDir(); dir != "" {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("%w: search dir %s (SetSearchDir or %s) does not contain %s", ErrShimNotFound, dir, ShimDirEnv, names[0])
	}

	var searchPaths []string

	if runtime.GOOS == "darwin" {
		if p := os.Getenv("DYLD_LIBRARY_PATH"); p != "" {
			searchPaths = append(searchPaths, filepath.SplitList(p)...)
		}
	} else {
		if p := os.Getenv("LD_LIBRARY_PATH"); p != "" {
			searchPaths = append(searchPaths, filepath.SplitList(p)...)
		}
	}

	searchPaths = append(searchPaths,
		"/usr/local/lib",
		"/usr/lib",
		"/lib",
	)

	switch runtime.GOOS {
	case "linux":
		if runtime.GOARCH == "amd64" {
			searchPaths = append(searchPaths, "/usr/lib/x86_64-linux-gnu")
		} else if runtime.GOARCH == "arm64" {
			searchPaths = append(searchPaths, "/usr/lib/aarch64-linux-gnu")
		}
	case "darwin":
		searchPaths = append(searchPaths, "/opt/homebrew/lib")
	}

	if exe, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Dir(exe))
	}

	// <module_root>/shim/ holds the Makefile output during development.
	if _, file, _, ok := runtime.Caller(0); ok {
		// internal/shim/shim.go -> <module_root>
		moduleRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
		searchPaths = append(searchPaths, filepath.Join(moduleRoot, "shim"))
	}

	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	searched := 0
	for _, name := range names {
		for _, dir := range searchPaths {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
			searched++
		}
	}

	return "", fmt.Errorf("%w: looked for %s in %d locations. Set %s or build the shim: cd shim && make",
		ErrShimNotFound, names[0], searched, ShimDirEnv)
}

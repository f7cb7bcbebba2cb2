package shim

import (
	"os"
	"sync"
)

// ShimDirEnv names the directory searched first for the shim.
const ShimDirEnv = "SHAREDPTR_SHIM_DIR"

var (
	searchDirMu sync.Mutex
	searchDir   string
)

// SetSearchDir sets the directory searched first for the shim, taking
// precedence over SHAREDPTR_SHIM_DIR. An empty dir restores the environment
// lookup. It has no effect after the first call to Load.
func SetSearchDir(dir string) {
	searchDirMu.Lock()
	defer searchDirMu.Unlock()
	searchDir = dir
}

// SearchDir returns the directory searched first for the shim, or "".
func SearchDir() string {
	searchDirMu.Lock()
	defer searchDirMu.Unlock()
	if searchDir != "" {
		return searchDir
	}
	return os.Getenv(ShimDirEnv)
}

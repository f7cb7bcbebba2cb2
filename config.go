package sharedptr

import (
	"fmt"
	"os"
	"strings"

	"github.com/obinnaokechukwu/sharedptr/internal/shim"
)

// Engine names accepted in SHAREDPTR_ENGINE.
const (
	EngineNative = "native"
	EngineShim   = "shim"
)

// Environment variables read by LoadConfig.
const (
	EnvEngine  = "SHAREDPTR_ENGINE"
	EnvShimDir = shim.ShimDirEnv
)

// Config selects the default engine.
type Config struct {
	// Engine is EngineNative (the default when empty) or EngineShim.
	Engine string

	// ShimDir is searched first for the shim library.
	ShimDir string
}

// LoadConfig reads Config from the environment.
func LoadConfig() Config {
	return Config{
		Engine:  strings.ToLower(strings.TrimSpace(os.Getenv(EnvEngine))),
		ShimDir: os.Getenv(EnvShimDir),
	}
}

// Validate reports whether c names a known engine.
func (c Config) Validate() error {
	switch c.Engine {
	case "", EngineNative, EngineShim:
		return nil
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownEngine, c.Engine, EngineNative, EngineShim)
	}
}

// Open returns the engine c names.
func (c Config) Open() (Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Engine != EngineShim {
		return Native(), nil
	}
	if c.ShimDir != "" {
		shim.SetSearchDir(c.ShimDir)
	}
	e, err := Shim()
	if err != nil {
		return nil, fmt.Errorf("opening %s engine: %w", EngineShim, err)
	}
	return e, nil
}

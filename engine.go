package sharedptr

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/abi"
	"github.com/obinnaokechukwu/sharedptr/internal/ctrl"
)

// Boundary types re-exported for engine implementations.
type (
	// Engine is the control-block engine driven by every handle.
	Engine = abi.Engine

	// Counter is implemented by engines that can report the shared count.
	Counter = abi.Counter

	// Record is the two-word representation of a handle.
	Record = abi.Record

	// Deleter destroys a payload given its data word.
	Deleter = abi.Deleter
)

type engineRef struct {
	e Engine
}

var (
	current     atomic.Pointer[engineRef]
	resolveOnce sync.Once
)

// Native returns the Go control-block engine.
func Native() Engine {
	return ctrl.Default()
}

// CurrentEngine returns the engine used by all handles. On first use it is
// chosen from LoadConfig.
func CurrentEngine() Engine {
	if ref := current.Load(); ref != nil {
		return ref.e
	}
	resolveOnce.Do(func() {
		cfg := LoadConfig()
		e, err := cfg.Open()
		if err != nil {
			Logger().Warn("falling back to native engine",
				zap.String("engine", cfg.Engine),
				zap.Error(err))
			e = Native()
		}
		if current.CompareAndSwap(nil, &engineRef{e: e}) {
			Logger().Debug("engine selected", zap.String("engine", engineName(e)))
		}
	})
	return current.Load().e
}

// SetEngine replaces the process-wide engine and returns the previous one.
// A nil e selects the native engine. If no engine has been used yet the
// configured default is never resolved and the native engine is returned as
// the previous one.
//
// Handles created under one engine must be released under the same engine;
// swap only while no handles are live.
func SetEngine(e Engine) Engine {
	if e == nil {
		e = Native()
	}
	if ref := current.Swap(&engineRef{e: e}); ref != nil {
		return ref.e
	}
	return Native()
}

func engineName(e Engine) string {
	if e == Native() {
		return EngineNative
	}
	if isShim(e) {
		return EngineShim
	}
	return "custom"
}

package ctrl

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the engine's logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger sets the engine's logger. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

var nop = zap.NewNop()

package sharedptr

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/sharedptr/internal/ctrl"
	"github.com/obinnaokechukwu/sharedptr/internal/shim"
)

var logger atomic.Pointer[zap.Logger]

var nop = zap.NewNop()

// Logger returns the package logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger sets the logger used by this package and by both engines.
// Lifecycle events are logged at debug level. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
	if l == nil {
		ctrl.SetLogger(nil)
		shim.SetLogger(nil)
		return
	}
	ctrl.SetLogger(l.Named("ctrl"))
	shim.SetLogger(l.Named("shim"))
}

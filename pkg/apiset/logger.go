package apiset

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the package logger. It is a no-op logger unless SetLogger
// was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger installs l as the package logger. It is safe to call while
// encodes and decodes run; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

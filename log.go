package reflector

import (
	"log/slog"

	"github.com/signadot/go-reflector/internal/debug"
)

// SetLogger replaces the logger used by this module. Debug records are only
// emitted when REFLECTOR_DEBUG_SCAN or REFLECTOR_DEBUG_CODEC is set.
func SetLogger(l *slog.Logger) {
	debug.SetLog(l)
}

// Logger returns the logger used by this module.
func Logger() *slog.Logger {
	return debug.Log()
}

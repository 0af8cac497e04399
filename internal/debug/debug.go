// Package debug holds the environment driven debug switches and the
// logger shared by the reflector and codec packages.
package debug

import (
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

type debug struct {
	Scan  bool
	Codec bool
}

var (
	d   *debug
	log atomic.Pointer[slog.Logger]
)

func init() {
	d = &debug{}
	d.Scan = boolEnv("REFLECTOR_DEBUG_SCAN")
	d.Codec = boolEnv("REFLECTOR_DEBUG_CODEC")
	log.Store(defaultLogger())
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func defaultLogger() *slog.Logger {
	level := slog.LevelInfo
	if d.Scan || d.Codec {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Scan reports whether type scans and cache inserts are logged.
func Scan() bool {
	return d.Scan
}

// Codec reports whether the codec logs skipped keys.
func Codec() bool {
	return d.Codec
}

// Log returns the shared logger.
func Log() *slog.Logger {
	return log.Load()
}

// SetLog replaces the shared logger. A nil logger restores the default.
func SetLog(l *slog.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	log.Store(l)
}

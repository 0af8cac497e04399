package codec

import (
	"log/slog"

	"github.com/signadot/go-reflector/internal/debug"
	"github.com/signadot/go-reflector/naming"
)

type config struct {
	fallback        bool
	preferGenerated bool
	naming          naming.Policy
	indent          string
	colors          *Colors
	log             *slog.Logger
}

func defaultConfig() config {
	return config{
		fallback:        true,
		preferGenerated: true,
		naming:          naming.Identity,
	}
}

func (c *config) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return debug.Log()
}

type Option func(*config)

// Fallback controls whether values without a generated reflector are
// reflected dynamically. It defaults to true.
func Fallback(v bool) Option {
	return func(c *config) { c.fallback = v }
}

// PreferGenerated controls whether a generated reflector is used when the
// value has one. With PreferGenerated(false) every value is reflected
// dynamically, which requires Fallback(true). It defaults to true.
func PreferGenerated(v bool) Option {
	return func(c *config) { c.preferGenerated = v }
}

// Naming sets the policy applied to property names on output.
func Naming(p naming.Policy) Option {
	return func(c *config) {
		if p == nil {
			p = naming.Identity
		}
		c.naming = p
	}
}

// Indent sets the indentation used by Marshal.
func Indent(indent string) Option {
	return func(c *config) { c.indent = indent }
}

// WithColors makes Marshal colour JSON output.
func WithColors(colors *Colors) Option {
	return func(c *config) { c.colors = colors }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WriterOption configures the writers returned by NewWriter.
type WriterOption func(*writerConfig)

type writerConfig struct {
	indent string
	colors *Colors
}

// WithIndent sets the indentation of nested values. For YAML only its
// length is significant.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) { c.indent = indent }
}

// WithColorOutput colours JSON output; other formats ignore it.
func WithColorOutput(colors *Colors) WriterOption {
	return func(c *writerConfig) { c.colors = colors }
}

func writerOpts(opts []WriterOption) writerConfig {
	wc := writerConfig{}
	for _, o := range opts {
		o(&wc)
	}
	return wc
}

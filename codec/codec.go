package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/format"
)

// NewReader returns a token reader for input in format f.
func NewReader(r io.Reader, f format.Format) (Reader, error) {
	switch f {
	case format.JSONFormat:
		return NewJSONReader(r), nil
	case format.YAMLFormat:
		return NewYAMLReader(r), nil
	case format.TOMLFormat:
		return NewTOMLReader(r), nil
	}
	return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, int(f))
}

// NewWriter returns a token writer producing output in format f.
func NewWriter(w io.Writer, f format.Format, opts ...WriterOption) (Writer, error) {
	switch f {
	case format.JSONFormat:
		return NewJSONWriter(w, opts...), nil
	case format.YAMLFormat:
		return NewYAMLWriter(w, opts...), nil
	case format.TOMLFormat:
		return NewTOMLWriter(w, opts...), nil
	}
	return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, int(f))
}

// Codec encodes and decodes *T.
type Codec[T any] struct {
	engine
}

func New[T any](opts ...Option) *Codec[T] {
	return &Codec[T]{engine: newEngine(opts)}
}

// Encode writes v to w. A nil v is written as a null token.
func (c *Codec[T]) Encode(w Writer, v *T) error {
	if v == nil {
		return w.WriteToken(NullToken)
	}
	return c.encode(w, v)
}

// Decode reads one value from r into a new T. A null token decodes to nil.
// Decode returns io.EOF when r holds no further value.
func (c *Codec[T]) Decode(r Reader) (*T, error) {
	v, err := c.decode(r, reflect.TypeFor[*T]())
	if err != nil {
		return nil, err
	}
	return v.Interface().(*T), nil
}

// Marshal encodes v in format f using the indentation and colours
// configured on c.
func (c *Codec[T]) Marshal(v *T, f format.Format) ([]byte, error) {
	return c.marshal(v, f, WithIndent(c.cfg.indent), WithColorOutput(c.cfg.colors))
}

func (c *Codec[T]) marshal(v *T, f format.Format, opts ...WriterOption) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, f, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the first value of data in format f.
func (c *Codec[T]) Unmarshal(data []byte, f format.Format) (*T, error) {
	r, err := NewReader(bytes.NewReader(data), f)
	if err != nil {
		return nil, err
	}
	v, err := c.Decode(r)
	if errors.Is(err, io.EOF) {
		return nil, prematureEOF("")
	}
	return v, err
}

// Factory encodes and decodes values of any type it can convert. It is the
// non-generic form of Codec, for registries keyed by reflect.Type.
type Factory struct {
	engine
}

func NewFactory(opts ...Option) *Factory {
	return &Factory{engine: newEngine(opts)}
}

// CanConvert reports whether values of type t, a struct or a pointer to one,
// are handled through a reflector. Types that marshal themselves as text are
// not. Without fallback, t must have a generated reflector; a zero value is
// probed for it and a probe that panics makes t ineligible.
func (f *Factory) CanConvert(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return false
	}
	if f.cfg.fallback {
		return true
	}
	if !f.cfg.preferGenerated {
		return false
	}
	ok, err := probe(func() bool {
		return reflector.Of(reflect.New(t).Interface(), false) != nil
	})
	return err == nil && ok
}

func probe(f func() bool) (res bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f(), nil
}

// Encode writes v to w. A nil v is written as a null token.
func (f *Factory) Encode(w Writer, v any) error {
	return f.encode(w, v)
}

// Decode reads one value of type t from r. Decode returns io.EOF when r
// holds no further value.
func (f *Factory) Decode(r Reader, t reflect.Type) (any, error) {
	v, err := f.decode(r, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONReader reads tokens from JSON text. A stream of whitespace separated
// values is read as consecutive values.
type JSONReader struct {
	dec   *json.Decoder
	stack []*jsonFrame
}

type jsonFrame struct {
	object   bool
	wantName bool
}

func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONReader{dec: dec}
}

func (r *JSONReader) Next() (Token, error) {
	t, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) && len(r.stack) > 0 {
			return Token{}, io.ErrUnexpectedEOF
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Token{}, err
		}
		return Token{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	top := r.top()
	if top != nil && top.object && top.wantName {
		if s, ok := t.(string); ok {
			top.wantName = false
			return NameToken(s), nil
		}
	}
	switch x := t.(type) {
	case json.Delim:
		switch x {
		case '{':
			r.stack = append(r.stack, &jsonFrame{object: true, wantName: true})
			return BeginObjectToken, nil
		case '[':
			r.stack = append(r.stack, &jsonFrame{})
			return BeginArrayToken, nil
		case '}':
			r.pop()
			return EndObjectToken, nil
		default:
			r.pop()
			return EndArrayToken, nil
		}
	case string:
		r.valueDone()
		return StringToken(x), nil
	case json.Number:
		r.valueDone()
		return NumberToken(x.String()), nil
	case bool:
		r.valueDone()
		return BoolToken(x), nil
	case nil:
		r.valueDone()
		return NullToken, nil
	}
	return Token{}, fmt.Errorf("%w: unexpected json token %v", ErrFormat, t)
}

func (r *JSONReader) top() *jsonFrame {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *JSONReader) pop() {
	r.stack = r.stack[:len(r.stack)-1]
	r.valueDone()
}

func (r *JSONReader) valueDone() {
	if top := r.top(); top != nil && top.object {
		top.wantName = true
	}
}

// JSONWriter writes tokens as JSON text. Every complete top level value is
// followed by a newline.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	colors *Colors
	stack  []*jsonWFrame
	named  bool

	sbuf bytes.Buffer
	senc *json.Encoder
}

type jsonWFrame struct {
	object bool
	n      int
}

func NewJSONWriter(w io.Writer, opts ...WriterOption) *JSONWriter {
	wc := writerOpts(opts)
	jw := &JSONWriter{
		w:      bufio.NewWriter(w),
		indent: wc.indent,
		colors: wc.colors,
	}
	jw.senc = json.NewEncoder(&jw.sbuf)
	jw.senc.SetEscapeHTML(false)
	return jw
}

func (w *JSONWriter) WriteToken(t Token) error {
	top := w.top()
	switch t.Kind {
	case Name:
		if top == nil || !top.object || w.named {
			return fmt.Errorf("%w: %s outside of an object", ErrFormat, t)
		}
		w.sep(top)
		w.w.WriteString(w.colors.Color(attrOf(Name), w.quote(t.Text)))
		w.w.WriteString(w.colors.Color(SepColor, ":"))
		if w.indent != "" {
			w.w.WriteByte(' ')
		}
		w.named = true
		return nil
	case EndObject, EndArray:
		if top == nil || top.object != (t.Kind == EndObject) || w.named {
			return fmt.Errorf("%w: unbalanced %s", ErrFormat, t.Kind)
		}
		w.stack = w.stack[:len(w.stack)-1]
		if top.n > 0 {
			w.newline()
		}
		if t.Kind == EndObject {
			w.w.WriteString(w.colors.Color(SepColor, "}"))
		} else {
			w.w.WriteString(w.colors.Color(SepColor, "]"))
		}
		w.valueDone()
		return nil
	}
	if !t.Kind.IsValue() {
		return fmt.Errorf("%w: cannot write %s", ErrFormat, t)
	}
	switch {
	case top == nil:
	case top.object && !w.named:
		return fmt.Errorf("%w: %s without a name in an object", ErrFormat, t)
	case top.object:
		w.named = false
	default:
		w.sep(top)
	}
	switch t.Kind {
	case BeginObject:
		w.w.WriteString(w.colors.Color(SepColor, "{"))
		w.stack = append(w.stack, &jsonWFrame{object: true})
		return nil
	case BeginArray:
		w.w.WriteString(w.colors.Color(SepColor, "["))
		w.stack = append(w.stack, &jsonWFrame{})
		return nil
	}
	text := t.Text
	switch t.Kind {
	case String:
		text = w.quote(t.Text)
	case Number:
		if !json.Valid([]byte(t.Text)) {
			return fmt.Errorf("%w: invalid number %q", ErrFormat, t.Text)
		}
	case Null:
		text = "null"
	}
	w.w.WriteString(w.colors.Color(attrOf(t.Kind), text))
	w.valueDone()
	return nil
}

func (w *JSONWriter) Flush() error {
	return w.w.Flush()
}

func (w *JSONWriter) top() *jsonWFrame {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// sep writes the separator before the next member or element of f.
func (w *JSONWriter) sep(f *jsonWFrame) {
	if f.n > 0 {
		w.w.WriteString(w.colors.Color(SepColor, ","))
	}
	f.n++
	w.newline()
}

func (w *JSONWriter) newline() {
	if w.indent == "" {
		return
	}
	w.w.WriteByte('\n')
	for range w.stack {
		w.w.WriteString(w.indent)
	}
}

func (w *JSONWriter) valueDone() {
	if len(w.stack) == 0 {
		w.w.WriteByte('\n')
	}
}

func (w *JSONWriter) quote(s string) string {
	w.sbuf.Reset()
	_ = w.senc.Encode(s)
	return string(bytes.TrimSuffix(w.sbuf.Bytes(), []byte{'\n'}))
}

package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// YAMLReader reads tokens from a stream of YAML documents. Mapping order is
// preserved.
type YAMLReader struct {
	dec  *yaml.Decoder
	tree *TreeReader
}

func NewYAMLReader(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r, yaml.UseOrderedMap())}
}

func (r *YAMLReader) Next() (Token, error) {
	for {
		if r.tree != nil {
			t, err := r.tree.Next()
			if err == nil {
				return t, nil
			}
			r.tree = nil
		}
		var doc any
		if err := r.dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return Token{}, io.EOF
			}
			return Token{}, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		r.tree = NewTreeReader(fromYAML(doc))
	}
}

func fromYAML(v any) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		obj := make(Object, 0, len(x))
		for _, item := range x {
			obj = append(obj, Member{Name: fmt.Sprint(item.Key), Value: fromYAML(item.Value)})
		}
		return obj
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = fromYAML(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = fromYAML(e)
		}
		return res
	}
	return v
}

// YAMLWriter writes every top level value as one YAML document. Documents
// after the first are preceded by a "---" separator.
type YAMLWriter struct {
	*TreeWriter
	w    io.Writer
	opts []yaml.EncodeOption
	docs int
}

func NewYAMLWriter(w io.Writer, opts ...WriterOption) *YAMLWriter {
	wc := writerOpts(opts)
	yw := &YAMLWriter{w: w}
	if n := len(wc.indent); n > 0 {
		yw.opts = append(yw.opts, yaml.Indent(n))
	}
	yw.TreeWriter = NewTreeWriter(yw.document)
	return yw
}

func (w *YAMLWriter) document(v any) error {
	d, err := yaml.MarshalWithOptions(toYAML(v), w.opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if w.docs > 0 {
		if _, err := io.WriteString(w.w, "---\n"); err != nil {
			return err
		}
	}
	w.docs++
	_, err = w.w.Write(d)
	return err
}

func toYAML(v any) any {
	switch x := v.(type) {
	case Object:
		ms := make(yaml.MapSlice, 0, len(x))
		for _, m := range x {
			ms = append(ms, yaml.MapItem{Key: m.Name, Value: toYAML(m.Value)})
		}
		return ms
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = toYAML(e)
		}
		return res
	case json.Number:
		return narrowNumber(x)
	}
	return v
}

// narrowNumber converts decimal text to the narrowest of int64, uint64 and
// float64 that holds it, or leaves it as a string.
func narrowNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if u, err := parseUint(string(n)); err == nil {
		return u
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

package codec

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLReader reads one TOML document as a single object value. Keys keep
// their document order.
type TOMLReader struct {
	r    io.Reader
	tree *TreeReader
}

func NewTOMLReader(r io.Reader) *TOMLReader {
	return &TOMLReader{r: r}
}

func (r *TOMLReader) Next() (Token, error) {
	if r.tree == nil {
		d, err := io.ReadAll(r.r)
		if err != nil {
			return Token{}, err
		}
		if len(strings.TrimSpace(string(d))) == 0 {
			r.tree = NewTreeReader()
			return Token{}, io.EOF
		}
		var doc map[string]any
		md, err := toml.Decode(string(d), &doc)
		if err != nil {
			return Token{}, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		order := map[string]int{}
		for i, k := range md.Keys() {
			path := strings.Join(k, "\x00")
			if _, ok := order[path]; !ok {
				order[path] = i
			}
		}
		r.tree = NewTreeReader(fromTOML(doc, nil, order))
	}
	return r.tree.Next()
}

func fromTOML(v any, path []string, order map[string]int) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		pos := func(k string) int {
			if i, ok := order[strings.Join(append(slices.Clip(path), k), "\x00")]; ok {
				return i
			}
			return math.MaxInt
		}
		slices.SortFunc(keys, func(a, b string) int {
			return cmp.Or(cmp.Compare(pos(a), pos(b)), strings.Compare(a, b))
		})
		obj := make(Object, 0, len(keys))
		for _, k := range keys {
			e := rv.MapIndex(reflect.ValueOf(k)).Interface()
			obj = append(obj, Member{Name: k, Value: fromTOML(e, append(slices.Clip(path), k), order)})
		}
		return obj
	case reflect.Slice:
		res := make([]any, rv.Len())
		for i := range res {
			res[i] = fromTOML(rv.Index(i).Interface(), path, order)
		}
		return res
	}
	return v
}

// TOMLWriter writes one object value as a TOML document. TOML has no null:
// null members and elements are omitted. Keys are written in sorted order.
type TOMLWriter struct {
	*TreeWriter
	w      io.Writer
	indent string
	docs   int
}

func NewTOMLWriter(w io.Writer, opts ...WriterOption) *TOMLWriter {
	wc := writerOpts(opts)
	tw := &TOMLWriter{w: w, indent: wc.indent}
	tw.TreeWriter = NewTreeWriter(tw.document)
	return tw
}

func (w *TOMLWriter) document(v any) error {
	obj, ok := v.(Object)
	if !ok {
		return fmt.Errorf("%w: toml document must be an object, got %T", ErrFormat, v)
	}
	if w.docs > 0 {
		return fmt.Errorf("%w: toml holds a single document", ErrFormat)
	}
	w.docs++
	enc := toml.NewEncoder(w.w)
	enc.Indent = w.indent
	if err := enc.Encode(toTOML(obj)); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

func toTOML(v any) any {
	switch x := v.(type) {
	case Object:
		res := make(map[string]any, len(x))
		for _, m := range x {
			if m.Value == nil {
				continue
			}
			res[m.Name] = toTOML(m.Value)
		}
		return res
	case []any:
		res := make([]any, 0, len(x))
		for _, e := range x {
			if e == nil {
				continue
			}
			res = append(res, toTOML(e))
		}
		return res
	case json.Number:
		n := narrowNumber(x)
		if u, ok := n.(uint64); ok {
			return float64(u)
		}
		return n
	}
	return v
}

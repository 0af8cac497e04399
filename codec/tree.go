package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"time"
)

// Member is one name and value of an Object.
type Member struct {
	Name  string
	Value any
}

// Object is the ordered in-memory form of an object token sequence.
type Object []Member

// Get returns the value of the first member named name.
func (o Object) Get(name string) (any, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// TreeWriter assembles tokens into in-memory trees. Objects become Object,
// arrays []any, numbers json.Number and the other scalars string, bool or
// nil. Every complete top level value is passed to emit.
type TreeWriter struct {
	emit  func(any) error
	stack []*treeFrame
}

type treeFrame struct {
	obj   Object
	arr   []any
	isObj bool
	name  *string
}

func NewTreeWriter(emit func(any) error) *TreeWriter {
	return &TreeWriter{emit: emit}
}

func (w *TreeWriter) WriteToken(t Token) error {
	top := w.top()
	switch t.Kind {
	case Name:
		if top == nil || !top.isObj || top.name != nil {
			return fmt.Errorf("%w: %s outside of an object", ErrFormat, t)
		}
		name := t.Text
		top.name = &name
		return nil
	case BeginObject:
		if err := w.checkSlot(t); err != nil {
			return err
		}
		w.stack = append(w.stack, &treeFrame{obj: Object{}, isObj: true})
		return nil
	case BeginArray:
		if err := w.checkSlot(t); err != nil {
			return err
		}
		w.stack = append(w.stack, &treeFrame{arr: []any{}})
		return nil
	case EndObject, EndArray:
		if top == nil || top.isObj != (t.Kind == EndObject) || top.name != nil {
			return fmt.Errorf("%w: unbalanced %s", ErrFormat, t.Kind)
		}
		w.stack = w.stack[:len(w.stack)-1]
		if top.isObj {
			return w.add(top.obj)
		}
		return w.add(top.arr)
	case String:
		return w.scalar(t, t.Text)
	case Number:
		return w.scalar(t, json.Number(t.Text))
	case Bool:
		return w.scalar(t, t.Bool())
	case Null:
		return w.scalar(t, nil)
	}
	return fmt.Errorf("%w: cannot write %s", ErrFormat, t)
}

func (w *TreeWriter) Flush() error {
	return nil
}

func (w *TreeWriter) top() *treeFrame {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

func (w *TreeWriter) checkSlot(t Token) error {
	if top := w.top(); top != nil && top.isObj && top.name == nil {
		return fmt.Errorf("%w: %s without a name in an object", ErrFormat, t)
	}
	return nil
}

func (w *TreeWriter) scalar(t Token, v any) error {
	if err := w.checkSlot(t); err != nil {
		return err
	}
	return w.add(v)
}

func (w *TreeWriter) add(v any) error {
	top := w.top()
	switch {
	case top == nil:
		return w.emit(v)
	case top.isObj:
		top.obj = append(top.obj, Member{Name: *top.name, Value: v})
		top.name = nil
	default:
		top.arr = append(top.arr, v)
	}
	return nil
}

// TreeReader produces the tokens of in-memory values.
//
// It understands Object, map[string]T (in sorted key order), slices and
// arrays, strings, booleans, numbers, json.Number, time.Time, []byte and
// nil. Other values are read as strings through fmt.
type TreeReader struct {
	toks []Token
	pos  int
}

// NewTreeReader returns a reader over the given values in order.
func NewTreeReader(vs ...any) *TreeReader {
	r := &TreeReader{}
	for _, v := range vs {
		r.toks = appendTokens(r.toks, reflect.ValueOf(v))
	}
	return r
}

func (r *TreeReader) Next() (Token, error) {
	if r.pos >= len(r.toks) {
		return Token{}, io.EOF
	}
	t := r.toks[r.pos]
	r.pos++
	return t, nil
}

var (
	objectType = reflect.TypeFor[Object]()
	timeType   = reflect.TypeFor[time.Time]()
	numberType = reflect.TypeFor[json.Number]()
)

func appendTokens(toks []Token, v reflect.Value) []Token {
	if !v.IsValid() {
		return append(toks, NullToken)
	}
	switch v.Type() {
	case objectType:
		toks = append(toks, BeginObjectToken)
		for _, m := range v.Interface().(Object) {
			toks = append(toks, NameToken(m.Name))
			toks = appendTokens(toks, reflect.ValueOf(m.Value))
		}
		return append(toks, EndObjectToken)
	case timeType:
		return append(toks, StringToken(v.Interface().(time.Time).Format(time.RFC3339Nano)))
	case numberType:
		return append(toks, NumberToken(v.String()))
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return append(toks, NullToken)
		}
		return appendTokens(toks, v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return append(toks, NullToken)
		}
		keys := v.MapKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
		}
		order := make([]int, len(keys))
		for i := range order {
			order[i] = i
		}
		slices.SortFunc(order, func(a, b int) int {
			switch {
			case names[a] < names[b]:
				return -1
			case names[a] > names[b]:
				return 1
			}
			return 0
		})
		toks = append(toks, BeginObjectToken)
		for _, i := range order {
			toks = append(toks, NameToken(names[i]))
			toks = appendTokens(toks, v.MapIndex(keys[i]))
		}
		return append(toks, EndObjectToken)
	case reflect.Slice:
		if v.IsNil() {
			return append(toks, NullToken)
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return append(toks, StringToken(base64.StdEncoding.EncodeToString(v.Bytes())))
		}
		fallthrough
	case reflect.Array:
		toks = append(toks, BeginArrayToken)
		for i := range v.Len() {
			toks = appendTokens(toks, v.Index(i))
		}
		return append(toks, EndArrayToken)
	case reflect.String:
		return append(toks, StringToken(v.String()))
	case reflect.Bool:
		return append(toks, BoolToken(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(toks, NumberToken(strconv.FormatInt(v.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(toks, NumberToken(strconv.FormatUint(v.Uint(), 10)))
	case reflect.Float32, reflect.Float64:
		return append(toks, NumberToken(formatFloat(v.Float(), v.Type().Bits())))
	}
	return append(toks, StringToken(fmt.Sprint(v.Interface())))
}

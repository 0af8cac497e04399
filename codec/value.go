package codec

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/internal/debug"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// engine holds the resolution policy and options shared by Codec and
// Factory.
type engine struct {
	cfg config
}

func newEngine(opts []Option) engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return engine{cfg: cfg}
}

// resolve returns the reflector used for obj, a pointer to a struct.
func (e *engine) resolve(obj any) reflector.Reflector {
	if e.cfg.preferGenerated {
		return reflector.Of(obj, e.cfg.fallback)
	}
	if !e.cfg.fallback {
		return nil
	}
	d, err := reflector.New(obj)
	if err != nil {
		return nil
	}
	return d
}

func noReflector(path string, t reflect.Type) error {
	return fmt.Errorf("%w for %s at %q", reflector.ErrNoReflector, t, path)
}

// encState writes one value. visited tracks pointer addresses on the
// current path to detect circular references.
type encState struct {
	*engine
	w       Writer
	visited map[uintptr]string
}

func (e *engine) encode(w Writer, v any) error {
	s := &encState{engine: e, w: w, visited: map[uintptr]string{}}
	return s.value(reflect.ValueOf(v), "")
}

func (s *encState) write(path string, t Token) error {
	if err := s.w.WriteToken(t); err != nil {
		return marshalErr(path, err)
	}
	return nil
}

func (s *encState) value(val reflect.Value, path string) error {
	if !val.IsValid() {
		return s.write(path, NullToken)
	}
	typ := val.Type()
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if val.IsNil() {
			return s.write(path, NullToken)
		}
	}
	if typ.Kind() != reflect.Interface {
		if tok, ok, err := marshalText(val); ok {
			if err != nil {
				return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
			}
			return s.write(path, tok)
		}
	}

	switch typ.Kind() {
	case reflect.Pointer:
		addr := val.Pointer()
		if prev, seen := s.visited[addr]; seen {
			return &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prev, path, prev),
			}
		}
		s.visited[addr] = path
		defer delete(s.visited, addr)
		if typ.Elem().Kind() == reflect.Struct {
			return s.object(val.Interface(), path)
		}
		return s.value(val.Elem(), path)

	case reflect.Interface:
		return s.value(val.Elem(), path)

	case reflect.Struct:
		p := reflect.New(typ)
		p.Elem().Set(val)
		return s.object(p.Interface(), path)

	case reflect.String:
		return s.write(path, StringToken(val.String()))

	case reflect.Bool:
		return s.write(path, BoolToken(val.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.write(path, NumberToken(strconv.FormatInt(val.Int(), 10)))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return s.write(path, NumberToken(strconv.FormatUint(val.Uint(), 10)))

	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &MarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported value: %v", f)}
		}
		return s.write(path, NumberToken(formatFloat(f, typ.Bits())))

	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return s.write(path, StringToken(base64.StdEncoding.EncodeToString(val.Bytes())))
		}
		return s.array(val, path)

	case reflect.Array:
		return s.array(val, path)

	case reflect.Map:
		return s.dict(val, path)
	}
	return &MarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
	}
}

// marshalText reports ok when val or its address implements
// encoding.TextMarshaler.
func marshalText(val reflect.Value) (Token, bool, error) {
	var tm encoding.TextMarshaler
	switch {
	case val.Type().Implements(textMarshalerType):
		tm = val.Interface().(encoding.TextMarshaler)
	case val.CanAddr() && reflect.PointerTo(val.Type()).Implements(textMarshalerType):
		tm = val.Addr().Interface().(encoding.TextMarshaler)
	default:
		return Token{}, false, nil
	}
	d, err := tm.MarshalText()
	if err != nil {
		return Token{}, true, err
	}
	return StringToken(string(d)), true, nil
}

func (s *encState) object(obj any, path string) error {
	r := s.resolve(obj)
	if r == nil {
		err := noReflector(path, reflect.TypeOf(obj))
		return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	if err := s.write(path, BeginObjectToken); err != nil {
		return err
	}
	for _, p := range r.Properties() {
		fpath := joinPath(path, p.Name)
		v, err := r.Get(p.Name)
		if err != nil {
			return marshalErr(fpath, err)
		}
		if err := s.write(fpath, NameToken(s.cfg.naming(p.Name))); err != nil {
			return err
		}
		if err := s.property(v, p.Type, fpath); err != nil {
			return err
		}
	}
	return s.write(path, EndObjectToken)
}

// property encodes v using the declared type of the property as the static
// type when v is assignable to it.
func (s *encState) property(v any, typ reflect.Type, path string) error {
	if v == nil {
		return s.write(path, NullToken)
	}
	val := reflect.ValueOf(v)
	if typ != nil && typ.Kind() != reflect.Interface && val.Type() != typ && val.Type().AssignableTo(typ) {
		nv := reflect.New(typ).Elem()
		nv.Set(val)
		val = nv
	}
	return s.value(val, path)
}

func (s *encState) array(val reflect.Value, path string) error {
	if val.Kind() == reflect.Slice {
		addr := val.Pointer()
		if prev, seen := s.visited[addr]; seen && val.Len() > 0 {
			return &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prev, path, prev),
			}
		}
		s.visited[addr] = path
		defer delete(s.visited, addr)
	}
	if err := s.write(path, BeginArrayToken); err != nil {
		return err
	}
	for i := range val.Len() {
		if err := s.value(val.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return s.write(path, EndArrayToken)
}

func (s *encState) dict(val reflect.Value, path string) error {
	kt := val.Type().Key()
	if kt.Kind() != reflect.String && !isInt(kt.Kind()) && !isUint(kt.Kind()) {
		return &MarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported map key type: %s", kt)}
	}
	keys := val.MapKeys()
	names := make(map[int]string, len(keys))
	for i, k := range keys {
		switch {
		case k.Kind() == reflect.String:
			names[i] = k.String()
		case isInt(k.Kind()):
			names[i] = strconv.FormatInt(k.Int(), 10)
		default:
			names[i] = strconv.FormatUint(k.Uint(), 10)
		}
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return strings.Compare(names[a], names[b]) })

	if err := s.write(path, BeginObjectToken); err != nil {
		return err
	}
	for _, i := range order {
		kpath := joinPath(path, names[i])
		if err := s.write(kpath, NameToken(names[i])); err != nil {
			return err
		}
		if err := s.value(val.MapIndex(keys[i]), kpath); err != nil {
			return err
		}
	}
	return s.write(path, EndObjectToken)
}

func formatFloat(f float64, bits int) string {
	abs := math.Abs(f)
	fmtc := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		fmtc = 'e'
	}
	return strconv.FormatFloat(f, fmtc, -1, bits)
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// decState reads values from r.
type decState struct {
	*engine
	r Reader
}

// decode reads one value of type typ. It returns io.EOF when r has no
// further value.
func (e *engine) decode(r Reader, typ reflect.Type) (reflect.Value, error) {
	s := &decState{engine: e, r: r}
	tok, err := r.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return reflect.Value{}, io.EOF
		}
		return reflect.Value{}, unmarshalErr("", err)
	}
	return s.value(tok, typ, "")
}

func (s *decState) next(path string) (Token, error) {
	tok, err := s.r.Next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Token{}, prematureEOF(path)
		}
		return Token{}, unmarshalErr(path, err)
	}
	return tok, nil
}

func (s *decState) value(tok Token, typ reflect.Type, path string) (reflect.Value, error) {
	if tok.Kind == Null {
		return reflect.Zero(typ), nil
	}
	if isText(typ) {
		if tok.Kind != String {
			return reflect.Value{}, unexpected(path, "String", tok)
		}
		p := reflect.New(typ)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(tok.Text)); err != nil {
			return reflect.Value{}, unmarshalErr(path, err)
		}
		return p.Elem(), nil
	}

	switch typ.Kind() {
	case reflect.Pointer:
		if typ.Elem().Kind() == reflect.Struct && !isText(typ.Elem()) {
			p := reflect.New(typ.Elem())
			if err := s.object(tok, p.Interface(), path); err != nil {
				return reflect.Value{}, err
			}
			return p, nil
		}
		ev, err := s.value(tok, typ.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(typ.Elem())
		p.Elem().Set(ev)
		return p, nil

	case reflect.Interface:
		x, err := s.any(tok, path)
		if err != nil {
			return reflect.Value{}, err
		}
		nv := reflect.New(typ).Elem()
		if x == nil {
			return nv, nil
		}
		xv := reflect.ValueOf(x)
		if !xv.Type().AssignableTo(typ) {
			return reflect.Value{}, &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("cannot decode %s into %s", xv.Type(), typ),
				Err:       ErrFormat,
			}
		}
		nv.Set(xv)
		return nv, nil

	case reflect.Struct:
		p := reflect.New(typ)
		if err := s.object(tok, p.Interface(), path); err != nil {
			return reflect.Value{}, err
		}
		return p.Elem(), nil

	case reflect.Map:
		return s.dict(tok, typ, path)

	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 && tok.Kind == String {
			b, err := base64.StdEncoding.DecodeString(tok.Text)
			if err != nil {
				return reflect.Value{}, unmarshalErr(path, err)
			}
			return reflect.ValueOf(b).Convert(typ), nil
		}
		return s.array(tok, typ, path)

	case reflect.Array:
		return s.array(tok, typ, path)

	case reflect.String:
		if tok.Kind != String {
			return reflect.Value{}, unexpected(path, "String", tok)
		}
		return reflect.ValueOf(tok.Text).Convert(typ), nil

	case reflect.Bool:
		if tok.Kind != Bool {
			return reflect.Value{}, unexpected(path, "Bool", tok)
		}
		nv := reflect.New(typ).Elem()
		nv.SetBool(tok.Bool())
		return nv, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		if tok.Kind != Number {
			return reflect.Value{}, unexpected(path, "Number", tok)
		}
		return number(tok.Text, typ, path)
	}
	return reflect.Value{}, &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
		Err:       ErrFormat,
	}
}

func isText(t reflect.Type) bool {
	k := t.Kind()
	return k != reflect.Pointer && k != reflect.Interface && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func number(text string, typ reflect.Type, path string) (reflect.Value, error) {
	nv := reflect.New(typ).Elem()
	overflow := func() (reflect.Value, error) {
		return reflect.Value{}, &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("number %s overflows %s", text, typ),
			Err:       ErrFormat,
		}
	}
	switch {
	case isInt(typ.Kind()):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return unmarshalNumber(path, text, typ)
			}
			n = int64(f)
		}
		if nv.OverflowInt(n) {
			return overflow()
		}
		nv.SetInt(n)
	case isUint(typ.Kind()):
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return unmarshalNumber(path, text, typ)
			}
			n = uint64(f)
		}
		if nv.OverflowUint(n) {
			return overflow()
		}
		nv.SetUint(n)
	default:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return unmarshalNumber(path, text, typ)
		}
		if nv.OverflowFloat(f) {
			return overflow()
		}
		nv.SetFloat(f)
	}
	return nv, nil
}

func unmarshalNumber(path, text string, typ reflect.Type) (reflect.Value, error) {
	return reflect.Value{}, &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("cannot decode number %s into %s", text, typ),
		Err:       ErrFormat,
	}
}

// any decodes a value without a target type.
func (s *decState) any(tok Token, path string) (any, error) {
	switch tok.Kind {
	case Null:
		return nil, nil
	case String:
		return tok.Text, nil
	case Bool:
		return tok.Bool(), nil
	case Number:
		if n, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, unmarshalErr(path, err)
		}
		return f, nil
	case BeginObject:
		m := map[string]any{}
		for {
			t, err := s.next(path)
			if err != nil {
				return nil, err
			}
			if t.Kind == EndObject {
				return m, nil
			}
			if t.Kind != Name {
				return nil, unexpected(path, "Name or EndObject", t)
			}
			kpath := joinPath(path, t.Text)
			vt, err := s.next(kpath)
			if err != nil {
				return nil, err
			}
			v, err := s.any(vt, kpath)
			if err != nil {
				return nil, err
			}
			m[t.Text] = v
		}
	case BeginArray:
		a := []any{}
		for i := 0; ; i++ {
			ipath := fmt.Sprintf("%s[%d]", path, i)
			t, err := s.next(ipath)
			if err != nil {
				return nil, err
			}
			if t.Kind == EndArray {
				return a, nil
			}
			v, err := s.any(t, ipath)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
	}
	return nil, unexpected(path, "a value", tok)
}

func (s *decState) dict(tok Token, typ reflect.Type, path string) (reflect.Value, error) {
	if tok.Kind != BeginObject {
		return reflect.Value{}, unexpected(path, "BeginObject", tok)
	}
	kt := typ.Key()
	if kt.Kind() != reflect.String && !isInt(kt.Kind()) && !isUint(kt.Kind()) {
		return reflect.Value{}, &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("unsupported map key type: %s", kt),
			Err:       ErrFormat,
		}
	}
	m := reflect.MakeMap(typ)
	for {
		t, err := s.next(path)
		if err != nil {
			return reflect.Value{}, err
		}
		if t.Kind == EndObject {
			return m, nil
		}
		if t.Kind != Name {
			return reflect.Value{}, unexpected(path, "Name or EndObject", t)
		}
		kpath := joinPath(path, t.Text)
		var key reflect.Value
		if kt.Kind() == reflect.String {
			key = reflect.ValueOf(t.Text).Convert(kt)
		} else if key, err = number(t.Text, kt, kpath); err != nil {
			return reflect.Value{}, err
		}
		vt, err := s.next(kpath)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := s.value(vt, typ.Elem(), kpath)
		if err != nil {
			return reflect.Value{}, err
		}
		m.SetMapIndex(key, v)
	}
}

func (s *decState) array(tok Token, typ reflect.Type, path string) (reflect.Value, error) {
	if tok.Kind != BeginArray {
		return reflect.Value{}, unexpected(path, "BeginArray", tok)
	}
	var res reflect.Value
	if typ.Kind() == reflect.Slice {
		res = reflect.MakeSlice(typ, 0, 0)
	} else {
		res = reflect.New(typ).Elem()
	}
	for i := 0; ; i++ {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		t, err := s.next(ipath)
		if err != nil {
			return reflect.Value{}, err
		}
		if t.Kind == EndArray {
			return res, nil
		}
		ev, err := s.value(t, typ.Elem(), ipath)
		if err != nil {
			return reflect.Value{}, err
		}
		if typ.Kind() == reflect.Slice {
			res = reflect.Append(res, ev)
			continue
		}
		if i >= typ.Len() {
			return reflect.Value{}, &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("too many elements for %s", typ),
				Err:       ErrFormat,
			}
		}
		res.Index(i).Set(ev)
	}
}

// object decodes an object into obj, a pointer to a struct, through its
// reflector. Unknown and read-only properties are skipped.
func (s *decState) object(tok Token, obj any, path string) error {
	if tok.Kind != BeginObject {
		return unexpected(path, "BeginObject", tok)
	}
	r := s.resolve(obj)
	if r == nil {
		err := noReflector(path, reflect.TypeOf(obj))
		return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	for {
		t, err := s.next(path)
		if err != nil {
			return err
		}
		if t.Kind == EndObject {
			return nil
		}
		if t.Kind != Name {
			return unexpected(path, "Name or EndObject", t)
		}
		p, ok := s.lookup(r, t.Text)
		if !ok || !p.HasSetter {
			if s.cfg.log != nil || debug.Codec() {
				s.cfg.logger().Debug("skipping key",
					"type", reflect.TypeOf(obj).Elem().String(),
					"key", t.Text,
					"known", ok)
			}
			if err := Skip(s.r); err != nil {
				if errors.Is(err, io.ErrUnexpectedEOF) {
					return prematureEOF(joinPath(path, t.Text))
				}
				return unmarshalErr(joinPath(path, t.Text), err)
			}
			continue
		}
		fpath := joinPath(path, p.Name)
		vt, err := s.next(fpath)
		if err != nil {
			return err
		}
		v, err := s.value(vt, p.Type, fpath)
		if err != nil {
			return err
		}
		if err := r.Set(p.Name, v.Interface()); err != nil {
			return unmarshalErr(fpath, err)
		}
	}
}

// lookup resolves a key read from input against the property names,
// case-insensitively. The naming policy applies on output only. The empty
// key matches nothing.
func (s *decState) lookup(r reflector.Reflector, key string) (reflector.PropertyDescriptor, bool) {
	if key == "" {
		return reflector.PropertyDescriptor{}, false
	}
	return reflector.TryGetPropertyInfo(r, key)
}

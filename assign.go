package reflector

import (
	"fmt"
	"reflect"
)

// assign returns value as a reflect.Value of exactly typ.
//
// A nil value becomes the zero value of typ. A value assignable to typ is
// used as is. When typ is a pointer *E and value is assignable to E, a new
// *E holding value is allocated, which is how nullable properties accept
// plain values.
func assign(value any, typ reflect.Type) (reflect.Value, bool) {
	if value == nil {
		return reflect.Zero(typ), true
	}
	v := reflect.ValueOf(value)
	if v.Type() == typ {
		return v, true
	}
	if v.Type().AssignableTo(typ) {
		nv := reflect.New(typ).Elem()
		nv.Set(v)
		return nv, true
	}
	if typ.Kind() == reflect.Pointer && v.Type().AssignableTo(typ.Elem()) {
		p := reflect.New(typ.Elem())
		p.Elem().Set(v)
		return p, true
	}
	return reflect.Value{}, false
}

// assignable reports whether values of type from can be set on a property of
// type to, under the same rules as assign.
func assignable(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.AssignableTo(to) {
		return true
	}
	return to.Kind() == reflect.Pointer && from.AssignableTo(to.Elem())
}

func mismatch(typeName, key string, from, to reflect.Type) error {
	return &PropertyError{
		Type:     typeName,
		Property: key,
		Err:      ErrTypeMismatch,
		Detail:   fmt.Sprintf("cannot assign %s to %s", from, to),
	}
}

// Convert applies the assignment rules of Set to value for a property of
// type T. It is intended for generated reflectors, which dispatch by name and
// then need the value as a T.
func Convert[T any](key string, value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	typ := reflect.TypeFor[T]()
	v, ok := assign(value, typ)
	if !ok {
		return zero, mismatch("", key, reflect.TypeOf(value), typ)
	}
	return v.Interface().(T), nil
}

// isNil reports whether v is nil or a nil pointer, map, slice, interface,
// channel or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// Assign converts value with Convert and stores it in *dst. On error *dst is
// left unchanged.
func Assign[T any](dst *T, key string, value any) error {
	v, err := Convert[T](key, value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

package reflector

import "reflect"

// GetAs returns the value of the property named key as a T. A nil value or a
// value of another type yields the zero T; a nullable property (*T) holding a
// value yields that value. The only error is an unknown property.
func GetAs[T any](r Reflector, key string) (T, error) {
	var zero T
	v, err := r.Get(key)
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type() == reflect.TypeFor[T]() {
		return rv.Elem().Interface().(T), nil
	}
	return zero, nil
}

// SetAs sets the property named key to value. It is Set with a statically
// typed value.
func SetAs[T any](r Reflector, key string, value T) error {
	return r.Set(key, value)
}

package reflector

import (
	"fmt"
	"reflect"
	"strings"
)

// PropertyLookup is an optional extension of Reflector for implementations
// that can resolve a single descriptor without copying the descriptor list.
type PropertyLookup interface {
	Property(key string) (PropertyDescriptor, bool)
}

// The functions below form the safe access layer. None of them return an
// error or let a panic from the underlying reflector escape: failures are
// reported as false.

// TryGetPropertyInfo returns the descriptor matching key case-insensitively.
func TryGetPropertyInfo(r Reflector, key string) (p PropertyDescriptor, ok bool) {
	if r == nil {
		return PropertyDescriptor{}, false
	}
	defer func() {
		if recover() != nil {
			p, ok = PropertyDescriptor{}, false
		}
	}()
	if l, ok := r.(PropertyLookup); ok {
		return l.Property(key)
	}
	for _, p := range r.Properties() {
		if p.Is(key) {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}

// HasProperty reports whether r has a property named key. Blank keys are
// never found.
func HasProperty(r Reflector, key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	_, ok := TryGetPropertyInfo(r, key)
	return ok
}

// TryGet returns the value of the property named key.
func TryGet(r Reflector, key string) (any, bool) {
	if !HasProperty(r, key) {
		return nil, false
	}
	v, err := safeGet(r, key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// TryGetAs returns the value of the property named key when its runtime
// type is exactly T. Unlike TrySet, assignability is not enough: a value
// implementing an interface T, or a *T, is not found.
func TryGetAs[T any](r Reflector, key string) (T, bool) {
	var zero T
	v, ok := TryGet(r, key)
	if !ok || reflect.TypeOf(v) != reflect.TypeFor[T]() {
		return zero, false
	}
	return v.(T), true
}

// TrySet sets the property named key when it exists, has a setter and the
// runtime type of value is assignable to the property type. A nil value is
// never assigned.
func TrySet(r Reflector, key string, value any) bool {
	p, ok := TryGetPropertyInfo(r, key)
	if !ok || !p.HasSetter || value == nil {
		return false
	}
	if !assignable(reflect.TypeOf(value), p.Type) {
		return false
	}
	return safeSet(r, p.Name, value) == nil
}

// TrySetAs sets the property named key when it exists, has a setter and T is
// assignable to the property type.
func TrySetAs[T any](r Reflector, key string, value T) bool {
	p, ok := TryGetPropertyInfo(r, key)
	if !ok || !p.HasSetter {
		return false
	}
	if !assignable(reflect.TypeFor[T](), p.Type) {
		return false
	}
	return safeSet(r, p.Name, value) == nil
}

func safeGet(r Reflector, key string) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("get %q: panic: %v", key, p)
		}
	}()
	return r.Get(key)
}

func safeSet(r Reflector, key string, value any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("set %q: panic: %v", key, p)
		}
	}()
	return r.Set(key, value)
}

func safeProperties(r Reflector) (ps []PropertyDescriptor) {
	defer func() {
		if recover() != nil {
			ps = nil
		}
	}()
	return r.Properties()
}

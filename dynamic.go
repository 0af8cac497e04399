package reflector

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Dynamic is a Reflector backed by package reflect. It works for any
// non-nil pointer to a struct and needs no generated code.
//
// Properties are the exported fields of the struct, including fields promoted
// from embedded structs, in declaration order. A field tagged
// `reflector:"-"` is skipped and one tagged `reflector:"readonly"` has no
// setter. The scan result is cached per type and shared by every Dynamic
// reflecting a value of that type.
type Dynamic struct {
	obj  any
	val  reflect.Value
	info *typeInfo

	attrOnce sync.Once
	attrs    []AttributeDescriptor
}

// New returns a Dynamic reflector for v, which must be a non-nil pointer to
// a struct.
func New(v any) (*Dynamic, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T must be a non-nil pointer to a struct", ErrNotReflectable, v)
	}
	return &Dynamic{
		obj:  v,
		val:  rv.Elem(),
		info: typeInfoOf(rv.Elem().Type()),
	}, nil
}

func (d *Dynamic) ReflectedObject() any {
	return d.obj
}

func (d *Dynamic) Properties() []PropertyDescriptor {
	return slices.Clone(d.info.props)
}

// Property returns the descriptor for key without copying the descriptor
// list.
func (d *Dynamic) Property(key string) (PropertyDescriptor, bool) {
	i, ok := d.info.byKey[canonical(key)]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return d.info.props[i], true
}

func (d *Dynamic) Attributes() []AttributeDescriptor {
	d.attrOnce.Do(func() {
		d.attrs = attributesOf(d.obj)
	})
	return d.attrs
}

func (d *Dynamic) Get(key string) (any, error) {
	i, ok := d.info.byKey[canonical(key)]
	if !ok {
		return nil, UnknownProperty(d.info.typ.Name(), key)
	}
	f, ok := fieldAt(d.val, d.info.fields[i].index, false)
	if !ok {
		// promoted through a nil embedded pointer
		return reflect.Zero(d.info.props[i].Type).Interface(), nil
	}
	return f.Interface(), nil
}

func (d *Dynamic) Set(key string, value any) error {
	i, ok := d.info.byKey[canonical(key)]
	if !ok {
		return UnknownProperty(d.info.typ.Name(), key)
	}
	p := d.info.props[i]
	if !p.HasSetter {
		return ReadOnlyProperty(d.info.typ.Name(), p.Name)
	}
	v, ok := assign(value, p.Type)
	if !ok {
		return mismatch(d.info.typ.Name(), p.Name, reflect.TypeOf(value), p.Type)
	}
	f, _ := fieldAt(d.val, d.info.fields[i].index, true)
	f.Set(v)
	return nil
}

package reflector

import (
	"reflect"
	"slices"
)

// TableProperty declares one property of T for a Table.
// Set receives a value already converted to Type, or an untyped nil when
// Type is an interface and the property is cleared. A nil Set makes the
// property read-only.
type TableProperty[T any] struct {
	Name string
	Type reflect.Type
	Get  func(*T) any
	Set  func(*T, any)
}

// Table is a fixed, precomputed property table for T. It backs reflectors
// produced by code generation or explicit registration: descriptors are
// built once and access dispatches through the table instead of package
// reflect.
type Table[T any] struct {
	name  string
	props []PropertyDescriptor
	attrs []AttributeDescriptor
	get   []func(*T) any
	set   []func(*T, any)
	byKey map[string]int
}

// NewTable builds a table from props, in the given order. Names that differ
// only in case resolve to the first declared.
func NewTable[T any](props ...TableProperty[T]) *Table[T] {
	t := &Table[T]{
		name:  reflect.TypeFor[T]().Name(),
		attrs: []AttributeDescriptor{},
		byKey: make(map[string]int, len(props)),
	}
	for _, p := range props {
		key := canonical(p.Name)
		if _, dup := t.byKey[key]; dup {
			continue
		}
		t.byKey[key] = len(t.props)
		t.props = append(t.props, PropertyDescriptor{
			Name:      p.Name,
			Type:      p.Type,
			HasSetter: p.Set != nil,
		})
		t.get = append(t.get, p.Get)
		t.set = append(t.set, p.Set)
	}
	return t
}

// WithAttributes sets the attribute descriptors reported by reflectors bound
// to t. It must be called before t is shared.
func (t *Table[T]) WithAttributes(attrs ...AttributeDescriptor) *Table[T] {
	t.attrs = append(t.attrs[:0], attrs...)
	return t
}

// Bind returns a reflector for obj backed by t.
func (t *Table[T]) Bind(obj *T) *Static[T] {
	return &Static[T]{obj: obj, table: t}
}

// Static is a Reflector for one *T backed by a Table.
type Static[T any] struct {
	obj   *T
	table *Table[T]
}

func (s *Static[T]) ReflectedObject() any {
	return s.obj
}

func (s *Static[T]) Properties() []PropertyDescriptor {
	return slices.Clone(s.table.props)
}

func (s *Static[T]) Property(key string) (PropertyDescriptor, bool) {
	i, ok := s.table.byKey[canonical(key)]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return s.table.props[i], true
}

func (s *Static[T]) Attributes() []AttributeDescriptor {
	return s.table.attrs
}

func (s *Static[T]) Get(key string) (any, error) {
	i, ok := s.table.byKey[canonical(key)]
	if !ok {
		return nil, UnknownProperty(s.table.name, key)
	}
	return s.table.get[i](s.obj), nil
}

func (s *Static[T]) Set(key string, value any) error {
	i, ok := s.table.byKey[canonical(key)]
	if !ok {
		return UnknownProperty(s.table.name, key)
	}
	p := s.table.props[i]
	if s.table.set[i] == nil {
		return ReadOnlyProperty(s.table.name, p.Name)
	}
	v, ok := assign(value, p.Type)
	if !ok {
		return mismatch(s.table.name, p.Name, reflect.TypeOf(value), p.Type)
	}
	s.table.set[i](s.obj, v.Interface())
	return nil
}

package reflector

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/go-reflector/internal/debug"
)

// Annotated is implemented by types that carry annotations. Every element
// returned by ReflectorAttributes is an annotation value, usually a struct.
type Annotated interface {
	ReflectorAttributes() []any
}

// Param describes one positional constructor parameter of an annotation.
type Param struct {
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Constructed is implemented by annotations built from positional
// arguments. The parameter values are recovered from exported fields or
// zero-argument methods with the same name as the parameter.
type Constructed interface {
	ConstructorParams() []Param
}

// attributesOf reconstructs the attribute descriptors of obj. Reconstruction
// is best effort: an argument that cannot be read is recorded with a nil
// value and the scan continues.
func attributesOf(obj any) []AttributeDescriptor {
	res := []AttributeDescriptor{}
	a, ok := obj.(Annotated)
	if !ok {
		return res
	}
	annotations, err := protect(a.ReflectorAttributes)
	if err != nil {
		debug.Log().Warn("reading annotations", "type", typeName(obj), "error", err)
		return res
	}
	for _, ann := range annotations {
		if ann == nil {
			continue
		}
		res = append(res, describeAttribute(ann))
	}
	return res
}

func describeAttribute(ann any) AttributeDescriptor {
	t := reflect.TypeOf(ann)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	desc := AttributeDescriptor{
		Type:      t,
		Arguments: []AttributeArgumentDescriptor{},
	}
	sv := structCopy(ann)
	positional := map[string]bool{}

	if c, ok := ann.(Constructed); ok {
		params, err := protect(c.ConstructorParams)
		if err != nil {
			debug.Log().Warn("reading constructor params", "attribute", t.String(), "error", err)
		}
		for _, p := range params {
			arg := AttributeArgumentDescriptor{
				Type:       p.Type,
				Name:       p.Name,
				Value:      readMember(ann, sv, p.Name),
				IsOptional: p.HasDefault,
			}
			if p.HasDefault {
				arg.DefaultValue = p.Default
			}
			desc.Arguments = append(desc.Arguments, arg)
			positional[canonical(p.Name)] = true
		}
	}

	if !sv.IsValid() {
		return desc
	}
	info := typeInfoOf(sv.Type())
	for i, p := range info.props {
		if !p.HasSetter || positional[p.Key()] {
			continue
		}
		desc.Arguments = append(desc.Arguments, AttributeArgumentDescriptor{
			Type:       p.Type,
			Name:       p.Name,
			Value:      readField(sv, info.fields[i].index),
			IsOptional: true,
		})
	}
	return desc
}

// structCopy returns an addressable copy of the struct ann holds, or the
// zero Value when ann is not a struct or a non-nil pointer to one.
func structCopy(ann any) reflect.Value {
	v := reflect.ValueOf(ann)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

func readField(sv reflect.Value, index []int) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	f, ok := fieldAt(sv, index, false)
	if !ok {
		return nil
	}
	return f.Interface()
}

// readMember reads the exported field or zero-argument method of ann named
// name, compared case-insensitively. It returns nil when there is no such
// member or reading it panics.
func readMember(ann any, sv reflect.Value, name string) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	recv := reflect.ValueOf(ann)
	if sv.IsValid() {
		info := typeInfoOf(sv.Type())
		if i, ok := info.byKey[canonical(name)]; ok {
			return readField(sv, info.fields[i].index)
		}
		recv = sv.Addr()
	}
	t := recv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}
		return recv.Method(i).Call(nil)[0].Interface()
	}
	return nil
}

func protect[T any](f func() T) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f(), nil
}

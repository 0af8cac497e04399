package reflector

import (
	"reflect"
	"strings"
)

// PropertyDescriptor identifies one readable, and optionally writable,
// property of a reflected type.
type PropertyDescriptor struct {
	Name      string
	Type      reflect.Type
	HasSetter bool
}

// Key returns the canonical lookup form of the property name.
func (p PropertyDescriptor) Key() string {
	return canonical(p.Name)
}

// Is reports whether name refers to this property.
func (p PropertyDescriptor) Is(name string) bool {
	return strings.EqualFold(p.Name, name)
}

// AttributeDescriptor describes one annotation attached to a reflected type.
type AttributeDescriptor struct {
	Type      reflect.Type
	Arguments []AttributeArgumentDescriptor
}

// Argument returns the argument with the given name, matched
// case-insensitively.
func (a AttributeDescriptor) Argument(name string) (AttributeArgumentDescriptor, bool) {
	for _, arg := range a.Arguments {
		if strings.EqualFold(arg.Name, name) {
			return arg, true
		}
	}
	return AttributeArgumentDescriptor{}, false
}

// AttributeArgumentDescriptor is one positional or named argument of an
// annotation. Named arguments are always optional.
type AttributeArgumentDescriptor struct {
	Type         reflect.Type
	Name         string
	Value        any
	IsOptional   bool
	DefaultValue any
}

func canonical(name string) string {
	return strings.ToLower(name)
}

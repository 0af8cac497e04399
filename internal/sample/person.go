package sample

import (
	"reflect"
	"strings"
	"time"

	"github.com/signadot/go-reflector"
)

type Address struct {
	Street string
	City   string
	Zip    string `reflector:"-"`
}

type Person struct {
	ID      string `reflector:"readonly"`
	Name    string
	Age     int
	Active  bool
	Email   *string
	Tags    []string
	Address *Address
	Born    time.Time

	refl *personReflector
}

func NewPerson(id string) *Person {
	return &Person{ID: id}
}

func (p *Person) ReflectorAttributes() []any {
	return []any{
		Entity{table: "people", Schema: "crm"},
		&Index{Fields: []string{"Name"}, Unique: true},
	}
}

// Reflector returns the generated reflector of p. A memo copied along with
// a Person value is replaced.
func (p *Person) Reflector() reflector.Reflector {
	if p.refl == nil || p.refl.obj != p {
		p.refl = &personReflector{obj: p}
	}
	return p.refl
}

var personProperties = [...]reflector.PropertyDescriptor{
	{Name: "ID", Type: reflect.TypeFor[string]()},
	{Name: "Name", Type: reflect.TypeFor[string](), HasSetter: true},
	{Name: "Age", Type: reflect.TypeFor[int](), HasSetter: true},
	{Name: "Active", Type: reflect.TypeFor[bool](), HasSetter: true},
	{Name: "Email", Type: reflect.TypeFor[*string](), HasSetter: true},
	{Name: "Tags", Type: reflect.TypeFor[[]string](), HasSetter: true},
	{Name: "Address", Type: reflect.TypeFor[*Address](), HasSetter: true},
	{Name: "Born", Type: reflect.TypeFor[time.Time](), HasSetter: true},
}

var personAttributes = []reflector.AttributeDescriptor{
	{
		Type: reflect.TypeFor[Entity](),
		Arguments: []reflector.AttributeArgumentDescriptor{
			{Type: reflect.TypeFor[string](), Name: "table", Value: "people"},
			{Type: reflect.TypeFor[string](), Name: "Schema", Value: "crm", IsOptional: true},
		},
	},
	{
		Type: reflect.TypeFor[Index](),
		Arguments: []reflector.AttributeArgumentDescriptor{
			{Type: reflect.TypeFor[[]string](), Name: "fields", Value: []string{"Name"}},
			{Type: reflect.TypeFor[string](), Name: "order", IsOptional: true, DefaultValue: "asc"},
			{Type: reflect.TypeFor[bool](), Name: "Unique", Value: true, IsOptional: true},
		},
	},
}

type personReflector struct {
	obj *Person
}

func (r *personReflector) ReflectedObject() any {
	return r.obj
}

func (r *personReflector) Properties() []reflector.PropertyDescriptor {
	res := personProperties
	return res[:]
}

func (r *personReflector) Attributes() []reflector.AttributeDescriptor {
	return personAttributes
}

func (r *personReflector) Get(key string) (any, error) {
	switch strings.ToLower(key) {
	case "id":
		return r.obj.ID, nil
	case "name":
		return r.obj.Name, nil
	case "age":
		return r.obj.Age, nil
	case "active":
		return r.obj.Active, nil
	case "email":
		return r.obj.Email, nil
	case "tags":
		return r.obj.Tags, nil
	case "address":
		return r.obj.Address, nil
	case "born":
		return r.obj.Born, nil
	}
	return nil, reflector.UnknownProperty("Person", key)
}

func (r *personReflector) Set(key string, value any) error {
	switch strings.ToLower(key) {
	case "id":
		return reflector.ReadOnlyProperty("Person", "ID")
	case "name":
		return reflector.Assign(&r.obj.Name, "Name", value)
	case "age":
		return reflector.Assign(&r.obj.Age, "Age", value)
	case "active":
		return reflector.Assign(&r.obj.Active, "Active", value)
	case "email":
		return reflector.Assign(&r.obj.Email, "Email", value)
	case "tags":
		return reflector.Assign(&r.obj.Tags, "Tags", value)
	case "address":
		return reflector.Assign(&r.obj.Address, "Address", value)
	case "born":
		return reflector.Assign(&r.obj.Born, "Born", value)
	}
	return reflector.UnknownProperty("Person", key)
}

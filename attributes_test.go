package reflector_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/internal/sample"
)

func TestDynamicAttributesMatchGenerated(t *testing.T) {
	p := sample.NewPerson("p1")
	d, err := reflector.New(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p.Reflector().Attributes(), d.Attributes(), typeComparer); diff != "" {
		t.Errorf("attributes (-generated +dynamic):\n%s", diff)
	}
}

func TestAttributeArguments(t *testing.T) {
	d, _ := reflector.New(sample.NewPerson("p1"))
	attrs := d.Attributes()
	if len(attrs) != 2 {
		t.Fatalf("got %d attributes", len(attrs))
	}
	entity := attrs[0]
	if entity.Type != reflect.TypeFor[sample.Entity]() {
		t.Errorf("type = %v", entity.Type)
	}
	if arg, ok := entity.Argument("TABLE"); !ok || arg.Value != "people" || arg.IsOptional {
		t.Errorf("table = %+v, %v", arg, ok)
	}
	if arg, ok := entity.Argument("schema"); !ok || arg.Value != "crm" || !arg.IsOptional {
		t.Errorf("schema = %+v, %v", arg, ok)
	}

	// Order panics on an Index without order; the argument degrades to nil
	order, ok := attrs[1].Argument("order")
	if !ok || order.Value != nil || order.DefaultValue != "asc" || !order.IsOptional {
		t.Errorf("order = %+v, %v", order, ok)
	}
}

func TestAttributesWithoutAnnotations(t *testing.T) {
	d, _ := reflector.New(&sample.Settings{})
	attrs := d.Attributes()
	if attrs == nil || len(attrs) != 0 {
		t.Errorf("attributes = %#v", attrs)
	}
	team := (&sample.Team{}).Reflector()
	if got := team.Attributes(); len(got) != 1 || got[0].Type != reflect.TypeFor[sample.Entity]() {
		t.Errorf("team attributes = %v", got)
	}
}

type brokenAnnotations struct {
	Name string
}

func (*brokenAnnotations) ReflectorAttributes() []any {
	panic("no annotations today")
}

type constructedOnly struct{}

func (constructedOnly) ConstructorParams() []reflector.Param {
	return []reflector.Param{{Name: "missing", Type: reflect.TypeFor[int]()}}
}

type withConstructed struct {
	Name string
}

func (*withConstructed) ReflectorAttributes() []any {
	return []any{nil, constructedOnly{}, sample.NewIndex([]string{"a", "b"}, "desc")}
}

func TestAttributesBestEffort(t *testing.T) {
	d, _ := reflector.New(&brokenAnnotations{})
	if attrs := d.Attributes(); attrs == nil || len(attrs) != 0 {
		t.Errorf("attributes of a panicking annotated type = %#v", attrs)
	}

	d, _ = reflector.New(&withConstructed{})
	want := []reflector.AttributeDescriptor{
		{
			Type: reflect.TypeFor[constructedOnly](),
			Arguments: []reflector.AttributeArgumentDescriptor{
				{Type: reflect.TypeFor[int](), Name: "missing"},
			},
		},
		{
			Type: reflect.TypeFor[sample.Index](),
			Arguments: []reflector.AttributeArgumentDescriptor{
				{Type: reflect.TypeFor[[]string](), Name: "fields", Value: []string{"a", "b"}},
				{Type: reflect.TypeFor[string](), Name: "order", Value: "desc", IsOptional: true, DefaultValue: "asc"},
				{Type: reflect.TypeFor[bool](), Name: "Unique", Value: false, IsOptional: true},
			},
		},
	}
	if diff := cmp.Diff(want, d.Attributes(), typeComparer); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
}

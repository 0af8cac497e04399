package reflector_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/internal/sample"
)

var typeComparer = cmp.Comparer(func(a, b reflect.Type) bool { return a == b })

func ptr[T any](v T) *T { return &v }

// reflectors returns the generated and the dynamic reflector of the same
// value.
func reflectors(t *testing.T, v reflector.HasReflector) map[string]reflector.Reflector {
	t.Helper()
	d, err := reflector.New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return map[string]reflector.Reflector{
		"generated": v.Reflector(),
		"dynamic":   d,
	}
}

func TestInterchangeableProperties(t *testing.T) {
	for _, v := range []reflector.HasReflector{sample.NewPerson("p1"), &sample.Team{}} {
		rs := reflectors(t, v)
		gen, dyn := rs["generated"].Properties(), rs["dynamic"].Properties()
		less := cmpopts.SortSlices(func(a, b reflector.PropertyDescriptor) bool { return a.Name < b.Name })
		if diff := cmp.Diff(gen, dyn, typeComparer, less); diff != "" {
			t.Errorf("%T properties differ (-generated +dynamic):\n%s", v, diff)
		}
	}
}

func TestInterchangeableGetSet(t *testing.T) {
	born := time.Date(1990, 5, 17, 8, 30, 0, 0, time.UTC)
	writes := map[string]any{
		"Name":    "Ada",
		"age":     36,
		"ACTIVE":  true,
		"Email":   "ada@example.com",
		"Tags":    []string{"math", "engines"},
		"Address": &sample.Address{City: "London"},
		"Born":    born,
	}
	dyn, err := reflector.New(sample.NewPerson("p1"))
	if err != nil {
		t.Fatal(err)
	}
	rs := map[string]reflector.Reflector{
		"generated": sample.NewPerson("p1").Reflector(),
		"dynamic":   dyn,
	}
	results := map[string]*sample.Person{}
	for name, r := range rs {
		for k, v := range writes {
			if err := r.Set(k, v); err != nil {
				t.Fatalf("%s: Set(%q): %v", name, k, err)
			}
		}
		got := map[string]any{}
		for _, p := range r.Properties() {
			v, err := r.Get(p.Name)
			if err != nil {
				t.Fatalf("%s: Get(%q): %v", name, p.Name, err)
			}
			got[p.Name] = v
		}
		want := map[string]any{
			"ID":      "p1",
			"Name":    "Ada",
			"Age":     36,
			"Active":  true,
			"Email":   ptr("ada@example.com"),
			"Tags":    []string{"math", "engines"},
			"Address": &sample.Address{City: "London"},
			"Born":    born,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: values (-want +got):\n%s", name, diff)
		}
		results[name] = r.ReflectedObject().(*sample.Person)
	}
	if diff := cmp.Diff(results["generated"], results["dynamic"], cmpopts.IgnoreUnexported(sample.Person{})); diff != "" {
		t.Errorf("objects differ (-generated +dynamic):\n%s", diff)
	}
}

func TestReflectedObjectIsShared(t *testing.T) {
	p := sample.NewPerson("p1")
	for name, r := range reflectors(t, p) {
		if r.ReflectedObject() != any(p) {
			t.Fatalf("%s: reflected object is not the original", name)
		}
		if err := r.Set("Name", name); err != nil {
			t.Fatal(err)
		}
		if p.Name != name {
			t.Errorf("%s: write not visible through original, got %q", name, p.Name)
		}
		p.Age = len(name)
		if v, _ := r.Get("Age"); v != len(name) {
			t.Errorf("%s: original write not visible, got %v", name, v)
		}
	}
}

func TestMemoizedReflector(t *testing.T) {
	p := sample.NewPerson("p1")
	if p.Reflector() != p.Reflector() {
		t.Error("generated reflector is not memoized")
	}
	if reflector.Of(p, false) != p.Reflector() {
		t.Error("Of did not return the generated reflector")
	}
}

func TestCopiedReflectorRebinds(t *testing.T) {
	p := sample.NewPerson("p1")
	p.Reflector()
	q := *p
	r := q.Reflector()
	if r.ReflectedObject() != any(&q) {
		t.Fatal("copied Person kept the reflector of the original")
	}
	if err := r.Set("Name", "Grace"); err != nil {
		t.Fatal(err)
	}
	if q.Name != "Grace" || p.Name != "" {
		t.Errorf("q.Name = %q, p.Name = %q", q.Name, p.Name)
	}

	tm := &sample.Team{}
	tm.Reflector()
	tc := *tm
	if tc.Reflector().ReflectedObject() != any(&tc) {
		t.Error("copied Team kept the reflector of the original")
	}
}

func TestCaseInsensitive(t *testing.T) {
	for name, r := range reflectors(t, &sample.Person{Name: "Grace"}) {
		for _, k := range []string{"Name", "name", "NAME", "nAmE"} {
			v, err := r.Get(k)
			if err != nil || v != "Grace" {
				t.Errorf("%s: Get(%q) = %v, %v", name, k, v, err)
			}
			if !reflector.HasProperty(r, k) {
				t.Errorf("%s: HasProperty(%q) = false", name, k)
			}
		}
		if err := r.Set("AGE", 80); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if v, _ := r.Get("age"); v != 80 {
			t.Errorf("%s: age = %v", name, v)
		}
		p, ok := reflector.TryGetPropertyInfo(r, "eMaIl")
		if !ok || p.Name != "Email" {
			t.Errorf("%s: TryGetPropertyInfo = %+v, %v", name, p, ok)
		}
	}
}

func TestUnknownProperty(t *testing.T) {
	for name, r := range reflectors(t, sample.NewPerson("p1")) {
		_, err := r.Get("doesNotExist")
		if !errors.Is(err, reflector.ErrUnknownProperty) {
			t.Errorf("%s: Get error = %v", name, err)
		}
		var perr *reflector.PropertyError
		if !errors.As(err, &perr) || perr.Type != "Person" || perr.Property != "doesNotExist" {
			t.Errorf("%s: Get error = %#v", name, err)
		}
		if err := r.Set("doesNotExist", 1); !errors.Is(err, reflector.ErrUnknownProperty) {
			t.Errorf("%s: Set error = %v", name, err)
		}
	}
}

func TestReadOnlyProperty(t *testing.T) {
	for name, r := range reflectors(t, sample.NewPerson("p1")) {
		p, _ := reflector.TryGetPropertyInfo(r, "ID")
		if p.HasSetter {
			t.Errorf("%s: ID has a setter", name)
		}
		if err := r.Set("id", "p2"); !errors.Is(err, reflector.ErrReadOnlyProperty) {
			t.Errorf("%s: Set error = %v", name, err)
		}
		if v, _ := r.Get("ID"); v != "p1" {
			t.Errorf("%s: ID changed to %v", name, v)
		}
	}
}

func TestTypeMismatch(t *testing.T) {
	for name, r := range reflectors(t, &sample.Person{Age: 7}) {
		err := r.Set("Age", "a string")
		if !errors.Is(err, reflector.ErrTypeMismatch) {
			t.Errorf("%s: Set error = %v", name, err)
		}
		if v, _ := r.Get("Age"); v != 7 {
			t.Errorf("%s: Age changed to %v", name, v)
		}
	}
}

func TestNullable(t *testing.T) {
	for name, r := range reflectors(t, &sample.Person{}) {
		if err := r.Set("Email", "a@b.c"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		s, err := reflector.GetAs[string](r, "Email")
		if err != nil || s != "a@b.c" {
			t.Errorf("%s: GetAs[string] = %q, %v", name, s, err)
		}
		if _, ok := reflector.TryGetAs[string](r, "Email"); ok {
			t.Errorf("%s: TryGetAs[string] matched a *string", name)
		}
		if p, ok := reflector.TryGetAs[*string](r, "Email"); !ok || *p != "a@b.c" {
			t.Errorf("%s: TryGetAs[*string] = %v, %v", name, p, ok)
		}
		if err := r.Set("Email", nil); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if v, _ := r.Get("Email"); v != (*string)(nil) {
			t.Errorf("%s: Email = %v after nil", name, v)
		}
		if s, err := reflector.GetAs[string](r, "Email"); err != nil || s != "" {
			t.Errorf("%s: GetAs[string] of nil = %q, %v", name, s, err)
		}
	}
}

func TestGetAsSetAs(t *testing.T) {
	for name, r := range reflectors(t, &sample.Person{Name: "Ada", Age: 36}) {
		if n, err := reflector.GetAs[int](r, "age"); err != nil || n != 36 {
			t.Errorf("%s: GetAs[int] = %d, %v", name, n, err)
		}
		if n, err := reflector.GetAs[int](r, "name"); err != nil || n != 0 {
			t.Errorf("%s: GetAs[int] of a string = %d, %v", name, n, err)
		}
		if _, err := reflector.GetAs[int](r, "missing"); !errors.Is(err, reflector.ErrUnknownProperty) {
			t.Errorf("%s: GetAs of missing = %v", name, err)
		}
		if err := reflector.SetAs(r, "Name", "Lovelace"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := reflector.SetAs(r, "Name", 3); !errors.Is(err, reflector.ErrTypeMismatch) {
			t.Errorf("%s: SetAs mismatch = %v", name, err)
		}
		if v, _ := r.Get("Name"); v != "Lovelace" {
			t.Errorf("%s: Name = %v", name, v)
		}
	}
}

func TestInterfaceProperty(t *testing.T) {
	for name, r := range reflectors(t, &sample.Team{}) {
		dog := &sample.Dog{Name: "Rex"}
		if err := r.Set("Mascot", dog); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		team := r.ReflectedObject().(*sample.Team)
		if team.Mascot != sample.Pet(dog) {
			t.Errorf("%s: Mascot = %v", name, team.Mascot)
		}
		if err := r.Set("Mascot", sample.Dog{}); !errors.Is(err, reflector.ErrTypeMismatch) {
			t.Errorf("%s: value Dog should not be a Pet: %v", name, err)
		}
		if err := r.Set("Mascot", nil); err != nil || team.Mascot != nil {
			t.Errorf("%s: clearing Mascot = %v, %v", name, team.Mascot, err)
		}
	}
}

func TestOf(t *testing.T) {
	if r := reflector.Of(&sample.Settings{}, false); r != nil {
		t.Errorf("Of without fallback = %T", r)
	}
	if r := reflector.Of(&sample.Settings{}, true); r == nil {
		t.Error("Of with fallback = nil")
	} else if _, ok := r.(*reflector.Dynamic); !ok {
		t.Errorf("Of with fallback = %T", r)
	}
	if r := reflector.Of(sample.Settings{}, true); r != nil {
		t.Errorf("Of(non-pointer) = %T", r)
	}
	if r := reflector.Of(nil, true); r != nil {
		t.Errorf("Of(nil) = %T", r)
	}
}

func TestMustOfPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, reflector.ErrNoReflector) {
			t.Errorf("recovered %v", r)
		}
	}()
	n := 3
	reflector.MustOf(&n)
}

func TestNewRejects(t *testing.T) {
	var nilSettings *sample.Settings
	n := 3
	for _, v := range []any{nil, sample.Settings{}, nilSettings, &n} {
		if _, err := reflector.New(v); !errors.Is(err, reflector.ErrNotReflectable) {
			t.Errorf("New(%T) = %v", v, err)
		}
	}
}

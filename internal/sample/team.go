package sample

import (
	"reflect"
	"time"

	"github.com/signadot/go-reflector"
)

// Pet is satisfied by *Dog and *Cat.
type Pet interface {
	Species() string
}

type Dog struct {
	Name string
}

func (*Dog) Species() string { return "dog" }

type Cat struct {
	Name  string
	Lives int
}

func (*Cat) Species() string { return "cat" }

type Team struct {
	Name    string
	Lead    *Person
	Members []*Person
	Mascot  Pet
	Scores  map[string]int
	Budget  *float64
	Logo    []byte
	Created time.Time
	Version int `reflector:"readonly"`

	refl *reflector.Static[Team]
}

var teamTable = reflector.NewTable(
	reflector.TableProperty[Team]{
		Name: "Name", Type: reflect.TypeFor[string](),
		Get: func(t *Team) any { return t.Name },
		Set: func(t *Team, v any) { t.Name = v.(string) },
	},
	reflector.TableProperty[Team]{
		Name: "Lead", Type: reflect.TypeFor[*Person](),
		Get: func(t *Team) any { return t.Lead },
		Set: func(t *Team, v any) { t.Lead = v.(*Person) },
	},
	reflector.TableProperty[Team]{
		Name: "Members", Type: reflect.TypeFor[[]*Person](),
		Get: func(t *Team) any { return t.Members },
		Set: func(t *Team, v any) { t.Members = v.([]*Person) },
	},
	reflector.TableProperty[Team]{
		Name: "Mascot", Type: reflect.TypeFor[Pet](),
		Get: func(t *Team) any { return t.Mascot },
		Set: func(t *Team, v any) { t.Mascot, _ = v.(Pet) },
	},
	reflector.TableProperty[Team]{
		Name: "Scores", Type: reflect.TypeFor[map[string]int](),
		Get: func(t *Team) any { return t.Scores },
		Set: func(t *Team, v any) { t.Scores = v.(map[string]int) },
	},
	reflector.TableProperty[Team]{
		Name: "Budget", Type: reflect.TypeFor[*float64](),
		Get: func(t *Team) any { return t.Budget },
		Set: func(t *Team, v any) { t.Budget = v.(*float64) },
	},
	reflector.TableProperty[Team]{
		Name: "Logo", Type: reflect.TypeFor[[]byte](),
		Get: func(t *Team) any { return t.Logo },
		Set: func(t *Team, v any) { t.Logo = v.([]byte) },
	},
	reflector.TableProperty[Team]{
		Name: "Created", Type: reflect.TypeFor[time.Time](),
		Get: func(t *Team) any { return t.Created },
		Set: func(t *Team, v any) { t.Created = v.(time.Time) },
	},
	reflector.TableProperty[Team]{
		Name: "Version", Type: reflect.TypeFor[int](),
		Get: func(t *Team) any { return t.Version },
	},
).WithAttributes(reflector.AttributeDescriptor{
	Type: reflect.TypeFor[Entity](),
	Arguments: []reflector.AttributeArgumentDescriptor{
		{Type: reflect.TypeFor[string](), Name: "table", Value: "teams"},
	},
})

func (t *Team) Reflector() reflector.Reflector {
	if t.refl == nil || t.refl.ReflectedObject() != any(t) {
		t.refl = teamTable.Bind(t)
	}
	return t.refl
}

// Settings has no generated reflector.
type Settings struct {
	IsActive   bool
	MaxRetries int
	Endpoint   string
	Labels     map[string]string
	Timeout    time.Duration
	internal   int
}

// Owner has no generated reflector. Its Pet field accepts any Pet.
type Owner struct {
	Name string
	Pet  Pet
	Base
	*Audit
}

// Base is embedded by Owner; its fields are promoted.
type Base struct {
	Created time.Time
	Note    string `reflector:"-"`
}

type Audit struct {
	ModifiedBy string
}

package sample

import (
	"reflect"

	"github.com/signadot/go-reflector"
)

// Entity marks a type as stored in Table. Table is positional, Schema is
// named.
type Entity struct {
	table  string
	Schema string
}

func NewEntity(table string) Entity {
	return Entity{table: table}
}

func (e Entity) Table() string {
	return e.table
}

func (Entity) ConstructorParams() []reflector.Param {
	return []reflector.Param{
		{Name: "table", Type: reflect.TypeFor[string]()},
	}
}

// Index declares an index over Fields. Order defaults to "asc"; reading it
// on an Index built without NewIndex panics.
type Index struct {
	Fields []string
	Unique bool
	order  *string
}

func NewIndex(fields []string, order string) *Index {
	return &Index{Fields: fields, order: &order}
}

func (i *Index) Order() string {
	return *i.order
}

func (*Index) ConstructorParams() []reflector.Param {
	return []reflector.Param{
		{Name: "fields", Type: reflect.TypeFor[[]string]()},
		{Name: "order", Type: reflect.TypeFor[string](), Default: "asc", HasDefault: true},
	}
}

package reflector

import (
	"maps"
	"slices"
	"strings"
)

// Entry is one property name and value of a Values snapshot.
type Entry struct {
	Name  string
	Value any
}

// Values is an ordered snapshot of property values, in descriptor order.
type Values []Entry

// Lookup returns the value stored under name, compared case-insensitively.
func (vs Values) Lookup(name string) (any, bool) {
	for _, e := range vs {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return nil, false
}

// Names returns the property names in order.
func (vs Values) Names() []string {
	res := make([]string, len(vs))
	for i, e := range vs {
		res[i] = e.Name
	}
	return res
}

// Map returns the snapshot as a map keyed by property name.
func (vs Values) Map() map[string]any {
	res := make(map[string]any, len(vs))
	for _, e := range vs {
		res[e.Name] = e.Value
	}
	return res
}

// ToMap takes a shallow snapshot of every non-nil property value of r.
// Nested reflectable values are stored as they are.
func ToMap(r Reflector) Values {
	res := Values{}
	if r == nil {
		return res
	}
	for _, p := range safeProperties(r) {
		v, err := safeGet(r, p.Name)
		if err != nil || isNil(v) {
			continue
		}
		res = append(res, Entry{Name: p.Name, Value: v})
	}
	return res
}

// ApplyMap sets every entry of values that TrySet accepts and skips the
// rest. Keys are applied in sorted order. It returns the number of
// properties set.
func ApplyMap(r Reflector, values map[string]any) int {
	n := 0
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if TrySet(r, k, values[k]) {
			n++
		}
	}
	return n
}

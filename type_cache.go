package reflector

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/go-reflector/internal/debug"
)

// typeInfo is the scan result for one struct type. It is never modified
// after it has been stored in typeCache.
type typeInfo struct {
	typ    reflect.Type
	props  []PropertyDescriptor
	fields []fieldInfo
	byKey  map[string]int
}

type fieldInfo struct {
	index []int
}

// typeCache is shared by all Dynamic reflectors: map[reflect.Type]*typeInfo.
// Entries are inserted once and never evicted.
var typeCache sync.Map

func typeInfoOf(t reflect.Type) *typeInfo {
	if ti, ok := typeCache.Load(t); ok {
		return ti.(*typeInfo)
	}
	ti := scanType(t)
	actual, loaded := typeCache.LoadOrStore(t, ti)
	if debug.Scan() {
		debug.Log().Debug("scanned type",
			"type", t.String(),
			"properties", len(ti.props),
			"discarded", loaded)
	}
	return actual.(*typeInfo)
}

func scanType(t reflect.Type) *typeInfo {
	ti := &typeInfo{
		typ:   t,
		byKey: map[string]int{},
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || isEmbeddedStruct(sf) {
			continue
		}
		opts := strings.Split(sf.Tag.Get("reflector"), ",")
		if opts[0] == "-" {
			continue
		}
		key := canonical(sf.Name)
		if _, dup := ti.byKey[key]; dup {
			// names differing only in case resolve to the first declared
			continue
		}
		readOnly := slices.Contains(opts, "readonly") || behindUnexportedPointer(t, sf.Index)
		ti.byKey[key] = len(ti.props)
		ti.props = append(ti.props, PropertyDescriptor{
			Name:      sf.Name,
			Type:      sf.Type,
			HasSetter: !readOnly,
		})
		ti.fields = append(ti.fields, fieldInfo{index: sf.Index})
	}
	return ti
}

func isEmbeddedStruct(sf reflect.StructField) bool {
	if !sf.Anonymous {
		return false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// behindUnexportedPointer reports whether the field at index is promoted
// through an unexported embedded pointer, which cannot be allocated from
// outside the declaring package.
func behindUnexportedPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		t = f.Type
		if t.Kind() == reflect.Pointer {
			if !f.IsExported() {
				return true
			}
			t = t.Elem()
		}
	}
	return false
}

// fieldAt walks index from the struct value v. Nil embedded pointers on the
// way are allocated when alloc is set; otherwise fieldAt reports false.
func fieldAt(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

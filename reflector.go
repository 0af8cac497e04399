package reflector

import "github.com/signadot/go-reflector/internal/debug"

// Reflector is the capability every backing implementation satisfies,
// whether generated ahead of time or discovered at run time.
//
// Get and Set resolve keys case-insensitively against Properties. Get
// reports ErrUnknownProperty; Set reports ErrUnknownProperty,
// ErrReadOnlyProperty or ErrTypeMismatch, all wrapped in a *PropertyError.
type Reflector interface {
	// ReflectedObject returns the reflected value itself, not a copy.
	ReflectedObject() any
	// Properties returns the property descriptors in a deterministic order.
	Properties() []PropertyDescriptor
	// Attributes returns the annotations of the reflected type, never nil.
	Attributes() []AttributeDescriptor
	Get(key string) (any, error)
	Set(key string, value any) error
}

// HasReflector is implemented by types carrying a generated reflector.
// Implementations create the reflector on first use and return the same
// instance afterwards.
type HasReflector interface {
	Reflector() Reflector
}

// Of returns the reflector for v. A generated reflector is preferred; when v
// has none and fallback is set, a Dynamic reflector is returned. Of returns
// nil when no reflector is available.
func Of(v any, fallback bool) Reflector {
	if v == nil {
		return nil
	}
	if h, ok := v.(HasReflector); ok {
		if r := h.Reflector(); r != nil {
			return r
		}
	}
	if !fallback {
		return nil
	}
	d, err := New(v)
	if err != nil {
		if debug.Scan() {
			debug.Log().Debug("no dynamic reflector", "type", typeName(v), "error", err)
		}
		return nil
	}
	return d
}

// MustOf is like Of with fallback but panics when v cannot be reflected.
func MustOf(v any) Reflector {
	r := Of(v, true)
	if r == nil {
		panic(ErrNoReflector)
	}
	return r
}

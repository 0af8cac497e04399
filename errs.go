package reflector

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProperty  = errors.New("unknown property")
	ErrReadOnlyProperty = errors.New("read-only property")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNoReflector      = errors.New("no reflector available")
	ErrNotReflectable   = errors.New("value is not reflectable")
)

// PropertyError reports a failed strict access to a named property.
// Err is one of the sentinel errors of this package.
type PropertyError struct {
	Type     string // Name of the reflected type, may be empty
	Property string
	Detail   string
	Err      error
}

func (e *PropertyError) Error() string {
	var msg string
	switch {
	case e.Type != "":
		msg = fmt.Sprintf("property %q on %s: %v", e.Property, e.Type, e.Err)
	default:
		msg = fmt.Sprintf("property %q: %v", e.Property, e.Err)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// UnknownProperty returns the error Get and Set report for a key that matches
// no descriptor.
func UnknownProperty(typeName, key string) error {
	return &PropertyError{Type: typeName, Property: key, Err: ErrUnknownProperty}
}

// ReadOnlyProperty returns the error Set reports for a property without a
// setter.
func ReadOnlyProperty(typeName, key string) error {
	return &PropertyError{Type: typeName, Property: key, Err: ErrReadOnlyProperty}
}

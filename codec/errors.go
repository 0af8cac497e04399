package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-reflector"
)

// ErrFormat is matched by errors caused by input that does not have the
// expected token shape, and by every *UnmarshalError except those caused by
// a missing reflector.
var ErrFormat = errors.New("format error")

// MarshalError represents an error during marshaling
type MarshalError struct {
	FieldPath string // Field path (e.g., "Team.Lead.Address.City")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error during unmarshaling
type UnmarshalError struct {
	FieldPath string // Field path (e.g., "Lead.Tags[2]")
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// Is reports every unmarshal error as ErrFormat except a missing reflector.
func (e *UnmarshalError) Is(target error) bool {
	return target == ErrFormat && !errors.Is(e.Err, reflector.ErrNoReflector)
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	}
	return parent + "." + child
}

// marshalErr attributes err to the value at path unless it already is a
// *MarshalError.
func marshalErr(path string, err error) error {
	var me *MarshalError
	if errors.As(err, &me) {
		return err
	}
	return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
}

func unmarshalErr(path string, err error) error {
	var ue *UnmarshalError
	if errors.As(err, &ue) {
		return err
	}
	return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
}

func unexpected(path, want string, got Token) error {
	return &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("expected %s, got %s", want, got),
		Err:       ErrFormat,
	}
}

func prematureEOF(path string) error {
	return &UnmarshalError{FieldPath: path, Message: "unexpected end of input", Err: io.ErrUnexpectedEOF}
}

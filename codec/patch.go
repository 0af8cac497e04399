package codec

import (
	"errors"
	"fmt"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/format"
	"github.com/signadot/go-reflector/naming"
)

// MergePatch applies an RFC 7386 merge patch to v in place. Patch keys are
// property names, matched case-insensitively whatever the naming policy;
// read-only properties are left unchanged.
func (c *Codec[T]) MergePatch(v *T, patch []byte) error {
	return c.patch(v, func(doc []byte) ([]byte, error) {
		return jsonpatch.MergePatch(doc, patch)
	})
}

// ApplyPatch applies an RFC 6902 JSON patch to v in place. Paths refer to
// the JSON encoding of v under its property names.
func (c *Codec[T]) ApplyPatch(v *T, patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return c.patch(v, ops.Apply)
}

func (c *Codec[T]) patch(v *T, apply func([]byte) ([]byte, error)) error {
	if v == nil {
		return fmt.Errorf("%w: patch target is nil", reflector.ErrNotReflectable)
	}
	pc := &Codec[T]{engine: c.engine}
	pc.cfg.naming = naming.Identity
	doc, err := pc.marshal(v, format.JSONFormat)
	if err != nil {
		return err
	}
	out, err := apply(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	patched, err := pc.Unmarshal(out, format.JSONFormat)
	if err != nil {
		return err
	}
	if patched == nil {
		return &UnmarshalError{Message: "patch replaced the document with null", Err: ErrFormat}
	}
	dst, src := c.resolve(v), c.resolve(patched)
	if dst == nil || src == nil {
		return noReflector("", reflect.TypeOf(v))
	}
	var errs []error
	for _, p := range dst.Properties() {
		if !p.HasSetter {
			continue
		}
		val, err := src.Get(p.Name)
		if err == nil {
			err = dst.Set(p.Name, val)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

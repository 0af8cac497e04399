package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/format"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	switch len(args) {
	case 1:
		args = append(args, "-")
	case 2:
	default:
		return fmt.Errorf("%w: expected <patchfile> [file]", cli.ErrUsage)
	}
	pf, err := cfg.patchFormat(args[0])
	if err != nil {
		return err
	}
	patchDoc, err := readJSON(args[0], pf)
	if err != nil {
		return err
	}
	df, err := cfg.inFormat(args[1])
	if err != nil {
		return err
	}
	doc, err := readJSON(args[1], df)
	if err != nil {
		return err
	}
	apply := applyPatch
	if cfg.Type != "" {
		st, err := lookupSample(cfg.Type)
		if err != nil {
			return err
		}
		apply = st.patch
	}
	res, err := apply(doc, patchDoc, cfg.RFC6902)
	if err != nil {
		return err
	}
	w, err := cfg.newWriter(cc.Out)
	if err != nil {
		return err
	}
	if _, err := transcode(w, bytes.NewReader(res), format.JSONFormat); err != nil {
		return err
	}
	return w.Flush()
}

func (cfg *PatchConfig) patchFormat(file string) (format.Format, error) {
	if cfg.PatchIn != "" {
		f, err := format.ParseFormat(cfg.PatchIn)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		return f, nil
	}
	if file == "-" {
		return format.JSONFormat, nil
	}
	f, err := format.FromPath(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %w (use -pfmt)", cli.ErrUsage, err)
	}
	return f, nil
}

// readJSON reads the first document of file and returns it as json.
func readJSON(file string, f format.Format) ([]byte, error) {
	in, err := open(file)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	d, err := toJSON(in, f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return d, nil
}

func toJSON(r io.Reader, f format.Format) ([]byte, error) {
	cr, err := codec.NewReader(r, f)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := codec.NewJSONWriter(buf)
	if err := codec.Copy(w, cr); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", codec.ErrFormat)
		}
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// typedPatch decodes doc as a T and patches it through the codec, so
// unknown members are dropped and read-only properties keep their values.
func typedPatch[T any](doc, patchDoc []byte, rfc6902 bool) ([]byte, error) {
	c := codec.New[T]()
	v, err := c.Unmarshal(doc, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: document is null", codec.ErrFormat)
	}
	if rfc6902 {
		err = c.ApplyPatch(v, patchDoc)
	} else {
		err = c.MergePatch(v, patchDoc)
	}
	if err != nil {
		return nil, err
	}
	return c.Marshal(v, format.JSONFormat)
}

// applyPatch patches doc as plain json, with no type behind it.
func applyPatch(doc, patchDoc []byte, rfc6902 bool) ([]byte, error) {
	if !rfc6902 {
		res, err := jsonpatch.MergePatch(doc, patchDoc)
		if err != nil {
			return nil, fmt.Errorf("merge patch: %w", err)
		}
		return res, nil
	}
	ops, err := jsonpatch.DecodePatch(patchDoc)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	res, err := ops.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return res, nil
}

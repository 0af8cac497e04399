package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/format"
)

func conv(cfg *ConvConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Conv.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	w, err := cfg.newWriter(cc.Out)
	if err != nil {
		return err
	}
	for _, file := range args {
		if err := convFile(cfg.MainConfig, w, file); err != nil {
			return err
		}
	}
	return w.Flush()
}

func convFile(cfg *MainConfig, w codec.Writer, file string) error {
	f, err := cfg.inFormat(file)
	if err != nil {
		return err
	}
	in, err := open(file)
	if err != nil {
		return err
	}
	defer in.Close()
	n, err := transcode(w, in, f)
	if err != nil {
		return fmt.Errorf("error processing %s: %w", file, err)
	}
	theLog.Debug("converted", "file", file, "from", f, "to", cfg.outFormat(), "documents", n)
	return nil
}

// transcode copies every document of r, in format f, to w and returns the
// number of documents copied. w is not flushed.
func transcode(w codec.Writer, r io.Reader, f format.Format) (int, error) {
	cr, err := codec.NewReader(r, f)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		err := codec.Copy(w, cr)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("document %d: %w", n, err)
		}
		n++
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/format"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode json with color'"`
	Indent  string `cli:"name=indent desc='indentation for nested values'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log progress to stderr'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat gives the format of the input named by path, "-" being stdin.
func (cfg *MainConfig) inFormat(path string) (format.Format, error) {
	if cfg.InFormat != nil {
		return *cfg.InFormat, nil
	}
	if path == "-" {
		return format.JSONFormat, nil
	}
	f, err := format.FromPath(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w (use -I)", cli.ErrUsage, err)
	}
	return f, nil
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.JSONFormat
}

func (cfg *MainConfig) writerOpts(w io.Writer) []codec.WriterOption {
	res := []codec.WriterOption{codec.WithIndent(cfg.Indent)}
	if cfg.Color {
		return append(res, codec.WithColorOutput(codec.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, codec.WithColorOutput(codec.NewColors()))
	}
	return res
}

func (cfg *MainConfig) newWriter(w io.Writer) (codec.Writer, error) {
	return codec.NewWriter(w, cfg.outFormat(), cfg.writerOpts(w)...)
}

type ConvConfig struct {
	*MainConfig

	Conv *cli.Command
}

type PatchConfig struct {
	*MainConfig
	RFC6902 bool   `cli:"name=rfc6902 desc='treat the patch as an RFC 6902 operation list'"`
	PatchIn string `cli:"name=pfmt desc='patch file format (default from file suffix)'"`
	Type    string `cli:"name=type desc='patch through the reflector of a sample type (person, team, settings, owner)'"`

	Patch *cli.Command
}

type PropsConfig struct {
	*MainConfig
	Dynamic bool `cli:"name=dynamic desc='use the dynamic reflector even when a generated one exists'"`

	Props *cli.Command
}

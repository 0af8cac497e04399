package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/internal/sample"
)

type sampleType struct {
	mk    func() any
	patch func(doc, patch []byte, rfc6902 bool) ([]byte, error)
}

var sampleTypes = map[string]sampleType{
	"person":   {func() any { return sample.NewPerson("") }, typedPatch[sample.Person]},
	"team":     {func() any { return &sample.Team{} }, typedPatch[sample.Team]},
	"settings": {func() any { return &sample.Settings{} }, typedPatch[sample.Settings]},
	"owner":    {func() any { return &sample.Owner{} }, typedPatch[sample.Owner]},
}

func lookupSample(name string) (sampleType, error) {
	st, ok := sampleTypes[strings.ToLower(name)]
	if !ok {
		return sampleType{}, fmt.Errorf("%w: unknown type %q, expected one of %s", cli.ErrUsage, name, strings.Join(sampleNames(), ", "))
	}
	return st, nil
}

func props(cfg *PropsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Props.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one of %s", cli.ErrUsage, strings.Join(sampleNames(), ", "))
	}
	st, err := lookupSample(args[0])
	if err != nil {
		return err
	}
	var r reflector.Reflector
	if cfg.Dynamic {
		r, err = reflector.New(st.mk())
		if err != nil {
			return err
		}
	} else {
		r = reflector.MustOf(st.mk())
	}
	theLog.Debug("reflecting", "type", args[0], "reflector", fmt.Sprintf("%T", r))
	w, err := cfg.newWriter(cc.Out)
	if err != nil {
		return err
	}
	if err := writeProps(w, r); err != nil {
		return err
	}
	return w.Flush()
}

func sampleNames() []string {
	res := make([]string, 0, len(sampleTypes))
	for k := range sampleTypes {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// writeProps writes the properties of r as one document. The document is an
// object so that every output format can hold it.
func writeProps(w codec.Writer, r reflector.Reflector) error {
	toks := []codec.Token{codec.BeginObjectToken, codec.NameToken("properties"), codec.BeginArrayToken}
	for _, p := range r.Properties() {
		toks = append(toks,
			codec.BeginObjectToken,
			codec.NameToken("name"), codec.StringToken(p.Name),
			codec.NameToken("type"), codec.StringToken(p.Type.String()),
			codec.NameToken("settable"), codec.BoolToken(p.HasSetter),
			codec.EndObjectToken)
	}
	toks = append(toks, codec.EndArrayToken, codec.NameToken("attributes"), codec.BeginArrayToken)
	for _, a := range r.Attributes() {
		toks = append(toks, codec.BeginObjectToken, codec.NameToken("type"), codec.StringToken(a.Type.String()))
		toks = append(toks, codec.NameToken("arguments"), codec.BeginArrayToken)
		for _, arg := range a.Arguments {
			toks = append(toks,
				codec.BeginObjectToken,
				codec.NameToken("name"), codec.StringToken(arg.Name),
				codec.NameToken("value"), codec.StringToken(fmt.Sprint(arg.Value)),
				codec.NameToken("optional"), codec.BoolToken(arg.IsOptional),
				codec.EndObjectToken)
		}
		toks = append(toks, codec.EndArrayToken, codec.EndObjectToken)
	}
	toks = append(toks, codec.EndArrayToken, codec.EndObjectToken)
	for _, t := range toks {
		if err := w.WriteToken(t); err != nil {
			return err
		}
	}
	return nil
}

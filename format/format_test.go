package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSONFormat},
		{"J", JSONFormat},
		{"yml", YAMLFormat},
		{"yaml", YAMLFormat},
		{"toml", TOMLFormat},
		{"t", TOMLFormat},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("ParseFormat(xml) = %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil || g != f {
			t.Errorf("%s: got %v, %v", f, g, err)
		}
		if got, err := FromPath("config" + f.Suffix()); err != nil || got != f {
			t.Errorf("FromPath(%s) = %v, %v", f.Suffix(), got, err)
		}
	}
	if _, err := Format(9).MarshalText(); err == nil {
		t.Error("MarshalText of 9 succeeded")
	}
	if _, err := FromPath("Makefile"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("FromPath(Makefile) = %v", err)
	}
}

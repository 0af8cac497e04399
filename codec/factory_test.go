package codec_test

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/internal/sample"
)

type exploding struct {
	Name string
}

func (*exploding) Reflector() reflector.Reflector {
	panic("generator bug")
}

func TestCanConvert(t *testing.T) {
	strict := codec.NewFactory(codec.Fallback(false))
	loose := codec.NewFactory()
	tests := []struct {
		name          string
		typ           reflect.Type
		strict, loose bool
	}{
		{"generated", reflect.TypeFor[sample.Person](), true, true},
		{"generated pointer", reflect.TypeFor[*sample.Team](), true, true},
		{"dynamic only", reflect.TypeFor[sample.Settings](), false, true},
		{"text marshaler", reflect.TypeFor[time.Time](), false, false},
		{"not a struct", reflect.TypeFor[int](), false, false},
		{"interface", reflect.TypeFor[sample.Pet](), false, false},
		{"panicking probe", reflect.TypeFor[exploding](), false, true},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.strict, strict.CanConvert(tt.typ), "without fallback")
			require.Equal(t, tt.loose, loose.CanConvert(tt.typ), "with fallback")
		})
	}
	dynamicOnly := codec.NewFactory(codec.PreferGenerated(false), codec.Fallback(false))
	require.False(t, dynamicOnly.CanConvert(reflect.TypeFor[sample.Person]()))
}

func TestFactoryRoundTrip(t *testing.T) {
	f := codec.NewFactory()
	in := &sample.Team{Name: "ops", Scores: map[string]int{"x": 1}}

	buf := &bytes.Buffer{}
	w := codec.NewJSONWriter(buf)
	require.NoError(t, f.Encode(w, in))
	require.NoError(t, f.Encode(w, nil))
	require.NoError(t, w.Flush())

	r := codec.NewJSONReader(buf)
	out, err := f.Decode(r, reflect.TypeFor[*sample.Team]())
	require.NoError(t, err)
	if diff := cmp.Diff(in, out, personOpts...); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	out, err = f.Decode(r, reflect.TypeFor[*sample.Team]())
	require.NoError(t, err)
	require.Nil(t, out)

	value, err := f.Decode(codec.NewJSONReader(bytes.NewReader([]byte(`{"Endpoint":"v"}`))), reflect.TypeFor[sample.Settings]())
	require.NoError(t, err)
	require.Equal(t, sample.Settings{Endpoint: "v"}, value)
}

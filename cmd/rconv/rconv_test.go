package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signadot/go-reflector"
	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/format"
	"github.com/signadot/go-reflector/internal/sample"
)

func TestMainCommand(t *testing.T) {
	require.NotPanics(t, func() { MainCommand() })
}

func TestTranscode(t *testing.T) {
	in := "name: a\nn: 1\n---\nname: b\ntags: [x, y]\n"
	buf := &bytes.Buffer{}
	w := codec.NewJSONWriter(buf)
	n, err := transcode(w, strings.NewReader(in), format.YAMLFormat)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, n)
	assert.Equal(t, "{\"name\":\"a\",\"n\":1}\n{\"name\":\"b\",\"tags\":[\"x\",\"y\"]}\n", buf.String())
}

func TestTranscodeTOMLRejectsSecondDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewTOMLWriter(buf)
	_, err := transcode(w, strings.NewReader(`{"a":1} {"a":2}`), format.JSONFormat)
	require.ErrorIs(t, err, codec.ErrFormat)
}

func TestToJSONEmpty(t *testing.T) {
	_, err := toJSON(strings.NewReader(""), format.JSONFormat)
	require.ErrorIs(t, err, codec.ErrFormat)
}

func TestApplyPatch(t *testing.T) {
	doc := []byte(`{"name":"a","tags":["x"],"n":1}`)

	res, err := applyPatch(doc, []byte(`{"n":null,"name":"b"}`), false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b","tags":["x"]}`, string(res))

	res, err = applyPatch(doc, []byte(`[{"op":"add","path":"/tags/-","value":"y"}]`), true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","tags":["x","y"],"n":1}`, string(res))

	_, err = applyPatch(doc, []byte(`{"op":"add"}`), true)
	require.Error(t, err)
}

func TestTypedPatch(t *testing.T) {
	doc := []byte(`{"Name":"db","MaxRetries":1,"Extra":true}`)

	res, err := typedPatch[sample.Settings](doc, []byte(`{"maxretries":3,"Other":1}`), false)
	require.NoError(t, err)
	out := string(res)
	assert.Contains(t, out, `"MaxRetries":3`)
	assert.NotContains(t, out, "Extra")
	assert.NotContains(t, out, "Other")

	res, err = typedPatch[sample.Settings](doc, []byte(`[{"op":"replace","path":"/Endpoint","value":"db:5432"}]`), true)
	require.NoError(t, err)
	assert.Contains(t, string(res), `"Endpoint":"db:5432"`)

	_, err = typedPatch[sample.Settings](doc, []byte(`{"MaxRetries":"many"}`), false)
	require.ErrorIs(t, err, codec.ErrFormat)

	_, err = lookupSample("widget")
	require.Error(t, err)
	st, err := lookupSample("Person")
	require.NoError(t, err)
	res, err = st.patch([]byte(`{"ID":"p1","Name":"Ada"}`), []byte(`{"ID":"forged","Name":"Grace"}`), false)
	require.NoError(t, err)
	assert.Contains(t, string(res), `"ID":""`)
	assert.Contains(t, string(res), `"Name":"Grace"`)
}

func TestWriteProps(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewJSONWriter(buf)
	require.NoError(t, writeProps(w, reflector.MustOf(sample.NewPerson("p1"))))
	require.NoError(t, w.Flush())
	out := buf.String()
	assert.Contains(t, out, `{"name":"ID","type":"string","settable":false}`)
	assert.Contains(t, out, `{"name":"Email","type":"*string","settable":true}`)
	assert.Contains(t, out, `"type":"sample.Entity"`)
	assert.Contains(t, out, `{"name":"table","value":"people","optional":false}`)
}

func TestWritePropsTOML(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewTOMLWriter(buf)
	d, err := reflector.New(&sample.Settings{})
	require.NoError(t, err)
	require.NoError(t, writeProps(w, d))
	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), `name = "MaxRetries"`)
}

func TestInFormat(t *testing.T) {
	cfg := &MainConfig{}
	f, err := cfg.inFormat("x.yml")
	require.NoError(t, err)
	assert.Equal(t, format.YAMLFormat, f)

	f, err = cfg.inFormat("-")
	require.NoError(t, err)
	assert.Equal(t, format.JSONFormat, f)

	_, err = cfg.inFormat("x.txt")
	require.Error(t, err)

	toml := format.TOMLFormat
	cfg.InFormat = &toml
	f, err = cfg.inFormat("x.yml")
	require.NoError(t, err)
	assert.Equal(t, format.TOMLFormat, f)
}

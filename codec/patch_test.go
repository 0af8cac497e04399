package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signadot/go-reflector/codec"
	"github.com/signadot/go-reflector/internal/sample"
	"github.com/signadot/go-reflector/naming"
)

func TestMergePatch(t *testing.T) {
	p := sample.NewPerson("p1")
	p.Name, p.Age, p.Email = "Ada", 36, ptr("ada@example.com")
	c := codec.New[sample.Person]()

	err := c.MergePatch(p, []byte(`{"Name":"Ada Lovelace","Email":null,"ID":"forged","Address":{"City":"London"}}`))
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, "Ada Lovelace", p.Name)
	require.Equal(t, 36, p.Age)
	require.Nil(t, p.Email)
	require.Equal(t, &sample.Address{City: "London"}, p.Address)
}

func TestMergePatchNaming(t *testing.T) {
	s := &sample.Settings{MaxRetries: 1}
	c := codec.New[sample.Settings](codec.Naming(naming.SnakeCase))
	s.Endpoint = "db:5432"
	require.NoError(t, c.MergePatch(s, []byte(`{"maxretries":5,"Labels":{"env":"prod"},"is_active":true}`)))
	require.Equal(t, 5, s.MaxRetries)
	require.Equal(t, map[string]string{"env": "prod"}, s.Labels)
	require.Equal(t, "db:5432", s.Endpoint)
	require.False(t, s.IsActive)

	require.NoError(t, c.ApplyPatch(s, []byte(`[{"op": "replace", "path": "/MaxRetries", "value": 6}]`)))
	require.Equal(t, 6, s.MaxRetries)
}

func TestApplyPatch(t *testing.T) {
	p := &sample.Person{Name: "Ada", Tags: []string{"math"}}
	c := codec.New[sample.Person]()
	err := c.ApplyPatch(p, []byte(`[
		{"op": "replace", "path": "/Age", "value": 41},
		{"op": "add", "path": "/Tags/-", "value": "engines"},
		{"op": "test", "path": "/Name", "value": "Ada"}
	]`))
	require.NoError(t, err)
	require.Equal(t, 41, p.Age)
	require.Equal(t, []string{"math", "engines"}, p.Tags)

	err = c.ApplyPatch(p, []byte(`[{"op": "test", "path": "/Name", "value": "Grace"}]`))
	require.ErrorIs(t, err, codec.ErrFormat)
	require.Equal(t, 41, p.Age)

	err = c.ApplyPatch(p, []byte(`{"op": "oops"}`))
	require.ErrorIs(t, err, codec.ErrFormat)

	err = c.ApplyPatch(p, []byte(`[{"op": "replace", "path": "/Age", "value": "old"}]`))
	var ue *codec.UnmarshalError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "Age", ue.FieldPath)
	require.Equal(t, 41, p.Age)
}

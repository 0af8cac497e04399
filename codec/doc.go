// Package codec encodes and decodes values whose properties are reached
// through a reflector.Reflector.
//
// Encoding and decoding run over token streams (Reader and Writer) so the
// same structured codec works for JSON, YAML and TOML. A value is written
// as an object with one member per property, in descriptor order, named by
// the configured naming.Policy. Reading tolerates unknown and read-only
// members and matches them case-insensitively against the property names;
// the naming policy plays no part in reading.
//
// # Usage
//
//	c := codec.New[Person]()
//	d, err := c.Marshal(&p, format.JSONFormat)
//	q, err := c.Unmarshal(d, format.JSONFormat)
//
//	// snake_case member names on output
//	d, err = codec.New[Person](codec.Naming(naming.SnakeCase)).Marshal(&p, format.YAMLFormat)
//
//	// transcoding without a target type
//	err = codec.CopyAll(codec.NewYAMLWriter(os.Stdout), codec.NewJSONReader(os.Stdin))
package codec

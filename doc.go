// Package reflector provides string keyed, typed access to the properties of
// arbitrary struct values.
//
// A value is reflected either by a generated reflector, which the value
// exposes through the HasReflector interface, or by the Dynamic reflector,
// which discovers properties with package reflect and caches the result per
// type. Callers see the same Reflector capability in both cases.
//
// # Usage
//
//	// Strict access, failures are reported as errors
//	r := reflector.Of(&person, true)
//	name, err := r.Get("name")
//	err = r.Set("Age", 31)
//
//	// Safe access, never fails
//	if reflector.TrySet(r, "age", 32) {
//	    age, _ := reflector.TryGetAs[int](r, "AGE")
//	}
//
// Property names are matched case-insensitively everywhere; descriptors keep
// the declared casing.
//
// # Related Packages
//
//   - github.com/signadot/go-reflector/codec - structured encoding built on Reflector
//   - github.com/signadot/go-reflector/naming - key naming policies
package reflector

// Package sample holds domain types used by the tests of this module.
//
// Person carries a reflector in the shape emitted by the generator: a fixed
// descriptor array, a switch over the lowercased key and a reflector memoized
// on the instance. Team registers its properties in a reflector.Table.
// Settings and Owner have no generated reflector and are only reachable
// through the dynamic path.
package sample

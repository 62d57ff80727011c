// Package pathcodec converts between nested value trees and flat mappings
// keyed by delimited paths.
//
// A path is a list of segments. Field segments are joined by a separator and
// sequence indices are appended to the preceding segment in brackets:
//
//	{"a": {"b": [10, {"c": true}]}}
//
// flattens, with the default configuration, to
//
//	"a.b(0)":   10
//	"a.b(1).c": true
//
// Inflate reverses the transform. Empty mappings and sequences have no leaves
// and therefore vanish on a round trip.
package pathcodec

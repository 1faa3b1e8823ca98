// Package hashing provides checksums of unordered string sets.
//
// The service uses them to tell whether a reloaded whitelist differs from
// the previous one and to report the entries that were added or removed:
//
//	prev := hashing.NewStringSet("001122334455")
//	next := hashing.NewStringSet("001122334455", "66778899AABB")
//
//	if next.Checksum() != prev.Checksum() {
//		added := next.Difference(prev)   // [66778899AABB]
//		removed := prev.Difference(next) // []
//	}
//
// Checksums do not depend on insertion order or duplicates.
package hashing

// Package bloom implements a classic Bloom filter: a compact probabilistic
// set that answers membership queries with no false negatives and a tunable
// false-positive rate.
//
// A filter is sized once from an expected element count and a target
// false-positive rate:
//
//	f, err := bloom.New(1_000_000, 0.01)
//	if err != nil { ... }
//	f.Add([]byte("element1"))
//	f.Test([]byte("element1")) // true
//
// Bit positions are derived with double hashing (Kirsch–Mitzenmacher): two
// seeded 64-bit xxh3 digests h1 and h2 produce the i-th probe as
// (h1 + i*h2) mod m. The seeds are part of the filter state and are carried
// through serialization, so a reloaded filter answers queries exactly like
// the original.
//
// Filters can be snapshotted to a stable little-endian binary format via
// MarshalBinary/WriteTo and restored via UnmarshalBinary/ReadFrom. The
// filterstore subpackage provides file and Redis backed snapshot stores, and
// SnapshotFilter ties a filter to a store with pluggable data loaders.
//
// A Filter is safe for concurrent Test calls. Add requires external
// synchronization; there is no internal locking.
package bloom

package bloom

import (
	"github.com/zeebo/xxh3"
)

// Default seeds for the two base hashes. They are fixed, not random, so that
// filters built with New behave identically across processes and tests.
// Filters that need distinct hash families can pass their own seeds to
// NewWithSeeds; whatever seeds a filter is built with travel with its
// serialized form.
const (
	DefaultSeedA uint64 = 0x9e3779b97f4a7c15
	DefaultSeedB uint64 = 0xc2b2ae3d27d4eb4f
)

// baseHashes computes the two seeded 64-bit digests that drive double
// hashing. h2 is forced nonzero: a zero stride would collapse all k probes
// onto a single bit.
func baseHashes(data []byte, seedA, seedB uint64) (h1, h2 uint64) {
	h1 = xxh3.HashSeed(data, seedA)
	h2 = xxh3.HashSeed(data, seedB)
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// baseHashesString is baseHashes for string keys without a []byte conversion
// allocation.
func baseHashesString(s string, seedA, seedB uint64) (h1, h2 uint64) {
	h1 = xxh3.HashStringSeed(s, seedA)
	h2 = xxh3.HashStringSeed(s, seedB)
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// probePosition returns the i-th double-hashing probe, (h1 + i*h2) mod m.
func probePosition(h1, h2 uint64, i uint32, m uint64) uint64 {
	return (h1 + uint64(i)*h2) % m
}

// Positions returns the k bit positions in [0, m) probed for data. The
// sequence depends only on (data, k, m, seedA, seedB) and is stable across
// process restarts, which is what makes serialized filters reloadable.
func Positions(data []byte, k uint32, m uint64, seedA, seedB uint64) []uint64 {
	h1, h2 := baseHashes(data, seedA, seedB)
	positions := make([]uint64, k)
	for i := uint32(0); i < k; i++ {
		positions[i] = probePosition(h1, h2, i, m)
	}
	return positions
}

package bloom

import (
	"math"

	"github.com/pkg/errors"
)

const ln2Squared = math.Ln2 * math.Ln2

// EstimateParameters maps an expected element count and a target
// false-positive rate to a bit-array length m and a probe count k:
//
//	m = ceil(-(n * ln(p)) / ln(2)^2), rounded up to a multiple of 8
//	k = round((m / n) * ln(2)), at least 1
//
// This is the standard optimal-parameter derivation; it is computed once at
// construction and never revisited. p = 0 would imply an infinitely large
// array and is rejected along with the rest of the out-of-range inputs.
func EstimateParameters(totalElements uint64, falsePositives float64) (m uint64, k uint32, err error) {
	if totalElements == 0 {
		return 0, 0, errors.Wrap(ErrInvalidParameter, "expected elements count must be positive")
	}
	if math.IsNaN(falsePositives) || falsePositives <= 0 || falsePositives >= 1 {
		return 0, 0, errors.Wrapf(ErrInvalidParameter, "false positives rate %v must be in (0, 1)", falsePositives)
	}

	bits := math.Ceil(-(float64(totalElements) * math.Log(falsePositives)) / ln2Squared)
	m = uint64(bits)
	// Byte-aligned storage keeps the serialized payload exactly ceil(m/8).
	if rem := m % 8; rem != 0 {
		m += 8 - rem
	}
	if m == 0 {
		m = 8
	}

	k = uint32(math.Round(float64(m) / float64(totalElements) * math.Ln2))
	if k < 1 {
		k = 1
	}
	return m, k, nil
}

// EstimateFalsePositiveRate returns the analytic false-positive probability
// (1 - e^(-kn/m))^k for a filter of m bits and k probes holding n elements.
func EstimateFalsePositiveRate(m uint64, k uint32, n uint64) float64 {
	if m == 0 || n == 0 {
		return 0
	}
	kf := float64(k)
	return math.Pow(1-math.Exp(-kf*float64(n)/float64(m)), kf)
}

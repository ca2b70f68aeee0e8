package bloom

import (
	"encoding/binary"
)

// FilterParams carries the sizing inputs of a filter as explicit
// configuration rather than process-wide state.
type FilterParams struct {
	TotalElements  uint64
	FalsePositives float64
}

// EstimatedParameters returns the bit-array length and probe count the
// params size to.
func (fp FilterParams) EstimatedParameters() (m uint64, k uint32, err error) {
	return EstimateParameters(fp.TotalElements, fp.FalsePositives)
}

// TestPresence is the read side of a filter.
type TestPresence interface {
	Test(data []byte) bool
	TestString(data string) bool
	TestUint16(i uint16) bool
	TestUint32(i uint32) bool
	TestUint64(i uint64) bool
}

// Canonical byte representations for the typed Add/Test helpers. Big-endian,
// so the same integer always hashes identically regardless of platform.

func uint16ToByte(i uint16) []byte {
	data := make([]byte, 2)
	binary.BigEndian.PutUint16(data, i)
	return data
}

func uint32ToByte(i uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, i)
	return data
}

func uint64ToByte(i uint64) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, i)
	return data
}

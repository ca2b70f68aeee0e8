package bloom

import (
	"math/bits"

	"github.com/pkg/errors"
)

// BitVector is a fixed-length sequence of individually addressable bits
// packed into bytes. Bit i lives at byte i/8, position i%8, least-significant
// bit first, so the in-memory layout and the serialized payload are the same
// bytes.
//
// The length is fixed at construction; there are no grow or shrink
// operations. Concurrent Get calls are safe once all Set calls have
// completed.
type BitVector struct {
	lengthBits uint64
	data       []byte
}

// NewBitVector allocates a zeroed vector of lengthBits bits.
func NewBitVector(lengthBits uint64) *BitVector {
	return &BitVector{
		lengthBits: lengthBits,
		data:       make([]byte, bytesForBits(lengthBits)),
	}
}

// BitVectorFromBytes reconstructs a vector from a packed payload previously
// produced by Bytes. The payload length must be exactly ceil(lengthBits/8).
func BitVectorFromBytes(lengthBits uint64, data []byte) (*BitVector, error) {
	expected := bytesForBits(lengthBits)
	if uint64(len(data)) != expected {
		return nil, errors.Wrapf(ErrTruncatedData, "bit payload is %d bytes, %d bits require %d", len(data), lengthBits, expected)
	}
	v := &BitVector{
		lengthBits: lengthBits,
		data:       make([]byte, expected),
	}
	copy(v.data, data)
	return v, nil
}

// Set turns bit i on. Bits only ever transition from 0 to 1.
//
// Set panics with ErrIndexOutOfRange if i >= Len(): callers derive indices
// from hashing mod Len(), so an out-of-range index is a bug.
func (v *BitVector) Set(i uint64) {
	v.checkBounds(i)
	v.data[i>>3] |= 1 << (i & 7)
}

// Get reports whether bit i is set, with the same bounds rule as Set.
func (v *BitVector) Get(i uint64) bool {
	v.checkBounds(i)
	return v.data[i>>3]&(1<<(i&7)) != 0
}

// Len returns the vector length in bits.
func (v *BitVector) Len() uint64 {
	return v.lengthBits
}

// Bytes returns a copy of the packed payload, ceil(Len()/8) bytes.
func (v *BitVector) Bytes() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// OnesCount returns the number of set bits.
func (v *BitVector) OnesCount() uint64 {
	var n uint64
	for _, b := range v.data {
		n += uint64(bits.OnesCount8(b))
	}
	return n
}

func (v *BitVector) checkBounds(i uint64) {
	if i >= v.lengthBits {
		panic(errors.Wrapf(ErrIndexOutOfRange, "bit %d of %d", i, v.lengthBits))
	}
}

func bytesForBits(lengthBits uint64) uint64 {
	return (lengthBits + 7) / 8
}

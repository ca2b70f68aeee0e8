package bloom

// Filter is an in-memory Bloom filter. Once constructed, its bit length,
// probe count and seeds never change; Add only turns bits on and bumps an
// advisory insertion counter.
//
// Concurrent Test calls are safe when no Add is in flight. Concurrent Add
// calls need external synchronization: unsynchronized writers can lose
// counter increments even though individual bit sets on disjoint bits are
// independently harmless.
type Filter struct {
	bits  *BitVector
	k     uint32
	seedA uint64
	seedB uint64

	capacityHint uint64
	targetRate   float64
	inserted     uint64
}

// New builds a filter sized for the expected number of elements and the
// target false-positive rate, using the package default seeds.
func New(totalElements uint64, falsePositives float64) (*Filter, error) {
	return NewWithSeeds(totalElements, falsePositives, DefaultSeedA, DefaultSeedB)
}

// NewWithSeeds is New with an explicit hash seed pair.
func NewWithSeeds(totalElements uint64, falsePositives float64, seedA, seedB uint64) (*Filter, error) {
	m, k, err := EstimateParameters(totalElements, falsePositives)
	if err != nil {
		return nil, err
	}
	return &Filter{
		bits:         NewBitVector(m),
		k:            k,
		seedA:        seedA,
		seedB:        seedB,
		capacityHint: totalElements,
		targetRate:   falsePositives,
	}, nil
}

// Add inserts data into the filter. Re-adding the same data changes no bits,
// only the counter.
func (f *Filter) Add(data []byte) *Filter {
	h1, h2 := baseHashes(data, f.seedA, f.seedB)
	f.addHashed(h1, h2)
	return f
}

// AddString inserts a string key without converting it to a byte slice.
func (f *Filter) AddString(data string) *Filter {
	h1, h2 := baseHashesString(data, f.seedA, f.seedB)
	f.addHashed(h1, h2)
	return f
}

func (f *Filter) AddUint16(i uint16) *Filter {
	return f.Add(uint16ToByte(i))
}

func (f *Filter) AddUint32(i uint32) *Filter {
	return f.Add(uint32ToByte(i))
}

func (f *Filter) AddUint64(i uint64) *Filter {
	return f.Add(uint64ToByte(i))
}

func (f *Filter) addHashed(h1, h2 uint64) {
	m := f.bits.Len()
	for i := uint32(0); i < f.k; i++ {
		f.bits.Set(probePosition(h1, h2, i, m))
	}
	f.inserted++
}

// Test reports whether data might be in the filter. A false result is
// definitive; a true result is wrong with probability approaching the
// configured false-positive rate as the filter fills to its capacity hint.
func (f *Filter) Test(data []byte) bool {
	h1, h2 := baseHashes(data, f.seedA, f.seedB)
	return f.testHashed(h1, h2)
}

// TestString is Test for string keys without a []byte conversion.
func (f *Filter) TestString(data string) bool {
	h1, h2 := baseHashesString(data, f.seedA, f.seedB)
	return f.testHashed(h1, h2)
}

func (f *Filter) TestUint16(i uint16) bool {
	return f.Test(uint16ToByte(i))
}

func (f *Filter) TestUint32(i uint32) bool {
	return f.Test(uint32ToByte(i))
}

func (f *Filter) TestUint64(i uint64) bool {
	return f.Test(uint64ToByte(i))
}

func (f *Filter) testHashed(h1, h2 uint64) bool {
	m := f.bits.Len()
	for i := uint32(0); i < f.k; i++ {
		if !f.bits.Get(probePosition(h1, h2, i, m)) {
			return false
		}
	}
	return true
}

// TestAndAdd tests data and then adds it, returning the pre-add test result.
// The two steps are not atomic with respect to concurrent writers.
func (f *Filter) TestAndAdd(data []byte) bool {
	h1, h2 := baseHashes(data, f.seedA, f.seedB)
	present := f.testHashed(h1, h2)
	f.addHashed(h1, h2)
	return present
}

// Cap returns the bit-array length m.
func (f *Filter) Cap() uint64 {
	return f.bits.Len()
}

// K returns the number of hash probes per element.
func (f *Filter) K() uint32 {
	return f.k
}

// Seeds returns the seed pair of the filter's hash scheme.
func (f *Filter) Seeds() (seedA, seedB uint64) {
	return f.seedA, f.seedB
}

// Count returns the advisory number of Add calls. It is observational only:
// correctness of Test never depends on it.
func (f *Filter) Count() uint64 {
	return f.inserted
}

// FillRatio returns the fraction of bits currently set.
func (f *Filter) FillRatio() float64 {
	return float64(f.bits.OnesCount()) / float64(f.bits.Len())
}

// EstimatedFalsePositiveRate returns (1 - e^(-k*count/m))^k using the live
// insertion counter, a cheap diagnostic that needs no external probe loop.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.bits.Len(), f.k, f.inserted)
}

var _ TestPresence = &Filter{}

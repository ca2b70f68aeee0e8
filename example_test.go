package bloom_test

import (
	"context"
	"fmt"

	"github.com/urlguard/bloom"
	"github.com/urlguard/bloom/filterstore"
)

// The classic population / persistence / membership flow: size a filter for
// an expected element count and target false-positive rate, fill it, and
// query it.
func Example() {
	filter, err := bloom.New(10_000, 0.01)
	if err != nil {
		panic(err)
	}

	for i := 1; i <= 10_000; i++ {
		filter.AddString(fmt.Sprintf("element%d", i))
	}

	fmt.Println("contains element1:", filter.TestString("element1"))
	fmt.Println("contains element5000:", filter.TestString("element5000"))
	fmt.Println("inserted:", filter.Count())

	// Output:
	// contains element1: true
	// contains element5000: true
	// inserted: 10000
}

// Snapshots survive a serialize/deserialize round trip with identical
// membership answers.
func Example_serialization() {
	filter, err := bloom.New(1000, 0.01)
	if err != nil {
		panic(err)
	}
	filter.AddString("malicious-url.example")

	data, err := filter.MarshalBinary()
	if err != nil {
		panic(err)
	}

	restored, err := bloom.UnmarshalBinary(data)
	if err != nil {
		panic(err)
	}
	fmt.Println("after reload:", restored.TestString("malicious-url.example"))

	// Output:
	// after reload: true
}

// SnapshotFilter ties a filter to a store: the first Init populates from a
// source and dumps a snapshot; later Inits restore it directly.
func Example_snapshotFilter() {
	ctx := context.Background()
	store := filterstore.NewFileStore("/tmp/bloom-example")

	source := func(ctx context.Context) ([][]byte, error) {
		return [][]byte{
			[]byte("element1"),
			[]byte("element2"),
		}, nil
	}

	sf, err := bloom.NewSnapshotFilter(
		store,
		"urls.blmf",
		bloom.FilterParams{TotalElements: 1000, FalsePositives: 0.01},
		bloom.SourceLoader(source),
	)
	if err != nil {
		panic(err)
	}
	sf.SetLogger(bloom.NopLogger())
	if err := sf.Init(ctx); err != nil {
		panic(err)
	}

	fmt.Println("contains element1:", sf.Test([]byte("element1")))

	// Output:
	// contains element1: true
}

// EstimateParameters exposes the sizing policy on its own.
func ExampleEstimateParameters() {
	m, k, err := bloom.EstimateParameters(10_000_000, 0.01)
	if err != nil {
		panic(err)
	}
	fmt.Printf("bits: %d, probes: %d\n", m, k)

	// Output:
	// bits: 95850584, probes: 7
}

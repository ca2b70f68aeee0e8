package bloom

import (
	"context"

	"github.com/pkg/errors"

	"github.com/urlguard/bloom/filterstore"
)

// Source yields raw elements for bulk population, e.g. rows from a database
// or lines from a feed of known-bad URLs.
type Source func(ctx context.Context) ([][]byte, error)

// DataLoaderResults is what a single loader contributes during
// SnapshotFilter.Init.
type DataLoaderResults struct {
	// Snapshot is a serialized filter to restore, or nil.
	Snapshot []byte
	// Elements are raw elements to insert after any snapshot restore.
	Elements [][]byte
	// DumpStateInStore requests a snapshot save once the results are applied.
	DumpStateInStore bool
	// NeedRunNextLoader lets the next configured loader run as well.
	NeedRunNextLoader bool
}

// DataLoader produces filter state during initialization. Loaders run in
// order until one reports that no further loader is needed.
type DataLoader func(ctx context.Context, sf *SnapshotFilter) (DataLoaderResults, error)

// SnapshotLoader restores the filter from its store. A missing snapshot is
// not an error; it just hands over to the next loader.
func SnapshotLoader(ctx context.Context, sf *SnapshotFilter) (DataLoaderResults, error) {
	data, err := sf.store.Load(ctx, sf.SnapshotKey)
	if errors.Is(err, filterstore.ErrNotFound) {
		return DataLoaderResults{NeedRunNextLoader: true}, nil
	}
	if err != nil {
		return DataLoaderResults{}, errors.Wrap(err, "snapshot load failed")
	}
	return DataLoaderResults{Snapshot: data}, nil
}

// SourceLoader populates the filter from source and then snapshots the
// result, so the next Init restores instead of re-reading the source.
func SourceLoader(source Source) DataLoader {
	return func(ctx context.Context, sf *SnapshotFilter) (DataLoaderResults, error) {
		elements, err := source(ctx)
		if err != nil {
			return DataLoaderResults{}, errors.Wrap(err, "element source failed")
		}
		return DataLoaderResults{
			Elements:         elements,
			DumpStateInStore: true,
		}, nil
	}
}

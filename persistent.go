package bloom

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/urlguard/bloom/filterstore"
)

// ErrSnapshotMismatch is returned when a restored snapshot was built with
// different sizing or seeds than the configured params: its bit positions
// would be meaningless for this filter's queries.
var ErrSnapshotMismatch = errors.New("bloom: snapshot parameters mismatch")

// SnapshotFilter composes an in-memory Filter with a snapshot store. Init
// fills the filter through the configured loaders (by default, restoring the
// newest snapshot), Snapshot persists the current state, and Add/Test
// delegate to the in-memory filter.
//
// It inherits the Filter's concurrency rules: reads are safe between writes,
// writes need external synchronization.
type SnapshotFilter struct {
	store        filterstore.Store
	FilterParams FilterParams
	SnapshotKey  string

	filter          *Filter
	loaders         []DataLoader
	hooks           *Hooks
	logger          Logger
	testInterceptor testInterceptor
}

// NewSnapshotFilter sizes a fresh filter from params and binds it to a store
// key. Extra loaders run after the default snapshot restore, typically a
// SourceLoader that rebuilds state when no snapshot exists yet.
func NewSnapshotFilter(
	store filterstore.Store,
	snapshotKey string,
	params FilterParams,
	loaders ...DataLoader,
) (*SnapshotFilter, error) {
	filter, err := New(params.TotalElements, params.FalsePositives)
	if err != nil {
		return nil, err
	}
	return &SnapshotFilter{
		store:           store,
		FilterParams:    params,
		SnapshotKey:     snapshotKey,
		filter:          filter,
		loaders:         append([]DataLoader{SnapshotLoader}, loaders...),
		hooks:           NewHooks(),
		logger:          StdLogger(nil),
		testInterceptor: defaultNoOp,
	}, nil
}

// SetHooks replaces the lifecycle hooks.
func (sf *SnapshotFilter) SetHooks(hooks *Hooks) {
	sf.hooks = hooks
}

// SetLogger replaces the logger.
func (sf *SnapshotFilter) SetLogger(logger Logger) {
	sf.logger = logger
}

func (sf *SnapshotFilter) setTestInterceptor(testInterceptor testInterceptor) {
	sf.testInterceptor = testInterceptor
}

// Init fills the filter from the configured loaders.
func (sf *SnapshotFilter) Init(ctx context.Context) error {
	sf.testInterceptor.interfere("before-load")
	sf.hooks.Before(LoadData)
	err := sf.loadDataFromSources(ctx)
	sf.hooks.After(LoadData, err)
	return err
}

func (sf *SnapshotFilter) loadDataFromSources(ctx context.Context) error {
	for _, loader := range sf.loaders {
		sf.hooks.Before(LoadDataForSource)
		results, loaderErr := loader(ctx, sf)
		sf.hooks.After(LoadDataForSource, loaderErr)

		// Whatever the loader managed to produce is still applied: a
		// partially filled filter only raises the false-negative-free
		// coverage, never corrupts it.
		applyErr := sf.applyResults(ctx, results)
		if loaderErr != nil || applyErr != nil {
			return multierror.Append(loaderErr, applyErr).ErrorOrNil()
		}
		if !results.NeedRunNextLoader {
			break
		}
	}
	return nil
}

func (sf *SnapshotFilter) applyResults(ctx context.Context, results DataLoaderResults) error {
	var errorsBatch *multierror.Error
	if results.Snapshot != nil {
		sf.hooks.Before(ApplySnapshot)
		restoreErr := sf.restoreSnapshot(results.Snapshot)
		sf.hooks.After(ApplySnapshot, restoreErr)
		if restoreErr != nil {
			errorsBatch = multierror.Append(errorsBatch, errors.Wrap(restoreErr, "filter restore failed"))
		}
	}
	if len(results.Elements) > 0 {
		sf.hooks.Before(ApplyElements, len(results.Elements))
		for _, element := range results.Elements {
			sf.filter.Add(element)
		}
		sf.hooks.AfterSuccess(ApplyElements, len(results.Elements))
	}
	if results.DumpStateInStore {
		if dumpErr := sf.Snapshot(ctx); dumpErr != nil {
			errorsBatch = multierror.Append(errorsBatch, errors.Wrap(dumpErr, "snapshot dump failed"))
		}
	}
	return errorsBatch.ErrorOrNil()
}

func (sf *SnapshotFilter) restoreSnapshot(data []byte) error {
	restored, err := UnmarshalBinary(data)
	if err != nil {
		return err
	}
	current := sf.filter
	restoredSeedA, restoredSeedB := restored.Seeds()
	currentSeedA, currentSeedB := current.Seeds()
	if restored.Cap() != current.Cap() ||
		restored.K() != current.K() ||
		restoredSeedA != currentSeedA ||
		restoredSeedB != currentSeedB {
		return errors.Wrapf(ErrSnapshotMismatch,
			"snapshot (m=%d, k=%d) vs configured (m=%d, k=%d)",
			restored.Cap(), restored.K(), current.Cap(), current.K(),
		)
	}
	restored.capacityHint = sf.FilterParams.TotalElements
	restored.targetRate = sf.FilterParams.FalsePositives
	sf.filter = restored
	sf.logger("bloom filter restored from snapshot, elements:", restored.Count())
	return nil
}

// Snapshot persists the current filter state under SnapshotKey.
func (sf *SnapshotFilter) Snapshot(ctx context.Context) error {
	sf.hooks.Before(DumpStateInStore)
	data, marshalErr := sf.filter.MarshalBinary()
	if marshalErr != nil {
		sf.hooks.AfterFail(DumpStateInStore, marshalErr)
		return errors.Wrap(marshalErr, "filter serialization failed")
	}
	saveErr := sf.store.Save(ctx, sf.SnapshotKey, data)
	sf.hooks.After(DumpStateInStore, saveErr)
	return errors.Wrap(saveErr, "filter snapshot save failed")
}

// Add inserts data into the in-memory filter.
func (sf *SnapshotFilter) Add(data []byte) {
	sf.filter.Add(data)
}

// AddString inserts a string key.
func (sf *SnapshotFilter) AddString(data string) {
	sf.filter.AddString(data)
}

func (sf *SnapshotFilter) AddUint16(i uint16) {
	sf.filter.AddUint16(i)
}

func (sf *SnapshotFilter) AddUint32(i uint32) {
	sf.filter.AddUint32(i)
}

func (sf *SnapshotFilter) AddUint64(i uint64) {
	sf.filter.AddUint64(i)
}

func (sf *SnapshotFilter) Test(data []byte) bool {
	return sf.filter.Test(data)
}

func (sf *SnapshotFilter) TestString(data string) bool {
	return sf.filter.TestString(data)
}

func (sf *SnapshotFilter) TestUint16(i uint16) bool {
	return sf.filter.TestUint16(i)
}

func (sf *SnapshotFilter) TestUint32(i uint32) bool {
	return sf.filter.TestUint32(i)
}

func (sf *SnapshotFilter) TestUint64(i uint64) bool {
	return sf.filter.TestUint64(i)
}

// Filter exposes the underlying in-memory filter for diagnostics.
func (sf *SnapshotFilter) Filter() *Filter {
	return sf.filter
}

var _ TestPresence = &SnapshotFilter{}

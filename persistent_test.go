package bloom

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"syreclabs.com/go/faker"

	"github.com/urlguard/bloom/filterstore"
)

// memStore is an in-memory filterstore.Store for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[key] = stored
	return nil
}

func (s *memStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, exists := s.data[key]
	if !exists {
		return nil, filterstore.ErrNotFound
	}
	return data, nil
}

type SnapshotFilterSuite struct {
	store       *memStore
	snapshotKey string
	params      FilterParams
	suite.Suite
}

func (st *SnapshotFilterSuite) SetupTest() {
	st.store = newMemStore()
	st.snapshotKey = "test-bloom-" + faker.RandomString(5)
	st.params = FilterParams{
		TotalElements:  500,
		FalsePositives: 0.001,
	}
}

func (st *SnapshotFilterSuite) newFilter(loaders ...DataLoader) *SnapshotFilter {
	st.T().Helper()
	sf, err := NewSnapshotFilter(st.store, st.snapshotKey, st.params, loaders...)
	st.Require().NoError(err, "no error expected on snapshot filter construction")
	sf.SetLogger(NopLogger())
	return sf
}

func (st *SnapshotFilterSuite) TestInitWithoutSnapshot() {
	sf := st.newFilter()
	st.Require().NoError(sf.Init(context.Background()), "missing snapshot is not an init error")
	st.Require().Zero(sf.Filter().Count())
}

func (st *SnapshotFilterSuite) TestSnapshotAndRestore() {
	sf := st.newFilter()
	st.Require().NoError(sf.Init(context.Background()))

	st.Run("fill filter", func() {
		for i := 0; i < 200; i++ {
			data := []byte(strconv.Itoa(i))
			sf.Add(data)
			st.Require().True(sf.Test(data), "data expected in the filter")
		}
		st.Require().NoError(sf.Snapshot(context.Background()), "no error expected on snapshot")
	})

	st.Run("restore filter", func() {
		restored := st.newFilter()
		st.Require().NoError(restored.Init(context.Background()), "no error expected on filter restore")
		st.Require().EqualValues(200, restored.Filter().Count())
		for i := 0; i < 200; i++ {
			st.Require().True(restored.Test([]byte(strconv.Itoa(i))), "data expected in the restored filter")
		}
	})
}

func (st *SnapshotFilterSuite) TestSourceLoaderPopulatesAndDumps() {
	elements := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		elements = append(elements, []byte("seed-"+strconv.Itoa(i)))
	}
	source := func(ctx context.Context) ([][]byte, error) {
		return elements, nil
	}

	sf := st.newFilter(SourceLoader(source))
	st.Require().NoError(sf.Init(context.Background()))
	for _, element := range elements {
		st.Require().True(sf.Test(element), "source element expected in the filter")
	}

	st.Run("next init restores the dumped state without the source", func() {
		restored := st.newFilter()
		st.Require().NoError(restored.Init(context.Background()))
		st.Require().EqualValues(100, restored.Filter().Count())
		for _, element := range elements {
			st.Require().True(restored.Test(element))
		}
	})
}

func (st *SnapshotFilterSuite) TestIncompatibleSnapshotRejected() {
	foreign, err := NewSnapshotFilter(st.store, st.snapshotKey, FilterParams{
		TotalElements:  50_000,
		FalsePositives: 0.05,
	})
	st.Require().NoError(err)
	foreign.SetLogger(NopLogger())
	st.Require().NoError(foreign.Snapshot(context.Background()))

	sf := st.newFilter()
	st.Require().ErrorIs(sf.Init(context.Background()), ErrSnapshotMismatch)
}

func (st *SnapshotFilterSuite) TestCorruptSnapshotSurfaces() {
	garbage := bytes.Repeat([]byte{0xAB}, 64)
	st.Require().NoError(st.store.Save(context.Background(), st.snapshotKey, garbage))

	sf := st.newFilter()
	err := sf.Init(context.Background())
	st.Require().Error(err, "corrupt snapshot must never be silently replaced by an empty filter")
	st.Require().ErrorIs(err, ErrCorruptData)
}

func (st *SnapshotFilterSuite) TestHooksObserveLifecycle() {
	var loadDataBefore, loadDataAfter, dumpAfter int
	hooks := NewHooks(
		&HookImpl{
			Stage:          LoadData,
			BeforeFn:       func(args ...interface{}) { loadDataBefore++ },
			AfterSuccessFn: func(args ...interface{}) { loadDataAfter++ },
		},
		&HookImpl{
			Stage:          DumpStateInStore,
			AfterSuccessFn: func(args ...interface{}) { dumpAfter++ },
		},
	)

	sf := st.newFilter()
	sf.SetHooks(hooks)
	st.Require().NoError(sf.Init(context.Background()))
	sf.AddString("hooked")
	st.Require().NoError(sf.Snapshot(context.Background()))

	st.Require().Equal(1, loadDataBefore)
	st.Require().Equal(1, loadDataAfter)
	st.Require().Equal(1, dumpAfter)
}

type recordingInterceptor struct {
	stages []string
}

func (r *recordingInterceptor) interfere(stage string) {
	r.stages = append(r.stages, stage)
}

func (st *SnapshotFilterSuite) TestInterceptorSeam() {
	interceptor := &recordingInterceptor{}
	sf := st.newFilter()
	sf.setTestInterceptor(interceptor)
	st.Require().NoError(sf.Init(context.Background()))
	st.Require().Equal([]string{"before-load"}, interceptor.stages)
}

func TestSnapshotFilterSuite(t *testing.T) {
	suite.Run(t, &SnapshotFilterSuite{})
}

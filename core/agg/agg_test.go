package agg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/iocache"
	"github.com/huangsam/flowdash/internal/source"
	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

func testDataset() *schema.Dataset {
	return &schema.Dataset{
		Customer: "acme",
		Demands:  []schema.DemandRecord{{ID: "D-1"}},
	}
}

func TestCheckCacheHit_CacheHit(t *testing.T) {
	mockStore := &MockCacheStore{}
	data, _ := json.Marshal(testDataset())

	mockStore.On("Get", "test-key").Return(data, currentCacheVersion, time.Now().Unix(), nil)

	actual := checkCacheHit(mockStore, "test-key", time.Hour)
	require.NotNil(t, actual)
	assert.Equal(t, "acme", actual.Customer)
	assert.Equal(t, "D-1", actual.Demands[0].ID)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss(t *testing.T) {
	data, _ := json.Marshal(testDataset())

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
		ttl     time.Duration
	}{
		{"version mismatch", data, currentCacheVersion - 1, time.Now().Unix(), nil, time.Hour},
		{"stale", data, currentCacheVersion, time.Now().Add(-2 * time.Hour).Unix(), nil, time.Hour},
		{"store error", []byte{}, 0, int64(0), assert.AnError, time.Hour},
		{"unmarshal error", []byte("invalid json"), currentCacheVersion, time.Now().Unix(), nil, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockCacheStore{}
			mockStore.On("Get", "test-key").Return(tt.data, tt.version, tt.ts, tt.err)

			assert.Nil(t, checkCacheHit(mockStore, "test-key", tt.ttl))
			mockStore.AssertExpectations(t)
		})
	}
}

func TestCheckCacheHit_ZeroTTLNeverExpires(t *testing.T) {
	mockStore := &MockCacheStore{}
	data, _ := json.Marshal(testDataset())
	mockStore.On("Get", "k").Return(data, currentCacheVersion, time.Now().Add(-1000*time.Hour).Unix(), nil)

	assert.NotNil(t, checkCacheHit(mockStore, "k", 0))
}

func TestGenerateCacheKey(t *testing.T) {
	src := &source.MockDataSource{}
	src.On("Describe").Return("graphql:https://api.example.com/graphql")

	cfg := &contract.Config{Customer: "acme"}
	key1 := generateCacheKey(cfg, src)
	assert.Len(t, key1, 64) // SHA256 hash length

	key2 := generateCacheKey(cfg.CloneWithCustomer("globex"), src)
	assert.NotEqual(t, key1, key2)

	assert.Equal(t, key1, generateCacheKey(cfg, src), "keys are deterministic")
}

func TestCachedFetchDataset_NoStore(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{Customer: "acme"}

	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, "acme").Return(&schema.Dataset{}, nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)

	ds, err := CachedFetchDataset(ctx, cfg, src, mgr)
	require.NoError(t, err)
	assert.Equal(t, "acme", ds.Customer, "customer is filled when the source omits it")

	src.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestCachedFetchDataset_NilManager(t *testing.T) {
	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, "acme").Return(testDataset(), nil)

	ds, err := CachedFetchDataset(context.Background(), &contract.Config{Customer: "acme"}, src, nil)
	require.NoError(t, err)
	assert.Equal(t, "acme", ds.Customer)
}

func TestCachedFetchDataset_MissStores(t *testing.T) {
	cfg := &contract.Config{Customer: "acme", CacheTTL: time.Hour}

	src := &source.MockDataSource{}
	src.On("Describe").Return("file:dataset.json")
	src.On("FetchDataset", mock.Anything, "acme").Return(testDataset(), nil)

	key := generateCacheKey(cfg, src)
	store := &MockCacheStore{}
	store.On("Get", key).Return([]byte(nil), 0, int64(0), assert.AnError)
	store.On("Set", key, mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	ds, err := CachedFetchDataset(context.Background(), cfg, src, mgr)
	require.NoError(t, err)
	assert.Equal(t, "D-1", ds.Demands[0].ID)

	store.AssertExpectations(t)
	src.AssertExpectations(t)
}

func TestCachedFetchDataset_HitSkipsSource(t *testing.T) {
	cfg := &contract.Config{Customer: "acme", CacheTTL: time.Hour}

	src := &source.MockDataSource{}
	src.On("Describe").Return("file:dataset.json")

	data, _ := json.Marshal(testDataset())
	store := &MockCacheStore{}
	store.On("Get", generateCacheKey(cfg, src)).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	ds, err := CachedFetchDataset(context.Background(), cfg, src, mgr)
	require.NoError(t, err)
	assert.Equal(t, "acme", ds.Customer)
	src.AssertNotCalled(t, "FetchDataset", mock.Anything, mock.Anything)
}

func TestCachedFetchDataset_FetchError(t *testing.T) {
	cfg := &contract.Config{Customer: "acme"}

	src := &source.MockDataSource{}
	src.On("Describe").Return("graphql:https://api.example.com")
	src.On("FetchDataset", mock.Anything, "acme").Return(nil, errors.New("connection refused"))

	_, err := CachedFetchDataset(context.Background(), cfg, src, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphql:https://api.example.com")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCachedFetchDataset_SetFailureIsNotFatal(t *testing.T) {
	cfg := &contract.Config{Customer: "acme"}

	src := &source.MockDataSource{}
	src.On("Describe").Return("file:dataset.json")
	src.On("FetchDataset", mock.Anything, "acme").Return(testDataset(), nil)

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), 0, int64(0), assert.AnError)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	ds, err := CachedFetchDataset(context.Background(), cfg, src, mgr)
	require.NoError(t, err)
	assert.NotNil(t, ds)
}

package iocache

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCacheStore(t *testing.T, table string) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(table, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err, "Failed to create SQLite store")
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "dataset_cache", false},
		{"valid name with numbers", "dataset_cache_2", false},
		{"valid leading underscore", "_dataset", false},
		{"valid mixed case", "DatasetCache", false},
		{"empty name", "", true},
		{"starts with number", "1_cache", true},
		{"contains dash", "dataset-cache", true},
		{"contains space", "dataset cache", true},
		{"contains dot", "public.dataset", true},
		{"sql injection attempt", "t'; DROP TABLE runs; --", true},
		{"unicode", "cache_表", true},
		{"very long", strings.Repeat("a", 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"dataset_cache"`, quoteTableName("dataset_cache", schema.SQLiteBackend))
	assert.Equal(t, "`dataset_cache`", quoteTableName("dataset_cache", schema.MySQLBackend))
	assert.Equal(t, `"dataset_cache"`, quoteTableName("dataset_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"dataset_cache"`, quoteTableName("dataset_cache", schema.NoneBackend))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
}

func TestDriverFor(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverFor(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := driverFor(schema.NoneBackend)
	assert.Error(t, err)
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE INTO \"dataset_cache\""},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key) DO UPDATE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: datasetTable, backend: tt.backend}
			assert.Contains(t, store.getUpsertQuery(), tt.want)
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("t", schema.SQLiteBackend), "cache_value BLOB")
	assert.Contains(t, getCreateTableQuery("t", schema.MySQLBackend), "cache_value LONGBLOB")
	assert.Contains(t, getCreateTableQuery("t", schema.PostgreSQLBackend), "cache_value BYTEA")
}

func TestNewCacheStore_Errors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err, "invalid table name should be rejected")

	_, err = NewCacheStore(datasetTable, schema.DatabaseBackend("redis"), "")
	assert.Error(t, err, "unknown backend should be rejected")
}

func TestSQLiteCacheStore(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		store := newMemoryCacheStore(t, datasetTable)

		require.NoError(t, store.Set("acme", []byte(`{"customer":"acme"}`), 1, 1700000000))

		value, version, ts, err := store.Get("acme")
		require.NoError(t, err)
		assert.Equal(t, `{"customer":"acme"}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		store := newMemoryCacheStore(t, datasetTable)

		require.NoError(t, store.Set("k", []byte("old"), 1, 1000))
		require.NoError(t, store.Set("k", []byte("new"), 2, 2000))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newMemoryCacheStore(t, datasetTable)
		_, _, _, err := store.Get("missing")
		assert.Equal(t, sql.ErrNoRows, err)
	})
}

func TestNoneCacheStore(t *testing.T) {
	store, err := NewCacheStore(datasetTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.Equal(t, sql.ErrNoRows, err, "none backend never stores anything")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.Zero(t, status.TotalEntries)

	assert.NoError(t, store.Close())
}

func TestCacheStoreGetStatus(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		store := newMemoryCacheStore(t, datasetTable)
		for key, ts := range map[string]int64{"a": 1000, "b": 2000, "c": 1500} {
			require.NoError(t, store.Set(key, []byte("v"), 1, ts))
		}

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("empty", func(t *testing.T) {
		store := newMemoryCacheStore(t, datasetTable)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)
		assert.True(t, status.LastEntryTime.IsZero())
		assert.Zero(t, status.TableSizeBytes)
	})
}

func TestCacheStoreNilDB(t *testing.T) {
	store := &CacheStoreImpl{backend: schema.SQLiteBackend}

	_, _, _, err := store.Get("k")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	assert.NoError(t, store.Close())
}

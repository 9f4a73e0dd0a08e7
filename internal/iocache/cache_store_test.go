package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(corpusTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStore_SetGet(t *testing.T) {
	store := newTestCacheStore(t)

	_, _, _, err := store.Get("octo/hello")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("octo/hello", []byte(`{"key":"octo/hello"}`), 1, 1700000000))
	value, version, ts, err := store.Get("octo/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"key":"octo/hello"}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(1700000000), ts)

	// Upsert replaces the previous entry.
	require.NoError(t, store.Set("octo/hello", []byte(`{}`), 2, 1700000100))
	value, version, ts, err = store.Get("octo/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(1700000100), ts)
}

func TestCacheStore_DeleteAndList(t *testing.T) {
	store := newTestCacheStore(t)

	require.NoError(t, store.Set("octo/old", []byte("abc"), 1, 100))
	require.NoError(t, store.Set("user:octo", []byte("abcdef"), 1, 300))
	require.NoError(t, store.Set("octo/new", []byte("ab"), 1, 300))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "octo/new", entries[0].Key, "ties break on key")
	assert.Equal(t, "user:octo", entries[1].Key)
	assert.Equal(t, int64(6), entries[1].SizeBytes)
	assert.Equal(t, "octo/old", entries[2].Key)
	assert.Equal(t, time.Unix(100, 0), entries[2].BuiltAt)

	require.NoError(t, store.Delete("user:octo"))
	require.NoError(t, store.Delete("missing/key"))

	_, _, _, err = store.Get("user:octo")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	entries, err = store.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCacheStore_GetStatus(t *testing.T) {
	store := newTestCacheStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalEntries)
	assert.Empty(t, status.Entries)

	require.NoError(t, store.Set("octo/a", []byte("x"), 1, 1000))
	require.NoError(t, store.Set("octo/b", []byte("y"), 1, 2000))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
	require.Len(t, status.Entries, 2)
	assert.Equal(t, "octo/b", status.Entries[0].Key)
}

func TestCacheStore_NoneBackend(t *testing.T) {
	store, err := NewCacheStore(corpusTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("octo/hello", []byte("x"), 1, 1))
	_, _, _, err = store.Get("octo/hello")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Delete("octo/hello"))

	entries, err := store.List()
	assert.NoError(t, err)
	assert.Empty(t, entries)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStore_Errors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)

	_, err = NewCacheStore(corpusTable, "oracle", "")
	assert.Error(t, err)
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("corpus_cache", schema.SQLiteBackend), "cache_value BLOB NOT NULL")
	assert.Contains(t, getCreateTableQuery("corpus_cache", schema.MySQLBackend), "`corpus_cache`")
	assert.Contains(t, getCreateTableQuery("corpus_cache", schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateTableQuery("corpus_cache", schema.PostgreSQLBackend), "BYTEA")
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key) DO UPDATE"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: corpusTable, backend: tt.backend}
			assert.Contains(t, store.getUpsertQuery(), tt.want)
		})
	}
}

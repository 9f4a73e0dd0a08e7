package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseCaching()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitCaching(t *testing.T) {
	t.Run("sqlite stores", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		analysisPath := filepath.Join(dir, "analysis.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, analysisPath))
		assert.NotNil(t, Manager.GetCorpusStore())
		assert.NotNil(t, Manager.GetAnalysisStore())

		// Later calls are no-ops.
		require.NoError(t, InitCaching(schema.MySQLBackend, "bad", schema.MySQLBackend, "bad"))

		CloseCaching()
		CloseCaching()

		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
		_, err = os.Stat(analysisPath)
		assert.NoError(t, err)
	})

	t.Run("none backends", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", schema.NoneBackend, ""))

		status, err := Manager.GetCorpusStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("empty backend leaves store unset", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", "", ""))
		assert.NotNil(t, Manager.GetCorpusStore())
		assert.Nil(t, Manager.GetAnalysisStore())
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetManager(t)
		err := InitCaching("oracle", "", schema.NoneBackend, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize corpus caching")
		assert.Nil(t, Manager.GetCorpusStore())
	})
}

func TestOpenStores_ClosesCorpusOnAnalysisFailure(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	corpus, analysis, err := OpenStores(schema.SQLiteBackend, cachePath, "oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize analysis store")
	assert.Nil(t, corpus)
	assert.Nil(t, analysis)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(corpusTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine.
		assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	})

	t.Run("sqlite requires a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache("oracle", "", ""))
	})
}

func TestClearAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.db")
	store, err := NewAnalysisStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearAnalysis(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.Len(t, analysisTables, 3, "shared table list must not grow")
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	corpus := &MockCacheStore{}
	analysis := &MockAnalysisStore{}
	mgr := NewManager(corpus, analysis)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Same(t, corpus, mgr.GetCorpusStore())
			assert.Same(t, analysis, mgr.GetAnalysisStore())
		}()
	}
	wg.Wait()
}

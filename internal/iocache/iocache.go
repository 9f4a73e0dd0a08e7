package iocache

import (
	"sync"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
)

// CacheStoreManager manages the corpus and analysis stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	corpus       contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewManager wraps already opened stores. Either may be nil.
func NewManager(corpus contract.CacheStore, analysis contract.AnalysisStore) *CacheStoreManager {
	return &CacheStoreManager{corpus: corpus, analysis: analysis}
}

// GetCorpusStore returns the corpus CacheStore.
func (mgr *CacheStoreManager) GetCorpusStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.corpus
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}

package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/patrickmn/go-cache"
)

// currentCacheVersion defines the version of the encoded corpus
const currentCacheVersion = 1

// memoryCleanupInterval is how often expired corpora are purged from memory.
const memoryCleanupInterval = 10 * time.Minute

// CorpusCache keeps built corpora in two tiers: decoded corpora in memory and
// encoded blobs in the corpus store of its manager. Memory entries get the
// remaining cache TTL of the corpus they hold.
type CorpusCache struct {
	memory *cache.Cache
	mgr    contract.CacheManager
}

// NewCorpusCache returns an empty cache persisting through mgr. A nil mgr,
// or one without a corpus store, keeps corpora in memory only.
func NewCorpusCache(mgr contract.CacheManager) *CorpusCache {
	return &CorpusCache{
		memory: cache.New(cache.NoExpiration, memoryCleanupInterval),
		mgr:    mgr,
	}
}

// Manager returns the stores backing the cache. It may be nil.
func (c *CorpusCache) Manager() contract.CacheManager {
	return c.mgr
}

// store returns the durable corpus store, if one is configured.
func (c *CorpusCache) store() contract.CacheStore {
	if c.mgr == nil {
		return nil
	}
	return c.mgr.GetCorpusStore()
}

// cacheTTL returns the configured cache TTL, falling back to the default.
func cacheTTL(cfg *contract.Config) time.Duration {
	if cfg == nil || cfg.CacheTTL <= 0 {
		return contract.DefaultCacheTTL
	}
	return cfg.CacheTTL
}

// lookup finds key in the memory tier, then in the durable store.
// A durable hit is promoted to the memory tier.
func (c *CorpusCache) lookup(key schema.CorpusKey, ttl time.Duration) (*schema.Corpus, bool) {
	if v, found := c.memory.Get(string(key)); found {
		if corpus, ok := v.(*schema.Corpus); ok {
			return corpus, true
		}
	}
	store := c.store()
	if store == nil {
		return nil, false
	}

	corpus, ts := checkCacheHit(store, key, ttl)
	if corpus == nil {
		return nil, false
	}
	if remaining := ttl - time.Since(time.Unix(ts, 0)); remaining > 0 {
		c.memory.Set(string(key), corpus, remaining)
	}
	return corpus, true
}

// checkCacheHit attempts to retrieve and validate a stored corpus
func checkCacheHit(store contract.CacheStore, key schema.CorpusKey, ttl time.Duration) (*schema.Corpus, int64) {
	data, version, ts, err := store.Get(string(key))
	if err != nil {
		return nil, 0 // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > ttl {
		return nil, 0
	}

	var corpus schema.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, 0
	}
	return &corpus, ts
}

// put stores corpus in both tiers. The memory tier always succeeds.
func (c *CorpusCache) put(corpus *schema.Corpus, ttl time.Duration) error {
	c.memory.Set(string(corpus.Key), corpus, ttl)
	store := c.store()
	if store == nil {
		return nil
	}

	data, err := json.Marshal(corpus)
	if err != nil {
		return fmt.Errorf("failed to encode corpus %s: %w", corpus.Key, err)
	}
	if err := store.Set(string(corpus.Key), data, currentCacheVersion, corpus.BuiltAt.Unix()); err != nil {
		return fmt.Errorf("failed to store corpus %s: %w", corpus.Key, err)
	}
	return nil
}

// Delete removes one corpus from both tiers.
func (c *CorpusCache) Delete(key schema.CorpusKey) error {
	c.memory.Delete(string(key))
	store := c.store()
	if store == nil {
		return nil
	}
	if err := store.Delete(string(key)); err != nil {
		return fmt.Errorf("failed to delete corpus %s: %w", key, err)
	}
	return nil
}

// Flush drops every corpus held in memory. The durable store is untouched.
func (c *CorpusCache) Flush() {
	c.memory.Flush()
}

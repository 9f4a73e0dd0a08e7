package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string       `json:"backend"`
	Connected       bool         `json:"connected"`
	TotalEntries    int          `json:"total_entries"`
	LastEntryTime   time.Time    `json:"last_entry_time"`
	OldestEntryTime time.Time    `json:"oldest_entry_time"`
	TableSizeBytes  int64        `json:"table_size_bytes"`
	Entries         []CacheEntry `json:"entries,omitempty"`
}

// CacheEntry describes one cached corpus.
type CacheEntry struct {
	Key       string    `json:"key"`
	Version   int       `json:"version"`
	SizeBytes int64     `json:"size_bytes"`
	BuiltAt   time.Time `json:"built_at"`
}

// AnalysisStatus represents the status of the analysis store.
type AnalysisStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalResults  int              `json:"total_results"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

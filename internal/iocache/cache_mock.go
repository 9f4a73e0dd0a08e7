package iocache

import (
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetCorpusStore implements the CacheManager interface.
func (m *MockCacheManager) GetCorpusStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetAnalysisStore implements the CacheManager interface.
func (m *MockCacheManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the CacheStore interface.
func (m *MockCacheStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// List implements the CacheStore interface.
func (m *MockCacheStore) List() ([]schema.CacheEntry, error) {
	args := m.Called()
	entries, _ := args.Get(0).([]schema.CacheEntry)
	return entries, args.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginAnalysis(corpusKey string, op schema.Operation, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(corpusKey, op, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, totalResults int) error {
	args := m.Called(analysisID, endTime, totalResults)
	return args.Error(0)
}

// RecordNgramResults implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordNgramResults(analysisID int64, n int, entries []schema.NgramEntry) error {
	args := m.Called(analysisID, n, entries)
	return args.Error(0)
}

// RecordAuthorResults implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordAuthorResults(analysisID int64, profiles []schema.AuthorProfile) error {
	args := m.Called(analysisID, profiles)
	return args.Error(0)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return records, args.Error(1)
}

// GetAllNgramResults implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllNgramResults() ([]schema.NgramResultRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.NgramResultRecord)
	return records, args.Error(1)
}

// GetAllAuthorResults implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAuthorResults() ([]schema.AuthorResultRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.AuthorResultRecord)
	return records, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

package github

import (
	"context"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/mock"
)

// MockCommitFetcher is a mock implementation of contract.CommitFetcher.
type MockCommitFetcher struct {
	mock.Mock
}

var _ contract.CommitFetcher = &MockCommitFetcher{} // Compile-time check

// FetchRepository implements the contract.CommitFetcher interface.
func (m *MockCommitFetcher) FetchRepository(ctx context.Context, owner, repo string, opts contract.FetchOptions) ([]schema.Commit, error) {
	ret := m.Called(ctx, owner, repo, opts)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// FetchUser implements the contract.CommitFetcher interface.
func (m *MockCommitFetcher) FetchUser(ctx context.Context, username string, opts contract.FetchOptions) (contract.UserCommits, error) {
	ret := m.Called(ctx, username, opts)
	uc, _ := ret.Get(0).(contract.UserCommits)
	return uc, ret.Error(1)
}

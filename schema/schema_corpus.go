package schema

import "strings"

// userKeyPrefix marks a corpus built from all of a user's repositories.
const userKeyPrefix = "user:"

// CorpusKey identifies a corpus: "{owner}/{repo}" or "user:{username}".
type CorpusKey string

// RepoKey returns the key for a single repository.
func RepoKey(owner, repo string) CorpusKey {
	return CorpusKey(owner + "/" + repo)
}

// UserKey returns the key for a user's repositories.
func UserKey(username string) CorpusKey {
	return CorpusKey(userKeyPrefix + username)
}

// IsUser reports whether the key names a user corpus.
func (k CorpusKey) IsUser() bool {
	return strings.HasPrefix(string(k), userKeyPrefix)
}

// Username returns the user part of a user key, or "" for repository keys.
func (k CorpusKey) Username() string {
	if !k.IsUser() {
		return ""
	}
	return strings.TrimPrefix(string(k), userKeyPrefix)
}

// OwnerRepo splits a repository key into owner and repo.
func (k CorpusKey) OwnerRepo() (owner, repo string) {
	if k.IsUser() {
		return "", ""
	}
	owner, repo, _ = strings.Cut(string(k), "/")
	return owner, repo
}

// String implements fmt.Stringer.
func (k CorpusKey) String() string {
	return string(k)
}

// CorpusSummary describes a corpus without its commits.
type CorpusSummary struct {
	Key               CorpusKey `json:"key"`
	TotalCommits      int       `json:"total_commits"`
	Repositories      []string  `json:"repositories,omitempty"`
	TotalRepositories int       `json:"total_repositories,omitempty"`
	Authors           int       `json:"authors"`
	TotalTokens       int       `json:"total_tokens"`
	BuiltAt           string    `json:"built_at"`
}

// Summarize builds a CorpusSummary for the corpus.
func (c *Corpus) Summarize() CorpusSummary {
	authors := make(map[string]struct{})
	tokens := 0
	for _, ac := range c.Commits {
		authors[ac.Author] = struct{}{}
		tokens += len(ac.Tokens)
	}
	return CorpusSummary{
		Key:               c.Key,
		TotalCommits:      len(c.Commits),
		Repositories:      c.Repositories,
		TotalRepositories: c.TotalRepositories,
		Authors:           len(authors),
		TotalTokens:       tokens,
		BuiltAt:           c.BuiltAt.Format("2006-01-02 15:04:05"),
	}
}

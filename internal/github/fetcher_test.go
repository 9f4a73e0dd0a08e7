package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// setup returns a Client talking to a test server, with an unlimited
// limiter and a recorded sleep.
func setup(t *testing.T, mux *http.ServeMux) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(srv.Client())
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = baseURL

	c := newClient(gh, 50, contract.NewLogger(io.Discard, logrus.DebugLevel))
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func commitJSON(sha, login, name, message string, date time.Time) string {
	author := "null"
	if login != "" {
		author = fmt.Sprintf(`{"login":%q}`, login)
	}
	return fmt.Sprintf(`{"sha":%q,"author":%s,"commit":{"message":%q,"author":{"name":%q,"email":%q,"date":%q}}}`,
		sha, author, message, name, name+"@example.com", date.UTC().Format(time.RFC3339))
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFetchRepositoryPaginatesAndMaps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/demo/commits?page=2>; rel="next"`, r.Host))
			fmt.Fprintf(w, "[%s,%s]",
				commitJSON("aaaaaaaaaa", "ada", "Ada Lovelace", "  Fix parser\n", base),
				commitJSON("bbbbbbbbbb", "", "Grace Hopper", "Add tests", base.Add(-time.Hour)))
		case "2":
			fmt.Fprintf(w, "[%s]", commitJSON("cccccccccc", "ada", "Ada Lovelace", "Initial commit", base.Add(-2*time.Hour)))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	c, slept := setup(t, mux)

	commits, err := c.FetchRepository(context.Background(), "octo", "demo", contract.FetchOptions{MaxCommits: 1000})
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "aaaaaaaaaa", commits[0].Hash)
	assert.Equal(t, "ada", commits[0].Author)
	assert.Equal(t, "Ada Lovelace@example.com", commits[0].Email)
	assert.Equal(t, "Fix parser", commits[0].RawMessage)
	assert.True(t, base.Equal(commits[0].CommittedAt))
	assert.Empty(t, commits[0].Repository)

	assert.Equal(t, "Grace Hopper", commits[1].Author, "falls back to the git author name")
	assert.Equal(t, "cccccccccc", commits[2].Hash)
	assert.Empty(t, *slept)
}

func TestFetchRepositoryStopsAtMaxCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/demo/commits?page=9>; rel="next"`, r.Host))
		fmt.Fprintf(w, "[%s,%s]",
			commitJSON("aaaaaaaaaa", "ada", "Ada", "one", base),
			commitJSON("bbbbbbbbbb", "ada", "Ada", "two", base))
	})
	c, _ := setup(t, mux)

	commits, err := c.FetchRepository(context.Background(), "octo", "demo", contract.FetchOptions{MaxCommits: 2})
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestFetchRepositoryErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/missing/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/repos/octo/empty/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	})
	mux.HandleFunc("/repos/octo/broken/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	c, _ := setup(t, mux)
	ctx := context.Background()

	_, err := c.FetchRepository(ctx, "octo", "missing", contract.FetchOptions{})
	assert.ErrorIs(t, err, contract.ErrNotFound)
	assert.Contains(t, err.Error(), "octo/missing")

	commits, err := c.FetchRepository(ctx, "octo", "empty", contract.FetchOptions{})
	require.NoError(t, err)
	assert.Empty(t, commits)

	_, err = c.FetchRepository(ctx, "octo", "broken", contract.FetchOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, contract.ErrNotFound)
}

func TestRateLimitErrorWaitsAndRetries(t *testing.T) {
	reset := time.Now().Add(-time.Minute).Truncate(time.Second)
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded for 127.0.0.1."}`)
			return
		}
		fmt.Fprintf(w, "[%s]", commitJSON("aaaaaaaaaa", "ada", "Ada", "Fix", base))
	})
	c, slept := setup(t, mux)
	c.now = func() time.Time { return reset.Add(-5 * time.Second) }

	commits, err := c.FetchRepository(context.Background(), "octo", "demo", contract.FetchOptions{})
	require.NoError(t, err)
	assert.Len(t, commits, 1)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{15 * time.Second}, *slept)
}

func TestLowQuotaWaitsForReset(t *testing.T) {
	reset := time.Now().Add(time.Hour).Truncate(time.Second)
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "50")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		fmt.Fprintf(w, "[%s]", commitJSON("aaaaaaaaaa", "ada", "Ada", "Fix", base))
	})
	c, slept := setup(t, mux)
	c.now = func() time.Time { return reset.Add(-30 * time.Second) }

	_, err := c.FetchRepository(context.Background(), "octo", "demo", contract.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{40 * time.Second}, *slept)
}

func TestBackoffForAbuseLimit(t *testing.T) {
	c := newClient(github.NewClient(nil), 50, contract.NewLogger(io.Discard, logrus.InfoLevel))

	retry := 3 * time.Second
	wait, limited := c.backoffFor(&github.AbuseRateLimitError{RetryAfter: &retry})
	assert.True(t, limited)
	assert.Equal(t, retry, wait)

	wait, limited = c.backoffFor(&github.AbuseRateLimitError{})
	assert.True(t, limited)
	assert.Equal(t, abuseDefaultBackoff, wait)

	_, limited = c.backoffFor(fmt.Errorf("other"))
	assert.False(t, limited)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), -time.Second))
}

func repoJSON(name string, fork, archived bool, size int) string {
	return fmt.Sprintf(`{"name":%q,"full_name":"octo/%s","owner":{"login":"octo"},"fork":%t,"archived":%t,"disabled":false,"size":%d}`,
		name, name, fork, archived, size)
}

func userMux(t *testing.T) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		fmt.Fprintf(w, "[%s,%s,%s,%s,%s,%s]",
			repoJSON("alpha", false, false, 10),
			repoJSON("forked", true, false, 10),
			repoJSON("old", false, true, 10),
			repoJSON("blank", false, false, 0),
			repoJSON("echo", false, false, 3),
			repoJSON("flaky", false, false, 3))
	})
	mux.HandleFunc("/repos/octo/alpha/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "[%s,%s]",
			commitJSON("a2a2a2a2a2", "ada", "Ada", "Newest", base.Add(2*time.Hour)),
			commitJSON("a0a0a0a0a0", "ada", "Ada", "Oldest", base))
	})
	mux.HandleFunc("/repos/octo/echo/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "[%s]", commitJSON("e1e1e1e1e1", "bob", "Bob", "Middle", base.Add(time.Hour)))
	})
	mux.HandleFunc("/repos/octo/flaky/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	for _, skipped := range []string{"forked", "old", "blank"} {
		mux.HandleFunc("/repos/octo/"+skipped+"/commits", func(http.ResponseWriter, *http.Request) {
			t.Errorf("repository %s should have been skipped", skipped)
		})
	}
	return mux
}

func TestFetchUserMergesRepositories(t *testing.T) {
	c, _ := setup(t, userMux(t))

	got, err := c.FetchUser(context.Background(), "octo", contract.FetchOptions{
		MaxRepos: 100, PerRepoCommits: 100, MaxTotalCommits: 5000, Workers: 2,
	})
	require.NoError(t, err)

	hashes := make([]string, len(got.Commits))
	for i, cm := range got.Commits {
		hashes[i] = cm.Hash
	}
	assert.Equal(t, []string{"a2a2a2a2a2", "e1e1e1e1e1", "a0a0a0a0a0"}, hashes)
	assert.Equal(t, "octo/alpha", got.Commits[0].Repository)
	assert.Equal(t, "octo/echo", got.Commits[1].Repository)
	assert.Equal(t, []string{"octo/alpha", "octo/echo"}, got.Repositories)
	assert.Equal(t, 3, got.TotalRepositories)
}

func TestFetchUserLimits(t *testing.T) {
	c, _ := setup(t, userMux(t))

	got, err := c.FetchUser(context.Background(), "octo", contract.FetchOptions{
		MaxRepos: 1, PerRepoCommits: 100, MaxTotalCommits: 1, Workers: 1,
	})
	require.NoError(t, err)
	require.Len(t, got.Commits, 1)
	assert.Equal(t, "a2a2a2a2a2", got.Commits[0].Hash)
	assert.Equal(t, []string{"octo/alpha"}, got.Repositories)
	assert.Equal(t, 1, got.TotalRepositories)
}

func TestFetchUserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	c, _ := setup(t, mux)

	_, err := c.FetchUser(context.Background(), "ghost", contract.FetchOptions{Workers: 1})
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

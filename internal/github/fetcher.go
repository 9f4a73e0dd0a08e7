package github

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FetchRepository pages through the commit list of owner/repo until the
// history is exhausted or opts.MaxCommits commits were collected.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string, opts contract.FetchOptions) ([]schema.Commit, error) {
	commits, err := c.listCommits(ctx, owner, repo, opts.MaxCommits)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"corpus":  schema.RepoKey(owner, repo),
		"commits": len(commits),
	}).Info("Fetched repository commits")
	return commits, nil
}

// FetchUser fetches the commits of the user's own active repositories, at
// most opts.Workers repositories at a time. A repository that fails is
// logged and skipped.
func (c *Client) FetchUser(ctx context.Context, username string, opts contract.FetchOptions) (contract.UserCommits, error) {
	repos, err := c.listUserRepositories(ctx, username, opts.MaxRepos)
	if err != nil {
		return contract.UserCommits{}, err
	}

	log := c.logger.WithField("corpus", schema.UserKey(username))
	log.WithField("repositories", len(repos)).Info("Fetching commits from user repositories")

	var (
		mu       sync.Mutex
		all      []schema.Commit
		analyzed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for _, r := range repos {
		g.Go(func() error {
			commits, err := c.listCommits(gctx, r.GetOwner().GetLogin(), r.GetName(), opts.PerRepoCommits)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.WithError(err).WithField("repository", r.GetFullName()).Warn("Skipping repository")
				return nil
			}
			if len(commits) == 0 {
				return nil
			}
			for i := range commits {
				commits[i].Repository = r.GetFullName()
			}

			mu.Lock()
			defer mu.Unlock()
			all = append(all, commits...)
			analyzed = append(analyzed, r.GetFullName())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return contract.UserCommits{}, err
	}

	// Workers finish in any order; sort by time, then hash, for a stable merge.
	slices.SortStableFunc(all, func(a, b schema.Commit) int {
		if byTime := b.CommittedAt.Compare(a.CommittedAt); byTime != 0 {
			return byTime
		}
		return cmp.Compare(a.Hash, b.Hash)
	})
	if opts.MaxTotalCommits > 0 && len(all) > opts.MaxTotalCommits {
		all = all[:opts.MaxTotalCommits]
	}
	slices.Sort(analyzed)

	log.WithFields(logrus.Fields{
		"commits":      len(all),
		"repositories": len(analyzed),
	}).Info("Fetched user commits")

	return contract.UserCommits{
		Commits:           all,
		Repositories:      analyzed,
		TotalRepositories: len(repos),
	}, nil
}

func (c *Client) listCommits(ctx context.Context, owner, repo string, limit int) ([]schema.Commit, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: pageSize(limit)},
	}

	var commits []schema.Commit
	for {
		var (
			page []*github.RepositoryCommit
			resp *github.Response
		)
		err := c.do(ctx, func() (*github.Response, error) {
			var err error
			page, resp, err = c.client.Repositories.ListCommits(ctx, owner, repo, opts)
			return resp, err
		})
		switch {
		case isEmptyRepository(err):
			return commits, nil
		case isNotFound(err):
			return nil, fmt.Errorf("%w: repository %s/%s", contract.ErrNotFound, owner, repo)
		case err != nil:
			return nil, fmt.Errorf("list commits of %s/%s: %w", owner, repo, err)
		}

		for _, rc := range page {
			commits = append(commits, toCommit(rc))
			if limit > 0 && len(commits) >= limit {
				return commits, nil
			}
		}

		if resp.NextPage == 0 {
			return commits, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) listUserRepositories(ctx context.Context, username string, limit int) ([]*github.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: pageSize(limit)},
	}

	var repos []*github.Repository
	for {
		var (
			page []*github.Repository
			resp *github.Response
		)
		err := c.do(ctx, func() (*github.Response, error) {
			var err error
			page, resp, err = c.client.Repositories.ListByUser(ctx, username, opts)
			return resp, err
		})
		switch {
		case isNotFound(err):
			return nil, fmt.Errorf("%w: user %s", contract.ErrNotFound, username)
		case err != nil:
			return nil, fmt.Errorf("list repositories of %s: %w", username, err)
		}

		for _, r := range page {
			if !usable(r) {
				continue
			}
			repos = append(repos, r)
			if limit > 0 && len(repos) >= limit {
				return repos, nil
			}
		}

		if resp.NextPage == 0 {
			return repos, nil
		}
		opts.Page = resp.NextPage
	}
}

// usable filters out repositories whose history is not the user's own work
// or cannot be listed.
func usable(r *github.Repository) bool {
	return !r.GetFork() && !r.GetArchived() && !r.GetDisabled() && r.GetSize() > 0
}

func pageSize(limit int) int {
	if limit > 0 && limit < perPage {
		return limit
	}
	return perPage
}

func toCommit(rc *github.RepositoryCommit) schema.Commit {
	author := rc.GetAuthor().GetLogin()
	if author == "" {
		author = rc.GetCommit().GetAuthor().GetName()
	}
	return schema.Commit{
		Hash:        rc.GetSHA(),
		Author:      author,
		Email:       rc.GetCommit().GetAuthor().GetEmail(),
		RawMessage:  strings.TrimSpace(rc.GetCommit().GetMessage()),
		CommittedAt: rc.GetCommit().GetAuthor().GetDate().Time,
	}
}

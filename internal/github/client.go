// Package github fetches commit history from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	perPage             = 100
	requestsPerSecond   = 10
	rateLimitBuffer     = 10 * time.Second
	abuseDefaultBackoff = time.Minute
)

// Client wraps the GitHub API client with rate limiting and bounded concurrency.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	threshold   int
	logger      *logrus.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

var _ contract.CommitFetcher = &Client{}

// NewClient creates a GitHub client. An empty token means anonymous access.
// Once the remaining quota drops to threshold, calls pause until the window resets.
func NewClient(token string, threshold int, logger *logrus.Logger) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return newClient(client, threshold, logger)
}

func newClient(client *github.Client, threshold int, logger *logrus.Logger) *Client {
	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		threshold:   threshold,
		logger:      logger,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do runs one API call through the limiter. A rate-limit error waits for the
// reset and retries once; a low remaining quota waits before returning.
func (c *Client) do(ctx context.Context, call func() (*github.Response, error)) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := call()
	if wait, limited := c.backoffFor(err); limited {
		c.logger.WithField("wait", wait.Round(time.Second)).Warn("GitHub rate limit hit, waiting before retry")
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		resp, err = call()
	}
	if err != nil {
		return err
	}
	return c.checkRemaining(ctx, resp)
}

func (c *Client) backoffFor(err error) (time.Duration, bool) {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return rle.Rate.Reset.Time.Sub(c.now()) + rateLimitBuffer, true
	}
	var ale *github.AbuseRateLimitError
	if errors.As(err, &ale) {
		if ale.RetryAfter != nil {
			return *ale.RetryAfter, true
		}
		return abuseDefaultBackoff, true
	}
	return 0, false
}

func (c *Client) checkRemaining(ctx context.Context, resp *github.Response) error {
	// Responses without rate headers (Limit 0) carry no quota information.
	if resp == nil || resp.Rate.Limit == 0 || resp.Rate.Remaining > c.threshold {
		return nil
	}
	wait := resp.Rate.Reset.Time.Sub(c.now()) + rateLimitBuffer
	c.logger.WithFields(logrus.Fields{
		"remaining": resp.Rate.Remaining,
		"limit":     resp.Rate.Limit,
		"wait":      wait.Round(time.Second),
	}).Info("GitHub quota low, waiting for reset")
	return c.sleep(ctx, wait)
}

func statusCode(err error) int {
	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Response != nil {
		return ge.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// isEmptyRepository matches the 409 GitHub returns when listing commits of a
// repository with no history.
func isEmptyRepository(err error) bool {
	return statusCode(err) == http.StatusConflict
}

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the go-github client with rate limiting and error
// normalisation for the handful of calls the indexer needs.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
// Works for both PAT and OAuth access tokens. An empty token yields an
// unauthenticated client, good for public repositories at a lower rate
// limit.
func NewClientWithToken(ctx context.Context, token string) *Client {
	if token == "" {
		return &Client{
			gh:          gh.NewClient(&http.Client{Timeout: DefaultTimeout}),
			rateLimiter: NewRateLimiter(),
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a GitHub client with a custom
// http.Client. Useful for tests and OAuth flows where the http.Client
// handles token refresh.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
	}
}

// WithBaseURL points the client at a different API endpoint, such as a
// test server or GitHub Enterprise.
func (c *Client) WithBaseURL(baseURL string) error {
	u, err := c.gh.BaseURL.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	c.gh.BaseURL = u
	return nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, c.wrapError(err, "get repo")
	}

	c.updateRateLimitFromResponse(resp)
	return repository, nil
}

// GetBranchHead returns the commit SHA at the tip of a branch.
func (c *Client) GetBranchHead(ctx context.Context, owner, repo, branch string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	b, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 0)
	if err != nil {
		return "", c.wrapError(err, "get branch")
	}

	c.updateRateLimitFromResponse(resp)
	if b.Commit == nil || b.Commit.SHA == nil {
		return "", ErrBranchNotFound
	}
	return *b.Commit.SHA, nil
}

// GetTree fetches the entire tree for a repository recursively.
// This is efficient for getting all file paths in one API call.
func (c *Client) GetTree(ctx context.Context, owner, repo, sha string) (*gh.Tree, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, sha, true) // recursive=true
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}

	c.updateRateLimitFromResponse(resp)
	return tree, nil
}

// GetBlob fetches a blob (file content) by its SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}

	c.updateRateLimitFromResponse(resp)
	return blob, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}

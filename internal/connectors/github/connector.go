package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
	"github.com/custodia-labs/docmunch-cli/internal/security"
)

// ConnectorType identifies the GitHub connector.
const ConnectorType = "github"

// LocalOnlyEnv disables all remote fetching when set to a truthy value.
// Useful in air-gapped environments and CI.
const LocalOnlyEnv = "DOCMUNCH_LOCAL_ONLY"

// Connector fetches documentation files from a GitHub repository using
// the Git data API: one tree call to discover paths, one blob call per
// documentation file. Blob SHAs double as content fingerprints, so
// incremental updates skip blob fetches for unchanged files entirely.
type Connector struct {
	client *Client
	ref    domain.RepoRef
	branch string
}

var _ driven.Connector = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithBranch pins fetching to a branch instead of the repository default.
func WithBranch(branch string) Option {
	return func(c *Connector) {
		c.branch = branch
	}
}

// New creates a GitHub connector for owner/name.
func New(client *Client, ref domain.RepoRef, opts ...Option) *Connector {
	c := &Connector{
		client: client,
		ref:    ref,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// Ref returns the repository reference this connector is bound to.
func (c *Connector) Ref() domain.RepoRef {
	return c.ref
}

// Validate checks the repository is reachable with the current
// credentials. Fails with domain.ErrRemoteDisabled in local-only mode.
func (c *Connector) Validate(ctx context.Context) error {
	if localOnly() {
		return domain.ErrRemoteDisabled
	}

	_, err := c.client.GetRepository(ctx, c.ref.Owner, c.ref.Name)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrRepoNotFound, c.ref.Key())
		}
		return fmt.Errorf("validate %s: %w", c.ref.Key(), err)
	}
	return nil
}

// Fetch downloads all documentation files from the repository at the
// tip of the configured branch.
func (c *Connector) Fetch(ctx context.Context) (*domain.FileSet, error) {
	if localOnly() {
		return nil, domain.ErrRemoteDisabled
	}

	branch := c.branch
	if branch == "" {
		repo, err := c.client.GetRepository(ctx, c.ref.Owner, c.ref.Name)
		if err != nil {
			return nil, fmt.Errorf("get repo %s: %w", c.ref.Key(), err)
		}
		branch = repo.GetDefaultBranch()
		if branch == "" {
			branch = "main"
		}
	}

	commitSHA, err := c.client.GetBranchHead(ctx, c.ref.Owner, c.ref.Name, branch)
	if err != nil {
		return nil, fmt.Errorf("get branch %s@%s: %w", c.ref.Key(), branch, err)
	}

	tree, err := c.client.GetTree(ctx, c.ref.Owner, c.ref.Name, commitSHA)
	if err != nil {
		return nil, fmt.Errorf("get tree %s: %w", c.ref.Key(), err)
	}
	if tree.GetTruncated() {
		logger.Warn("Tree for %s is truncated, some files may be missing", c.ref.Key())
	}

	set := &domain.FileSet{CommitHash: commitSHA}
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if !domain.IsDocFile(path) || skipDirInPath(path) {
			continue
		}
		if security.IsSensitivePath(path) {
			set.Skipped = append(set.Skipped, path)
			continue
		}

		content, err := c.fetchBlob(ctx, entry.GetSHA())
		if err != nil {
			logger.Warn("Skipping unreadable blob %s: %v", path, err)
			continue
		}
		if found := security.ScanContent(content); len(found) > 0 {
			logger.Warn("Skipping %s: contains %s", path, strings.Join(found, ", "))
			set.Skipped = append(set.Skipped, path)
			continue
		}

		set.Files = append(set.Files, domain.SourceFile{
			Path:    path,
			Content: content,
			Hash:    entry.GetSHA(),
		})
	}

	logger.Debug("Fetched %d files from %s@%s (%d skipped)",
		len(set.Files), c.ref.Key(), branch, len(set.Skipped))
	return set, nil
}

// Close releases resources. The GitHub connector holds none.
func (c *Connector) Close() error {
	return nil
}

// fetchBlob downloads and decodes one blob.
func (c *Connector) fetchBlob(ctx context.Context, sha string) ([]byte, error) {
	blob, err := c.client.GetBlob(ctx, c.ref.Owner, c.ref.Name, sha)
	if err != nil {
		return nil, err
	}
	return decodeBlob(blob)
}

// decodeBlob extracts the raw bytes from a blob payload. GitHub returns
// blob content base64 encoded with embedded newlines.
func decodeBlob(blob *gh.Blob) ([]byte, error) {
	content := blob.GetContent()
	switch blob.GetEncoding() {
	case "base64":
		cleaned := strings.ReplaceAll(content, "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("decode blob: %w", err)
		}
		return decoded, nil
	case "utf-8", "":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("unsupported blob encoding %q", blob.GetEncoding())
	}
}

// skipDirInPath reports whether any path component is a directory the
// walker would prune locally (vendor, node_modules and friends).
func skipDirInPath(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if _, ok := security.SkipDirs[part]; ok {
			return true
		}
	}
	return false
}

func localOnly() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LocalOnlyEnv))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

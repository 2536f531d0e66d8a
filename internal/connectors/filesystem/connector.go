// Package filesystem implements the connector for local directories:
// it walks a tree for documentation files, filters sensitive material,
// and fingerprints content for incremental reindexing.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
	"github.com/custodia-labs/docmunch-cli/internal/security"
)

const (
	// ConnectorType identifies this connector.
	ConnectorType = "filesystem"

	// DefaultMaxDepth bounds directory recursion.
	DefaultMaxDepth = 5

	// gitTimeout bounds the git invocation used for the commit hash.
	gitTimeout = 5 * time.Second
)

var _ driven.Connector = (*Connector)(nil)

// Connector walks a local directory for documentation files.
// Symlinks are not followed; resolved paths must stay inside the root.
type Connector struct {
	root string
	ref  domain.RepoRef

	maxDepth       int
	includeHidden  bool
	ignorePatterns []string
}

// Option configures the filesystem connector.
type Option func(*Connector)

// WithMaxDepth bounds how deep the walk recurses.
func WithMaxDepth(depth int) Option {
	return func(c *Connector) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithHidden includes dot-directories in the walk.
func WithHidden(include bool) Option {
	return func(c *Connector) { c.includeHidden = include }
}

// WithIgnorePatterns excludes files whose relative path or basename
// matches any of the glob patterns.
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Connector) { c.ignorePatterns = patterns }
}

// WithName overrides the catalogue name, which defaults to the
// directory basename.
func WithName(name string) Option {
	return func(c *Connector) {
		if name != "" {
			c.ref.Name = name
		}
	}
}

// New creates a connector rooted at dir. The repository reference is
// "local/<basename>".
func New(dir string, opts ...Option) (*Connector, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		abs = resolved
	}

	c := &Connector{
		root:     abs,
		ref:      domain.RepoRef{Owner: domain.LocalOwner, Name: filepath.Base(abs)},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Type implements driven.Connector.
func (c *Connector) Type() string { return ConnectorType }

// Ref implements driven.Connector.
func (c *Connector) Ref() domain.RepoRef { return c.ref }

// Validate checks the root exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("path %s: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", c.root)
	}
	return nil
}

// Fetch walks the tree and reads every documentation file. Paths come
// back sorted so discovery order is reproducible across runs.
func (c *Connector) Fetch(ctx context.Context) (*domain.FileSet, error) {
	var paths []string
	if err := c.walk(ctx, c.root, 0, &paths); err != nil {
		return nil, err
	}
	sort.Strings(paths)

	fs := &domain.FileSet{CommitHash: c.commitHash(ctx)}
	for _, rel := range paths {
		content, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(rel)))
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", rel, err)
			continue
		}
		if found := security.ScanContent(content); len(found) > 0 {
			logger.Warn("Skipping %s: contains %s", rel, strings.Join(found, ", "))
			fs.Skipped = append(fs.Skipped, rel)
			continue
		}
		fs.Files = append(fs.Files, domain.SourceFile{
			Path:    rel,
			Content: content,
			Hash:    contentHash(content),
		})
	}
	return fs, nil
}

// Close implements driven.Connector.
func (c *Connector) Close() error { return nil }

// walk collects relative paths of documentation files up to maxDepth.
func (c *Connector) walk(ctx context.Context, dir string, depth int, out *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > c.maxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == c.root {
			return fmt.Errorf("read directory: %w", err)
		}
		logger.Debug("Skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		// Symlinks are never followed; anything else that resolves
		// outside the root is skipped too.
		if entry.Type()&os.ModeSymlink != 0 {
			logger.Debug("Skipping symlink %s", full)
			continue
		}
		resolved, err := filepath.EvalSymlinks(full)
		if err != nil || !security.WithinBase(resolved, c.root) {
			logger.Warn("Path escapes root, skipping: %s", full)
			continue
		}

		if entry.IsDir() {
			if _, skip := security.SkipDirs[name]; skip {
				continue
			}
			if !c.includeHidden && strings.HasPrefix(name, ".") {
				continue
			}
			if err := c.walk(ctx, full, depth+1, out); err != nil {
				return err
			}
			continue
		}

		if !domain.IsDocFile(name) {
			continue
		}
		rel, err := filepath.Rel(c.root, full)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if security.IsSensitivePath(rel) {
			logger.Info("Skipping sensitive file: %s", rel)
			continue
		}
		if c.ignored(rel) {
			logger.Debug("Skipping ignored file: %s", rel)
			continue
		}
		*out = append(*out, rel)
	}
	return nil
}

// ignored matches the relative path and its basename against the
// configured glob patterns.
func (c *Connector) ignored(rel string) bool {
	for _, pattern := range c.ignorePatterns {
		if matched, _ := path.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := path.Match(pattern, path.Base(rel)); matched {
			return true
		}
	}
	return false
}

// commitHash asks git for HEAD; an empty string means the directory is
// not a git work tree, which is fine.
func (c *Connector) commitHash(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = c.root
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
	"github.com/custodia-labs/docmunch-cli/internal/security"
)

const (
	indexFileName = "index.json"
	rawDirName    = "raw"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore persists index documents as JSON under a base directory,
// one subdirectory per repository key. Saves are atomic: the document
// is written to a temporary file and renamed over the old one, so a
// concurrent load sees either the old or the new complete document.
type CacheStore struct {
	baseDir string
}

// NewCacheStore creates a cache store rooted at baseDir.
// If baseDir is empty, defaults to ~/.docmunch/cache.
func NewCacheStore(baseDir string) (*CacheStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(home, ".docmunch", "cache")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &CacheStore{baseDir: baseDir}, nil
}

// Load reads the persisted document for the key. A missing, corrupt,
// or stale document all report domain.ErrNotFound: callers recover
// from every one of those the same way, with a full rebuild.
func (s *CacheStore) Load(_ context.Context, ref domain.RepoRef) (*domain.IndexDocument, error) {
	data, err := os.ReadFile(s.indexPath(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no index for %s", domain.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var doc domain.IndexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("Corrupt index for %s, treating as absent: %v", ref, err)
		return nil, fmt.Errorf("%w: corrupt index for %s", domain.ErrNotFound, ref)
	}

	if doc.IndexVersion < driven.CurrentIndexVersion {
		logger.Debug("Stale index for %s (version %d < %d)", ref, doc.IndexVersion, driven.CurrentIndexVersion)
		return nil, fmt.Errorf("%w: stale index for %s", domain.ErrNotFound, ref)
	}

	// Additive schema changes default rather than error.
	if doc.FileHashes == nil {
		doc.FileHashes = make(domain.FileHashMap)
	}

	return &doc, nil
}

// Save atomically persists the document and its raw file copies.
// Raw copies land before the document rename, the commit point; a
// failure anywhere leaves the previous document intact. Raw copies of
// removed files are deleted only after the commit.
func (s *CacheStore) Save(_ context.Context, ref domain.RepoRef, doc *domain.IndexDocument, rawFiles map[string][]byte, removed []string) error {
	dir := s.repoDir(ref)
	rawDir := filepath.Join(dir, rawDirName)
	if err := os.MkdirAll(rawDir, 0700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	for path, content := range rawFiles {
		target, err := s.rawPath(ref, path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
			return fmt.Errorf("create raw dir: %w", err)
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return fmt.Errorf("write raw copy %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp, err := os.CreateTemp(dir, indexFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmpName, s.indexPath(ref)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit index: %w", err)
	}

	for _, path := range removed {
		target, err := s.rawPath(ref, path)
		if err != nil {
			logger.Warn("Skipping raw cleanup for %s: %v", path, err)
			continue
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove raw copy %s: %v", path, err)
		}
	}

	return nil
}

// Delete removes everything stored for the key.
func (s *CacheStore) Delete(_ context.Context, ref domain.RepoRef) error {
	if err := os.RemoveAll(s.repoDir(ref)); err != nil {
		return fmt.Errorf("delete cache: %w", err)
	}
	return nil
}

// ReadSection returns a section's content, sliced out of the raw copy
// by byte range.
func (s *CacheStore) ReadSection(_ context.Context, ref domain.RepoRef, section *domain.Section) (string, error) {
	target, err := s.rawPath(ref, section.File)
	if err != nil {
		return "", err
	}

	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no raw copy of %s", domain.ErrNotFound, section.File)
		}
		return "", fmt.Errorf("open raw copy: %w", err)
	}
	defer f.Close()

	buf := make([]byte, section.ByteLength)
	n, err := f.ReadAt(buf, int64(section.ByteOffset))
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read section %s: %w", section.ID, err)
	}
	return string(buf[:n]), nil
}

func (s *CacheStore) repoDir(ref domain.RepoRef) string {
	return filepath.Join(s.baseDir, ref.Key())
}

func (s *CacheStore) indexPath(ref domain.RepoRef) string {
	return filepath.Join(s.repoDir(ref), indexFileName)
}

// rawPath maps a repo-relative file path into the raw copy directory,
// rejecting paths that would escape it.
func (s *CacheStore) rawPath(ref domain.RepoRef, path string) (string, error) {
	base := filepath.Join(s.repoDir(ref), rawDirName)
	target := filepath.Join(base, filepath.FromSlash(path))
	if !security.WithinBase(target, base) {
		return "", fmt.Errorf("%w: path %q escapes cache directory", domain.ErrInvalidInput, path)
	}
	return target, nil
}

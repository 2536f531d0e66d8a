package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

// Indexer builds and maintains section catalogues for repositories.
// At most one build or update per repository key runs at a time; a
// concurrent request for the same key fails with domain.ErrIndexInProgress.
type Indexer interface {
	// Index fetches files through the connector and builds or
	// incrementally updates the repository's catalogue. When a usable
	// cached document exists, only files whose hash changed are
	// re-parsed; otherwise a full build runs.
	Index(ctx context.Context, connector driven.Connector) (*IndexOutcome, error)

	// BuildIndex runs the full pipeline against the given files,
	// ignoring any cached state, and persists the result.
	BuildIndex(ctx context.Context, ref domain.RepoRef, files *domain.FileSet) (*IndexOutcome, error)

	// UpdateIndex reconciles an existing document against the given
	// files, re-parsing only changed and added ones. Falls back to a
	// full build when no usable cache exists.
	UpdateIndex(ctx context.Context, ref domain.RepoRef, files *domain.FileSet) (*IndexOutcome, error)

	// Status returns the progress of an in-flight run for a repository,
	// or an idle status if nothing is running.
	Status(ctx context.Context, ref domain.RepoRef) (*IndexStatus, error)
}

// IndexOutcome summarises a completed build or update.
type IndexOutcome struct {
	// RunID identifies this indexing run in logs.
	RunID string

	// Document is the persisted result.
	Document *domain.IndexDocument

	// Warnings lists per-file parse failures. The affected files are
	// excluded from Document.
	Warnings []domain.Warning

	// FilesParsed is the number of files parsed this run. For updates
	// this counts only changed and added files.
	FilesParsed int

	// FilesCarried is the number of unchanged files whose sections
	// were carried forward without re-parsing.
	FilesCarried int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// IndexStatus reports the progress of an in-flight run.
type IndexStatus struct {
	// Repo is the repository being indexed.
	Repo string

	// RunID identifies the run, empty when idle.
	RunID string

	// Running indicates if indexing is currently in progress.
	Running bool

	// FilesProcessed is the count of files parsed so far.
	FilesProcessed int

	// WarningCount is the number of per-file failures so far.
	WarningCount int
}

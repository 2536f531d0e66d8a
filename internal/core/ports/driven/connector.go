package driven

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// Connector fetches documentation files from a data source.
// Each connector type (filesystem, github) implements this interface.
//
// Connectors are the engine's only inbound boundary: they hand over
// (path, raw bytes, content hash) triples plus source metadata, and the
// engine does everything else.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// Ref returns the repository reference this connector is bound to.
	Ref() domain.RepoRef

	// Validate checks the connector is properly configured.
	// For filesystem, this checks the path exists and is a directory.
	// For API connectors, this typically makes a test API call.
	Validate(ctx context.Context) error

	// Fetch discovers and reads all documentation files.
	// Files are returned in discovery order with fingerprints attached.
	Fetch(ctx context.Context) (*domain.FileSet, error)

	// Close releases resources.
	Close() error
}

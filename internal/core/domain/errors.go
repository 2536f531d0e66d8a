package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// The cache store also returns this for stale or corrupt indexes,
	// so callers have a single recovery path: rebuild.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no parser handles the file's format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIndexInProgress indicates a build or update for the same
	// repository key is already running.
	ErrIndexInProgress = errors.New("indexing in progress")

	// ErrIDCollision indicates two sections produced the same identifier
	// even after content-hash disambiguation. This is fatal to the build:
	// silently aliasing IDs would corrupt cross-reference integrity.
	ErrIDCollision = errors.New("section id collision")

	// ErrNoDocFiles indicates a source produced no documentation files.
	ErrNoDocFiles = errors.New("no documentation files found")

	// ErrNoSections indicates parsing produced no sections at all.
	ErrNoSections = errors.New("no sections extracted from documentation")

	// Connector errors.

	// ErrConnectorValidation indicates connector validation failed.
	// The source is misconfigured or credentials are invalid.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRemoteDisabled indicates remote indexing is disabled in
	// local-only mode.
	ErrRemoteDisabled = errors.New("remote indexing disabled in local-only mode")
)

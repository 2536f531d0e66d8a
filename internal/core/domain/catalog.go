package domain

import "time"

// RepoSummary is a catalogue entry for one indexed repository.
// The catalogue answers "what is indexed" without loading cache documents.
type RepoSummary struct {
	// Owner is the repository owner.
	Owner string

	// Name is the repository name.
	Name string

	// IndexedAt is when the repository was last indexed.
	IndexedAt time.Time

	// IndexVersion is the schema version of the persisted document.
	IndexVersion int

	// CommitHash is the source commit at indexing time.
	CommitHash string

	// FileCount is the number of indexed documentation files.
	FileCount int

	// SectionCount is the number of catalogued sections.
	SectionCount int
}

// Ref returns the repository reference for this entry.
func (r RepoSummary) Ref() RepoRef {
	return RepoRef{Owner: r.Owner, Name: r.Name}
}

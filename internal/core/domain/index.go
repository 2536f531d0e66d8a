package domain

import "time"

// FileHashMap maps repo-relative file paths to content fingerprints.
// Fingerprints are hex SHA-256 digests for local content, or the source
// system's blob identifier (git blob SHA) when available. Its keys are
// exactly the paths present in the owning document's DocFiles.
type FileHashMap map[string]string

// Clone returns a copy of the map. A nil receiver clones to an empty map.
func (m FileHashMap) Clone() FileHashMap {
	out := make(FileHashMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IndexDocument is the aggregate root: the full section catalogue for one
// repository, as persisted by the cache store.
type IndexDocument struct {
	// Repo is the "owner/name" identifier.
	Repo string `json:"repo"`

	// Owner is the repository owner ("local" for filesystem sources).
	Owner string `json:"owner"`

	// Name is the repository name.
	Name string `json:"name"`

	// IndexedAt is the UTC build time of this document.
	IndexedAt time.Time `json:"indexed_at"`

	// IndexVersion is the schema version the document was written with.
	// It never decreases on update.
	IndexVersion int `json:"index_version"`

	// CommitHash is the source commit at indexing time, empty if unknown.
	CommitHash string `json:"commit_hash"`

	// FileHashes maps each indexed file to its content fingerprint.
	FileHashes FileHashMap `json:"file_hashes"`

	// DocFiles lists indexed file paths in discovery order.
	DocFiles []string `json:"doc_files"`

	// Sections lists all sections in file-then-document order.
	Sections []Section `json:"sections"`
}

// Section returns the section with the given ID, or nil.
func (d *IndexDocument) Section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// SectionsForFile returns the sections belonging to a file, in document order.
func (d *IndexDocument) SectionsForFile(path string) []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.File == path {
			out = append(out, s)
		}
	}
	return out
}

// HasFile reports whether path is one of the indexed doc files.
func (d *IndexDocument) HasFile(path string) bool {
	for _, f := range d.DocFiles {
		if f == path {
			return true
		}
	}
	return false
}

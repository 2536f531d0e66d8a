package domain

// SourceFile is the connector boundary: one documentation file handed to
// the indexing engine. Content is the raw bytes as fetched; the engine
// normalises line endings before parsing.
type SourceFile struct {
	// Path is the repo-relative file path, slash-separated.
	Path string

	// Content is the raw file bytes.
	Content []byte

	// Hash is the content fingerprint: a hex SHA-256 digest, or the
	// source system's blob identifier when available.
	Hash string
}

// FileSet is an ordered collection of source files plus source metadata.
type FileSet struct {
	// Files are the documentation files in discovery order.
	Files []SourceFile

	// CommitHash is the source commit, empty if unavailable.
	CommitHash string

	// Skipped lists files excluded by security filtering, for reporting.
	Skipped []string
}

// Hashes returns the fingerprint map for the set.
func (fs *FileSet) Hashes() FileHashMap {
	out := make(FileHashMap, len(fs.Files))
	for _, f := range fs.Files {
		out[f.Path] = f.Hash
	}
	return out
}

// Paths returns the file paths in discovery order.
func (fs *FileSet) Paths() []string {
	out := make([]string, len(fs.Files))
	for i, f := range fs.Files {
		out[i] = f.Path
	}
	return out
}

// Warning records a non-fatal per-file problem during indexing.
// The affected file is excluded from the result; the build continues.
type Warning struct {
	// Path is the file the warning applies to.
	Path string

	// Message describes what went wrong.
	Message string
}

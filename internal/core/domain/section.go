package domain

// SectionKind distinguishes how a raw section was delimited.
// It determines the shape of the identifier candidate.
type SectionKind int

const (
	// KindHeading is a section started by an explicit heading.
	KindHeading SectionKind = iota

	// KindRoot is content before the first heading, or a whole
	// headingless file small enough to index as one section.
	KindRoot

	// KindChunk is one fixed-size chunk of a long headingless file.
	KindChunk
)

// RawSection is the transient output of a section parser for one file.
// It is consumed by the ID generator and discarded after assembly;
// Content is used only for hashing and summarisation, never persisted.
type RawSection struct {
	// Kind determines the identifier candidate shape.
	Kind SectionKind

	// Title is the heading text, or a heuristic title for root sections
	// and chunks (front-matter title, first content line, or filename).
	Title string

	// Depth is the heading level. Markdown uses 1-6, reStructuredText a
	// monotonically increasing document-order rank. Root and chunk
	// sections use 0.
	Depth int

	// ChunkIndex is the 0-based position of a KindChunk section.
	ChunkIndex int

	// ByteOffset and ByteLength locate the section within the
	// newline-normalised file content.
	ByteOffset int
	ByteLength int

	// LineCount is the number of lines the section spans.
	LineCount int

	// Content is the section's normalised bytes.
	Content []byte
}

// Section is a persisted catalogue entry: one contiguous span of a
// documentation file, the atomic unit of retrieval.
type Section struct {
	// ID is unique across the whole IndexDocument.
	ID string `json:"id"`

	// File is the repo-relative path of the owning file.
	File string `json:"file"`

	// Path is the navigation key: "file#slug", or the bare file path
	// for root sections and chunks.
	Path string `json:"path"`

	// Title is the human-readable section title.
	Title string `json:"title"`

	// Depth is the heading level (0 for root/chunk sections).
	Depth int `json:"depth"`

	// Parent references another Section's ID, or is null for
	// top-level sections. The forest is resolved lazily via an
	// id-to-section index, not nested ownership.
	Parent *string `json:"parent"`

	// Summary is a one-line description, supplied by the summariser.
	Summary string `json:"summary"`

	// Keywords are externally supplied search terms, at most 20.
	Keywords []string `json:"keywords"`

	// LineCount is the number of lines the section spans.
	LineCount int `json:"line_count"`

	// ByteOffset and ByteLength locate the section within the
	// newline-normalised cached copy of File.
	ByteOffset int `json:"byte_offset"`
	ByteLength int `json:"byte_length"`
}

// MaxKeywords is the upper bound on keywords stored per section.
const MaxKeywords = 20

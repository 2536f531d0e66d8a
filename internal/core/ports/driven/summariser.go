package driven

import "context"

// Summariser supplies the externally provided section annotations:
// a one-line summary and up to domain.MaxKeywords keywords.
// The heuristic implementation ships by default; an AI-backed one can
// be substituted without touching the indexer.
type Summariser interface {
	// Summarise produces a summary and keywords for one section.
	// Title is the section title, content the section's raw bytes.
	Summarise(ctx context.Context, title string, content []byte) (summary string, keywords []string, err error)
}

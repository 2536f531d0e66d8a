package parsers

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

// ChunkPolicy controls how headingless files are split into chunks.
type ChunkPolicy struct {
	// MaxLines is the longest file kept as a single chunk.
	MaxLines int

	// MinLines is the smallest chunk a split boundary may produce.
	MinLines int
}

// DefaultChunkPolicy matches the documented chunking behaviour:
// headingless files over 200 lines split on double-blank-line
// boundaries into chunks of at least 20 lines.
var DefaultChunkPolicy = ChunkPolicy{MaxLines: 200, MinLines: 20}

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	frontTitleRe  = regexp.MustCompile(`(?m)^title:\s*["']?(.+?)["']?\s*$`)
	frontCloseRe  = regexp.MustCompile(`\n---[ \t]*\n`)
	jsxSelfClose  = regexp.MustCompile(`<[A-Z][a-zA-Z]*\b[^>]*/>`)
	jsxOpenTag    = regexp.MustCompile(`<[A-Z][a-zA-Z]*\b[^>]*>`)
	jsxCloseTag   = regexp.MustCompile(`</[A-Z][a-zA-Z]*>`)
	importLineRe  = regexp.MustCompile(`(?m)^import\s+.*$`)
	exportLineRe  = regexp.MustCompile(`(?m)^export\s+(default\s+)?.*$`)
)

var _ driven.SectionParser = (*MarkdownParser)(nil)

// MarkdownParser splits Markdown and MDX files into heading-delimited
// sections. A heading of any level ends the previous section, so a
// section's span runs to the next heading, not only to the next
// sibling. MDX constructs (front matter, imports, JSX tags) are
// blanked in place before heading detection, which keeps every byte
// span valid against the original normalised content.
type MarkdownParser struct {
	chunks ChunkPolicy
}

// MarkdownOption configures the Markdown parser.
type MarkdownOption func(*MarkdownParser)

// WithChunkPolicy overrides the headingless-file chunking policy.
func WithChunkPolicy(p ChunkPolicy) MarkdownOption {
	return func(m *MarkdownParser) {
		if p.MaxLines > 0 && p.MinLines > 0 {
			m.chunks = p
		}
	}
}

// NewMarkdownParser creates a Markdown/MDX parser.
func NewMarkdownParser(opts ...MarkdownOption) *MarkdownParser {
	p := &MarkdownParser{chunks: DefaultChunkPolicy}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SupportedExtensions implements driven.SectionParser.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// Parse implements driven.SectionParser.
func (p *MarkdownParser) Parse(_ context.Context, path string, content []byte) ([]domain.RawSection, error) {
	text := string(content)
	if strings.HasSuffix(strings.ToLower(path), ".mdx") {
		text = neutraliseMDX(text)
	}

	lines := strings.Split(text, "\n")

	hasHeadings := false
	for _, line := range lines {
		if headingRe.MatchString(line) {
			hasHeadings = true
			break
		}
	}
	if !hasHeadings {
		return p.parseHeadingless(path, text, lines), nil
	}

	var sections []domain.RawSection

	offset := 0
	sectionStart := 0
	var sectionLines []string
	var heading *struct {
		depth int
		title string
	}

	flush := func() {
		defer func() { sectionLines = nil }()

		if heading == nil {
			// Content before the first heading.
			if !anyNonBlank(sectionLines) {
				return
			}
			body := strings.Join(sectionLines, "\n")
			sections = append(sections, domain.RawSection{
				Kind:       domain.KindRoot,
				Title:      path,
				Depth:      0,
				ByteOffset: sectionStart,
				ByteLength: len(body),
				LineCount:  len(sectionLines),
				Content:    []byte(body),
			})
			return
		}

		body := strings.Join(sectionLines, "\n")
		sections = append(sections, domain.RawSection{
			Kind:       domain.KindHeading,
			Title:      heading.title,
			Depth:      heading.depth,
			ByteOffset: sectionStart,
			ByteLength: len(body),
			LineCount:  len(sectionLines),
			Content:    []byte(body),
		})
	}

	for _, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			heading = &struct {
				depth int
				title string
			}{depth: len(m[1]), title: strings.TrimSpace(m[2])}
			sectionStart = offset
		}
		sectionLines = append(sectionLines, line)
		offset += len(line) + 1
	}
	flush()

	return sections, nil
}

// parseHeadingless chunks a file with no headings. Short files become a
// single chunk; long ones split on double-blank-line boundaries once a
// chunk has reached its minimum size.
func (p *MarkdownParser) parseHeadingless(path, text string, lines []string) []domain.RawSection {
	title := headinglessTitle(path, text, lines)

	whole := func() []domain.RawSection {
		return []domain.RawSection{{
			Kind:       domain.KindChunk,
			ChunkIndex: 0,
			Title:      title,
			Depth:      0,
			ByteOffset: 0,
			ByteLength: len(text),
			LineCount:  len(lines),
			Content:    []byte(text),
		}}
	}

	if len(lines) <= p.chunks.MaxLines {
		return whole()
	}

	var sections []domain.RawSection
	var chunkLines []string
	chunkStart := 0
	offset := 0
	blanks := 0
	index := 0

	emit := func() {
		body := strings.Join(chunkLines, "\n")
		sections = append(sections, domain.RawSection{
			Kind:       domain.KindChunk,
			ChunkIndex: index,
			Title:      chunkTitle(title, index, chunkLines),
			Depth:      0,
			ByteOffset: chunkStart,
			ByteLength: len(body),
			LineCount:  len(chunkLines),
			Content:    []byte(body),
		})
		index++
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
		} else {
			blanks = 0
		}
		chunkLines = append(chunkLines, line)

		if blanks >= 2 && len(chunkLines) >= p.chunks.MinLines {
			emit()
			chunkLines = nil
			chunkStart = offset + len(line) + 1
			blanks = 0
		}
		offset += len(line) + 1
	}
	if anyNonBlank(chunkLines) {
		emit()
	}

	if len(sections) == 0 {
		return whole()
	}
	return sections
}

// headinglessTitle picks a display title: front-matter title, else the
// first short non-blank line, else the file path.
func headinglessTitle(path, text string, lines []string) string {
	if strings.HasPrefix(text, "---") {
		if loc := frontCloseRe.FindStringIndex(text[3:]); loc != nil {
			if m := frontTitleRe.FindStringSubmatch(text[3 : 3+loc[0]]); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped != "" && !strings.HasPrefix(stripped, "---") && len(stripped) < 100 {
			return stripped
		}
	}
	return path
}

// chunkTitle labels a continuation chunk with its own leading line.
func chunkTitle(title string, index int, chunkLines []string) string {
	if index == 0 {
		return title
	}
	for _, line := range chunkLines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if len(stripped) >= 100 {
			return stripped[:80] + "..."
		}
		if len(stripped) > 80 {
			return stripped[:80]
		}
		return stripped
	}
	return title
}

// neutraliseMDX blanks front matter, import/export statements, and JSX
// tags, replacing each byte with a space so offsets and line numbers
// survive unchanged. Text children of JSX components are kept.
func neutraliseMDX(text string) string {
	if strings.HasPrefix(text, "---") {
		if loc := frontCloseRe.FindStringIndex(text[3:]); loc != nil {
			end := 3 + loc[1]
			text = blankRange(text, 0, end)
		}
	}
	for _, re := range []*regexp.Regexp{importLineRe, exportLineRe, jsxSelfClose, jsxOpenTag, jsxCloseTag} {
		text = re.ReplaceAllStringFunc(text, blankKeepNewlines)
	}
	return text
}

func blankRange(text string, start, end int) string {
	return text[:start] + blankKeepNewlines(text[start:end]) + text[end:]
}

func blankKeepNewlines(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}

func anyNonBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

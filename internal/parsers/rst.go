package parsers

import (
	"context"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

// rstAdornmentChars are the characters recognised as RST section
// adornments. Depth is not tied to this set's order: it is assigned by
// the order each adornment style first appears in the document.
const rstAdornmentChars = `=-~^"+` + "`" + `:#'._*`

var _ driven.SectionParser = (*RSTParser)(nil)

// RSTParser splits reStructuredText files on underline and
// overline-underline section markers.
type RSTParser struct{}

// NewRSTParser creates a reStructuredText parser.
func NewRSTParser() *RSTParser { return &RSTParser{} }

// SupportedExtensions implements driven.SectionParser.
func (p *RSTParser) SupportedExtensions() []string {
	return []string{".rst"}
}

// rstHeader is one detected section title.
type rstHeader struct {
	line  int
	title string
	depth int
}

// Parse implements driven.SectionParser.
func (p *RSTParser) Parse(_ context.Context, path string, content []byte) ([]domain.RawSection, error) {
	text := string(content)
	lines := strings.Split(text, "\n")

	headers := detectRSTHeaders(lines)
	if len(headers) == 0 {
		return []domain.RawSection{{
			Kind:       domain.KindChunk,
			ChunkIndex: 0,
			Title:      rstFallbackTitle(path, lines),
			Depth:      0,
			ByteOffset: 0,
			ByteLength: len(text),
			LineCount:  len(lines),
			Content:    []byte(text),
		}}, nil
	}

	// Line start offsets, so header positions translate to byte spans.
	offsets := make([]int, len(lines)+1)
	for i, line := range lines {
		offsets[i+1] = offsets[i] + len(line) + 1
	}

	var sections []domain.RawSection

	if headers[0].line > 0 {
		pre := lines[:headers[0].line]
		if anyNonBlank(pre) {
			body := strings.Join(pre, "\n")
			sections = append(sections, domain.RawSection{
				Kind:       domain.KindRoot,
				Title:      path,
				Depth:      0,
				ByteOffset: 0,
				ByteLength: len(body),
				LineCount:  len(pre),
				Content:    []byte(body),
			})
		}
	}

	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].line
		}
		span := lines[h.line:end]
		body := strings.Join(span, "\n")
		sections = append(sections, domain.RawSection{
			Kind:       domain.KindHeading,
			Title:      h.title,
			Depth:      h.depth,
			ByteOffset: offsets[h.line],
			ByteLength: len(body),
			LineCount:  len(span),
			Content:    []byte(body),
		})
	}

	return sections, nil
}

// detectRSTHeaders scans for overline-title-underline and
// title-underline patterns, assigning depth by first appearance of
// each adornment style. An overlined style is distinct from the same
// character used as a plain underline.
func detectRSTHeaders(lines []string) []rstHeader {
	depthByStyle := make(map[string]int)
	depthFor := func(style string) int {
		if d, ok := depthByStyle[style]; ok {
			return d
		}
		d := len(depthByStyle) + 1
		depthByStyle[style] = d
		return d
	}

	var headers []rstHeader
	for i := 0; i < len(lines); {
		// Overline + title + matching underline.
		if i+2 < len(lines) {
			over := rstAdornment(lines[i])
			under := rstAdornment(lines[i+2])
			title := strings.TrimSpace(lines[i+1])
			if over != 0 && over == under && title != "" &&
				len(strings.TrimRight(lines[i], " \t")) >= len(strings.TrimRight(lines[i+1], " \t")) {
				headers = append(headers, rstHeader{
					line:  i,
					title: title,
					depth: depthFor("overline-" + string(over)),
				})
				i += 3
				continue
			}
		}

		// Title + underline.
		if i+1 < len(lines) {
			title := strings.TrimSpace(lines[i])
			under := rstAdornment(lines[i+1])
			if title != "" && !strings.HasPrefix(lines[i], " ") && under != 0 &&
				len(strings.TrimRight(lines[i+1], " \t")) >= len(strings.TrimRight(lines[i], " \t")) {
				headers = append(headers, rstHeader{
					line:  i,
					title: title,
					depth: depthFor(string(under)),
				})
				i += 2
				continue
			}
		}

		i++
	}
	return headers
}

// rstAdornment reports the adornment character when the whole line is a
// run of one recognised character, at least two long. Returns 0
// otherwise.
func rstAdornment(line string) byte {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 2 {
		return 0
	}
	c := trimmed[0]
	if !strings.ContainsRune(rstAdornmentChars, rune(c)) {
		return 0
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return 0
		}
	}
	return c
}

// rstFallbackTitle mirrors the headingless-Markdown heuristic: first
// short non-blank line, else the path.
func rstFallbackTitle(path string, lines []string) string {
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped != "" && len(stripped) < 100 {
			return stripped
		}
	}
	return path
}

package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// hashPrefixLen is the number of content bytes hashed for disambiguation.
const hashPrefixLen = 200

// hashSuffixLen is the number of hex characters appended on collision.
const hashSuffixLen = 6

// idGenerator assigns document-unique, content-stable section identifiers.
// The collision table spans the whole document: candidates are checked
// against every ID assigned in this build, across all files, so assignment
// order must be file-then-document order for reproducible results.
type idGenerator struct {
	assigned map[string]struct{}
}

func newIDGenerator() *idGenerator {
	return &idGenerator{assigned: make(map[string]struct{})}
}

// Reserve registers existing identifiers, typically those of sections
// carried forward by an incremental update. Reserved IDs keep their
// holders stable: a later candidate that matches one is disambiguated
// instead.
func (g *idGenerator) Reserve(ids ...string) {
	for _, id := range ids {
		g.assigned[id] = struct{}{}
	}
}

// Assign converts one file's raw sections into catalogue sections with
// unique IDs and resolved parent references.
//
// Candidates are "{prefix}-{slug}" for headed sections, "{prefix}-root"
// for pre-heading content, and "{prefix}-part-{i}" for headingless
// chunks, where prefix is the slugified filename stem. A colliding
// candidate gets a suffix derived from the section content; a collision
// surviving that is fatal.
func (g *idGenerator) Assign(path string, raws []domain.RawSection) ([]domain.Section, error) {
	prefix := Slugify(domain.DocStem(path))

	sections := make([]domain.Section, 0, len(raws))

	// Parent stack holds indices into sections, innermost last.
	var stack []int

	for _, raw := range raws {
		var candidate, navPath string
		switch raw.Kind {
		case domain.KindRoot:
			candidate = prefix + "-root"
			navPath = path
		case domain.KindChunk:
			candidate = prefix + "-part-" + strconv.Itoa(raw.ChunkIndex)
			navPath = path
		default:
			slug := Slugify(raw.Title)
			candidate = prefix + "-" + slug
			navPath = path + "#" + slug
		}

		id, err := g.claim(candidate, raw.Content)
		if err != nil {
			return nil, fmt.Errorf("file %s section %q: %w", path, raw.Title, err)
		}

		// Parent is the nearest preceding section with strictly
		// smaller depth, or none.
		var parent *string
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if sections[top].Depth < raw.Depth {
				parentID := sections[top].ID
				parent = &parentID
				break
			}
			stack = stack[:len(stack)-1]
		}

		sections = append(sections, domain.Section{
			ID:         id,
			File:       path,
			Path:       navPath,
			Title:      raw.Title,
			Depth:      raw.Depth,
			Parent:     parent,
			LineCount:  raw.LineCount,
			ByteOffset: raw.ByteOffset,
			ByteLength: raw.ByteLength,
		})
		stack = append(stack, len(sections)-1)
	}

	return sections, nil
}

// claim registers a candidate ID, disambiguating once via content hash.
func (g *idGenerator) claim(candidate string, content []byte) (string, error) {
	if _, taken := g.assigned[candidate]; !taken {
		g.assigned[candidate] = struct{}{}
		return candidate, nil
	}

	disambiguated := candidate + "-" + contentHashSuffix(content)
	if _, taken := g.assigned[disambiguated]; taken {
		return "", fmt.Errorf("%w: %s", domain.ErrIDCollision, disambiguated)
	}
	g.assigned[disambiguated] = struct{}{}
	return disambiguated, nil
}

// contentHashSuffix derives the short dedup suffix from the first
// hashPrefixLen bytes of section content.
func contentHashSuffix(content []byte) string {
	if len(content) > hashPrefixLen {
		content = content[:hashPrefixLen]
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:hashSuffixLen]
}

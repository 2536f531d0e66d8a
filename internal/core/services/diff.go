package services

import (
	"sort"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// Partition classifies every path in the union of the previous and
// current hash maps into exactly one of four sets. The sets are sorted
// so downstream processing and logging are reproducible.
func Partition(prev, curr domain.FileHashMap) domain.DiffResult {
	var out domain.DiffResult

	for path, hash := range curr {
		prevHash, existed := prev[path]
		switch {
		case !existed:
			out.Added = append(out.Added, path)
		case prevHash != hash:
			out.Changed = append(out.Changed, path)
		default:
			out.Unchanged = append(out.Unchanged, path)
		}
	}

	for path := range prev {
		if _, exists := curr[path]; !exists {
			out.Deleted = append(out.Deleted, path)
		}
	}

	sort.Strings(out.Changed)
	sort.Strings(out.Added)
	sort.Strings(out.Deleted)
	sort.Strings(out.Unchanged)
	return out
}

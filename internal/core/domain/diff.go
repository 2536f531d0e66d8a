package domain

// DiffResult partitions the union of two file-hash maps into four
// disjoint sets. Every path in either map lands in exactly one set.
type DiffResult struct {
	// Changed are paths present in both maps with differing hashes.
	Changed []string

	// Added are paths present only in the current map.
	Added []string

	// Deleted are paths present only in the previous map.
	Deleted []string

	// Unchanged are paths present in both maps with equal hashes.
	Unchanged []string
}

// NeedsReparse reports whether any file must be re-parsed.
func (d DiffResult) NeedsReparse() bool {
	return len(d.Changed) > 0 || len(d.Added) > 0
}

// IsNoop reports whether the file set is identical to the previous one.
func (d DiffResult) IsNoop() bool {
	return len(d.Changed) == 0 && len(d.Added) == 0 && len(d.Deleted) == 0
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// TestPartition tests the four-way hash diff
func TestPartition(t *testing.T) {
	t.Run("classifies changed added deleted unchanged", func(t *testing.T) {
		prev := domain.FileHashMap{"a.md": "1", "b.md": "2"}
		curr := domain.FileHashMap{"a.md": "1", "b.md": "3", "c.md": "4"}

		diff := Partition(prev, curr)

		assert.Equal(t, []string{"b.md"}, diff.Changed)
		assert.Equal(t, []string{"c.md"}, diff.Added)
		assert.Empty(t, diff.Deleted)
		assert.Equal(t, []string{"a.md"}, diff.Unchanged)
	})

	t.Run("partition is exhaustive over the union", func(t *testing.T) {
		prev := domain.FileHashMap{"a.md": "1", "gone.md": "9"}
		curr := domain.FileHashMap{"a.md": "2", "new.md": "5"}

		diff := Partition(prev, curr)

		total := len(diff.Changed) + len(diff.Added) + len(diff.Deleted) + len(diff.Unchanged)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"gone.md"}, diff.Deleted)
	})

	t.Run("empty previous marks everything added", func(t *testing.T) {
		diff := Partition(nil, domain.FileHashMap{"x.md": "1", "y.md": "2"})

		assert.Equal(t, []string{"x.md", "y.md"}, diff.Added)
		assert.False(t, diff.IsNoop())
		assert.True(t, diff.NeedsReparse())
	})

	t.Run("identical maps are a noop", func(t *testing.T) {
		m := domain.FileHashMap{"x.md": "1"}

		diff := Partition(m, m)

		assert.True(t, diff.IsNoop())
		assert.False(t, diff.NeedsReparse())
		assert.Equal(t, []string{"x.md"}, diff.Unchanged)
	})

	t.Run("empty current marks everything deleted", func(t *testing.T) {
		diff := Partition(domain.FileHashMap{"x.md": "1"}, nil)

		assert.Equal(t, []string{"x.md"}, diff.Deleted)
		assert.False(t, diff.NeedsReparse())
		assert.False(t, diff.IsNoop())
	})
}

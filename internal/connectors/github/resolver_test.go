package github

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// TestResolveRepo tests repository argument parsing
func TestResolveRepo(t *testing.T) {
	t.Run("accepts owner/name", func(t *testing.T) {
		ref, err := ResolveRepo("octocat/hello-world")
		require.NoError(t, err)
		assert.Equal(t, "octocat", ref.Owner)
		assert.Equal(t, "hello-world", ref.Name)
	})

	t.Run("accepts https URL", func(t *testing.T) {
		ref, err := ResolveRepo("https://github.com/octocat/hello-world")
		require.NoError(t, err)
		assert.Equal(t, "octocat/hello-world", ref.String())
	})

	t.Run("strips .git suffix", func(t *testing.T) {
		ref, err := ResolveRepo("https://github.com/octocat/hello-world.git")
		require.NoError(t, err)
		assert.Equal(t, "hello-world", ref.Name)
	})

	t.Run("accepts ssh clone URL", func(t *testing.T) {
		ref, err := ResolveRepo("git@github.com:octocat/hello-world.git")
		require.NoError(t, err)
		assert.Equal(t, "octocat/hello-world", ref.String())
	})

	t.Run("accepts bare host prefix", func(t *testing.T) {
		ref, err := ResolveRepo("github.com/octocat/hello-world")
		require.NoError(t, err)
		assert.Equal(t, "octocat/hello-world", ref.String())
	})

	t.Run("ignores trailing path segments", func(t *testing.T) {
		ref, err := ResolveRepo("https://github.com/octocat/hello-world/tree/main/docs")
		require.NoError(t, err)
		assert.Equal(t, "octocat/hello-world", ref.String())
	})

	t.Run("rejects other hosts", func(t *testing.T) {
		_, err := ResolveRepo("https://gitlab.com/octocat/hello-world")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rejects bare name", func(t *testing.T) {
		_, err := ResolveRepo("hello-world")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ResolveRepo("   ")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore(t *testing.T) {
	t.Run("set persists and survives reload", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewConfigStore(dir)
		require.NoError(t, err)

		require.NoError(t, s.Set(KeyGithubToken, "tok-123"))
		require.NoError(t, s.Set(KeyConcurrency, 4))

		reopened, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", reopened.GetString(KeyGithubToken))
		assert.Equal(t, 4, reopened.GetInt(KeyConcurrency))
	})

	t.Run("nested toml tables flatten to dotted keys", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := "[index]\nconcurrency = 8\nignore_patterns = [\"drafts/*\", \"*.tmp\"]\n\n[github]\ntoken = \"tok\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		s, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, 8, s.GetInt(KeyConcurrency))
		assert.Equal(t, "tok", s.GetString(KeyGithubToken))
		assert.Equal(t, []string{"drafts/*", "*.tmp"}, s.GetStringSlice(KeyIgnorePatterns))
	})

	t.Run("missing keys yield zero values", func(t *testing.T) {
		s, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, s.GetString("nope"))
		assert.Zero(t, s.GetInt("nope"))
		assert.False(t, s.GetBool("nope"))
		assert.Nil(t, s.GetStringSlice("nope"))
		_, ok := s.Get("nope")
		assert.False(t, ok)
	})

	t.Run("config file written with private permissions", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewConfigStore(dir)
		require.NoError(t, err)
		require.NoError(t, s.Set(KeyGithubToken, "secret"))

		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

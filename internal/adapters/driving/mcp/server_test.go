package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("creates server with required ports", func(t *testing.T) {
		ports := &Ports{
			Toc:     &mockTocService{},
			Section: &mockSectionService{},
		}

		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("rejects missing toc service", func(t *testing.T) {
		ports := &Ports{Section: &mockSectionService{}}

		_, err := NewServer(ports)
		assert.ErrorIs(t, err, ErrMissingTocService)
	})

	t.Run("rejects missing section service", func(t *testing.T) {
		ports := &Ports{Toc: &mockTocService{}}

		_, err := NewServer(ports)
		assert.ErrorIs(t, err, ErrMissingSectionService)
	})
}

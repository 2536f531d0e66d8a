package github

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter tests header tracking and throttling
func TestRateLimiter(t *testing.T) {
	t.Run("starts with full quota", func(t *testing.T) {
		r := NewRateLimiter()
		assert.Equal(t, GitHubRateLimit, r.Remaining())
		assert.Equal(t, GitHubRateLimit, r.Limit())
	})

	t.Run("updates from response headers", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "42")
		resp.Header.Set(HeaderRateLimit, "5000")
		resp.Header.Set(HeaderRateReset, "1700000000")

		r.UpdateFromResponse(resp)
		assert.Equal(t, 42, r.Remaining())
		assert.Equal(t, 5000, r.Limit())
		assert.Equal(t, time.Unix(1700000000, 0), r.ResetTime())
	})

	t.Run("ignores malformed headers", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "not-a-number")

		r.UpdateFromResponse(resp)
		assert.Equal(t, GitHubRateLimit, r.Remaining())
	})

	t.Run("tolerates nil response", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(nil)
		assert.Equal(t, GitHubRateLimit, r.Remaining())
	})

	t.Run("wait honours cancelled context near exhaustion", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "1")
		resp.Header.Set(HeaderRateReset, "99999999999") // far future
		r.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := r.Wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("wait passes with healthy quota", func(t *testing.T) {
		r := NewRateLimiter()
		assert.NoError(t, r.Wait(context.Background()))
	})
}

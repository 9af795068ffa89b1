package gateway

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	tok, err := IssueToken("user-42", secret, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/ws?token="+tok, nil)
	userID, ok := userIDFromRequest(r, secret)
	require.True(t, ok)
	assert.Equal(t, "user-42", userID)
}

func TestTokenFromAuthorizationHeader(t *testing.T) {
	tok, err := IssueToken("user-42", secret, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	userID, ok := userIDFromRequest(r, secret)
	require.True(t, ok)
	assert.Equal(t, "user-42", userID)
}

func TestTokenRejections(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		_, ok := userIDFromRequest(r, secret)
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := IssueToken("user-42", []byte("other-secret"), time.Hour)
		require.NoError(t, err)
		r := httptest.NewRequest("GET", "/ws?token="+tok, nil)
		_, ok := userIDFromRequest(r, secret)
		assert.False(t, ok)
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := IssueToken("user-42", secret, -time.Minute)
		require.NoError(t, err)
		r := httptest.NewRequest("GET", "/ws?token="+tok, nil)
		_, ok := userIDFromRequest(r, secret)
		assert.False(t, ok)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token=not-a-jwt", nil)
		_, ok := userIDFromRequest(r, secret)
		assert.False(t, ok)
	})
}

package live

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuth_ShouldReturnMissingToken_WhenNoTokenIsPresent(t *testing.T) {
	a := NewJWTAuth("secret")
	req := httptest.NewRequest(http.MethodGet, "/live", nil)

	_, err := a.Authenticate(req)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTAuth_ShouldAcceptABearerToken_InTheAuthorizationHeader(t *testing.T) {
	a := NewJWTAuth("secret")
	token, err := a.GenerateToken("dashboard-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	id, err := a.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "dashboard-1", id)
}

func TestJWTAuth_ShouldAcceptATokenQueryParameter_WhenNoHeaderIsPresent(t *testing.T) {
	a := NewJWTAuth("secret")
	token, err := a.GenerateToken("dashboard-2", time.Now().Add(time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/live?token="+token, nil)

	id, err := a.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "dashboard-2", id)
}

func TestJWTAuth_ShouldReturnExpiredToken_WhenPastExpiry(t *testing.T) {
	a := NewJWTAuth("secret")
	token, err := a.GenerateToken("dashboard-3", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = a.Authenticate(req)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTAuth_ShouldReturnInvalidToken_WhenSignedWithADifferentSecret(t *testing.T) {
	signer := NewJWTAuth("secret-a")
	token, err := signer.GenerateToken("dashboard-4", time.Now().Add(time.Hour))
	require.NoError(t, err)

	verifier := NewJWTAuth("secret-b")
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = verifier.Authenticate(req)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNoAuth_ShouldAlwaysAcceptAsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	id, err := (NoAuth{}).Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", id)
}

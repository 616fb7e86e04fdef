package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

func TestTokenClaims(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	claims, err := TokenClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(issued))
	assert.False(t, claims.Expired(issued.Add(30*time.Minute)))
	assert.True(t, claims.Expired(issued.Add(2*time.Hour)))
}

func TestTokenClaimsOpaque(t *testing.T) {
	_, err := TokenClaims("opaque-session-token")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionTokenOpaque))
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	assert.False(t, Claims{}.Expired(time.Now()))
}

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

// Claims is the display-only subset of a bearer token's payload.
type Claims struct {
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitzero"`
	ExpiresAt time.Time `json:"exp,omitzero"`
}

// Expired reports whether the token has an expiry that lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenClaims decodes token without verifying its signature. The backend is
// the only party that can validate a token; the result is for display only.
// Tokens that are not JWTs return a SESSION-005 error.
func TokenClaims(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, errors.Wrap(errors.ErrCodeSessionTokenOpaque, "token is not a JWT", err)
	}

	var c Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the authenticated identity carried by an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Roles  []string
}

// TokenService defines the interface for issuing and validating access tokens.
type TokenService interface {
	// GenerateAccessToken creates a signed token for a user and their roles.
	GenerateAccessToken(userID uuid.UUID, roles []string) (string, error)

	// ValidateAccessToken checks a token string and returns its claims.
	ValidateAccessToken(tokenString string) (*TokenClaims, error)

	// AccessTokenDuration returns the configured token time-to-live.
	AccessTokenDuration() time.Duration
}

package auth

import (
	"context"
	"time"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateTokenPair issues a fresh access and refresh token for the user.
	GenerateTokenPair(ctx context.Context, userID int64) (*TokenPair, error)

	// GenerateAccessToken issues a signed access token for the user.
	GenerateAccessToken(ctx context.Context, userID int64) (string, error)

	// ValidateAccessToken validates an access token and extracts its claims.
	// Returns ErrWrongTokenType for a valid refresh token.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken validates a refresh token and extracts its claims.
	// Returns ErrWrongTokenType for a valid access token.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateAnyToken accepts a valid token of either type.
	ValidateAnyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// Claims represents the validated content of a token.
type Claims struct {
	// UserID is the identifier of the user the token was issued for.
	UserID int64

	// TokenType is TokenTypeAccess or TokenTypeRefresh.
	TokenType string

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

package mocks

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenPairFn    func(ctx context.Context, userID int64) (*auth.TokenPair, error)
	GenerateAccessTokenFn  func(ctx context.Context, userID int64) (string, error)
	ValidateAccessTokenFn  func(ctx context.Context, tokenString string) (*auth.Claims, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	ValidateAnyTokenFn     func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token        string
	RefreshToken string
	Err          error
	ValidateErr  error
	Claims       *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateTokenPair implements the auth.JWTService interface
func (m *MockJWTService) GenerateTokenPair(ctx context.Context, userID int64) (*auth.TokenPair, error) {
	if m.GenerateTokenPairFn != nil {
		return m.GenerateTokenPairFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &auth.TokenPair{Access: m.Token, Refresh: m.RefreshToken}, nil
}

// GenerateAccessToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateAccessToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateAccessTokenFn != nil {
		return m.GenerateAccessTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateAccessToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateAccessTokenFn != nil {
		return m.ValidateAccessTokenFn(ctx, tokenString)
	}
	return m.claims()
}

// ValidateRefreshToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.claims()
}

// ValidateAnyToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateAnyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateAnyTokenFn != nil {
		return m.ValidateAnyTokenFn(ctx, tokenString)
	}
	return m.claims()
}

func (m *MockJWTService) claims() (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Claims, nil
}

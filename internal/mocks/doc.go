// Package mocks provides centralized mock implementations for testing.
//
// Most mocks use function fields: a test sets only the functions it cares
// about and the rest fall back to simple defaults.
//
//	jwt := &mocks.MockJWTService{
//	    ValidateAccessTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: 1, TokenType: auth.TokenTypeAccess}, nil
//	    },
//	}
//
// TaskStore is built on testify/mock for tests that assert on the exact
// queries a service issues.
package mocks

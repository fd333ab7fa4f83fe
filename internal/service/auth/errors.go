package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates an access token was used where a refresh
	// token is expected, or the other way round
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidCredentials indicates a username/password pair did not match any account
	ErrInvalidCredentials = errors.New("invalid credentials")
)

package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Client-facing messages.
const (
	MsgNotFound              = "Not found."
	MsgInvalidPage           = "Invalid page."
	MsgJSONParseError        = "JSON parse error"
	MsgExpectedObject        = "Invalid data. Expected a dictionary."
	MsgTokenInvalidOrExpired = "Token is invalid or expired"
	MsgUnexpected            = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrMalformedJSON),
		errors.Is(err, shared.ErrNotAnObject):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	switch {
	case errors.Is(err, shared.ErrMalformedJSON):
		return MsgJSONParseError
	case errors.Is(err, shared.ErrNotAnObject):
		return MsgExpectedObject
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return shared.MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return MsgTokenInvalidOrExpired

	case errors.Is(err, service.ErrInvalidPage):
		return MsgInvalidPage
	case errors.Is(err, store.ErrNotFound):
		return MsgNotFound

	default:
		return MsgUnexpected
	}
}

// respondWithServiceError writes the response for an error returned by a
// service or by request decoding.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var v *domain.ValidationError
	if errors.As(err, &v) {
		shared.RespondWithValidationError(w, r, v)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		opts = append(opts,
			shared.WithErrorCode(shared.CodeTokenNotValid),
			shared.WithHeader(shared.WWWAuthenticateHeader, shared.WWWAuthenticateChallenge))
	case errors.Is(err, auth.ErrInvalidCredentials):
		// Failed logins are logged at WARN so repeated guessing shows up.
		opts = append(opts,
			shared.WithElevatedLogLevel(),
			shared.WithHeader(shared.WWWAuthenticateHeader, shared.WWWAuthenticateChallenge))
	case status == http.StatusUnauthorized:
		opts = append(opts,
			shared.WithHeader(shared.WWWAuthenticateHeader, shared.WWWAuthenticateChallenge))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

package shared

import "net/http"

// Authentication failure messages and codes.
const (
	MsgNotAuthenticated   = "Authentication credentials were not provided."
	MsgTokenNotValid      = "Given token not valid for any token type"
	MsgBadAuthHeader      = "Authorization header must contain two space-delimited values"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "No active account found with the given credentials"

	CodeTokenNotValid = "token_not_valid"
	CodeBadAuthHeader = "bad_authorization_header"
	CodeUserNotFound  = "user_not_found"

	WWWAuthenticateHeader    = "WWW-Authenticate"
	WWWAuthenticateChallenge = `Bearer realm="api"`
)

// RespondUnauthorized writes a 401 carrying the bearer challenge.
// code may be empty.
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, detail, code string, err error) {
	opts := []ResponseOption{WithHeader(WWWAuthenticateHeader, WWWAuthenticateChallenge)}
	if code != "" {
		opts = append(opts, WithErrorCode(code))
	}
	RespondWithErrorAndLog(w, r, http.StatusUnauthorized, detail, err, opts...)
}

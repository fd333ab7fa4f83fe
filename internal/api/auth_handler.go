package api

import (
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	creds, err := decodeRegistration(obj)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), creds)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	creds, err := decodeLogin(obj)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	pair, err := h.users.Login(r.Context(), creds)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenPairResponse{
		Refresh: pair.Refresh,
		Access:  pair.Access,
	})
}

// VerifyToken handles POST /auth/token/verify. Any valid token passes.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	token, err := decodeVerifyRequest(obj)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if _, err := h.jwtService.ValidateAnyToken(r.Context(), token); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, struct{}{})
}

// RefreshToken handles POST /auth/token/refresh, exchanging a refresh token
// for a new access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	token, err := decodeRefreshRequest(obj)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), token)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	access, err := h.jwtService.GenerateAccessToken(r.Context(), claims.UserID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Debug("access token refreshed", "user_id", claims.UserID)
	shared.RespondWithJSON(w, r, http.StatusOK, AccessTokenResponse{Access: access})
}

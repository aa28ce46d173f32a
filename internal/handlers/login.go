package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, email, password string) (*models.UserDB, *services.TokenPair, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email, either username or email is required
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// LoginResult is the data payload of a successful login response
// swagger:model LoginResult
type LoginResult struct {
	// Authenticated user
	User *models.UserDB `json:"user"`

	// Short-lived access token
	AccessToken string `json:"accessToken"`

	// Long-lived refresh token
	RefreshToken string `json:"refreshToken"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by username or email, issue an access/refresh token pair and set both as HTTP-only secure cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} models.APIResponse "User logged in"
// @Failure 400 {object} models.APIResponse "Neither username nor email supplied"
// @Failure 401 {object} models.APIResponse "Wrong password"
// @Failure 404 {object} models.APIResponse "User does not exist"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Invalid request body"))
			return
		}

		user, pair, err := svc.Login(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingIdentifier):
				writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Either username or email is required"))
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusNotFound, models.NewAPIError(http.StatusNotFound, "User does not exist"))
			case errors.Is(err, services.ErrInvalidCredentials):
				writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Password entered is incorrect"))
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			}
			return
		}

		setAuthCookies(w, pair)
		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, LoginResult{
			User:         user,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}, "User logged in successfully"))
	}
}

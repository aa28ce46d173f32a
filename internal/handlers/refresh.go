package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-video-tube/internal/jwt"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// Refresher defines the interface that the token rotation service must implement.
type Refresher interface {
	Refresh(ctx context.Context, presented string) (*services.TokenPair, error)
}

// RefreshRequest represents the JSON body fallback for token refresh
// swagger:model RefreshRequest
type RefreshRequest struct {
	// Refresh token, used when the cookie is absent
	RefreshToken string `json:"refreshToken"`
}

// RefreshResult is the data payload of a successful refresh response
// swagger:model RefreshResult
type RefreshResult struct {
	// Rotated access token
	AccessToken string `json:"accessToken"`

	// Rotated refresh token
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshTokenHandler returns an HTTP handler that rotates a refresh token.
// The presented token is read from the refreshToken cookie, falling back to
// the JSON body.
// @Summary Refresh the token pair
// @Description Rotates a valid refresh token into a fresh access/refresh pair; the superseded token is rejected on replay
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest false "Refresh token body fallback"
// @Success 200 {object} models.APIResponse "Access token refreshed"
// @Failure 401 {object} models.APIResponse "Missing, invalid, expired or superseded refresh token"
// @Router /refresh-token [post]
func NewRefreshTokenHandler(svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presented := ""
		if cookie, err := r.Cookie(jwt.RefreshTokenCookie); err == nil {
			presented = cookie.Value
		}
		if presented == "" && r.Body != nil {
			var req RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				presented = req.RefreshToken
			}
		}

		pair, err := svc.Refresh(r.Context(), presented)
		if err != nil {
			if errors.Is(err, services.ErrInvalidRefreshToken) {
				writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Invalid refresh token"))
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			return
		}

		setAuthCookies(w, pair)
		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, RefreshResult{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}, "Access token refreshed"))
	}
}

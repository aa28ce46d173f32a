package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, userID uuid.UUID) error
}

// NewLogoutHandler returns an HTTP handler for user logout.
// @Summary User logout
// @Description Clears both token cookies and revokes the stored refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResponse "User logged out"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.GetUserIDFromContext(r.Context())
		if userID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		if err := svc.Logout(r.Context(), userID); err != nil {
			logger.Log.Errorw("logout failed", "user_id", userID, "err", err)
			writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			return
		}

		clearAuthCookies(w)
		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, struct{}{}, "User logged out"))
	}
}

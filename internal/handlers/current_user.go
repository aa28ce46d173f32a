package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// CurrentUserGetter defines the interface that the current user lookup service must implement.
type CurrentUserGetter interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// NewCurrentUserHandler returns an HTTP handler that fetches the
// authenticated user's own record.
// @Summary Get current user
// @Description Returns the profile of the authenticated user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Current user fetched successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /users/me [get]
func NewCurrentUserHandler(svc CurrentUserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.GetUserIDFromContext(r.Context())
		if userID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		user, err := svc.GetCurrentUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserDoesNotExist) {
				writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			return
		}
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, user, "Current user fetched successfully"))
	}
}

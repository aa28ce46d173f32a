package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// ChannelProfileGetter defines the interface that the channel profile service must implement.
type ChannelProfileGetter interface {
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error)
}

// NewChannelProfileHandler returns an HTTP handler that fetches a channel
// profile by username, with subscription counters relative to the viewer.
// @Summary Get channel profile
// @Description Returns the channel's profile with subscriber counters and whether the viewer is subscribed
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} models.APIResponse "Channel profile fetched successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Channel does not exist"
// @Router /users/c/{username} [get]
func NewChannelProfileHandler(svc ChannelProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := middlewares.GetUserIDFromContext(r.Context())
		if viewerID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		username := chi.URLParam(r, "username")

		profile, err := svc.GetChannelProfile(r.Context(), username, viewerID)
		if err != nil {
			if errors.Is(err, services.ErrChannelNotFound) {
				writeJSON(w, http.StatusNotFound, models.NewAPIError(http.StatusNotFound, "Channel does not exist"))
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			return
		}

		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, profile, "Channel profile fetched successfully"))
	}
}

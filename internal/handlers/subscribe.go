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

// SubscriptionManager defines the interface that the subscription service must implement.
type SubscriptionManager interface {
	Subscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error
	Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error
}

// NewSubscribeHandler returns an HTTP handler that subscribes the
// authenticated user to a channel.
// @Summary Subscribe to a channel
// @Description Creates a subscription edge from the authenticated user to the channel; repeated calls are no-ops
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} models.APIResponse "Subscribed successfully"
// @Failure 400 {object} models.APIResponse "Cannot subscribe to yourself"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Channel does not exist"
// @Router /subscriptions/{username} [post]
func NewSubscribeHandler(svc SubscriptionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID := middlewares.GetUserIDFromContext(r.Context())
		if subscriberID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		username := chi.URLParam(r, "username")

		if err := svc.Subscribe(r.Context(), subscriberID, username); err != nil {
			writeSubscriptionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, nil, "Subscribed successfully"))
	}
}

// NewUnsubscribeHandler returns an HTTP handler that removes the
// authenticated user's subscription to a channel.
// @Summary Unsubscribe from a channel
// @Description Removes the subscription edge from the authenticated user to the channel
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} models.APIResponse "Unsubscribed successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Channel does not exist"
// @Router /subscriptions/{username} [delete]
func NewUnsubscribeHandler(svc SubscriptionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID := middlewares.GetUserIDFromContext(r.Context())
		if subscriberID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		username := chi.URLParam(r, "username")

		if err := svc.Unsubscribe(r.Context(), subscriberID, username); err != nil {
			writeSubscriptionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, nil, "Unsubscribed successfully"))
	}
}

func writeSubscriptionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSelfSubscription):
		writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Cannot subscribe to yourself"))
	case errors.Is(err, services.ErrChannelNotFound):
		writeJSON(w, http.StatusNotFound, models.NewAPIError(http.StatusNotFound, "Channel does not exist"))
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
	}
}

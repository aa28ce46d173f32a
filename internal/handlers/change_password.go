package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// PasswordChanger defines the interface that the password change service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// ChangePasswordRequest represents the payload for changing the current password
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	OldPassword string `json:"oldPassword"`

	// New password to set
	NewPassword string `json:"newPassword"`
}

// NewChangePasswordHandler returns an HTTP handler that changes the
// authenticated user's password.
// @Summary Change current password
// @Description Verifies the old password and replaces it with a new one
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} models.APIResponse "Password changed successfully"
// @Failure 400 {object} models.APIResponse "Missing fields or wrong old password"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /change-password [post]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.GetUserIDFromContext(r.Context())
		if userID == uuid.Nil {
			writeJSON(w, http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Invalid request body"))
			return
		}

		err := svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrMissingRequiredField):
			writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Old and new passwords are required"))
			return
		case errors.Is(err, services.ErrWrongPassword):
			writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Invalid old password"))
			return
		default:
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			return
		}

		writeJSON(w, http.StatusOK, models.NewAPIResponse(http.StatusOK, nil, "Password changed successfully"))
	}
}

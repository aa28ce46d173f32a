package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/jwt"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)

	userID := uuid.New()

	tests := []struct {
		name            string
		withUser        bool
		mockSetup       func()
		expectedCode    int
		expectedMessage string
	}{
		{
			name:     "success",
			withUser: true,
			mockSetup: func() {
				mockSvc.EXPECT().
					Logout(gomock.Any(), userID).
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "User logged out",
		},
		{
			name:            "unauthorized",
			withUser:        false,
			mockSetup:       func() {},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Unauthorized request",
		},
		{
			name:     "internal error",
			withUser: true,
			mockSetup: func() {
				mockSvc.EXPECT().
					Logout(gomock.Any(), userID).
					Return(errors.New("database error"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.withUser {
				req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), userID))
			}
			w := httptest.NewRecorder()

			NewLogoutHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp models.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)

			if tt.expectedCode == http.StatusOK {
				cleared := map[string]bool{}
				for _, c := range w.Result().Cookies() {
					if c.MaxAge < 0 && c.Value == "" {
						cleared[c.Name] = true
					}
				}
				assert.True(t, cleared[jwt.AccessTokenCookie])
				assert.True(t, cleared[jwt.RefreshTokenCookie])
			}
		})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockChannelProfileGetter(ctrl)

	viewerID := uuid.New()
	profile := &models.ChannelProfile{
		UserID:                    uuid.New(),
		Username:                  "channel_one",
		Email:                     "channel@example.com",
		FullName:                  "Channel One",
		SubscriberCount:           3,
		ChannelsSubscribedToCount: 2,
		IsSubscribed:              true,
	}

	tests := []struct {
		name            string
		username        string
		withUser        bool
		mockSetup       func()
		expectedCode    int
		expectedMessage string
	}{
		{
			name:     "success",
			username: "channel_one",
			withUser: true,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetChannelProfile(gomock.Any(), "channel_one", viewerID).
					Return(profile, nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Channel profile fetched successfully",
		},
		{
			name:            "unauthorized",
			username:        "channel_one",
			withUser:        false,
			mockSetup:       func() {},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Unauthorized request",
		},
		{
			name:     "channel not found",
			username: "ghost",
			withUser: true,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetChannelProfile(gomock.Any(), "ghost", viewerID).
					Return(nil, services.ErrChannelNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Channel does not exist",
		},
		{
			name:     "internal error",
			username: "channel_one",
			withUser: true,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetChannelProfile(gomock.Any(), "channel_one", viewerID).
					Return(nil, errors.New("database error"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			router := chi.NewRouter()
			router.Get("/users/c/{username}", NewChannelProfileHandler(mockSvc))

			req := httptest.NewRequest(http.MethodGet, "/users/c/"+tt.username, nil)
			if tt.withUser {
				req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), viewerID))
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp models.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)

			if tt.expectedCode == http.StatusOK {
				data, err := json.Marshal(resp.Data)
				require.NoError(t, err)
				var got models.ChannelProfile
				require.NoError(t, json.Unmarshal(data, &got))
				assert.Equal(t, profile.Username, got.Username)
				assert.Equal(t, profile.SubscriberCount, got.SubscriberCount)
				assert.Equal(t, profile.ChannelsSubscribedToCount, got.ChannelsSubscribedToCount)
				assert.True(t, got.IsSubscribed)
			}
		})
	}
}

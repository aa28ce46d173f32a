package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestChannelService_GetChannelProfile(t *testing.T) {
	viewerID := uuid.New()
	channelID := uuid.New()

	profile := &models.ChannelProfile{
		UserID:                    channelID,
		Username:                  "alice",
		SubscriberCount:           3,
		ChannelsSubscribedToCount: 2,
		IsSubscribed:              true,
	}

	tests := []struct {
		name      string
		username  string
		mockSetup func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader)
		want      *models.ChannelProfile
		wantErr   error
	}{
		{
			name:     "cache hit skips store",
			username: "alice",
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {
				cache.EXPECT().
					GetChannelProfile(gomock.Any(), "alice", viewerID).
					Return(profile, nil)
			},
			want: profile,
		},
		{
			name:     "cache miss reads store and populates cache",
			username: "Alice", // mixed case is normalized
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {
				cache.EXPECT().
					GetChannelProfile(gomock.Any(), "alice", viewerID).
					Return(nil, errors.New("cache miss"))
				read.EXPECT().
					GetByUsername(gomock.Any(), "alice", viewerID).
					Return(profile, nil)
				cache.EXPECT().
					SetChannelProfile(gomock.Any(), "alice", viewerID, profile).
					Return(nil)
			},
			want: profile,
		},
		{
			name:     "cache set failure is swallowed",
			username: "alice",
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {
				cache.EXPECT().
					GetChannelProfile(gomock.Any(), "alice", viewerID).
					Return(nil, errors.New("cache miss"))
				read.EXPECT().
					GetByUsername(gomock.Any(), "alice", viewerID).
					Return(profile, nil)
				cache.EXPECT().
					SetChannelProfile(gomock.Any(), "alice", viewerID, profile).
					Return(errors.New("redis down"))
			},
			want: profile,
		},
		{
			name:     "nonexistent channel",
			username: "ghost",
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {
				cache.EXPECT().
					GetChannelProfile(gomock.Any(), "ghost", viewerID).
					Return(nil, errors.New("cache miss"))
				read.EXPECT().
					GetByUsername(gomock.Any(), "ghost", viewerID).
					Return(nil, nil)
			},
			wantErr: services.ErrChannelNotFound,
		},
		{
			name:      "blank username",
			username:  "   ",
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {},
			wantErr:   services.ErrChannelNotFound,
		},
		{
			name:     "store error",
			username: "alice",
			mockSetup: func(read *services.MockChannelProfileReader, cache *services.MockChannelProfileCacheReader) {
				cache.EXPECT().
					GetChannelProfile(gomock.Any(), "alice", viewerID).
					Return(nil, errors.New("cache miss"))
				read.EXPECT().
					GetByUsername(gomock.Any(), "alice", viewerID).
					Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			read := services.NewMockChannelProfileReader(ctrl)
			cache := services.NewMockChannelProfileCacheReader(ctrl)
			tt.mockSetup(read, cache)

			svc := services.NewChannelService(read, cache)

			got, err := svc.GetChannelProfile(context.Background(), tt.username, viewerID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChannelService_GetChannelProfile_NilCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	viewerID := uuid.New()
	profile := &models.ChannelProfile{Username: "alice"}

	read := services.NewMockChannelProfileReader(ctrl)
	read.EXPECT().GetByUsername(gomock.Any(), "alice", viewerID).Return(profile, nil)

	svc := services.NewChannelService(read, nil)

	got, err := svc.GetChannelProfile(context.Background(), "alice", viewerID)
	assert.NoError(t, err)
	assert.Equal(t, profile, got)
}

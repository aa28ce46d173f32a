package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

// ErrChannelNotFound is returned when no user matches the requested username.
var ErrChannelNotFound = errors.New("channel does not exist")

// ChannelProfileReader retrieves aggregated channel profiles from the store.
type ChannelProfileReader interface {
	GetByUsername(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error)
}

// ChannelProfileCacheReader caches aggregated channel profiles.
type ChannelProfileCacheReader interface {
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error)
	SetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID, profile *models.ChannelProfile) error
}

// ChannelService computes channel profiles with derived subscription counts.
type ChannelService struct {
	readRepo  ChannelProfileReader
	cacheRepo ChannelProfileCacheReader
}

// NewChannelService creates a new ChannelService.
func NewChannelService(readRepo ChannelProfileReader, cacheRepo ChannelProfileCacheReader) *ChannelService {
	return &ChannelService{
		readRepo:  readRepo,
		cacheRepo: cacheRepo,
	}
}

// GetChannelProfile returns the aggregated profile for a username as seen by
// the given viewer. Profiles are served cache-aside; cache failures fall
// through to the store and are never surfaced.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrChannelNotFound
	}

	if s.cacheRepo != nil {
		if profile, err := s.cacheRepo.GetChannelProfile(ctx, username, viewerID); err == nil {
			return profile, nil
		}
	}

	profile, err := s.readRepo.GetByUsername(ctx, username, viewerID)
	if err != nil {
		logger.Log.Errorw("failed to get channel profile", "username", username, "error", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrChannelNotFound
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetChannelProfile(ctx, username, viewerID, profile); err != nil {
			logger.Log.Errorw("failed to cache channel profile", "username", username, "error", err)
		}
	}

	return profile, nil
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

// ChannelProfileCacheRepository provides cached channel profiles using Redis.
type ChannelProfileCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached profiles
}

// NewChannelProfileCacheRepository creates a new repository instance with optional TTL.
func NewChannelProfileCacheRepository(client *redis.Client, expiration time.Duration) *ChannelProfileCacheRepository {
	return &ChannelProfileCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func channelProfileKey(username string, viewerID uuid.UUID) string {
	return fmt.Sprintf("channel_profile:%s:%s", username, viewerID)
}

// GetChannelProfile fetches a cached profile for the (username, viewer) pair.
func (r *ChannelProfileCacheRepository) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error) {
	key := channelProfileKey(username, viewerID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"result", val,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("channel profile not found in cache for %s", username)
		}
		return nil, err
	}

	var profile models.ChannelProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		logger.Log.Infow(
			"key", key,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow(
		"key", key,
		"result", profile,
		"error", nil,
	)

	return &profile, nil
}

// SetChannelProfile caches a profile for the (username, viewer) pair with expiration.
func (r *ChannelProfileCacheRepository) SetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID, profile *models.ChannelProfile) error {
	key := channelProfileKey(username, viewerID)

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}

// InvalidateChannel drops every cached profile of the given channel username,
// regardless of viewer. Called after subscribe/unsubscribe so counts do not
// serve stale for the full TTL.
func (r *ChannelProfileCacheRepository) InvalidateChannel(ctx context.Context, username string) error {
	pattern := fmt.Sprintf("channel_profile:%s:*", username)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.Errorw("failed to drop cached profile", "key", iter.Val(), "error", err)
			return err
		}
	}

	return iter.Err()
}

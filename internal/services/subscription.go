package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

// ErrSelfSubscription is returned when a user tries to subscribe to themselves.
var ErrSelfSubscription = errors.New("cannot subscribe to your own channel")

// SubscriptionWriter defines write operations for subscription edges.
type SubscriptionWriter interface {
	Save(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error
}

// ChannelProfileCacheInvalidator drops cached profiles of a channel.
type ChannelProfileCacheInvalidator interface {
	InvalidateChannel(ctx context.Context, username string) error
}

// SubscriptionService manages subscriber-to-channel edges and publishes
// subscription events.
type SubscriptionService struct {
	userReader UserReader
	writer     SubscriptionWriter
	cache      ChannelProfileCacheInvalidator
	events     EventPublisher
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	userReader UserReader,
	writer SubscriptionWriter,
	cache ChannelProfileCacheInvalidator,
	events EventPublisher,
) *SubscriptionService {
	return &SubscriptionService{
		userReader: userReader,
		writer:     writer,
		cache:      cache,
		events:     events,
	}
}

// resolveChannel looks up a channel user by lowercase username.
func (s *SubscriptionService) resolveChannel(ctx context.Context, channelUsername string) (*models.UserDB, error) {
	username := strings.ToLower(strings.TrimSpace(channelUsername))
	if username == "" {
		return nil, ErrChannelNotFound
	}

	channel, err := s.userReader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to resolve channel", "username", username, "error", err)
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	return channel, nil
}

// invalidateProfiles drops the channel's cached profiles, best-effort.
func (s *SubscriptionService) invalidateProfiles(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateChannel(ctx, username); err != nil {
		logger.Log.Errorw("failed to invalidate cached profiles", "username", username, "error", err)
	}
}

// Subscribe records a subscription edge from the subscriber to the channel
// named by channelUsername. Subscribing twice is a no-op.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error {
	channel, err := s.resolveChannel(ctx, channelUsername)
	if err != nil {
		return err
	}
	if channel.UserID == subscriberID {
		return ErrSelfSubscription
	}

	if err := s.writer.Save(ctx, subscriberID, channel.UserID); err != nil {
		logger.Log.Errorw("failed to save subscription", "subscriber", subscriberID, "channel", channel.UserID, "error", err)
		return err
	}

	s.invalidateProfiles(ctx, channel.Username)

	publishEvent(ctx, s.events, models.Event{
		EventID:   uuid.NewString(),
		Kind:      models.EventSubscriptionCreated,
		Timestamp: time.Now().Unix(),
		UserID:    subscriberID.String(),
		ChannelID: channel.UserID.String(),
	})

	return nil
}

// Unsubscribe removes the subscription edge if present.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error {
	channel, err := s.resolveChannel(ctx, channelUsername)
	if err != nil {
		return err
	}

	if err := s.writer.Delete(ctx, subscriberID, channel.UserID); err != nil {
		logger.Log.Errorw("failed to delete subscription", "subscriber", subscriberID, "channel", channel.UserID, "error", err)
		return err
	}

	s.invalidateProfiles(ctx, channel.Username)

	publishEvent(ctx, s.events, models.Event{
		EventID:   uuid.NewString(),
		Kind:      models.EventSubscriptionRemoved,
		Timestamp: time.Now().Unix(),
		UserID:    subscriberID.String(),
		ChannelID: channel.UserID.String(),
	})

	return nil
}

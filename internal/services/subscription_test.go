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

type subscriptionMocks struct {
	reader *services.MockUserReader
	writer *services.MockSubscriptionWriter
	cache  *services.MockChannelProfileCacheInvalidator
	events *services.MockEventPublisher
}

func newSubscriptionService(t *testing.T) (*services.SubscriptionService, subscriptionMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := subscriptionMocks{
		reader: services.NewMockUserReader(ctrl),
		writer: services.NewMockSubscriptionWriter(ctrl),
		cache:  services.NewMockChannelProfileCacheInvalidator(ctrl),
		events: services.NewMockEventPublisher(ctrl),
	}
	svc := services.NewSubscriptionService(m.reader, m.writer, m.cache, m.events)
	return svc, m
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	subscriberID := uuid.New()
	channelID := uuid.New()
	channel := &models.UserDB{UserID: channelID, Username: "alice"}

	t.Run("successful subscribe", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		lowered := "alice"
		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), &lowered, (*string)(nil)).
			Return(channel, nil)
		m.writer.EXPECT().Save(gomock.Any(), subscriberID, channelID).Return(nil)
		m.cache.EXPECT().InvalidateChannel(gomock.Any(), "alice").Return(nil)
		m.events.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Subscribe(context.Background(), subscriberID, "Alice")
		assert.NoError(t, err)
	})

	t.Run("channel does not exist", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		err := svc.Subscribe(context.Background(), subscriberID, "ghost")
		assert.ErrorIs(t, err, services.ErrChannelNotFound)
	})

	t.Run("self subscription rejected", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.UserDB{UserID: subscriberID, Username: "me"}, nil)

		err := svc.Subscribe(context.Background(), subscriberID, "me")
		assert.ErrorIs(t, err, services.ErrSelfSubscription)
	})

	t.Run("write error", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(channel, nil)
		m.writer.EXPECT().Save(gomock.Any(), subscriberID, channelID).Return(errors.New("db error"))

		err := svc.Subscribe(context.Background(), subscriberID, "alice")
		assert.EqualError(t, err, "db error")
	})

	t.Run("cache invalidation failure is swallowed", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(channel, nil)
		m.writer.EXPECT().Save(gomock.Any(), subscriberID, channelID).Return(nil)
		m.cache.EXPECT().InvalidateChannel(gomock.Any(), "alice").Return(errors.New("redis down"))
		m.events.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Subscribe(context.Background(), subscriberID, "alice")
		assert.NoError(t, err)
	})

	t.Run("kafka failure is swallowed", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(channel, nil)
		m.writer.EXPECT().Save(gomock.Any(), subscriberID, channelID).Return(nil)
		m.cache.EXPECT().InvalidateChannel(gomock.Any(), "alice").Return(nil)
		m.events.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		err := svc.Subscribe(context.Background(), subscriberID, "alice")
		assert.NoError(t, err)
	})
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	subscriberID := uuid.New()
	channelID := uuid.New()
	channel := &models.UserDB{UserID: channelID, Username: "alice"}

	t.Run("successful unsubscribe", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(channel, nil)
		m.writer.EXPECT().Delete(gomock.Any(), subscriberID, channelID).Return(nil)
		m.cache.EXPECT().InvalidateChannel(gomock.Any(), "alice").Return(nil)
		m.events.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Unsubscribe(context.Background(), subscriberID, "alice")
		assert.NoError(t, err)
	})

	t.Run("channel does not exist", func(t *testing.T) {
		svc, m := newSubscriptionService(t)

		m.reader.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		err := svc.Unsubscribe(context.Background(), subscriberID, "ghost")
		assert.ErrorIs(t, err, services.ErrChannelNotFound)
	})
}

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestChannelProfileCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewChannelProfileCacheRepository(rdb, 2*time.Second)

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

	t.Run("Set and Get channel profile", func(t *testing.T) {
		err := repo.SetChannelProfile(ctx, "channel_one", viewerID, profile)
		assert.NoError(t, err)

		got, err := repo.GetChannelProfile(ctx, "channel_one", viewerID)
		assert.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("Get missing key returns error", func(t *testing.T) {
		_, err := repo.GetChannelProfile(ctx, "nobody", viewerID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in cache")
	})

	t.Run("Separate viewers get separate entries", func(t *testing.T) {
		otherViewer := uuid.New()
		_, err := repo.GetChannelProfile(ctx, "channel_one", otherViewer)
		assert.Error(t, err)
	})

	t.Run("InvalidateChannel drops all viewer entries", func(t *testing.T) {
		otherViewer := uuid.New()
		assert.NoError(t, repo.SetChannelProfile(ctx, "channel_one", viewerID, profile))
		assert.NoError(t, repo.SetChannelProfile(ctx, "channel_one", otherViewer, profile))

		err := repo.InvalidateChannel(ctx, "channel_one")
		assert.NoError(t, err)

		_, err = repo.GetChannelProfile(ctx, "channel_one", viewerID)
		assert.Error(t, err)
		_, err = repo.GetChannelProfile(ctx, "channel_one", otherViewer)
		assert.Error(t, err)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		assert.NoError(t, repo.SetChannelProfile(ctx, "expiring", viewerID, profile))

		// Wait for expiration (2s)
		time.Sleep(3 * time.Second)

		_, err := repo.GetChannelProfile(ctx, "expiring", viewerID)
		assert.Error(t, err)
	})
}

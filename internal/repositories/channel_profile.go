package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

type ChannelProfileReadRepository struct {
	db *sqlx.DB
}

func NewChannelProfileReadRepository(db *sqlx.DB) *ChannelProfileReadRepository {
	return &ChannelProfileReadRepository{db: db}
}

// GetByUsername aggregates a user's channel profile in a single statement:
// the subscriptions table is joined once with the user as channel (subscriber
// count, viewer membership) and once with the user as subscriber
// (subscribed-to count). Returns (nil, nil) when no user matches.
func (r *ChannelProfileReadRepository) GetByUsername(ctx context.Context, username string, viewerID uuid.UUID) (*models.ChannelProfile, error) {
	const query = `
		SELECT u.user_id,
		       u.username,
		       u.email,
		       u.full_name,
		       u.avatar_url,
		       u.cover_image_url,
		       COUNT(DISTINCT subs.subscription_id)     AS subscriber_count,
		       COUNT(DISTINCT subbed.subscription_id)   AS channels_subscribed_to_count,
		       BOOL_OR(subs.subscriber_id = $2)         AS is_subscribed
		FROM users u
		LEFT JOIN subscriptions subs   ON subs.channel_id = u.user_id
		LEFT JOIN subscriptions subbed ON subbed.subscriber_id = u.user_id
		WHERE u.username = $1
		GROUP BY u.user_id
	`
	args := []any{username, viewerID}

	var row struct {
		models.ChannelProfile
		IsSubscribed sql.NullBool `db:"is_subscribed"`
	}
	err := r.db.GetContext(ctx, &row, query, args...)

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile := row.ChannelProfile
	// BOOL_OR over zero subscriber rows yields NULL
	profile.IsSubscribed = row.IsSubscribed.Valid && row.IsSubscribed.Bool

	return &profile, nil
}

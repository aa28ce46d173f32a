package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
)

type SubscriptionWriteRepository struct {
	db *sqlx.DB
}

func NewSubscriptionWriteRepository(db *sqlx.DB) *SubscriptionWriteRepository {
	return &SubscriptionWriteRepository{db: db}
}

// execer returns the transaction bound to the request context when present,
// so that subscription writes ride the TxMiddleware transaction.
func (r *SubscriptionWriteRepository) execer(ctx context.Context) sqlx.ExecerContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Save records a subscriber-to-channel edge. The (subscriber, channel) pair
// is unique; saving an existing edge is a no-op.
func (r *SubscriptionWriteRepository) Save(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	const query = `
		INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	args := []any{subscriberID, channelID}

	res, err := r.execer(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Delete removes a subscriber-to-channel edge if it exists.
func (r *SubscriptionWriteRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	const query = `
		DELETE FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = $2
	`
	args := []any{subscriberID, channelID}

	res, err := r.execer(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionDB represents a subscriber-to-channel edge in the database.
// Both sides reference users; the pair is unique.
type SubscriptionDB struct {
	SubscriptionID uuid.UUID `json:"id" db:"subscription_id"`        // Primary key
	SubscriberID   uuid.UUID `json:"subscriber" db:"subscriber_id"`  // User who subscribes
	ChannelID      uuid.UUID `json:"channel" db:"channel_id"`        // User being subscribed to
	CreatedAt      time.Time `json:"created_at" db:"created_at"`     // Creation timestamp
}

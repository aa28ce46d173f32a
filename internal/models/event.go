package models

// Event kinds published to Kafka.
const (
	EventUserRegistered      = "user_registered"
	EventSubscriptionCreated = "subscription_created"
	EventSubscriptionRemoved = "subscription_removed"
)

// Event is the payload published to Kafka for audit-style consumers.
type Event struct {
	EventID   string `json:"event_id"`             // Unique event ID
	Kind      string `json:"kind"`                 // One of the Event* constants
	Timestamp int64  `json:"timestamp"`            // Unix timestamp
	UserID    string `json:"user_id"`              // Acting user
	ChannelID string `json:"channel_id,omitempty"` // Target channel for subscription events
}

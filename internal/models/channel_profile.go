package models

import "github.com/google/uuid"

// ChannelProfile is the aggregated public view of a user as a channel.
// It carries only public-safe fields plus the derived subscription counts.
type ChannelProfile struct {
	UserID                    uuid.UUID `json:"id" db:"user_id"`
	Username                  string    `json:"username" db:"username"`
	Email                     string    `json:"email" db:"email"`
	FullName                  string    `json:"fullName" db:"full_name"`
	AvatarURL                 string    `json:"avatar" db:"avatar_url"`
	CoverImageURL             string    `json:"coverImage" db:"cover_image_url"`
	SubscriberCount           int64     `json:"subscriberCount" db:"subscriber_count"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount" db:"channels_subscribed_to_count"`
	IsSubscribed              bool      `json:"isSubscribed" db:"is_subscribed"`
}

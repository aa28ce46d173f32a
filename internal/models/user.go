package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database.
// The password hash and the currently stored refresh token are never
// serialized into API responses.
type UserDB struct {
	UserID        uuid.UUID `json:"id" db:"user_id"`                 // Primary key
	Username      string    `json:"username" db:"username"`          // Unique username, stored lowercase
	Email         string    `json:"email" db:"email"`                // User email
	FullName      string    `json:"fullName" db:"full_name"`         // Display name
	AvatarURL     string    `json:"avatar" db:"avatar_url"`          // Required avatar image URL
	CoverImageURL string    `json:"coverImage" db:"cover_image_url"` // Optional cover image URL
	PasswordHash  string    `json:"-" db:"password_hash"`            // Hashed password
	RefreshToken  *string   `json:"-" db:"refresh_token"`            // Currently valid refresh token, nil when logged out
	CreatedAt     time.Time `json:"created_at" db:"created_at"`      // Creation timestamp
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`      // Last update timestamp
}

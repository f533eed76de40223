package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GoogleSub     string    `json:"-" db:"google_sub"`
	Email         string    `json:"email" db:"email"`
	Name          string    `json:"name" db:"name"`
	Picture       string    `json:"picture,omitempty" db:"picture"`
	TotalPhotos   int       `json:"total_photos" db:"total_photos"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	LastPhotoDate time.Time `json:"-" db:"last_photo_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Session is a server-side login session keyed by an opaque token.
type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. A user signs up with email+password or
// arrives through the OAuth provider, in which case PasswordHash is empty
// and the provider/subject pair identifies them.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email         string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string    `json:"-" gorm:"type:text;not null;default:''"`
	OAuthProvider string    `json:"-" gorm:"type:text;not null;default:''"`
	OAuthSubject  string    `json:"-" gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is a server-side login. Tokens carry the session ID so a login can
// be revoked without waiting for token expiry.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	LastSeen  time.Time `json:"last_seen" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

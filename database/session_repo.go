package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startsnapfun/startsnap-backend/models"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db}
}

// FindByID returns a session by its ID, or nil when no such session exists.
func (r *SessionRepo) FindByID(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Add inserts a new session into the database
func (r *SessionRepo) Add(session *models.Session) error {
	return r.db.Create(session).Error
}

// Touch updates the session's last-seen timestamp.
func (r *SessionRepo) Touch(id uuid.UUID, seen time.Time) error {
	return r.db.Model(&models.Session{}).
		Where("id = ?", id).
		UpdateColumn("last_seen", seen).Error
}

// Delete removes a session, revoking the login it backs.
func (r *SessionRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Session{}, "id = ?", id).Error
}

// DeleteExpired removes every session past its expiry and returns how many
// rows went away. The sweeper calls this on a fixed interval.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

package database

import (
	"gorm.io/gorm"

	"github.com/startsnapfun/startsnap-backend/models"
)

type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db}
}

// RecentPublic returns the most recent public events, newest first.
func (r *ActivityRepo) RecentPublic(limit int) ([]*models.ActivityEvent, error) {
	var events []*models.ActivityEvent
	err := r.db.Where("public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// Add appends an event to the activity log. Events are write-once.
func (r *ActivityRepo) Add(event *models.ActivityEvent) error {
	return r.db.Create(event).Error
}

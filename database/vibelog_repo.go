package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startsnapfun/startsnap-backend/models"
)

type VibeLogRepo struct {
	db *gorm.DB
}

func NewVibeLogRepo(db *gorm.DB) *VibeLogRepo {
	return &VibeLogRepo{db}
}

// FindByProject returns all vibe logs of a project, newest first.
func (r *VibeLogRepo) FindByProject(projectID uuid.UUID) ([]*models.VibeLog, error) {
	var logs []*models.VibeLog
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// FindByID returns a vibe log by its ID, or nil when no such entry exists.
func (r *VibeLogRepo) FindByID(id uuid.UUID) (*models.VibeLog, error) {
	var log models.VibeLog
	err := r.db.First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Add inserts a new vibe log into the database
func (r *VibeLogRepo) Add(log *models.VibeLog) error {
	return r.db.Create(log).Error
}

// Update updates an existing vibe log in the database
func (r *VibeLogRepo) Update(log *models.VibeLog) error {
	return r.db.Save(log).Error
}

// Delete removes a vibe log from the database by id
func (r *VibeLogRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.VibeLog{}, "id = ?", id).Error
}

package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startsnapfun/startsnap-backend/models"
)

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db}
}

// FindByProject returns all feedback on a project with replies preloaded,
// oldest first so threads read top to bottom.
func (r *FeedbackRepo) FindByProject(projectID uuid.UUID) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := r.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("feedback_replies.created_at ASC")
	}).Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&feedback).Error
	return feedback, err
}

// FindByID returns a feedback entry by its ID, or nil when absent.
func (r *FeedbackRepo) FindByID(id uuid.UUID) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.First(&feedback, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// Add inserts a new feedback entry into the database
func (r *FeedbackRepo) Add(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// Update updates an existing feedback entry in the database
func (r *FeedbackRepo) Update(feedback *models.Feedback) error {
	return r.db.Save(feedback).Error
}

// Delete removes a feedback entry from the database by id
func (r *FeedbackRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Feedback{}, "id = ?", id).Error
}

// Reply operations live on the same repo since replies never exist apart
// from their feedback entry.

// FindReplyByID returns a reply by its ID, or nil when absent.
func (r *FeedbackRepo) FindReplyByID(id uuid.UUID) (*models.FeedbackReply, error) {
	var reply models.FeedbackReply
	err := r.db.First(&reply, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// AddReply inserts a new reply into the database
func (r *FeedbackRepo) AddReply(reply *models.FeedbackReply) error {
	return r.db.Create(reply).Error
}

// UpdateReply updates an existing reply in the database
func (r *FeedbackRepo) UpdateReply(reply *models.FeedbackReply) error {
	return r.db.Save(reply).Error
}

// DeleteReply removes a reply from the database by id
func (r *FeedbackRepo) DeleteReply(id uuid.UUID) error {
	return r.db.Delete(&models.FeedbackReply{}, "id = ?", id).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// VibeLog is a progress update posted on a project by its owner. Body is
// markdown and may have been rewritten by the AI formatter before posting.
type VibeLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type" gorm:"type:text;not null"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

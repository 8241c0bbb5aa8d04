package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a comment left on a project page. Only its author may edit or
// delete it.
type Feedback struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID       `json:"project_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID       `json:"author_id" gorm:"type:uuid;not null;index"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	Replies   []FeedbackReply `json:"replies,omitempty" gorm:"foreignKey:FeedbackID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FeedbackReply is a threaded response to a feedback entry.
type FeedbackReply struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FeedbackID uuid.UUID `json:"feedback_id" gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

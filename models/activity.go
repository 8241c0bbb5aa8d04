package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types. These discriminate what the display text describes
// and which target references are set.
const (
	ActivityProjectCreated  = "project_created"
	ActivityProjectUpdated  = "project_updated"
	ActivityProjectLaunched = "project_launched"
	ActivityVibeLogPosted   = "vibelog_posted"
	ActivityFeedbackPosted  = "feedback_posted"
	ActivityProjectSupport  = "project_supported"
	ActivityUserJoined      = "user_joined"
)

// ActivityEvent is an immutable row in the public activity log. Events are
// written once, after the primary write they describe has committed, and are
// never updated or deleted.
type ActivityEvent struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Type       string     `json:"type" gorm:"type:text;not null;index"`
	Display    string     `json:"display" gorm:"type:text;not null"`
	ActorID    uuid.UUID  `json:"actor_id" gorm:"type:uuid;not null;index"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid"`
	VibeLogID  *uuid.UUID `json:"vibelog_id,omitempty" gorm:"type:uuid"`
	FeedbackID *uuid.UUID `json:"feedback_id,omitempty" gorm:"type:uuid"`
	TargetUser *uuid.UUID `json:"target_user,omitempty" gorm:"type:uuid"`
	Public     bool       `json:"public" gorm:"not null;default:true;index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`
}

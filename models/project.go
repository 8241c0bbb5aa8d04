package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project type values.
const (
	ProjectTypeIdea = "idea"
	ProjectTypeLive = "live"
)

// Project is a published StartSnap showcase. Slug is derived from the name
// at creation and is the public identity of the project; it never changes
// except through the rename path of the update workflow.
type Project struct {
	ID               uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	OwnerID          uuid.UUID                   `json:"owner_id" gorm:"type:uuid;not null;index"`
	Slug             string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Name             string                      `json:"name" gorm:"type:text;not null"`
	Description      string                      `json:"description" gorm:"type:text;not null"`
	Category         string                      `json:"category" gorm:"type:text;not null"`
	Type             string                      `json:"type" gorm:"type:text;not null;default:idea"`
	LiveURL          string                      `json:"live_url" gorm:"type:text;not null;default:''"`
	VideoURL         string                      `json:"video_url" gorm:"type:text;not null;default:''"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	ToolsUsed        datatypes.JSONSlice[string] `json:"tools_used"`
	FeedbackAreas    datatypes.JSONSlice[string] `json:"feedback_areas"`
	IsHackathonEntry bool                        `json:"is_hackathon_entry" gorm:"not null;default:false"`
	ImageURLs        datatypes.JSONSlice[string] `json:"image_urls"`
	SupportCount     int                         `json:"support_count" gorm:"not null;default:0"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

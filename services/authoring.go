package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/registry"
)

// ProjectStore is the persistence the authoring workflow needs.
type ProjectStore interface {
	FindByID(id uuid.UUID) (*models.Project, error)
	FindBySlug(slug string) (*models.Project, error)
	Add(project *models.Project) error
	Update(project *models.Project) error
	IncrementSupport(id uuid.UUID) error
	Delete(id uuid.UUID) error
}

// VibeLogStore is the slice of the vibe-log persistence authoring uses for
// the optional first entry.
type VibeLogStore interface {
	Add(log *models.VibeLog) error
}

// ActivityRecorder receives an event after a successful primary write.
type ActivityRecorder interface {
	Record(event models.ActivityEvent)
}

// ImageCleaner removes stored images after the database has committed.
type ImageCleaner interface {
	Delete(ctx context.Context, userID uuid.UUID, publicURL string) error
}

// ProjectInput is the validated form state for create and update.
type ProjectInput struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	LiveURL          string   `json:"live_url"`
	VideoURL         string   `json:"video_url"`
	Tags             []string `json:"tags"`
	ToolsUsed        []string `json:"tools_used"`
	FeedbackAreas    []string `json:"feedback_areas"`
	IsHackathonEntry bool     `json:"is_hackathon_entry"`
	ImageURLs        []string `json:"image_urls"`
}

// InitialVibeLog is the optional first progress entry created with a project.
type InitialVibeLog struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Deliberately permissive: the field just has to look like a URL.
var urlPattern = regexp.MustCompile(`^https?://\S+\.\S+`)

// Authoring runs the multi-entity project workflows: slug handling, the
// project row, the optional first vibe log, and post-commit image cleanup.
type Authoring struct {
	projects ProjectStore
	vibeLogs VibeLogStore
	activity ActivityRecorder
	images   ImageCleaner
	logger   zerolog.Logger
}

func NewAuthoring(projects ProjectStore, vibeLogs VibeLogStore, activity ActivityRecorder, images ImageCleaner) *Authoring {
	return &Authoring{
		projects: projects,
		vibeLogs: vibeLogs,
		activity: activity,
		images:   images,
		logger:   log.With().Str("serviceName", "authoring").Logger(),
	}
}

func validateProjectInput(input ProjectInput) error {
	if len(strings.TrimSpace(input.Name)) < 3 {
		return errs.NewValidationError("name", "name must be at least 3 characters")
	}
	if len(strings.TrimSpace(input.Description)) < 10 {
		return errs.NewValidationError("description", "description must be at least 10 characters")
	}
	if !registry.ValidCategory(input.Category) {
		return errs.NewValidationError("category", fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.Type != "" && input.Type != models.ProjectTypeIdea && input.Type != models.ProjectTypeLive {
		return errs.NewValidationError("type", fmt.Sprintf("type must be %q or %q", models.ProjectTypeIdea, models.ProjectTypeLive))
	}
	if input.LiveURL != "" && !urlPattern.MatchString(input.LiveURL) {
		return errs.NewValidationError("live_url", "live URL does not look like a URL")
	}
	if input.VideoURL != "" && !urlPattern.MatchString(input.VideoURL) {
		return errs.NewValidationError("video_url", "video URL does not look like a URL")
	}
	return nil
}

// CreateProject publishes a new project and, when firstLog is present, its
// first vibe log. The slug is derived from the name; a collision at create
// time is rejected so the user picks a different name, never auto-suffixed.
//
// The project row and the first log are two sequential writes. A log
// failure after the project insert leaves the project without its first
// entry; the caller sees the error and the project stands.
func (a *Authoring) CreateProject(ownerID uuid.UUID, input ProjectInput, firstLog *InitialVibeLog) (*models.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	slug := Slugify(input.Name)
	if slug == "" {
		return nil, errs.NewInvalidSlugError(input.Name)
	}

	existing, err := a.projects.FindBySlug(slug)
	if err != nil {
		return nil, errs.NewDatabaseError("check slug for", "project", err)
	}
	if existing != nil {
		return nil, errs.NewNameTakenError(input.Name)
	}

	projectType := input.Type
	if projectType == "" {
		projectType = models.ProjectTypeIdea
	}
	project := &models.Project{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Slug:             slug,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		Category:         input.Category,
		Type:             projectType,
		LiveURL:          input.LiveURL,
		VideoURL:         input.VideoURL,
		Tags:             datatypes.NewJSONSlice(input.Tags),
		ToolsUsed:        datatypes.NewJSONSlice(input.ToolsUsed),
		FeedbackAreas:    datatypes.NewJSONSlice(input.FeedbackAreas),
		IsHackathonEntry: input.IsHackathonEntry,
		ImageURLs:        datatypes.NewJSONSlice(input.ImageURLs),
	}
	if err := a.projects.Add(project); err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	if firstLog != nil {
		logType := firstLog.Type
		if !registry.ValidVibeLogType(logType) {
			logType = "update"
		}
		entry := &models.VibeLog{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Type:      logType,
			Title:     firstLog.Title,
			Body:      firstLog.Body,
		}
		if err := a.vibeLogs.Add(entry); err != nil {
			return nil, errs.NewDatabaseError("create first vibe log for", "project", err)
		}
	}

	projectID := project.ID
	a.activity.Record(models.ActivityEvent{
		Type:      models.ActivityProjectCreated,
		Display:   fmt.Sprintf("published %q", project.Name),
		ActorID:   ownerID,
		ProjectID: &projectID,
		Public:    true,
	})

	return project, nil
}

// UpdateProject saves an owner's edit. A rename re-derives the slug; if the
// new slug belongs to another project it is disambiguated with an ID suffix
// instead of bothering the user. The database write commits before any
// storage deletion, so a crash mid-save never leaves rows pointing at
// deleted images; failed deletions are logged and swallowed.
func (a *Authoring) UpdateProject(ctx context.Context, userID, projectID uuid.UUID, input ProjectInput, imagesToDelete []string) (*models.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	project, err := a.projects.FindByID(projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if project.OwnerID != userID {
		return nil, errs.NewForbiddenError("only the owner can edit this project")
	}

	newName := strings.TrimSpace(input.Name)
	if newName != project.Name {
		slug := Slugify(newName)
		if slug == "" {
			return nil, errs.NewInvalidSlugError(input.Name)
		}
		other, err := a.projects.FindBySlug(slug)
		if err != nil {
			return nil, errs.NewDatabaseError("check slug for", "project", err)
		}
		if other != nil && other.ID != project.ID {
			slug = SlugWithIDSuffix(slug, project.ID)
		}
		project.Slug = slug
		project.Name = newName
	}

	wasIdea := project.Type == models.ProjectTypeIdea
	project.Description = input.Description
	project.Category = input.Category
	if input.Type != "" {
		project.Type = input.Type
	}
	project.LiveURL = input.LiveURL
	project.VideoURL = input.VideoURL
	project.Tags = datatypes.NewJSONSlice(input.Tags)
	project.ToolsUsed = datatypes.NewJSONSlice(input.ToolsUsed)
	project.FeedbackAreas = datatypes.NewJSONSlice(input.FeedbackAreas)
	project.IsHackathonEntry = input.IsHackathonEntry
	project.ImageURLs = datatypes.NewJSONSlice(input.ImageURLs)

	if err := a.projects.Update(project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}

	// Storage cleanup strictly after the database commit. The rows are the
	// source of truth now; a leaked object is recoverable, a dangling URL
	// is not.
	for _, url := range imagesToDelete {
		if err := a.images.Delete(ctx, userID, url); err != nil {
			a.logger.Warn().Err(err).Str("url", url).Msg("post-save image cleanup failed")
		}
	}

	eventType := models.ActivityProjectUpdated
	display := fmt.Sprintf("updated %q", project.Name)
	if wasIdea && project.Type == models.ProjectTypeLive {
		eventType = models.ActivityProjectLaunched
		display = fmt.Sprintf("launched %q", project.Name)
	}
	id := project.ID
	a.activity.Record(models.ActivityEvent{
		Type:      eventType,
		Display:   display,
		ActorID:   userID,
		ProjectID: &id,
		Public:    true,
	})

	return project, nil
}

// DeleteProject removes an owner's project and then best-effort deletes its
// stored images, again only after the row is gone.
func (a *Authoring) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	project, err := a.projects.FindByID(projectID)
	if err != nil {
		return errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return errs.NewNotFound("project")
	}
	if project.OwnerID != userID {
		return errs.NewForbiddenError("only the owner can delete this project")
	}

	if err := a.projects.Delete(projectID); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}

	for _, url := range project.ImageURLs {
		if err := a.images.Delete(ctx, userID, url); err != nil {
			a.logger.Warn().Err(err).Str("url", url).Msg("post-delete image cleanup failed")
		}
	}
	return nil
}

// SupportProject bumps a project's support counter on behalf of a user.
func (a *Authoring) SupportProject(userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := a.projects.FindByID(projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}

	if err := a.projects.IncrementSupport(projectID); err != nil {
		return nil, errs.NewDatabaseError("support", "project", err)
	}
	project.SupportCount++

	id := project.ID
	owner := project.OwnerID
	a.activity.Record(models.ActivityEvent{
		Type:       models.ActivityProjectSupport,
		Display:    fmt.Sprintf("supported %q", project.Name),
		ActorID:    userID,
		ProjectID:  &id,
		TargetUser: &owner,
		Public:     true,
	})

	return project, nil
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/registry"
	"github.com/startsnapfun/startsnap-backend/services"
)

type vibeLogHandler struct {
	responder   Responder
	logger      zerolog.Logger
	vibeLogRepo *database.VibeLogRepo
	projectRepo *database.ProjectRepo
	feed        *services.Feed
	formatter   *services.Formatter
}

func newVibeLogHandler(vibeLogRepo *database.VibeLogRepo, projectRepo *database.ProjectRepo, feed *services.Feed, formatter *services.Formatter) vibeLogHandler {
	logger := log.With().Str("handlerName", "vibeLogHandler").Logger()

	return vibeLogHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		vibeLogRepo: vibeLogRepo,
		projectRepo: projectRepo,
		feed:        feed,
		formatter:   formatter,
	}
}

type vibeLogPayload struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p vibeLogPayload) validate() error {
	if !registry.ValidVibeLogType(p.Type) {
		return errs.NewValidationError("type", fmt.Sprintf("unknown vibe log type %q", p.Type))
	}
	if p.Title == "" {
		return errs.NewValidationError("title", "title is required")
	}
	if p.Body == "" {
		return errs.NewValidationError("body", "body is required")
	}
	return nil
}

// ownedProject resolves a project and checks the caller owns it
func (h vibeLogHandler) ownedProject(projectID, userID uuid.UUID) (*models.Project, error) {
	project, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project not found")
	}
	if project.OwnerID != userID {
		return nil, errs.NewForbiddenError("only the owner can post vibe logs")
	}
	return project, nil
}

// getProjectVibeLogs lists a project's vibe logs newest first
func (h vibeLogHandler) getProjectVibeLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		project, err := h.projectRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		logs, err := h.vibeLogRepo.FindByProject(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "vibe logs", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"vibelogs": logs,
			"total":    len(logs),
		})
	}
}

// createVibeLog posts a new entry on an owned project
func (h vibeLogHandler) createVibeLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		var payload vibeLogPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("vibe log payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.ownedProject(projectID, userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry := &models.VibeLog{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Type:      payload.Type,
			Title:     payload.Title,
			Body:      payload.Body,
		}
		if err := h.vibeLogRepo.Add(entry); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "vibe log", err))
			return
		}

		entryID := entry.ID
		projID := project.ID
		h.feed.Record(models.ActivityEvent{
			Type:      models.ActivityVibeLogPosted,
			Display:   fmt.Sprintf("posted %q on %q", entry.Title, project.Name),
			ActorID:   userID,
			ProjectID: &projID,
			VibeLogID: &entryID,
			Public:    true,
		})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, entry)
	}
}

// updateVibeLog edits an entry on an owned project
func (h vibeLogHandler) updateVibeLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		vibeLogID, err := uuid.Parse(chi.URLParam(r, "vibeLogID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid vibeLogID"))
			return
		}

		entry, err := h.vibeLogRepo.FindByID(vibeLogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "vibe log", err))
			return
		}
		if entry == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("vibe log not found"))
			return
		}
		if _, err := h.ownedProject(entry.ProjectID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var payload vibeLogPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("vibe log payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry.Type = payload.Type
		entry.Title = payload.Title
		entry.Body = payload.Body
		if err := h.vibeLogRepo.Update(entry); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "vibe log", err))
			return
		}

		h.responder.WriteJSON(w, entry)
	}
}

// deleteVibeLog removes an entry on an owned project
func (h vibeLogHandler) deleteVibeLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		vibeLogID, err := uuid.Parse(chi.URLParam(r, "vibeLogID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid vibeLogID"))
			return
		}

		entry, err := h.vibeLogRepo.FindByID(vibeLogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "vibe log", err))
			return
		}
		if entry == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("vibe log not found"))
			return
		}
		if _, err := h.ownedProject(entry.ProjectID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.vibeLogRepo.Delete(vibeLogID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "vibe log", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "vibe log deleted successfully",
		})
	}
}

type formatPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// formatVibeLog rewrites raw text as markdown through the AI formatter
func (h vibeLogHandler) formatVibeLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.formatter == nil {
			h.responder.WriteError(w, errs.NewBadRequestError("AI formatting is not configured"))
			return
		}

		var payload formatPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("format payload"))
			return
		}

		formatted, err := h.formatter.Format(r.Context(), payload.Type, payload.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"content": formatted})
	}
}

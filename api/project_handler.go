package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/services"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	authoring   *services.Authoring
	projectRepo *database.ProjectRepo
	profileRepo *database.ProfileRepo
}

func newProjectHandler(authoring *services.Authoring, projectRepo *database.ProjectRepo, profileRepo *database.ProfileRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		authoring:   authoring,
		projectRepo: projectRepo,
		profileRepo: profileRepo,
	}
}

// ProjectDetail is a project plus the public profile of its owner
type ProjectDetail struct {
	Project *models.Project `json:"project"`
	Owner   *models.Profile `json:"owner,omitempty"`
}

// ProjectCollection represents multiple projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total,omitempty"`
}

type createProjectPayload struct {
	services.ProjectInput
	FirstVibeLog *services.InitialVibeLog `json:"first_vibe_log,omitempty"`
}

type updateProjectPayload struct {
	services.ProjectInput
	ImagesToDelete []string `json:"images_to_delete,omitempty"`
}

// getAllProjects lists projects newest first, optionally filtered by
// category, type, owner or hackathon flag
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := database.ProjectFilter{
			Category: query.Get("category"),
			Type:     query.Get("type"),
		}
		if owner := query.Get("owner"); owner != "" {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid owner ID"))
				return
			}
			filter.OwnerID = ownerID
		}
		if query.Get("hackathon") == "true" {
			filter.Hackathon = true
		}
		if limit := query.Get("limit"); limit != "" {
			if n, err := strconv.Atoi(limit); err == nil && n > 0 {
				filter.Limit = n
			}
		}

		projects, err := h.projectRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectBySlug retrieves one project by its public slug together with
// its owner's profile
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		project, err := h.projectRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		owner, err := h.profileRepo.FindByUserID(project.OwnerID)
		if err != nil {
			// The page can render without the owner card
			h.logger.Warn().Err(err).Str("slug", slug).Msg("could not load owner profile")
		}

		h.responder.WriteJSON(w, ProjectDetail{Project: project, Owner: owner})
	}
}

// createProject publishes a new project, optionally with its first vibe log
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload createProjectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}

		project, err := h.authoring.CreateProject(userID, payload.ProjectInput, payload.FirstVibeLog)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, ProjectDetail{Project: project})
	}
}

// updateProject saves an owner's edit and cleans up removed images
func (h projectHandler) updateProject() http.HandlerFunc {
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

		var payload updateProjectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}

		project, err := h.authoring.UpdateProject(r.Context(), userID, projectID, payload.ProjectInput, payload.ImagesToDelete)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectDetail{Project: project})
	}
}

// deleteProject removes an owner's project
func (h projectHandler) deleteProject() http.HandlerFunc {
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

		if err := h.authoring.DeleteProject(r.Context(), userID, projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// supportProject bumps the project's support counter
func (h projectHandler) supportProject() http.HandlerFunc {
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

		project, err := h.authoring.SupportProject(userID, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":        "success",
			"support_count": project.SupportCount,
		})
	}
}

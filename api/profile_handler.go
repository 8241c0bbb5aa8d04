package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/registry"
)

type profileHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo *database.ProfileRepo
	projectRepo *database.ProjectRepo
}

func newProfileHandler(profileRepo *database.ProfileRepo, projectRepo *database.ProjectRepo) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
		projectRepo: projectRepo,
	}
}

// ProfileDetail is a profile plus the projects its owner has published
type ProfileDetail struct {
	Profile  *models.Profile   `json:"profile"`
	Projects []*models.Project `json:"projects"`
}

type profilePayload struct {
	Username    string `json:"username"`
	Bio         string `json:"bio"`
	Status      string `json:"status"`
	GithubURL   string `json:"github_url"`
	TwitterURL  string `json:"twitter_url"`
	LinkedinURL string `json:"linkedin_url"`
	WebsiteURL  string `json:"website_url"`
}

// getProfile retrieves a public profile and its projects by username
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if username == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing username"))
			return
		}

		profile, err := h.profileRepo.FindByUsername(username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		if profile == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("profile not found"))
			return
		}

		projects, err := h.projectRepo.FindAll(database.ProjectFilter{OwnerID: profile.UserID})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProfileDetail{Profile: profile, Projects: projects})
	}
}

// upsertProfile creates or replaces the caller's profile
func (h profileHandler) upsertProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload profilePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("profile payload"))
			return
		}

		username := strings.TrimSpace(payload.Username)
		if len(username) < 3 {
			h.responder.WriteError(w, errs.NewValidationError("username", "username must be at least 3 characters"))
			return
		}
		if payload.Status != "" && !registry.ValidProfileStatus(payload.Status) {
			h.responder.WriteError(w, errs.NewValidationError("status", "unknown profile status"))
			return
		}

		// Username must not belong to someone else
		existing, err := h.profileRepo.FindByUsername(username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		if existing != nil && existing.UserID != userID {
			h.responder.WriteError(w, errs.NewUsernameTakenError(username))
			return
		}

		profile := &models.Profile{
			UserID:      userID,
			Username:    username,
			Bio:         payload.Bio,
			Status:      payload.Status,
			GithubURL:   payload.GithubURL,
			TwitterURL:  payload.TwitterURL,
			LinkedinURL: payload.LinkedinURL,
			WebsiteURL:  payload.WebsiteURL,
		}
		if platform, err := profile.ValidateLinks(); err != nil {
			h.responder.WriteError(w, errs.NewValidationError(platform+"_url", err.Error()))
			return
		}

		if err := h.profileRepo.Upsert(profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "profile", err))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

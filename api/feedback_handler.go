package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/services"
)

type feedbackHandler struct {
	responder    Responder
	logger       zerolog.Logger
	feedbackRepo *database.FeedbackRepo
	projectRepo  *database.ProjectRepo
	feed         *services.Feed
}

func newFeedbackHandler(feedbackRepo *database.FeedbackRepo, projectRepo *database.ProjectRepo, feed *services.Feed) feedbackHandler {
	logger := log.With().Str("handlerName", "feedbackHandler").Logger()

	return feedbackHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		feedbackRepo: feedbackRepo,
		projectRepo:  projectRepo,
		feed:         feed,
	}
}

type contentPayload struct {
	Content string `json:"content"`
}

func (p contentPayload) validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return errs.NewValidationError("content", "content is required")
	}
	return nil
}

// getProjectFeedback lists a project's feedback threads oldest first
func (h feedbackHandler) getProjectFeedback() http.HandlerFunc {
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

		feedback, err := h.feedbackRepo.FindByProject(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"feedback": feedback,
			"total":    len(feedback),
		})
	}
}

// createFeedback posts a feedback entry on any project
func (h feedbackHandler) createFeedback() http.HandlerFunc {
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

		var payload contentPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("feedback payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		feedback := &models.Feedback{
			ID:        uuid.New(),
			ProjectID: project.ID,
			AuthorID:  userID,
			Content:   payload.Content,
		}
		if err := h.feedbackRepo.Add(feedback); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "feedback", err))
			return
		}

		feedbackID := feedback.ID
		projID := project.ID
		owner := project.OwnerID
		h.feed.Record(models.ActivityEvent{
			Type:       models.ActivityFeedbackPosted,
			Display:    fmt.Sprintf("left feedback on %q", project.Name),
			ActorID:    userID,
			ProjectID:  &projID,
			FeedbackID: &feedbackID,
			TargetUser: &owner,
			Public:     true,
		})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, feedback)
	}
}

// updateFeedback edits the caller's own feedback entry
func (h feedbackHandler) updateFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		feedbackID, err := uuid.Parse(chi.URLParam(r, "feedbackID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid feedbackID"))
			return
		}

		feedback, err := h.feedbackRepo.FindByID(feedbackID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		if feedback == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("feedback not found"))
			return
		}
		if feedback.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can edit feedback"))
			return
		}

		var payload contentPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("feedback payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		feedback.Content = payload.Content
		if err := h.feedbackRepo.Update(feedback); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "feedback", err))
			return
		}

		h.responder.WriteJSON(w, feedback)
	}
}

// deleteFeedback removes the caller's own feedback entry
func (h feedbackHandler) deleteFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		feedbackID, err := uuid.Parse(chi.URLParam(r, "feedbackID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid feedbackID"))
			return
		}

		feedback, err := h.feedbackRepo.FindByID(feedbackID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		if feedback == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("feedback not found"))
			return
		}
		if feedback.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can delete feedback"))
			return
		}

		if err := h.feedbackRepo.Delete(feedbackID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "feedback", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "feedback deleted successfully",
		})
	}
}

// createReply posts a reply under a feedback entry
func (h feedbackHandler) createReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		feedbackID, err := uuid.Parse(chi.URLParam(r, "feedbackID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid feedbackID"))
			return
		}

		feedback, err := h.feedbackRepo.FindByID(feedbackID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		if feedback == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("feedback not found"))
			return
		}

		var payload contentPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("reply payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reply := &models.FeedbackReply{
			ID:         uuid.New(),
			FeedbackID: feedback.ID,
			AuthorID:   userID,
			Content:    payload.Content,
		}
		if err := h.feedbackRepo.AddReply(reply); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "reply", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, reply)
	}
}

// updateReply edits the caller's own reply
func (h feedbackHandler) updateReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		replyID, err := uuid.Parse(chi.URLParam(r, "replyID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid replyID"))
			return
		}

		reply, err := h.feedbackRepo.FindReplyByID(replyID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "reply", err))
			return
		}
		if reply == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("reply not found"))
			return
		}
		if reply.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can edit a reply"))
			return
		}

		var payload contentPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("reply payload"))
			return
		}
		if err := payload.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reply.Content = payload.Content
		if err := h.feedbackRepo.UpdateReply(reply); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "reply", err))
			return
		}

		h.responder.WriteJSON(w, reply)
	}
}

// deleteReply removes the caller's own reply
func (h feedbackHandler) deleteReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		replyID, err := uuid.Parse(chi.URLParam(r, "replyID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid replyID"))
			return
		}

		reply, err := h.feedbackRepo.FindReplyByID(replyID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "reply", err))
			return
		}
		if reply == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("reply not found"))
			return
		}
		if reply.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can delete a reply"))
			return
		}

		if err := h.feedbackRepo.DeleteReply(replyID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "reply", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "reply deleted successfully",
		})
	}
}

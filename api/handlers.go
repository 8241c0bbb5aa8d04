package api

import (
	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/services"
)

// Dependencies are the services the handlers run on top of the repos.
type Dependencies struct {
	Sessions  *services.Sessions
	Authoring *services.Authoring
	Feed      *services.Feed
	Images    services.ImageStore
	Formatter *services.Formatter
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, deps Dependencies) *routeHandlers {
	return &routeHandlers{
		authHandler:     newAuthHandler(deps.Sessions),
		projectHandler:  newProjectHandler(deps.Authoring, db.ProjectRepo(), db.ProfileRepo()),
		vibeLogHandler:  newVibeLogHandler(db.VibeLogRepo(), db.ProjectRepo(), deps.Feed, deps.Formatter),
		feedbackHandler: newFeedbackHandler(db.FeedbackRepo(), db.ProjectRepo(), deps.Feed),
		profileHandler:  newProfileHandler(db.ProfileRepo(), db.ProjectRepo()),
		uploadHandler:   newUploadHandler(deps.Images),
		activityHandler: newActivityHandler(deps.Feed),
	}
}

package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public surface and the auth-gated surface
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Auth endpoints
		r.Post("/auth/signup", handlers.authHandler.signUp())
		r.Post("/auth/signin", handlers.authHandler.signIn())
		r.Get("/auth/demo", handlers.authHandler.demoSignIn())
		r.Get("/auth/oauth/github", handlers.authHandler.oauthRedirect())
		r.Get("/auth/oauth/github/callback", handlers.authHandler.oauthCallback())

		// Discovery endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProjectBySlug())
		r.Get("/projects/{slug}/vibelogs", handlers.vibeLogHandler.getProjectVibeLogs())
		r.Get("/projects/{slug}/feedback", handlers.feedbackHandler.getProjectFeedback())
		r.Get("/profiles/{username}", handlers.profileHandler.getProfile())

		// Activity feed: the list is public, the stream resolves the viewer
		// when a token is present so self-authored events can be suppressed
		r.Get("/activity", handlers.activityHandler.getRecentActivity())
		r.With(authMiddleware.authenticateOptional).
			Get("/activity/stream", handlers.activityHandler.streamActivity())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Session endpoints
		r.Get("/auth/session", handlers.authHandler.sessionHealth())
		r.Post("/auth/signout", handlers.authHandler.signOut())

		// Project Handler endpoints
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
		r.Post("/projects/{projectID}/support", handlers.projectHandler.supportProject())

		// Vibe Log Handler endpoints
		r.Post("/projects/{projectID}/vibelogs", handlers.vibeLogHandler.createVibeLog())
		r.Put("/vibelogs/{vibeLogID}", handlers.vibeLogHandler.updateVibeLog())
		r.Delete("/vibelogs/{vibeLogID}", handlers.vibeLogHandler.deleteVibeLog())
		r.Post("/vibelogs/format", handlers.vibeLogHandler.formatVibeLog())

		// Feedback Handler endpoints
		r.Post("/projects/{projectID}/feedback", handlers.feedbackHandler.createFeedback())
		r.Put("/feedback/{feedbackID}", handlers.feedbackHandler.updateFeedback())
		r.Delete("/feedback/{feedbackID}", handlers.feedbackHandler.deleteFeedback())
		r.Post("/feedback/{feedbackID}/replies", handlers.feedbackHandler.createReply())
		r.Put("/replies/{replyID}", handlers.feedbackHandler.updateReply())
		r.Delete("/replies/{replyID}", handlers.feedbackHandler.deleteReply())

		// Profile Handler endpoints
		r.Put("/profile", handlers.profileHandler.upsertProfile())

		// Image endpoints
		r.Post("/images", handlers.uploadHandler.uploadImages())
		r.Delete("/images", handlers.uploadHandler.deleteImage())
	})
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/quizdeck/quizdeck-api/internal/api"
	apiMiddleware "github.com/quizdeck/quizdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. It accepts the application dependencies to
// create handlers and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	if len(app.config.Server.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.learnerStore)
	syncHandler := api.NewSyncHandler(app.syncService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	moderationHandler := api.NewModerationHandler(app.moderationService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review sync
			r.Post("/reviews/sync", syncHandler.SyncReviews)

			// Read path: due set, decks, progress
			r.Get("/cards/due", studyHandler.GetDueCards)
			r.Get("/decks", studyHandler.ListDecks)
			r.Get("/progress", studyHandler.GetProgress)

			// Authoring and moderation
			r.Post("/decks", moderationHandler.CreateDeck)
			r.Post("/decks/{deckID}/cards", moderationHandler.CreateCard)
			r.Post("/decks/{deckID}/generate", moderationHandler.GenerateCards)
			r.Post("/cards/moderate", moderationHandler.ModerateCards)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

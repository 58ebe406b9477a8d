package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quizdeck/quizdeck-api/internal/config"
	"github.com/quizdeck/quizdeck-api/internal/generation"
	"github.com/quizdeck/quizdeck-api/internal/platform/gemini"
	"github.com/quizdeck/quizdeck-api/internal/platform/postgres"
	"github.com/quizdeck/quizdeck-api/internal/service/auth"
	"github.com/quizdeck/quizdeck-api/internal/service/moderation"
	"github.com/quizdeck/quizdeck-api/internal/service/review_sync"
	"github.com/quizdeck/quizdeck-api/internal/service/study"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	deckStore    store.DeckStore
	cardStore    store.CardStore
	stateStore   store.ReviewStateStore
	learnerStore store.LearnerStore

	// Service interfaces
	jwtService        auth.JWTService
	generator         generation.Generator
	syncService       review_sync.Service
	studyService      study.Service
	moderationService moderation.Service
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts core dependencies like
// configuration, logger, and database connection that must be
// established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize stores
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.stateStore = postgres.NewPostgresReviewStateStore(db, logger)
	app.learnerStore = postgres.NewPostgresLearnerStore(db, logger)

	// Create the LLM generator used for draft card generation
	app.generator, err = gemini.NewGeminiGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully")

	// Initialize sync coordinator
	app.syncService = review_sync.NewService(
		db,
		app.cardStore,
		app.stateStore,
		app.learnerStore,
		logger,
	)

	// Initialize study (read-path) service
	app.studyService = study.NewService(
		app.deckStore,
		app.cardStore,
		app.stateStore,
		app.learnerStore,
		logger,
	)

	// Initialize moderation pipeline
	app.moderationService = moderation.NewService(
		db,
		app.deckStore,
		app.cardStore,
		app.generator,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/fiszki-api/internal/api"
	"github.com/phrazzld/fiszki-api/internal/config"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/platform/postgres"
	"github.com/phrazzld/fiszki-api/internal/service/auth"
)

// application holds the long-lived dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	tokenVerifier     auth.TokenVerifier
	generationService api.GenerationService
}

// newApplication wires stores, the gateway and services on top of db.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenVerifier, err = auth.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	gateway, err := newGateway(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat-completion gateway: %w", err)
	}
	logger.Info("chat-completion gateway initialized",
		"provider", cfg.LLM.Provider,
		"model", gateway.ModelName())

	app.generationService, err = generation.NewService(
		gateway,
		postgres.NewPostgresGenerationStore(db, logger),
		postgres.NewPostgresGenerationErrorStore(db, logger),
		postgres.NewPostgresCardSetStore(db, logger),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until a shutdown signal arrives or ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}

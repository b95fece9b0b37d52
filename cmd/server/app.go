package main

import (
	"context"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/phrazzld/scry-completion/internal/api/middleware"
	"github.com/phrazzld/scry-completion/internal/config"
	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/phrazzld/scry-completion/internal/platform/gemini"
)

// application holds the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	// client runs every invocation served by the API
	client *generation.Client

	// auth is nil when bearer authentication is disabled
	auth *apiMiddleware.AuthMiddleware
}

// newApplication wires the Gemini completer into a generation client.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	completer, err := gemini.NewCompleter(ctx, logger.With("component", "gemini_completer"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini completer: %w", err)
	}
	logger.Info("Gemini completer initialized successfully")

	return newApplicationWithCompleter(cfg, logger, completer)
}

// newApplicationWithCompleter builds the application around any completer.
func newApplicationWithCompleter(
	cfg *config.Config,
	logger *slog.Logger,
	completer generation.Completer,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.client, err = generation.NewClient(
		completer,
		generationConfig(cfg.LLM),
		logger.With("component", "generation_client"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	if cfg.Auth.JWTSecret != "" {
		app.auth, err = apiMiddleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize auth middleware: %w", err)
		}
		logger.Info("Bearer authentication enabled")
	}

	logger.Info("Application initialized successfully",
		"candidates", app.client.Candidates())
	return app, nil
}

// generationConfig maps the LLM configuration onto the client's settings.
func generationConfig(cfg config.LLMConfig) generation.Config {
	return generation.Config{
		Candidates:     cfg.Candidates,
		MaxAttempts:    cfg.MaxAttempts,
		RetryDelay:     cfg.RetryDelay,
		FallbackPolicy: generation.FallbackPolicy(cfg.FallbackPolicy),
	}
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-completion/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfig records the effective configuration without secrets.
func logConfig(logger *slog.Logger, cfg *config.Config) {
	logger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	logger.Info("Generation configuration loaded",
		"candidates", cfg.LLM.Candidates,
		"max_attempts", cfg.LLM.MaxAttempts,
		"retry_delay", cfg.LLM.RetryDelay.String(),
		"fallback_policy", cfg.LLM.FallbackPolicy,
		"request_timeout", cfg.LLM.RequestTimeout.String())

	if cfg.Auth.JWTSecret != "" {
		logger.Debug("Auth configuration", "jwt_secret_present", true)
	}
}

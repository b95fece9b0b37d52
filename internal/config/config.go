package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// Candidates is the ordered model fallback list, cheapest first.
	Candidates []string `mapstructure:"candidates" validate:"required,min=1,dive,required"`

	// MaxAttempts bounds attempts per candidate for structured output.
	MaxAttempts int `mapstructure:"max_attempts" validate:"gte=1,lte=10"`

	// RetryDelay is the constant delay between structured attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gte=0"`

	// FallbackPolicy is capacity_only or any_failure.
	FallbackPolicy string `mapstructure:"fallback_policy" validate:"oneof=capacity_only any_failure"`

	// RequestTimeout bounds a single completion call; zero disables it.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

// AuthConfig contains authentication settings for the HTTP API.
// Bearer-token authentication is enabled when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains settings for validating access tokens issued by the
// hosted auth provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Audience  string `mapstructure:"audience"`
}

// Provider names accepted in LLMConfig.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderDemo       = "demo"
)

// LLMConfig contains the chat-completion gateway settings.
//
// APIKey is intentionally not required here: the gateway refuses to start
// without a credential and reports that as its own error.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=openrouter gemini demo"`

	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Model   string `mapstructure:"model" validate:"required"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model" validate:"required"`

	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gt=0"`
	TopP        float64 `mapstructure:"top_p" validate:"gte=0,lte=1"`

	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialDelay   time.Duration `mapstructure:"initial_delay" validate:"gte=0"`
	MaxDelay       time.Duration `mapstructure:"max_delay" validate:"gte=0"`
	BackoffFactor  float64       `mapstructure:"backoff_factor" validate:"gte=1"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

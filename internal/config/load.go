package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "FISZKI"

// legacyEnv lists variable names accepted in addition to the prefixed ones.
var legacyEnv = map[string][]string{
	"llm.api_key":        {"OPENROUTER_API_KEY"},
	"llm.base_url":       {"OPENROUTER_API_URL"},
	"llm.gemini_api_key": {"GEMINI_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout", "90s")

	v.SetDefault("auth.audience", "authenticated")

	v.SetDefault("llm.provider", ProviderOpenRouter)
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.initial_delay", "1s")
	v.SetDefault("llm.max_delay", "10s")
	v.SetDefault("llm.backoff_factor", 2.0)
	v.SetDefault("llm.request_timeout", "60s")
}

// keys enumerates every configuration key so that environment variables are
// visible to Unmarshal even when no default or file value exists.
var keys = []string{
	"server.port", "server.log_level", "server.request_timeout",
	"database.url",
	"auth.jwt_secret", "auth.audience",
	"llm.provider", "llm.api_key", "llm.base_url", "llm.model",
	"llm.gemini_api_key", "llm.gemini_model",
	"llm.temperature", "llm.max_tokens", "llm.top_p",
	"llm.max_attempts", "llm.initial_delay", "llm.max_delay", "llm.backoff_factor",
	"llm.request_timeout",
}

// Load reads configuration from an optional config.yaml in the working
// directory and from FISZKI_-prefixed environment variables. Environment
// variables take precedence over file values. The result is validated before
// it is returned.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		names = append(names, legacyEnv[key]...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

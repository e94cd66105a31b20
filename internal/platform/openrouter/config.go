package openrouter

import (
	"slices"
	"time"

	"github.com/phrazzld/fiszki-api/internal/generation"
)

const (
	// DefaultBaseURL is the OpenRouter chat-completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultModelName is used when no model is configured.
	DefaultModelName = "openai/gpt-4o-mini"
)

// Params are the numeric sampling parameters sent with every request.
type Params struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Config is the effective configuration of a Client. Values are treated as
// immutable once handed to a Client; Configure produces a new one.
type Config struct {
	BaseURL        string
	APIKey         string
	ModelName      string
	Params         Params
	SystemMessage  string
	ResponseFormat *generation.ResponseFormat
	Retry          generation.RetryPolicy
}

// DefaultConfig returns the configuration used when nothing is overridden.
// The API key is left empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		ModelName: DefaultModelName,
		Params: Params{
			Temperature: 0.7,
			MaxTokens:   1000,
			TopP:        1,
		},
		Retry: generation.DefaultRetryPolicy(),
	}
}

func (c Config) clone() Config {
	c.Retry.RetryableStatusCodes = slices.Clone(c.Retry.RetryableStatusCodes)
	return c
}

// Option overrides one field of a Config.
type Option func(*Config)

// WithModelName replaces the model id.
func WithModelName(name string) Option {
	return func(c *Config) { c.ModelName = name }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Params.Temperature = t }
}

// WithMaxTokens overrides the completion token limit.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.Params.MaxTokens = n }
}

// WithTopP overrides nucleus sampling.
func WithTopP(p float64) Option {
	return func(c *Config) { c.Params.TopP = p }
}

// WithSystemMessage replaces the system prompt.
func WithSystemMessage(msg string) Option {
	return func(c *Config) { c.SystemMessage = msg }
}

// WithResponseFormat sets the structured-output descriptor. Nil removes it.
func WithResponseFormat(f *generation.ResponseFormat) Option {
	return func(c *Config) { c.ResponseFormat = f }
}

// WithMaxAttempts bounds the number of HTTP attempts per Send.
func WithMaxAttempts(n int) Option {
	return func(c *Config) { c.Retry.MaxAttempts = n }
}

// WithInitialDelay sets the wait before the second attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) { c.Retry.InitialDelay = d }
}

// WithMaxDelay caps the wait between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) { c.Retry.MaxDelay = d }
}

// WithBackoffFactor sets the multiplier applied to the delay after each attempt.
func WithBackoffFactor(f float64) Option {
	return func(c *Config) { c.Retry.BackoffFactor = f }
}

// WithRetryableStatusCodes replaces the set of statuses that are retried.
func WithRetryableStatusCodes(codes ...int) Option {
	return func(c *Config) { c.Retry.RetryableStatusCodes = slices.Clone(codes) }
}

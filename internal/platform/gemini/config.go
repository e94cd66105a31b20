package gemini

import "github.com/phrazzld/fiszki-api/internal/generation"

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.0-flash"

// Config holds the settings of a Gateway.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// BaseURL overrides the API endpoint; empty uses the library default.
	BaseURL string

	// ModelName is the Gemini model id.
	ModelName string

	Temperature float32
	MaxTokens   int32
	TopP        float32

	// SystemMessage is sent as the system instruction.
	SystemMessage string

	// ResponseSchema, when set, is sent as the JSON schema the output must match.
	ResponseSchema any

	// Retry bounds retries of transient API failures.
	Retry generation.RetryPolicy
}

// DefaultConfig returns defaults matching the OpenRouter gateway.
func DefaultConfig() Config {
	return Config{
		ModelName:   DefaultModelName,
		Temperature: 0.7,
		MaxTokens:   1000,
		TopP:        1,
		Retry:       generation.DefaultRetryPolicy(),
	}
}

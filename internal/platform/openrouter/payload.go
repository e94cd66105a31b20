package openrouter

import "github.com/phrazzld/fiszki-api/internal/generation"

type chatRequest struct {
	Messages       []generation.Message       `json:"messages"`
	Model          string                     `json:"model"`
	Temperature    float64                    `json:"temperature"`
	MaxTokens      int                        `json:"max_tokens"`
	TopP           float64                    `json:"top_p"`
	ResponseFormat *generation.ResponseFormat `json:"response_format,omitempty"`
}

func newChatRequest(cfg *Config, userMessage string) chatRequest {
	return chatRequest{
		Messages: []generation.Message{
			{Role: "system", Content: cfg.SystemMessage},
			{Role: "user", Content: userMessage},
		},
		Model:          cfg.ModelName,
		Temperature:    cfg.Params.Temperature,
		MaxTokens:      cfg.Params.MaxTokens,
		TopP:           cfg.Params.TopP,
		ResponseFormat: cfg.ResponseFormat,
	}
}

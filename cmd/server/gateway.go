package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/fiszki-api/internal/config"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/platform/gemini"
	"github.com/phrazzld/fiszki-api/internal/platform/openrouter"
)

func retryPolicy(cfg config.LLMConfig) generation.RetryPolicy {
	policy := generation.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	policy.InitialDelay = cfg.InitialDelay
	policy.MaxDelay = cfg.MaxDelay
	policy.BackoffFactor = cfg.BackoffFactor
	return policy
}

// newGateway builds the chat-completion gateway selected by cfg.Provider.
func newGateway(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Gateway, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	format, err := generation.FlashcardsResponseFormat()
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderOpenRouter:
		orCfg := openrouter.DefaultConfig()
		orCfg.BaseURL = cfg.BaseURL
		orCfg.APIKey = cfg.APIKey
		orCfg.ModelName = cfg.Model
		orCfg.Params = openrouter.Params{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			TopP:        cfg.TopP,
		}
		orCfg.SystemMessage = generation.SystemPrompt
		orCfg.ResponseFormat = format
		orCfg.Retry = retryPolicy(cfg)

		client, err := openrouter.New[generation.ChatResponse](
			orCfg,
			generation.ChatResponseSchema(),
			logger,
			openrouter.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.ProviderGemini:
		gCfg := gemini.DefaultConfig()
		gCfg.APIKey = cfg.GeminiAPIKey
		gCfg.ModelName = cfg.GeminiModel
		gCfg.Temperature = float32(cfg.Temperature)
		gCfg.MaxTokens = int32(cfg.MaxTokens)
		gCfg.TopP = float32(cfg.TopP)
		gCfg.SystemMessage = generation.SystemPrompt
		gCfg.ResponseSchema = format.JSONSchema.Schema
		gCfg.Retry = retryPolicy(cfg)

		gateway, err := gemini.NewGateway(ctx, gCfg,
			logger,
			gemini.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		return gateway, nil

	case config.ProviderDemo:
		logger.Warn("using demo gateway, generated flashcards are not produced by a language model")
		return generation.NewDemoGateway(), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

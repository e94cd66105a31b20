package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/redact"
	"google.golang.org/genai"
)

type gatewayOptions struct {
	httpClient *http.Client
	sleep      generation.SleepFunc
	now        func() time.Time
}

// Option customises a Gateway.
type Option func(*gatewayOptions)

// WithHTTPClient replaces the HTTP client handed to the genai library.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *gatewayOptions) { o.httpClient = hc }
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep generation.SleepFunc) Option {
	return func(o *gatewayOptions) { o.sleep = sleep }
}

// Gateway implements generation.Gateway using the Gemini API.
type Gateway struct {
	logger *slog.Logger
	config Config
	client *genai.Client
	sleep  generation.SleepFunc
	now    func() time.Time
}

var _ generation.Gateway = (*Gateway)(nil)

// NewGateway creates a Gateway.
//
// Parameters:
//   - ctx: Context for client initialization
//   - cfg: Gateway configuration; APIKey is required
//   - logger: A structured logger for operation logging
//   - opts: Transport overrides, mainly for tests
//
// Returns:
//   - A ready Gateway, generation.ErrMissingCredential when the key is empty,
//     or an error wrapping generation.ErrInvalidConfig
func NewGateway(ctx context.Context, cfg Config, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, generation.ErrMissingCredential
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	o := gatewayOptions{sleep: generation.Sleep, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Gateway{
		logger: logger.With(slog.String("component", "gemini_gateway")),
		config: cfg,
		client: client,
		sleep:  o.sleep,
		now:    o.now,
	}, nil
}

// ModelName implements generation.Gateway.
func (g *Gateway) ModelName() string {
	return g.config.ModelName
}

// Send implements generation.Gateway. The Gemini answer is translated into
// a single-choice ChatResponse whose message content is the generated text.
func (g *Gateway) Send(ctx context.Context, userMessage string) (*generation.ChatResponse, error) {
	if userMessage == "" {
		return nil, generation.NormalizeError(ErrEmptyInput)
	}

	log := logger.FromContextOrDefault(ctx, g.logger).With(slog.String("model", g.config.ModelName))

	resp, err := generation.WithRetry(ctx, g.config.Retry, g.sleep, log,
		func(ctx context.Context, attempt int) (*genai.GenerateContentResponse, error) {
			log.DebugContext(ctx, "making Gemini API call", slog.Int("attempt", attempt))
			resp, err := g.client.Models.GenerateContent(ctx, g.config.ModelName, genai.Text(userMessage), g.contentConfig())
			if err != nil {
				return nil, convertError(err)
			}
			return resp, nil
		})
	if err != nil {
		log.WarnContext(ctx, "Gemini API call failed", slog.String("error", redact.Error(err)))
		return nil, generation.NormalizeError(err)
	}

	out, err := g.toChatResponse(resp)
	if err != nil {
		return nil, generation.NormalizeError(err)
	}
	return out, nil
}

func (g *Gateway) contentConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.config.Temperature),
		TopP:             genai.Ptr(g.config.TopP),
		MaxOutputTokens:  g.config.MaxTokens,
		ResponseMIMEType: "application/json",
	}
	if g.config.SystemMessage != "" {
		cfg.SystemInstruction = genai.NewContentFromText(g.config.SystemMessage, genai.RoleUser)
	}
	if g.config.ResponseSchema != nil {
		cfg.ResponseJsonSchema = g.config.ResponseSchema
	}
	return cfg
}

func (g *Gateway) toChatResponse(resp *genai.GenerateContentResponse) (*generation.ChatResponse, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, generation.NewValidationError(errors.New("Gemini response contains no candidates"))
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}

	model := resp.ModelVersion
	if model == "" {
		model = g.config.ModelName
	}
	created := resp.CreateTime
	if created.IsZero() {
		created = g.now()
	}

	out := &generation.ChatResponse{
		ID:      resp.ResponseID,
		Model:   model,
		Created: created.Unix(),
		Choices: []generation.Choice{{
			Index:        0,
			Message:      generation.Message{Role: "assistant", Content: resp.Text()},
			FinishReason: strings.ToLower(string(candidate.FinishReason)),
		}},
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &generation.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// convertError maps genai.APIError onto generation.APIError so the shared
// retry policy and error taxonomy apply.
func convertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return generation.NewAPIError(apiErr.Code, apiErr.Status, apiErr.Message)
	}
	return err
}

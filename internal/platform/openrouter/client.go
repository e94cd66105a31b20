package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/redact"
)

const (
	defaultRequestTimeout = 60 * time.Second

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20

	// maxLoggedBody bounds how much of an error body reaches the logs.
	maxLoggedBody = 512
)

type clientOptions struct {
	httpClient *http.Client
	sleep      generation.SleepFunc
}

// ClientOption customises the transport of a Client.
type ClientOption func(*clientOptions)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep generation.SleepFunc) ClientOption {
	return func(o *clientOptions) { o.sleep = sleep }
}

// Client sends chat-completion requests and decodes schema-valid responses into T.
// It is safe for concurrent use; Configure may run alongside Send, and each
// Send observes one consistent configuration.
type Client[T any] struct {
	cfg        atomic.Pointer[Config]
	schema     *jsonschema.Resolved
	httpClient *http.Client
	sleep      generation.SleepFunc
	logger     *slog.Logger
}

// New creates a Client. It fails with generation.ErrMissingCredential when
// cfg has no API key, and with generation.ErrInvalidConfig when schema
// cannot be resolved.
func New[T any](cfg Config, schema *jsonschema.Schema, log *slog.Logger, opts ...ClientOption) (*Client[T], error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, generation.ErrMissingCredential
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: response schema cannot be nil", generation.ErrInvalidConfig)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: response schema: %v", generation.ErrInvalidConfig, err)
	}

	o := clientOptions{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		sleep:      generation.Sleep,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.clone()
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	c := &Client[T]{
		schema:     resolved,
		httpClient: o.httpClient,
		sleep:      o.sleep,
		logger:     log.With(slog.String("component", "openrouter_client")),
	}
	c.cfg.Store(&cfg)
	return c, nil
}

// Configure merges opts over the current configuration and returns the new
// effective value. Requests already in flight keep the configuration they
// started with.
func (c *Client[T]) Configure(opts ...Option) Config {
	for {
		current := c.cfg.Load()
		next := current.clone()
		for _, opt := range opts {
			opt(&next)
		}
		if c.cfg.CompareAndSwap(current, &next) {
			return next.clone()
		}
	}
}

// Config returns a copy of the effective configuration.
func (c *Client[T]) Config() Config {
	return c.cfg.Load().clone()
}

// ModelName reports the configured model id.
func (c *Client[T]) ModelName() string {
	return c.cfg.Load().ModelName
}

// Send submits userMessage after the configured system message and returns
// the decoded response. Retryable API errors are retried per the configured
// policy; every returned error has passed through generation.NormalizeError.
func (c *Client[T]) Send(ctx context.Context, userMessage string) (*T, error) {
	cfg := c.cfg.Load()
	log := logger.FromContextOrDefault(ctx, c.logger).With(slog.String("model", cfg.ModelName))

	body, err := json.Marshal(newChatRequest(cfg, userMessage))
	if err != nil {
		return nil, generation.NormalizeError(fmt.Errorf("failed to encode request: %w", err))
	}

	start := time.Now()
	result, err := generation.WithRetry(ctx, cfg.Retry, c.sleep, log,
		func(ctx context.Context, attempt int) (*T, error) {
			log.DebugContext(ctx, "sending chat completion request",
				slog.Int("attempt", attempt),
				slog.Int("input_length", len(userMessage)))
			return c.do(ctx, log, cfg, body)
		})
	if err != nil {
		log.WarnContext(ctx, "chat completion failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", redact.Error(err)))
		return nil, generation.NormalizeError(err)
	}

	log.DebugContext(ctx, "chat completion succeeded", slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (c *Client[T]) do(ctx context.Context, log *slog.Logger, cfg *Config, body []byte) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.DebugContext(ctx, "chat completion returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", redact.Truncate(redact.String(string(respBody)), maxLoggedBody)))
		return nil, generation.NewAPIError(resp.StatusCode, statusText(resp), string(respBody))
	}

	var instance any
	if err := json.Unmarshal(respBody, &instance); err != nil {
		return nil, generation.NewValidationError(fmt.Errorf("response body is not JSON: %w", err))
	}
	if err := c.schema.Validate(instance); err != nil {
		return nil, generation.NewValidationError(err)
	}

	var out T
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, generation.NewValidationError(err)
	}
	return &out, nil
}

// statusText strips the numeric prefix from resp.Status ("429 Too Many Requests").
func statusText(resp *http.Response) string {
	return strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
}

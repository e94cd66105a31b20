// Package openrouter implements the chat-completion gateway used for
// flashcard generation against OpenRouter or any other OpenAI-compatible
// endpoint.
//
// A Client is generic over the decoded response type. Every 2xx body is
// validated against the JSON schema supplied at construction before it is
// decoded, so callers never see a partially shaped response. Transient HTTP
// failures are retried with bounded exponential backoff and every error
// returned by Send belongs to the taxonomy in internal/generation.
package openrouter

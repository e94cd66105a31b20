// Package generation turns user-submitted text into flashcard drafts.
//
// It defines the Gateway port that chat-completion providers implement
// (OpenRouter and Gemini live under internal/platform), the error taxonomy
// shared by those providers, the bounded retry loop they use, and Service,
// which runs a generation end to end and records every success and failure.
package generation

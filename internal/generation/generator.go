package generation

import "context"

// Gateway is the boundary between the generation service and an external
// chat-completion provider.
type Gateway interface {
	// Send submits userMessage with the gateway's configured system prompt
	// and returns a response that already passed shape validation.
	// Errors follow the taxonomy in errors.go.
	Send(ctx context.Context, userMessage string) (*ChatResponse, error)

	// ModelName reports the model recorded against generations.
	ModelName() string
}

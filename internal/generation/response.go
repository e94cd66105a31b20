package generation

import "github.com/google/jsonschema-go/jsonschema"

// ChatResponse is the validated body of a chat-completion call.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model"`
	Created int64    `json:"created"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting when the provider includes it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponseSchema describes the response shape every gateway must
// produce. Unknown fields are allowed since providers add their own metadata.
//
// Each call returns a fresh tree; resolved schemas may not share nodes.
func ChatResponseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"choices", "model", "created"},
		Properties: map[string]*jsonschema.Schema{
			"choices": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"message", "index"},
					Properties: map[string]*jsonschema.Schema{
						"message": {
							Type:     "object",
							Required: []string{"content", "role"},
							Properties: map[string]*jsonschema.Schema{
								"content": {Type: "string"},
								"role":    {Type: "string", Enum: []any{"assistant"}},
							},
						},
						"index":         {Type: "number"},
						"finish_reason": {Types: []string{"string", "null"}},
					},
				},
			},
			"model":   {Type: "string"},
			"created": {Type: "number"},
			"usage": {
				Type:     "object",
				Required: []string{"prompt_tokens", "completion_tokens", "total_tokens"},
				Properties: map[string]*jsonschema.Schema{
					"prompt_tokens":     {Type: "number"},
					"completion_tokens": {Type: "number"},
					"total_tokens":      {Type: "number"},
				},
			},
		},
	}
}

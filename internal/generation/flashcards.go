package generation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/phrazzld/fiszki-api/internal/domain"
)

// SystemPrompt instructs the model to author flashcards.
const SystemPrompt = "You are an assistant specialised in creating educational flashcards. " +
	"Your task is to generate high-quality flashcards for studying the text provided by the user. " +
	"Each flashcard has a front (a question or a term) and a back (the answer or a definition). " +
	"Keep the content concise, precise and easy to memorise. " +
	"Avoid long or convoluted explanations. " +
	"Always match the difficulty to the context and the subject of the text. " +
	"Reply with JSON only, in the form {\"flashcards\": [{\"front\": \"...\", \"back\": \"...\"}]}."

// FlashcardsPayload is the JSON document carried in the model's message content.
type FlashcardsPayload struct {
	Flashcards []domain.CardDraft `json:"flashcards" validate:"required,dive"`
}

// ResponseFormat is the structured-output descriptor sent with a request.
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema names a schema inside a ResponseFormat.
type JSONSchema struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict,omitempty"`
	Schema *jsonschema.Schema `json:"schema"`
}

// FlashcardsResponseFormat returns the json_schema response format derived
// from FlashcardsPayload.
func FlashcardsResponseFormat() (*ResponseFormat, error) {
	schema, err := jsonschema.For[FlashcardsPayload](nil)
	if err != nil {
		return nil, fmt.Errorf("%w: flashcards schema: %v", ErrInvalidConfig, err)
	}
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchema{
			Name:   "flashcards",
			Schema: schema,
		},
	}, nil
}

var payloadValidator = validator.New()

// ParseFlashcards extracts card drafts from the first choice of resp.
// Every failure is a *ValidationError.
func ParseFlashcards(resp *ChatResponse) ([]domain.CardDraft, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, NewValidationError(errors.New("response contains no choices"))
	}

	var payload FlashcardsPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, NewValidationError(fmt.Errorf("message content is not valid flashcards JSON: %w", err))
	}

	if err := payloadValidator.Struct(payload); err != nil {
		return nil, NewValidationError(fmt.Errorf("message content failed validation: %w", err))
	}

	return payload.Flashcards, nil
}

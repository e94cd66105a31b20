package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors for generation records.
var (
	ErrGenerationUserIDEmpty    = errors.New("generation user ID cannot be empty")
	ErrGenerationModelEmpty     = errors.New("generation model cannot be empty")
	ErrGenerationNegativeCount  = errors.New("generation count cannot be negative")
	ErrGenerationNegativeTiming = errors.New("generation duration cannot be negative")
	ErrGenerationErrorCodeEmpty = errors.New("generation error code cannot be empty")
)

// CardDraft is an unpersisted front/back pair produced by the model.
type CardDraft struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

// Generation is the audit row written once per successful generation call.
//
// The acceptance counters are owned by the card acceptance flow and stay nil
// when the row is first inserted.
type Generation struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	CardSetID             uuid.UUID `json:"card_set_id"`
	InputText             string    `json:"input_text"`
	Model                 string    `json:"model"`
	DurationMS            int64     `json:"duration"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedEditedCount   *int      `json:"accepted_edited_count"`
	AcceptedUneditedCount *int      `json:"accepted_unedited_count"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewGeneration builds a Generation ready for insertion. The identifier and
// timestamps are assigned by the store.
func NewGeneration(
	userID, cardSetID uuid.UUID,
	inputText, model string,
	duration time.Duration,
	generatedCount int,
) (*Generation, error) {
	g := &Generation{
		UserID:         userID,
		CardSetID:      cardSetID,
		InputText:      inputText,
		Model:          model,
		DurationMS:     duration.Milliseconds(),
		GeneratedCount: generatedCount,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the fields required for insertion.
func (g *Generation) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}
	if g.Model == "" {
		return ErrGenerationModelEmpty
	}
	if g.GeneratedCount < 0 {
		return ErrGenerationNegativeCount
	}
	if g.DurationMS < 0 {
		return ErrGenerationNegativeTiming
	}
	return nil
}

// ErrorCause is the snapshot of the underlying failure stored with an error record.
type ErrorCause struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// GenerationError is the audit row written once per failed generation call.
// It is never read back by the generation flow.
type GenerationError struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	ErrorCode    string      `json:"error_code"`
	ErrorMessage string      `json:"error_message"`
	InputText    *string     `json:"input_text"`
	Model        string      `json:"model"`
	Cause        *ErrorCause `json:"cause"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Validate checks the fields required for insertion.
func (e *GenerationError) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}
	if e.ErrorCode == "" {
		return ErrGenerationErrorCodeEmpty
	}
	return nil
}

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/domain"
)

// GenerationStore defines persistence for successful generation records.
type GenerationStore interface {
	// Create inserts a new generation row. The store assigns ID, CreatedAt
	// and UpdatedAt and writes them back into g.
	// Returns validation errors from the domain Generation if data is invalid.
	Create(ctx context.Context, g *domain.Generation) error

	// GetByID retrieves a generation by its unique ID.
	// Returns ErrGenerationNotFound if the generation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
}

// GenerationErrorStore defines persistence for failed generation records.
type GenerationErrorStore interface {
	// Create inserts a new error row and writes the assigned ID and
	// CreatedAt back into e.
	Create(ctx context.Context, e *domain.GenerationError) error
}

// CardSetStore exposes the card set reads needed before generating.
type CardSetStore interface {
	// GetByID retrieves a card set by its unique ID.
	// Returns ErrCardSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CardSet, error)
}

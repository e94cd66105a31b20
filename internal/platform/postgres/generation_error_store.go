package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// PostgresGenerationErrorStore implements store.GenerationErrorStore.
type PostgresGenerationErrorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationErrorStore creates a PostgresGenerationErrorStore.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationErrorStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationErrorStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_store")),
	}
}

var _ store.GenerationErrorStore = (*PostgresGenerationErrorStore)(nil)

// Create implements store.GenerationErrorStore.Create. The cause snapshot is
// stored as JSONB; a nil cause is stored as NULL.
func (s *PostgresGenerationErrorStore) Create(ctx context.Context, e *domain.GenerationError) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var cause any
	if e.Cause != nil {
		raw, err := json.Marshal(e.Cause)
		if err != nil {
			return fmt.Errorf("%w: cause: %w", store.ErrInvalidEntity, err)
		}
		cause = string(raw)
	}

	query := `
		INSERT INTO generation_errors (user_id, error_code, error_message, input_text, model, cause)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.UserID,
		e.ErrorCode,
		e.ErrorMessage,
		e.InputText,
		e.Model,
		cause,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		log.Error("failed to create generation error record",
			slog.String("error", err.Error()),
			slog.String("error_code", e.ErrorCode))
		return store.NewStoreError("generation_error", "create", "failed to insert generation error", MapError(err))
	}

	log.Debug("generation error recorded",
		slog.String("generation_error_id", e.ID.String()),
		slog.String("error_code", e.ErrorCode))
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the GenerationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create.
// The database assigns the ID and timestamps, which are written back into g.
// Returns store.ErrInvalidEntity if g fails validation or violates a constraint.
func (s *PostgresGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := g.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", g.UserID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generations (
			user_id, card_set_id, input_text, model, duration, generated_count,
			accepted_edited_count, accepted_unedited_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		g.UserID,
		nullableUUID(g.CardSetID),
		g.InputText,
		g.Model,
		g.DurationMS,
		g.GeneratedCount,
		g.AcceptedEditedCount,
		g.AcceptedUneditedCount,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("card set does not exist for generation",
				slog.String("card_set_id", g.CardSetID.String()))
			return fmt.Errorf("%w: card set %s: %w", store.ErrInvalidEntity, g.CardSetID, err)
		}

		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", g.UserID.String()))
		return store.NewStoreError("generation", "create", "failed to insert generation", MapError(err))
	}

	log.Info("generation created",
		slog.String("generation_id", g.ID.String()),
		slog.String("user_id", g.UserID.String()),
		slog.Int("generated_count", g.GeneratedCount))
	return nil
}

// GetByID implements store.GenerationStore.GetByID.
// Returns store.ErrGenerationNotFound if the generation does not exist.
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, card_set_id, input_text, model, duration, generated_count,
			accepted_edited_count, accepted_unedited_count, created_at, updated_at
		FROM generations
		WHERE id = $1
	`

	var (
		g         domain.Generation
		cardSetID uuid.NullUUID
		edited    sql.NullInt64
		unedited  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID,
		&g.UserID,
		&cardSetID,
		&g.InputText,
		&g.Model,
		&g.DurationMS,
		&g.GeneratedCount,
		&edited,
		&unedited,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found", slog.String("generation_id", id.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", id.String()))
		return nil, store.NewStoreError("generation", "get", "failed to query generation", MapError(err))
	}

	if cardSetID.Valid {
		g.CardSetID = cardSetID.UUID
	}
	g.AcceptedEditedCount = nullableInt(edited)
	g.AcceptedUneditedCount = nullableInt(unedited)
	return &g, nil
}

// nullableUUID stores uuid.Nil as NULL.
func nullableUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// PostgresCardSetStore implements store.CardSetStore.
type PostgresCardSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardSetStore creates a PostgresCardSetStore.
func NewPostgresCardSetStore(db store.DBTX, logger *slog.Logger) *PostgresCardSetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_set_store")),
	}
}

var _ store.CardSetStore = (*PostgresCardSetStore)(nil)

// GetByID implements store.CardSetStore.GetByID.
// Returns store.ErrCardSetNotFound if the card set does not exist.
func (s *PostgresCardSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM card_sets
		WHERE id = $1
	`

	var set domain.CardSet
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&set.ID,
		&set.UserID,
		&set.Name,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card set not found", slog.String("card_set_id", id.String()))
			return nil, store.ErrCardSetNotFound
		}
		log.Error("failed to get card set",
			slog.String("error", err.Error()),
			slog.String("card_set_id", id.String()))
		return nil, store.NewStoreError("card_set", "get", "failed to query card set", MapError(err))
	}

	return &set, nil
}

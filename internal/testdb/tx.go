//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/store"
	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is rolled back afterwards, even
// when fn panics.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CreateCardSet inserts a card set owned by userID and returns its ID.
func CreateCardSet(t *testing.T, q store.DBTX, userID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	require.NoError(t, q.QueryRowContext(context.Background(),
		`INSERT INTO card_sets (user_id, name) VALUES ($1, $2) RETURNING id`, userID, name,
	).Scan(&id), "failed to create card set")
	return id
}

package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneration(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	setID := uuid.New()

	g, err := NewGeneration(userID, setID, "some input", "openai/gpt-4o-mini", 1500*time.Millisecond, 4)
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, g.ID, "id is assigned on insert")
	assert.Equal(t, userID, g.UserID)
	assert.Equal(t, setID, g.CardSetID)
	assert.Equal(t, int64(1500), g.DurationMS)
	assert.Equal(t, 4, g.GeneratedCount)
	assert.Nil(t, g.AcceptedEditedCount)
	assert.Nil(t, g.AcceptedUneditedCount)
	assert.True(t, g.CreatedAt.IsZero())
}

func TestGenerationValidate(t *testing.T) {
	t.Parallel()

	valid := func() Generation {
		return Generation{
			UserID:         uuid.New(),
			InputText:      "text",
			Model:          "m",
			DurationMS:     10,
			GeneratedCount: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Generation)
		wantErr error
	}{
		{name: "valid", mutate: func(*Generation) {}},
		{name: "zero cards allowed", mutate: func(g *Generation) { g.GeneratedCount = 0 }},
		{name: "missing user", mutate: func(g *Generation) { g.UserID = uuid.Nil }, wantErr: ErrGenerationUserIDEmpty},
		{name: "empty input allowed", mutate: func(g *Generation) { g.InputText = "" }},
		{name: "missing model", mutate: func(g *Generation) { g.Model = "" }, wantErr: ErrGenerationModelEmpty},
		{name: "negative count", mutate: func(g *Generation) { g.GeneratedCount = -1 }, wantErr: ErrGenerationNegativeCount},
		{name: "negative duration", mutate: func(g *Generation) { g.DurationMS = -1 }, wantErr: ErrGenerationNegativeTiming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid()
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerationErrorValidate(t *testing.T) {
	t.Parallel()

	rec := GenerationError{UserID: uuid.New(), ErrorCode: "API_ERROR"}
	assert.NoError(t, rec.Validate())

	rec.ErrorCode = ""
	assert.ErrorIs(t, rec.Validate(), ErrGenerationErrorCodeEmpty)

	rec = GenerationError{ErrorCode: "API_ERROR"}
	assert.ErrorIs(t, rec.Validate(), ErrGenerationUserIDEmpty)
}

func TestCardSetOwnedBy(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	set := &CardSet{ID: uuid.New(), UserID: owner}

	assert.True(t, set.OwnedBy(owner))
	assert.False(t, set.OwnedBy(uuid.New()))
	assert.False(t, set.OwnedBy(uuid.Nil))

	var missing *CardSet
	assert.False(t, missing.OwnedBy(owner))
}

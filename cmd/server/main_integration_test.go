//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/api"
	"github.com/phrazzld/fiszki-api/internal/api/shared"
	"github.com/phrazzld/fiszki-api/internal/config"
	"github.com/phrazzld/fiszki-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationSecret = "integration-secret-that-is-long-enough"

func signTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(integrationSecret))
	require.NoError(t, err)
	return token
}

func TestGenerationFlowAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info", RequestTimeout: 10 * time.Second},
		Auth:   config.AuthConfig{JWTSecret: integrationSecret, Audience: "authenticated"},
		LLM:    testLLMConfig(config.ProviderDemo),
	}

	app, err := newApplication(ctx, cfg, discardLogger(), db)
	require.NoError(t, err)
	handler := app.setupRouter()

	userID := uuid.New()
	cardSetID := testdb.CreateCardSet(t, db, userID, "Cell biology")
	token := signTestToken(t, userID)

	post := func(t *testing.T, setID uuid.UUID, bearer string) *httptest.ResponseRecorder {
		body, err := json.Marshal(map[string]string{"input_text": sampleText(), "card_set_id": setID.String()})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/generations", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+bearer)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("success is persisted", func(t *testing.T) {
		rec := post(t, cardSetID, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp api.GenerateFlashcardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Cards)

		var count int
		var model string
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT generated_count, model FROM generations WHERE id = $1 AND user_id = $2`,
			resp.GenerationID, userID,
		).Scan(&count, &model))
		assert.Equal(t, len(resp.Cards), count)
		assert.Equal(t, "demo/sentence-splitter", model)
	})

	t.Run("foreign card set is recorded as an error", func(t *testing.T) {
		otherSet := testdb.CreateCardSet(t, db, uuid.New(), "Someone else's")

		rec := post(t, otherSet, token)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "CARD_SET_NOT_FOUND", body.Code)

		var errorCount int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM generation_errors WHERE user_id = $1 AND error_code = 'CARD_SET_NOT_FOUND'`,
			userID,
		).Scan(&errorCount))
		assert.Equal(t, 1, errorCount)
	})

	t.Run("token for another audience is rejected", func(t *testing.T) {
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
			"aud": "anon",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(integrationSecret))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, post(t, cardSetID, other).Code)
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

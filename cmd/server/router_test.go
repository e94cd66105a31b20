package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/api"
	"github.com/phrazzld/fiszki-api/internal/api/shared"
	"github.com/phrazzld/fiszki-api/internal/config"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/mocks"
	"github.com/phrazzld/fiszki-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	handler     http.Handler
	dbMock      sqlmock.Sqlmock
	generations *mocks.MockGenerationStore
	genErrors   *mocks.MockGenerationErrorStore
}

func newRouterFixture(t *testing.T, userID uuid.UUID, sets ...*domain.CardSet) *routerFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &routerFixture{
		dbMock:      dbMock,
		generations: &mocks.MockGenerationStore{},
		genErrors:   &mocks.MockGenerationErrorStore{},
	}

	svc, err := generation.NewService(
		generation.NewDemoGateway(),
		f.generations,
		f.genErrors,
		mocks.NewMockCardSetStore(sets...),
		discardLogger(),
	)
	require.NoError(t, err)

	verifier := &mocks.MockTokenVerifier{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token != "good-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: userID}, nil
		},
	}

	app := &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info", RequestTimeout: 5 * time.Second},
		},
		logger:            discardLogger(),
		db:                db,
		tokenVerifier:     verifier,
		generationService: svc,
	}
	f.handler = app.setupRouter()
	return f
}

func sampleText() string {
	sentence := "The mitochondria is the powerhouse of the cell. "
	return strings.Repeat(sentence, 1000/len(sentence)+1)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("database reachable", func(t *testing.T) {
		t.Parallel()
		f := newRouterFixture(t, uuid.New())
		f.dbMock.ExpectPing()

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(shared.TraceIDHeader))
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		t.Parallel()
		f := newRouterFixture(t, uuid.New())
		f.dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGenerationsRoute(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	owned := &domain.CardSet{ID: uuid.New(), UserID: userID, Name: "Biology"}
	foreign := &domain.CardSet{ID: uuid.New(), UserID: uuid.New(), Name: "Not mine"}

	post := func(f *routerFixture, token string, cardSetID uuid.UUID) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{
			"input_text":  sampleText(),
			"card_set_id": cardSetID.String(),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/generations", bytes.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		f := newRouterFixture(t, userID, owned)

		assert.Equal(t, http.StatusUnauthorized, post(f, "", owned.ID).Code)
		assert.Equal(t, http.StatusUnauthorized, post(f, "bad-token", owned.ID).Code)
		assert.Empty(t, f.generations.Created())
	})

	t.Run("generates and persists", func(t *testing.T) {
		t.Parallel()
		f := newRouterFixture(t, userID, owned)

		rec := post(f, "good-token", owned.ID)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp api.GenerateFlashcardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Cards)
		assert.Equal(t, "powerhouse of the cell", resp.Cards[0].Back)

		created := f.generations.Created()
		require.Len(t, created, 1)
		assert.Equal(t, resp.GenerationID, created[0].ID.String())
		assert.Equal(t, userID, created[0].UserID)
		assert.Equal(t, owned.ID, created[0].CardSetID)
		assert.Equal(t, generation.DemoModelName, created[0].Model)
		assert.Equal(t, len(resp.Cards), created[0].GeneratedCount)

		getReq := httptest.NewRequest(http.MethodGet, "/api/generations/"+resp.GenerationID, nil)
		getReq.Header.Set("Authorization", "Bearer good-token")
		getRec := httptest.NewRecorder()
		f.handler.ServeHTTP(getRec, getReq)
		assert.Equal(t, http.StatusOK, getRec.Code)
	})

	t.Run("foreign card set", func(t *testing.T) {
		t.Parallel()
		f := newRouterFixture(t, userID, owned, foreign)

		rec := post(f, "good-token", foreign.ID)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "CARD_SET_NOT_FOUND", body.Code)
		assert.NotEmpty(t, body.TraceID)

		records := f.genErrors.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "CARD_SET_NOT_FOUND", records[0].ErrorCode)
		assert.Empty(t, f.generations.Created())
	})
}

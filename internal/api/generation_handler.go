package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/api/shared"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
)

// GenerationService is the part of generation.Service the handlers use.
type GenerationService interface {
	GenerateFlashcards(ctx context.Context, userID uuid.UUID, cmd generation.GenerateCommand) (*generation.Result, error)
	GetGeneration(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error)
}

var _ GenerationService = (*generation.Service)(nil)

// GenerateFlashcardsRequest is the body of POST /api/generations.
type GenerateFlashcardsRequest struct {
	InputText string `json:"input_text" validate:"required,min=1000,max=10000"`
	CardSetID string `json:"card_set_id" validate:"required,uuid"`
}

// FlashcardDTO is one generated card draft.
type FlashcardDTO struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerateFlashcardsResponse is returned with 201 Created.
type GenerateFlashcardsResponse struct {
	GenerationID string         `json:"generation_id"`
	Cards        []FlashcardDTO `json:"cards"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// GenerationResponse describes a stored generation. The submitted text is
// not echoed back.
type GenerationResponse struct {
	ID                    string    `json:"id"`
	CardSetID             *string   `json:"card_set_id"`
	Model                 string    `json:"model"`
	Duration              int64     `json:"duration"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedEditedCount   *int      `json:"accepted_edited_count"`
	AcceptedUneditedCount *int      `json:"accepted_unedited_count"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// GenerationHandler handles flashcard generation requests.
type GenerationHandler struct {
	service GenerationService
	logger  *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(service GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		service: service,
		logger:  logger.With(slog.String("component", "generation_handler")),
	}
}

// GenerateFlashcards handles POST /api/generations.
//
// Responds 201 with the generated cards. A card set that is missing or owned
// by someone else is 404, a provider rate limit is 429, other provider
// failures are 502 and anything else is 500.
func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	cardSetID, err := uuid.Parse(req.CardSetID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card_set_id: must be a UUID", err)
		return
	}

	result, err := h.service.GenerateFlashcards(r.Context(), userID, generation.GenerateCommand{
		InputText: req.InputText,
		CardSetID: cardSetID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := GenerateFlashcardsResponse{
		GenerationID: result.GenerationID.String(),
		Cards:        make([]FlashcardDTO, len(result.Cards)),
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}
	for i, c := range result.Cards {
		resp.Cards[i] = FlashcardDTO{Front: c.Front, Back: c.Back}
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// GetGeneration handles GET /api/generations/{id}.
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	gen, err := h.service.GetGeneration(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generationToResponse(gen))
}

func generationToResponse(g *domain.Generation) GenerationResponse {
	resp := GenerationResponse{
		ID:                    g.ID.String(),
		Model:                 g.Model,
		Duration:              g.DurationMS,
		GeneratedCount:        g.GeneratedCount,
		AcceptedEditedCount:   g.AcceptedEditedCount,
		AcceptedUneditedCount: g.AcceptedUneditedCount,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             g.UpdatedAt,
	}
	if g.CardSetID != uuid.Nil {
		id := g.CardSetID.String()
		resp.CardSetID = &id
	}
	return resp
}

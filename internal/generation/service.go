package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
	"github.com/phrazzld/fiszki-api/internal/redact"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// GenerateCommand is the input to GenerateFlashcards.
type GenerateCommand struct {
	InputText string
	CardSetID uuid.UUID
}

// Result is returned by a successful GenerateFlashcards call.
type Result struct {
	GenerationID uuid.UUID
	Cards        []domain.CardDraft
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service turns submitted text into card drafts through a Gateway and keeps
// an audit trail of every attempt.
type Service struct {
	gateway     Gateway
	generations store.GenerationStore
	errors      store.GenerationErrorStore
	cardSets    store.CardSetStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a Service. All dependencies are required.
func NewService(
	gateway Gateway,
	generations store.GenerationStore,
	generationErrors store.GenerationErrorStore,
	cardSets store.CardSetStore,
	logger *slog.Logger,
) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}
	if generations == nil {
		return nil, errors.New("generation store cannot be nil")
	}
	if generationErrors == nil {
		return nil, errors.New("generation error store cannot be nil")
	}
	if cardSets == nil {
		return nil, errors.New("card set store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		gateway:     gateway,
		generations: generations,
		errors:      generationErrors,
		cardSets:    cardSets,
		logger:      logger.With(slog.String("component", "generation_service")),
		now:         time.Now,
	}, nil
}

// GenerateFlashcards runs one generate-and-persist flow for userID.
//
// On failure the error is classified, recorded in the generation error
// store and returned as a *Error. A failure to record it is logged and
// does not replace the original error.
func (s *Service) GenerateFlashcards(ctx context.Context, userID uuid.UUID, cmd GenerateCommand) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_set_id", cmd.CardSetID.String()),
	)

	result, err := s.generate(ctx, log, userID, cmd)
	if err == nil {
		return result, nil
	}

	classified := Classify(err)
	log.WarnContext(ctx, "flashcard generation failed",
		slog.String("code", string(classified.Code)),
		slog.String("error", redact.Error(err)))

	s.recordError(ctx, log, userID, cmd.InputText, classified)
	return nil, classified
}

func (s *Service) generate(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	cmd GenerateCommand,
) (*Result, error) {
	start := s.now()

	if cmd.CardSetID != uuid.Nil {
		if err := s.checkOwnership(ctx, userID, cmd.CardSetID); err != nil {
			return nil, err
		}
	}

	resp, err := s.gateway.Send(ctx, cmd.InputText)
	if err != nil {
		return nil, err
	}

	cards, err := ParseFlashcards(resp)
	if err != nil {
		return nil, err
	}

	gen, err := domain.NewGeneration(
		userID,
		cmd.CardSetID,
		cmd.InputText,
		s.gateway.ModelName(),
		s.now().Sub(start),
		len(cards),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid generation record: %w", ErrGenerationFailed, err)
	}

	if err := s.generations.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("%w: failed to save generation: %w", ErrGenerationFailed, err)
	}

	log.InfoContext(ctx, "flashcards generated",
		slog.String("generation_id", gen.ID.String()),
		slog.Int("generated_count", gen.GeneratedCount),
		slog.Int64("duration_ms", gen.DurationMS))

	return &Result{
		GenerationID: gen.ID,
		Cards:        cards,
		CreatedAt:    gen.CreatedAt,
		UpdatedAt:    gen.UpdatedAt,
	}, nil
}

func (s *Service) checkOwnership(ctx context.Context, userID, cardSetID uuid.UUID) error {
	set, err := s.cardSets.GetByID(ctx, cardSetID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return fmt.Errorf("%w: %s", ErrCardSetNotFound, cardSetID)
		}
		return fmt.Errorf("failed to load card set: %w", err)
	}
	if !set.OwnedBy(userID) {
		return fmt.Errorf("%w: %s", ErrCardSetNotFound, cardSetID)
	}
	return nil
}

func (s *Service) recordError(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	inputText string,
	classified *Error,
) {
	rec := &domain.GenerationError{
		UserID:       userID,
		ErrorCode:    string(classified.Code),
		ErrorMessage: classified.Message,
		Model:        s.gateway.ModelName(),
	}
	if inputText != "" {
		rec.InputText = &inputText
	}
	if classified.Cause != nil {
		rec.Cause = &domain.ErrorCause{
			Name:    causeName(classified.Cause),
			Message: redact.Error(classified.Cause),
		}
	}

	// The request context may already be cancelled; the audit row is still wanted.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.errors.Create(saveCtx, rec); err != nil {
		log.ErrorContext(ctx, "failed to record generation error",
			slog.String("code", rec.ErrorCode),
			slog.String("error", redact.Error(err)))
	}
}

// causeName names the most specific known error in the chain.
func causeName(err error) string {
	var apiErr *APIError
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrRateLimited):
		return "RateLimitError"
	case errors.Is(err, ErrAuthenticationFailed):
		return "AuthenticationError"
	case errors.As(err, &apiErr):
		return "APIError"
	case errors.As(err, &validationErr):
		return "ValidationError"
	case errors.Is(err, ErrCardSetNotFound):
		return "CardSetNotFoundError"
	case errors.Is(err, context.DeadlineExceeded):
		return "DeadlineExceeded"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, ErrGateway):
		return "GatewayError"
	default:
		return fmt.Sprintf("%T", err)
	}
}

// GetGeneration returns a generation owned by userID.
// Generations owned by other users are reported as not found.
func (s *Service) GetGeneration(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	gen, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gen.UserID != userID {
		return nil, store.ErrGenerationNotFound
	}
	return gen, nil
}

package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/fiszki-api/internal/api/shared"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var genErr *generation.Error
	if errors.As(err, &genErr) {
		return statusForCode(genErr.Code)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrGenerationNotFound),
		errors.Is(err, store.ErrCardSetNotFound),
		errors.Is(err, generation.ErrCardSetNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// statusForCode maps generation failure codes to statuses. Failures of the
// upstream model (API errors, malformed output, rejected credentials) are
// 502 rather than 400, since the request itself was well formed.
func statusForCode(code generation.Code) int {
	switch code {
	case generation.CodeCardSetNotFound:
		return http.StatusNotFound
	case generation.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case generation.CodeAPIError,
		generation.CodeValidationFailed,
		generation.CodeAuthenticationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the machine-readable code for err, or "" when it has none.
func ErrorCode(err error) string {
	var genErr *generation.Error
	if errors.As(err, &genErr) {
		return string(genErr.Code)
	}
	return ""
}

// GetSafeErrorMessage returns a user-facing message for err.
// Classified generation errors carry their own safe message; nothing else
// is passed through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var genErr *generation.Error
	if errors.As(err, &genErr) && genErr.Message != "" {
		return genErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "User ID not found or invalid"
	case errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"
	case errors.Is(err, store.ErrCardSetNotFound),
		errors.Is(err, generation.ErrCardSetNotFound):
		return "Card set not found"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a message naming the
// first failing field, without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return "Invalid " + fe.Field() + ": " + getValidationTagMessage(fe.Tag())
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status, safe message and code for err and logs
// the details. An empty fallback message uses GetSafeErrorMessage.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	respondError(w, r, MapErrorToStatusCode(err), message, ErrorCode(err), err)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message, code string, err error) {
	var opts []shared.ResponseOption
	if code != "" {
		opts = append(opts, shared.WithCode(code))
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

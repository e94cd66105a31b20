package generation

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by gateways and the generation service.
var (
	// ErrMissingCredential is returned when a gateway is constructed without an API key.
	ErrMissingCredential = errors.New("missing API key for chat-completion gateway")

	// ErrRateLimited marks an API error with status 429.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrAuthenticationFailed marks an API error with status 401 or 403.
	ErrAuthenticationFailed = errors.New("authentication failed, check the API key")

	// ErrGateway wraps any gateway failure that is neither an API nor a validation error.
	ErrGateway = errors.New("chat-completion gateway error")

	// ErrContentBlocked is returned when the provider refuses to answer for safety reasons.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrGenerationFailed is the catch-all for failures in the generation flow.
	ErrGenerationFailed = errors.New("failed to generate flashcards")

	// ErrCardSetNotFound is returned when the target card set does not exist
	// or belongs to another user.
	ErrCardSetNotFound = errors.New("card set not found")

	// ErrInvalidConfig is returned when a gateway configuration cannot be used.
	ErrInvalidConfig = errors.New("invalid gateway configuration")
)

// APIError is raised for a non-2xx response from the chat-completion endpoint.
type APIError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.StatusText)
}

// NewAPIError builds an APIError, deriving the status text from the code
// when none is given.
func NewAPIError(statusCode int, statusText, body string) *APIError {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, StatusText: statusText, Body: body}
}

// ValidationError is raised when a response, or the content it carries,
// does not have the expected shape.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Cause == nil {
		return "invalid response format"
	}
	return "invalid response format: " + e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError wraps cause in a ValidationError.
func NewValidationError(cause error) *ValidationError {
	return &ValidationError{Cause: cause}
}

// NormalizeError maps a raw gateway failure onto the error taxonomy:
//   - 429 becomes ErrRateLimited
//   - 401 and 403 become ErrAuthenticationFailed
//   - other API and validation errors pass through
//   - everything else is wrapped in ErrGateway
//
// The original APIError stays reachable with errors.As.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAuthenticationFailed, apiErr)
		default:
			return err
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return err
	}

	if errors.Is(err, ErrGateway) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGateway, err)
}

// Code identifies the class of a failed generation. Codes are persisted in
// generation error records and returned to API clients.
type Code string

// Generation failure codes.
const (
	CodeGenerationFailed     Code = "GENERATION_FAILED"
	CodeValidationFailed     Code = "VALIDATION_FAILED"
	CodeAPIError             Code = "API_ERROR"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"
	CodeCardSetNotFound      Code = "CARD_SET_NOT_FOUND"
)

// Error is the classified failure returned by Service.GenerateFlashcards.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify converts any error from the generation flow into an *Error.
// Errors that are already classified are returned unchanged.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var apiErr *APIError
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrRateLimited):
		return &Error{Code: CodeRateLimitExceeded, Message: "Too many requests. Please try again later.", Cause: err}
	case errors.Is(err, ErrAuthenticationFailed):
		return &Error{Code: CodeAuthenticationFailed, Message: "Generation provider rejected the credentials", Cause: err}
	case errors.Is(err, ErrCardSetNotFound):
		return &Error{Code: CodeCardSetNotFound, Message: "Card set not found", Cause: err}
	case errors.As(err, &validationErr):
		return &Error{Code: CodeValidationFailed, Message: "Invalid response format", Cause: err}
	case errors.As(err, &apiErr):
		return &Error{Code: CodeAPIError, Message: "Failed to generate flashcards", Cause: err}
	default:
		return &Error{Code: CodeGenerationFailed, Message: "Failed to generate flashcards", Cause: err}
	}
}

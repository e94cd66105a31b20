package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyInput is returned when Send is called with empty text.
	ErrEmptyInput = errors.New("input text cannot be empty")
)

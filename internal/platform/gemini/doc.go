// Package gemini provides an implementation of the generation.Gateway port
// that uses Google's Gemini API for generating flashcards from user text.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the generation service to Google's external Gemini service
// without exposing the details of that service to the core application.
//
// Key components:
//
// 1. Gateway:
//   - Implements the generation.Gateway interface
//   - Sends the system prompt as a system instruction and the user text as content
//   - Requests JSON output constrained by the flashcards response schema
//
// 2. Response Translation:
//   - Converts a GenerateContentResponse into a generation.ChatResponse so the
//     generation service parses every provider the same way
//   - Reports safety blocks as generation.ErrContentBlocked
//
// 3. Error Handling:
//   - Converts genai.APIError into generation.APIError
//   - Retries transient statuses with the shared generation retry policy
//   - Normalizes every returned error with generation.NormalizeError
//
// The package depends on the google.golang.org/genai client library for
// communicating with the Gemini API.
package gemini

package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/service/auth"
)

// MockTokenVerifier implements auth.TokenVerifier for testing
type MockTokenVerifier struct {
	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when ValidateTokenFn isn't set
	Claims *auth.Claims
	Err    error
}

var _ auth.TokenVerifier = (*MockTokenVerifier)(nil)

// ValidateToken implements the auth.TokenVerifier interface
func (m *MockTokenVerifier) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.Err
}

// NewMockTokenVerifierForUser accepts any token as userID.
func NewMockTokenVerifierForUser(userID uuid.UUID) *MockTokenVerifier {
	now := time.Now()
	return &MockTokenVerifier{
		Claims: &auth.Claims{
			UserID:    userID,
			Role:      "authenticated",
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		},
	}
}

// NewMockTokenVerifierWithError rejects every token with err.
func NewMockTokenVerifierWithError(err error) *MockTokenVerifier {
	return &MockTokenVerifier{Err: err}
}

// Package auth validates access tokens issued by the hosted auth provider.
//
// Users sign in with the provider; this service never issues tokens. It only
// checks the HS256 signature, the expiry and the audience, and turns the
// subject claim into a user ID.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/config"
	"github.com/phrazzld/fiszki-api/internal/platform/logger"
)

// DefaultAudience is the audience claim carried by signed-in users' tokens.
const DefaultAudience = "authenticated"

const minSecretLength = 32

// Claims is the validated subset of an access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	// ValidateToken checks tokenString and returns its claims.
	// It returns ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type providerClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type hmacTokenVerifier struct {
	signingKey []byte
	audience   string
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

var _ TokenVerifier = (*hmacTokenVerifier)(nil)

// NewTokenVerifier creates an HS256 verifier from cfg.
// An empty audience falls back to DefaultAudience.
func NewTokenVerifier(cfg config.AuthConfig) (TokenVerifier, error) {
	return newTokenVerifier(cfg, time.Now)
}

func newTokenVerifier(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacTokenVerifier, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}

	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}

	return &hmacTokenVerifier{
		signingKey: []byte(cfg.JWTSecret),
		audience:   audience,
		timeFunc:   timeFunc,
		clockSkew:  30 * time.Second,
	}, nil
}

// ValidateToken implements TokenVerifier.
func (v *hmacTokenVerifier) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := v.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&providerClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return v.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*providerClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		log.Debug("token validation failed: subject is not a user id")
		return nil, ErrInvalidToken
	}

	result := &Claims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

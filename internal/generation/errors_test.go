package generation_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/fiszki-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError(t *testing.T) {
	t.Parallel()

	err := generation.NewAPIError(http.StatusServiceUnavailable, "", `{"error":"down"}`)
	assert.Equal(t, "Service Unavailable", err.StatusText)
	assert.Equal(t, `{"error":"down"}`, err.Body)
	assert.Equal(t, "API request failed with status 503: Service Unavailable", err.Error())

	custom := generation.NewAPIError(http.StatusBadRequest, "bad model", "")
	assert.Equal(t, "bad model", custom.StatusText)
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("missing choices")
	err := generation.NewValidationError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "missing choices")
	assert.Equal(t, "invalid response format", (&generation.ValidationError{}).Error())
}

func TestNormalizeError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, generation.NormalizeError(nil))
	})

	t.Run("429 becomes rate limited and keeps the API error", func(t *testing.T) {
		t.Parallel()
		err := generation.NormalizeError(generation.NewAPIError(http.StatusTooManyRequests, "", ""))

		assert.ErrorIs(t, err, generation.ErrRateLimited)
		var apiErr *generation.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	})

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(fmt.Sprintf("%d becomes authentication failure", status), func(t *testing.T) {
			t.Parallel()
			err := generation.NormalizeError(generation.NewAPIError(status, "", ""))

			assert.ErrorIs(t, err, generation.ErrAuthenticationFailed)
			var apiErr *generation.APIError
			assert.ErrorAs(t, err, &apiErr)
		})
	}

	t.Run("other API errors pass through", func(t *testing.T) {
		t.Parallel()
		orig := generation.NewAPIError(http.StatusInternalServerError, "", "")
		assert.Same(t, orig, generation.NormalizeError(orig))
	})

	t.Run("validation errors pass through", func(t *testing.T) {
		t.Parallel()
		orig := generation.NewValidationError(errors.New("bad"))
		assert.Same(t, orig, generation.NormalizeError(orig))
	})

	t.Run("anything else is wrapped as a gateway error", func(t *testing.T) {
		t.Parallel()
		err := generation.NormalizeError(context.DeadlineExceeded)

		assert.ErrorIs(t, err, generation.ErrGateway)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.ErrorIs(t, generation.NormalizeError(err), generation.ErrGateway)
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want generation.Code
	}{
		{
			name: "rate limit",
			err:  generation.NormalizeError(generation.NewAPIError(429, "", "")),
			want: generation.CodeRateLimitExceeded,
		},
		{
			name: "authentication",
			err:  generation.NormalizeError(generation.NewAPIError(401, "", "")),
			want: generation.CodeAuthenticationFailed,
		},
		{
			name: "other API error",
			err:  generation.NewAPIError(500, "", ""),
			want: generation.CodeAPIError,
		},
		{
			name: "validation",
			err:  generation.NewValidationError(errors.New("bad json")),
			want: generation.CodeValidationFailed,
		},
		{
			name: "card set not found",
			err:  fmt.Errorf("%w: abc", generation.ErrCardSetNotFound),
			want: generation.CodeCardSetNotFound,
		},
		{
			name: "save failure",
			err:  fmt.Errorf("%w: failed to save generation: %w", generation.ErrGenerationFailed, errors.New("db down")),
			want: generation.CodeGenerationFailed,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: generation.CodeGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := generation.Classify(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.NotEmpty(t, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("already classified is returned unchanged", func(t *testing.T) {
		t.Parallel()
		orig := &generation.Error{Code: generation.CodeAPIError, Message: "x"}
		assert.Same(t, orig, generation.Classify(fmt.Errorf("wrapped: %w", orig)))
	})
}

package neterror

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(404, "summary not found")
	assert.Equal(t, 404, err.StatusCode())
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "summary not found")
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		body        string
		wantMessage string
	}{
		{
			name:        "structured error body",
			code:        403,
			body:        `{"error":"forbidden","message":"tenant mismatch"}`,
			wantMessage: "tenant mismatch",
		},
		{
			name:        "error field only",
			code:        401,
			body:        `{"error":"invalid token"}`,
			wantMessage: "invalid token",
		},
		{
			name:        "plain text body",
			code:        500,
			body:        "boom",
			wantMessage: "Internal Server Error",
		},
		{
			name:        "empty body",
			code:        404,
			body:        "",
			wantMessage: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.code, []byte(tt.body))
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantMessage, err.Message)
		})
	}
}

func TestWithDetails(t *testing.T) {
	err := WithDetails(403, "tenant mismatch", map[string]string{"tenant": "acme"})
	assert.Equal(t, 403, err.Code)
	assert.Equal(t, map[string]string{"tenant": "acme"}, err.Details)
}

func TestCodeOf(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		code, ok := CodeOf(New(401, "expired"))
		require.True(t, ok)
		assert.Equal(t, 401, code)
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("upload failed: %w", New(503, "unavailable"))
		require.True(t, IsNetworkError(wrapped))
		code, ok := CodeOf(wrapped)
		require.True(t, ok)
		assert.Equal(t, 503, code)
	})

	t.Run("unrelated error", func(t *testing.T) {
		_, ok := CodeOf(fmt.Errorf("plain error"))
		assert.False(t, ok)
		assert.False(t, IsNetworkError(fmt.Errorf("plain error")))
	})
}

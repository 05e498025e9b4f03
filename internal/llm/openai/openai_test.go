package openai

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/springymate/book-scanner/internal/errors"
	"github.com/springymate/book-scanner/internal/llm"
	"github.com/springymate/book-scanner/internal/testutil"
)

func TestGenerate_Success(t *testing.T) {
	server := testutil.NewIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultModel, body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "recommend books", body.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))

	p := New("sk-test", server.URL, server.Client())
	out, err := p.Generate(context.Background(), llm.Request{
		System:      "You are a librarian.",
		Prompt:      "recommend books",
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestGenerate_NotConfigured(t *testing.T) {
	p := New("", "", nil)
	_, err := p.Generate(context.Background(), llm.Request{Prompt: "x"})
	require.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		rateLimit bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := New("sk-test", server.URL, server.Client()).Generate(context.Background(), llm.Request{Prompt: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.rateLimit, apperrors.IsRateLimitError(err))
		})
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	server := testutil.NewIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))

	_, err := New("sk-test", server.URL, server.Client()).Generate(context.Background(), llm.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

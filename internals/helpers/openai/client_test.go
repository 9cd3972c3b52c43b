package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/configs"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  hello  "}}]}`)
	}))
	defer srv.Close()

	c := NewClient(configs.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model"})
	out, err := c.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestComplete_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	c := NewClient(configs.OpenAIConfig{APIKey: "sk", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestComplete_NotConfigured(t *testing.T) {
	_, err := NewClient(configs.OpenAIConfig{}).Complete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

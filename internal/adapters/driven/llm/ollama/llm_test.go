package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

const completion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "mistral",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Once upon a time"}, "finish_reason": "stop"}]
}`

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, svc.BaseURL())
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestAPIURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", apiURL("http://localhost:11434"))
	assert.Equal(t, "http://localhost:11434/v1", apiURL("http://localhost:11434/"))
	assert.Equal(t, "http://host/v1", apiURL("http://host/v1"))
}

func TestLLMService_Generate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "mistral"})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "Write a story", driven.GenerateOptions{
		System:      "You are a helpful assistant.",
		MaxTokens:   500,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", out)

	assert.Equal(t, "mistral", got["model"])
	assert.EqualValues(t, 500, got["max_tokens"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Write a story", messages[1].(map[string]any)["content"])
}

func TestLLMService_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "ollama")
}

func TestLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: url})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrLLMUnavailable)
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [{"id": "llama3.2", "object": "model"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}

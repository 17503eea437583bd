// Package ollama provides an LLM service adapter for a local Ollama server.
// It talks to Ollama's OpenAI-compatible endpoint under /v1.
package ollama

import (
	"strings"
	"time"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second

	// placeholderKey satisfies the client; Ollama ignores Authorization.
	placeholderKey = "ollama"
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the server root, without /v1 (default: http://localhost:11434).
	BaseURL string

	// Model is the model tag to run (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService is an OpenAI-compatible client pointed at Ollama.
type LLMService struct {
	*openai.LLMService
	baseURL string
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	inner, err := openai.NewLLMService(openai.LLMConfig{
		APIKey:  placeholderKey,
		BaseURL: apiURL(cfg.BaseURL),
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		Label:   "ollama",
	})
	if err != nil {
		return nil, err
	}
	return &LLMService{LLMService: inner, baseURL: cfg.BaseURL}, nil
}

// BaseURL returns the server root the service was created with.
func (s *LLMService) BaseURL() string {
	return s.baseURL
}

// apiURL appends /v1 unless the caller already did.
func apiURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}

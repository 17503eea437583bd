package oracle

import (
	"context"
	"fmt"

	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// mockPrefixRunes is how much of the prompt the placeholder output quotes.
const mockPrefixRunes = 50

// Defaults for output generation.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
	defaultSystem      = "You are a helpful assistant."
)

// MockResponse is the placeholder output recorded when no LLM is configured.
func MockResponse(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > mockPrefixRunes {
		runes = runes[:mockPrefixRunes]
	}
	return fmt.Sprintf("Mock response to: %s...", string(runes))
}

// outputGenerator runs a prompt against the LLM under the configured system message.
type outputGenerator struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	maxTokens   int
	temperature float64
}

func (g *outputGenerator) prompt(name, fallback string) string {
	if g.prompts == nil {
		return fallback
	}
	p, err := g.prompts.Load(name)
	if err != nil || p == "" {
		return fallback
	}
	return p
}

// generate returns the LLM's output for prompt, or MockResponse without an LLM.
func (g *outputGenerator) generate(ctx context.Context, prompt string) (string, error) {
	if g.llm == nil {
		return MockResponse(prompt), nil
	}
	out, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      g.prompt(driven.PromptOutputSystem, defaultSystem),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate output: %w", err)
	}
	return out, nil
}

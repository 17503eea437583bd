package driven

import "context"

// LLMService is a chat model. The judge oracle needs one; the simulated
// oracle uses one for outputs when it is available.
type LLMService interface {
	// Generate sends prompt as the user turn and returns the reply text.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	ModelName() string

	// Ping makes the cheapest request the provider offers.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes one Generate call. Zero values leave the provider default.
type GenerateOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
	StopWords   []string
}

package driven

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// AIConfigValidator validates LLM provider configurations by testing
// connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateLLM pings the configured provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}

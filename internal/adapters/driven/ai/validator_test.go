package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

func TestConfigValidator_ValidateLLM(t *testing.T) {
	v := NewConfigValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLLM(ctx, nil))
	assert.NoError(t, v.ValidateLLM(ctx, &domain.LLMSettings{Provider: "not-a-provider"}))
	assert.NoError(t, v.ValidateLLM(ctx, &domain.LLMSettings{Provider: domain.AIProviderAnthropic}))
}

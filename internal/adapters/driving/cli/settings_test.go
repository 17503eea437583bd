package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "set", "keys", "api-key", "llm"}, names)
}

func TestSettingsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[Evolution]")
	assert.Contains(t, out, "Population size: 15")
	assert.Contains(t, out, "[Oracle]")
	assert.Contains(t, out, "Simulated")
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_WarnsOnInvalid(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, settingsService.SetValue("oracle.kind", "llm"))

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestSettingsSetCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "evolution.mutation_rate", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Set evolution.mutation_rate = 0.25")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, settings.Evolution.MutationRate, 1e-9)
}

func TestSettingsSetCmd_MasksAPIKey(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "llm.api_key", "sk-1234567890abcdef")
	require.NoError(t, err)
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "567890")
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "set", "evolution.mutation_rate", "2")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = execute(t, "settings", "set", "nope", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "evolution.population_size")
	assert.Contains(t, out, "oracle.requests_per_second")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(settingsService.Keys()))
}

func TestConfigureLLMProvider_Ollama(t *testing.T) {
	setupTestServices(t)

	// Choose ollama (1) and accept the default model.
	cmd := settingsLLMCmd
	out := new(strings.Builder)
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)

	err := configureLLMProvider(cmd, bufio.NewReader(strings.NewReader("1\n\n")))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Validating configuration... OK")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOllama], settings.LLM.Model)
	assert.NotEmpty(t, settings.LLM.BaseURL)
}

func TestConfigureLLMProvider_OpenAIReadsKey(t *testing.T) {
	setupTestServices(t)

	cmd := settingsLLMCmd
	out := new(strings.Builder)
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)

	err := configureLLMProvider(cmd, bufio.NewReader(strings.NewReader("2\ngpt-4o\nsk-test-0123456789\n")))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "LLM provider configured")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-test-0123456789", settings.LLM.APIKey)
}

func TestSettingsAPIKeyCmd(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, settingsService.SetLLMProvider(domain.AIProviderAnthropic, "claude", "old-key-123456"))

	rootCmd.SetIn(strings.NewReader("new-key-abcdef\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "settings", "api-key")
	require.NoError(t, err)
	assert.Contains(t, out, "API key saved: new-...cdef")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "new-key-abcdef", settings.LLM.APIKey)
}

func TestSettingsAPIKeyCmd_LocalProvider(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, settingsService.SetLLMProvider(domain.AIProviderOllama, "llama3", ""))

	_, err := execute(t, "settings", "api-key")
	assert.Error(t, err)
}

func TestPrompter(t *testing.T) {
	out := new(strings.Builder)
	cmd := settingsLLMCmd
	cmd.SetOut(out)
	defer cmd.SetOut(nil)

	p := newPrompter(cmd, bufio.NewReader(strings.NewReader("3\n\nvalue\n")))
	assert.Equal(t, 2, p.choose("Pick", []string{"a", "b", "c"}))
	assert.Equal(t, "fallback", p.ask("Name", "fallback"))
	assert.Equal(t, "value", p.ask("Other", "x"))
	assert.Contains(t, out.String(), "  3. c")
	assert.Contains(t, out.String(), "Name [fallback]: ")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"2", 2},
		{"9", 1},
		{"x", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, 3, 1), tt.input)
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", maskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}

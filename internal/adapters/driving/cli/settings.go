package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change evolution defaults, the fitness oracle and the LLM provider.

Settings are stored in config.toml in the data directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key. The value is validated before it is saved.

Run 'promptbreeder settings keys' to list the keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Set the LLM API key without echoing it",
	Args:  cobra.NoArgs,
	RunE:  runSettingsAPIKey,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to generate outputs and to judge them.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

type settingsSection struct {
	title  string
	fields [][2]string
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Settings (%s)\n\n", dataDirLabel())
	for _, section := range describeSettings(settings) {
		cmd.Printf("[%s]\n", section.title)
		for _, f := range section.fields {
			cmd.Printf("  %s: %s\n", f[0], f[1])
		}
		cmd.Println()
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Fix with 'promptbreeder settings llm' or 'promptbreeder settings set'.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func describeSettings(s *domain.AppSettings) []settingsSection {
	evolution := settingsSection{title: "Evolution", fields: [][2]string{
		{"Population size", strconv.Itoa(s.Evolution.PopulationSize)},
		{"Mutation rate", fmt.Sprintf("%.2f", s.Evolution.MutationRate)},
		{"Crossover rate", fmt.Sprintf("%.2f", s.Evolution.CrossoverRate)},
	}}

	oracle := settingsSection{title: "Oracle", fields: [][2]string{
		{"Kind", s.Oracle.Kind.Description()},
		{"Concurrency", strconv.Itoa(s.Oracle.Concurrency)},
		{"Requests per second", fmt.Sprintf("%.2f", s.Oracle.RequestsPerSecond)},
	}}

	llm := settingsSection{title: "LLM", fields: [][2]string{
		{"Provider", s.LLM.Provider.Description()},
		{"Model", s.LLM.Model},
	}}
	provider := s.LLM.Provider
	switch {
	case provider.IsLocal():
		llm.fields = append(llm.fields, [2]string{"Base URL", s.LLM.BaseURL})
	case provider.RequiresAPIKey() && s.LLM.APIKey == "":
		llm.fields = append(llm.fields, [2]string{"API key", "(not set, or export " + provider.APIKeyEnv() + ")"})
	case provider.RequiresAPIKey():
		llm.fields = append(llm.fields, [2]string{"API key", maskAPIKey(s.LLM.APIKey)})
	}
	status := "not configured"
	if s.LLM.IsConfigured() {
		status = "configured"
	}
	llm.fields = append(llm.fields,
		[2]string{"Max tokens", strconv.Itoa(s.LLM.MaxTokens)},
		[2]string{"Temperature", fmt.Sprintf("%.2f", s.LLM.Temperature)},
		[2]string{"Status", status},
	)

	return []settingsSection{evolution, oracle, llm}
}

func dataDirLabel() string {
	if dataDir == "" {
		return "~/.promptbreeder"
	}
	return dataDir
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "llm.api_key" {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.LLM.Provider.RequiresAPIKey() {
		return errors.New("the configured LLM provider does not use an API key")
	}

	p := newPrompter(cmd, bufio.NewReader(cmd.InOrStdin()))
	apiKey := p.secret(fmt.Sprintf("%s API key", settings.LLM.Provider.Description()))
	if apiKey == "" {
		return errors.New("API key is required")
	}

	if err := settingsService.SetValue("llm.api_key", apiKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	cmd.Printf("API key saved: %s\n", maskAPIKey(apiKey))
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	p := newPrompter(cmd, reader)

	providers := domain.AllLLMProviders()
	labels := make([]string, len(providers))
	for i, provider := range providers {
		labels[i] = provider.Description()
	}
	provider := providers[p.choose("Select LLM provider", labels)]

	model := p.ask("Model", domain.DefaultLLMModels()[provider])

	// Blank falls back to the provider's environment variable.
	var apiKey string
	if provider.RequiresAPIKey() {
		apiKey = p.secret(fmt.Sprintf("API key (blank to use $%s)", provider.APIKeyEnv()))
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// prompter asks interactive questions on the command's output.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command, reader *bufio.Reader) *prompter {
	return &prompter{cmd: cmd, reader: reader}
}

// choose lists options and returns the zero-based index picked.
// Blank or invalid input picks the first option.
func (p *prompter) choose(title string, options []string) int {
	p.cmd.Println(title)
	for i, option := range options {
		p.cmd.Printf("  %d. %s\n", i+1, option)
	}
	p.cmd.Print("\nEnter choice [1]: ")
	return parseChoice(p.line(), len(options), 1) - 1
}

// ask returns the answer, or def when the answer is blank.
func (p *prompter) ask(label, def string) string {
	p.cmd.Printf("%s [%s]: ", label, def)
	if answer := p.line(); answer != "" {
		return answer
	}
	return def
}

// secret reads without echo when stdin is a terminal.
func (p *prompter) secret(label string) string {
	p.cmd.Printf("%s: ", label)
	defer p.cmd.Println()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if b, err := term.ReadPassword(fd); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return p.line()
}

func (p *prompter) line() string {
	//nolint:errcheck // EOF yields whatever was typed
	input, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

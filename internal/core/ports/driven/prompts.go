package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to their default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptOutputSystem is the system message used when generating a prompt's output.
	// This prompt has no format placeholders.
	PromptOutputSystem = "output_system"

	// PromptJudge asks a model to rate an output from 1 to 5.
	// The template expects two %s placeholders: the prompt, then its output.
	PromptJudge = "judge"
)

// PromptStoreAware is implemented by oracles whose prompts can be customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store. Without one, defaults are used.
	SetPromptStore(store PromptStore)
}

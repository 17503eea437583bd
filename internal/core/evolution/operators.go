package evolution

import (
	"strings"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// Operator names one structural mutation.
type Operator string

// The mutation operators.
const (
	OpAddInstruction  Operator = "add_instruction"
	OpChangeTone      Operator = "change_tone"
	OpSubstituteWords Operator = "substitute_words"
	OpAddConstraints  Operator = "add_constraints"
	OpRemoveElements  Operator = "remove_elements"
	OpAddExample      Operator = "add_example"
	OpReorderElements Operator = "reorder_elements"
)

// String returns the string representation.
func (o Operator) String() string {
	return string(o)
}

// IsValid returns true if the operator is recognised.
func (o Operator) IsValid() bool {
	for _, op := range AllOperators() {
		if op == o {
			return true
		}
	}
	return false
}

// AllOperators returns every operator.
func AllOperators() []Operator {
	return []Operator{
		OpAddInstruction,
		OpChangeTone,
		OpSubstituteWords,
		OpAddConstraints,
		OpRemoveElements,
		OpAddExample,
		OpReorderElements,
	}
}

// InitialOperators returns the operators drawn from when building generation 0.
func InitialOperators() []Operator {
	return []Operator{OpAddInstruction, OpChangeTone, OpAddExample, OpReorderElements}
}

// EvolutionaryOperators returns the operators drawn from during evolve.
func EvolutionaryOperators() []Operator {
	return []Operator{OpAddInstruction, OpChangeTone, OpSubstituteWords, OpAddConstraints, OpRemoveElements}
}

// toneMarker identifies a line that sets the assistant's persona.
const toneMarker = "You are"

// paragraphBreak separates appended sentences from existing content.
const paragraphBreak = "\n\n"

var instructions = []string{
	"Please be very detailed in your response.",
	"Respond in a professional tone.",
	"Explain your reasoning step by step.",
	"Be concise and to the point.",
	"Use examples to illustrate your points.",
}

var tones = []string{
	"You are a helpful assistant.",
	"You are an expert in the field.",
	"You are explaining to a beginner.",
	"You are a creative writer.",
	"You are a critical analyst.",
}

var constraints = []string{
	"Limit your response to 100 words.",
	"Include at least 3 examples.",
	"Structure your response as a list.",
	"Use technical terminology.",
	"Avoid jargon and acronyms.",
}

var examples = []string{
	"For example: If asked about photosynthesis, you might explain...",
	"Example format: Start with a definition, then provide applications.",
	"As an illustration: When discussing gravity, consider...",
}

var synonyms = map[string][]string{
	"good":      {"excellent", "outstanding", "superior", "exceptional"},
	"bad":       {"poor", "substandard", "inferior", "unsatisfactory"},
	"important": {"crucial", "vital", "essential", "significant"},
	"explain":   {"describe", "elaborate", "clarify", "detail"},
	"simple":    {"basic", "straightforward", "elementary", "clear"},
}

// Catalog returns the sentences an appending operator draws from,
// or nil for operators that do not append.
func Catalog(op Operator) []string {
	var src []string
	switch op {
	case OpAddInstruction:
		src = instructions
	case OpChangeTone:
		src = tones
	case OpAddConstraints:
		src = constraints
	case OpAddExample:
		src = examples
	default:
		return nil
	}
	return append([]string(nil), src...)
}

// Synonyms returns the replacement words for a lowercase key.
func Synonyms(word string) []string {
	return append([]string(nil), synonyms[word]...)
}

func (m *Mutator) pick(options []string) string {
	return options[m.rng.Intn(len(options))]
}

// appendSentence adds s after a blank line, or returns s alone for empty content.
func appendSentence(content, s string) string {
	if content == "" {
		return s
	}
	return content + paragraphBreak + s
}

func (m *Mutator) changeTone(content string) string {
	tone := m.pick(tones)
	if content == "" {
		return tone
	}
	lines := domain.SplitLines(content)
	for i, line := range lines {
		if strings.Contains(line, toneMarker) {
			lines[i] = tone
			return domain.JoinLines(lines)
		}
	}
	return tone + paragraphBreak + content
}

// substituteWords replaces known words with a random synonym. Lines are
// processed independently so that line structure survives; a line with no
// match is left untouched, including its spacing.
func (m *Mutator) substituteWords(content string) string {
	lines := domain.SplitLines(content)
	for i, line := range lines {
		words := strings.Fields(line)
		changed := false
		for j, word := range words {
			key := strings.ToLower(strings.TrimFunc(word, isASCIIPunct))
			if options, ok := synonyms[key]; ok {
				words[j] = m.pick(options)
				changed = true
			}
		}
		if changed {
			lines[i] = strings.Join(words, " ")
		}
	}
	return domain.JoinLines(lines)
}

// removeElements drops one line other than the first.
func (m *Mutator) removeElements(content string) string {
	lines := domain.SplitLines(content)
	if len(lines) <= 1 {
		return content
	}
	idx := 1 + m.rng.Intn(len(lines)-1)
	lines = append(lines[:idx], lines[idx+1:]...)
	return domain.JoinLines(lines)
}

// reorderElements shuffles the interior lines, keeping first and last fixed.
func (m *Mutator) reorderElements(content string) string {
	lines := domain.SplitLines(content)
	if len(lines) <= 2 {
		return content
	}
	middle := lines[1 : len(lines)-1]
	m.rng.Shuffle(len(middle), func(i, j int) {
		middle[i], middle[j] = middle[j], middle[i]
	})
	return domain.JoinLines(lines)
}

// asciiPunctuation is the set stripped from tokens before synonym lookup.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func isASCIIPunct(r rune) bool {
	return strings.ContainsRune(asciiPunctuation, r)
}

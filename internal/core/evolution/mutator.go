package evolution

import (
	"fmt"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// Mode selects how many operators a mutation applies and which set they come from.
type Mode int

const (
	// ModeInitial applies exactly one operator from InitialOperators.
	ModeInitial Mode = iota

	// ModeEvolutionary applies one or two operators from EvolutionaryOperators
	// with probability equal to the mutation rate.
	ModeEvolutionary
)

// String returns the string representation.
func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeEvolutionary:
		return "evolutionary"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Mutator applies mutation and crossover operators to genome content.
type Mutator struct {
	rng           RandomSource
	mutationRate  float64
	crossoverRate float64
}

// NewMutator creates a mutator drawing from rng.
func NewMutator(rng RandomSource, mutationRate, crossoverRate float64) (*Mutator, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", domain.ErrInvalidConfiguration)
	}
	cfg := domain.EvolutionConfig{PopulationSize: 1, MutationRate: mutationRate, CrossoverRate: crossoverRate}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Mutator{
		rng:           rng,
		mutationRate:  mutationRate,
		crossoverRate: crossoverRate,
	}, nil
}

// Apply runs a single operator. Unknown operators return content unchanged.
func (m *Mutator) Apply(op Operator, content string) string {
	switch op {
	case OpAddInstruction:
		return appendSentence(content, m.pick(instructions))
	case OpChangeTone:
		return m.changeTone(content)
	case OpSubstituteWords:
		return m.substituteWords(content)
	case OpAddConstraints:
		return appendSentence(content, m.pick(constraints))
	case OpRemoveElements:
		return m.removeElements(content)
	case OpAddExample:
		return appendSentence(content, m.pick(examples))
	case OpReorderElements:
		return m.reorderElements(content)
	default:
		return content
	}
}

// Mutate returns a mutated copy of content.
func (m *Mutator) Mutate(content string, mode Mode) (string, error) {
	switch mode {
	case ModeInitial:
		ops := InitialOperators()
		return m.applyChecked(ops[m.rng.Intn(len(ops))], content)

	case ModeEvolutionary:
		if m.rng.Float64() >= m.mutationRate {
			return content, nil
		}
		ops := EvolutionaryOperators()
		count := 1 + m.rng.Intn(2)
		for range count {
			if content == "" {
				break
			}
			next, err := m.applyChecked(ops[m.rng.Intn(len(ops))], content)
			if err != nil {
				return "", err
			}
			content = next
		}
		return content, nil

	default:
		return "", fmt.Errorf("%w: unknown mutation mode %s", domain.ErrInvalidInput, mode)
	}
}

// applyChecked enforces that non-empty content never mutates into empty content.
func (m *Mutator) applyChecked(op Operator, content string) (string, error) {
	out := m.Apply(op, content)
	if content != "" && out == "" {
		return "", fmt.Errorf("%w: %s emptied the content", domain.ErrMalformedGenome, op)
	}
	return out, nil
}

// CrossoverResult is the outcome of one crossover attempt.
type CrossoverResult struct {
	// Content is the child content.
	Content string

	// Recombined is false when one parent was passed through unchanged.
	Recombined bool

	// FromSecond reports, for a pass-through, that the second parent was chosen.
	FromSecond bool
}

// Crossover combines two parents line by line with probability equal to the
// crossover rate; otherwise one parent is returned unchanged.
//
// Each index present in both parents takes either parent's line. Lines past
// the shorter parent are copied from the longer one, so the child always has
// max(len(a), len(b)) lines.
func (m *Mutator) Crossover(a, b string) CrossoverResult {
	if m.rng.Float64() >= m.crossoverRate {
		if m.rng.Intn(2) == 0 {
			return CrossoverResult{Content: a}
		}
		return CrossoverResult{Content: b, FromSecond: true}
	}

	linesA, linesB := domain.SplitLines(a), domain.SplitLines(b)
	n := max(len(linesA), len(linesB))
	child := make([]string, n)
	for i := range n {
		switch {
		case i < len(linesA) && i < len(linesB):
			if m.rng.Intn(2) == 0 {
				child[i] = linesA[i]
			} else {
				child[i] = linesB[i]
			}
		case i < len(linesA):
			child[i] = linesA[i]
		default:
			child[i] = linesB[i]
		}
	}
	return CrossoverResult{Content: domain.JoinLines(child), Recombined: true}
}

package domain

import (
	"strings"
	"time"
)

// GenomeSource records how a genome came into existence.
type GenomeSource string

// Provenance values stored under MetaSource.
const (
	// SourceInitial marks a generation-0 variant of the base prompt.
	SourceInitial GenomeSource = "initial_population"

	// SourceCrossover marks a child recombined from two parents.
	SourceCrossover GenomeSource = "crossover"

	// SourceMutation marks a copy of a single parent followed by a mutation pass.
	SourceMutation GenomeSource = "mutation"
)

// String returns the string representation.
func (s GenomeSource) String() string {
	return string(s)
}

// Metadata keys written by the population manager.
const (
	MetaSource    = "source"
	MetaVariantID = "variant_id"
	MetaParentID  = "parent_id"
	MetaParent1ID = "parent1_id"
	MetaParent2ID = "parent2_id"
)

// Genome is one candidate prompt.
//
// Content is newline-delimited; lines are the unit of crossover and of
// the structural mutation operators.
type Genome struct {
	// ID is assigned by the persistence layer. Empty until saved.
	ID string

	// Content is the prompt text.
	Content string

	// Metadata records provenance (source, variant index, parent ids).
	Metadata map[string]any

	// ParentID is the single lineage pointer. For crossover children this is
	// the first parent; the second parent is only recorded in Metadata.
	ParentID string

	// CreatedAt is when the genome was first persisted.
	CreatedAt time.Time
}

// Lines splits the content into its lines.
func (g Genome) Lines() []string {
	return SplitLines(g.Content)
}

// Source returns the provenance recorded in metadata, if any.
func (g Genome) Source() GenomeSource {
	if g.Metadata == nil {
		return ""
	}
	switch v := g.Metadata[MetaSource].(type) {
	case GenomeSource:
		return v
	case string:
		return GenomeSource(v)
	default:
		return ""
	}
}

// ComplexityScore counts the non-blank lines of the content.
func (g Genome) ComplexityScore() int {
	n := 0
	for _, line := range g.Lines() {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so that a population snapshot is never
// aliased by the next generation.
func (g Genome) Clone() Genome {
	out := g
	if g.Metadata != nil {
		out.Metadata = make(map[string]any, len(g.Metadata))
		for k, v := range g.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// SplitLines splits text on newlines. Empty text yields a single empty line.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

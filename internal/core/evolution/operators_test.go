package evolution

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperator_IsValid(t *testing.T) {
	for _, op := range AllOperators() {
		assert.True(t, op.IsValid(), op)
	}
	assert.False(t, Operator("swap_words").IsValid())
	assert.Len(t, AllOperators(), 7)
	assert.Len(t, InitialOperators(), 4)
	assert.Len(t, EvolutionaryOperators(), 5)
}

func TestCatalog(t *testing.T) {
	assert.Len(t, Catalog(OpAddInstruction), 5)
	assert.Len(t, Catalog(OpChangeTone), 5)
	assert.Len(t, Catalog(OpAddConstraints), 5)
	assert.Len(t, Catalog(OpAddExample), 3)
	assert.Nil(t, Catalog(OpRemoveElements))

	// Returned slices are copies.
	c := Catalog(OpAddInstruction)
	c[0] = "changed"
	assert.Equal(t, "Please be very detailed in your response.", Catalog(OpAddInstruction)[0])

	assert.Equal(t, []string{"excellent", "outstanding", "superior", "exceptional"}, Synonyms("good"))
	assert.Empty(t, Synonyms("story"))
}

func TestMutator_AddInstruction(t *testing.T) {
	t.Run("appends after a blank line", func(t *testing.T) {
		m, _ := newScriptedMutator([]int{2}, nil, 0, 0)
		got := m.Apply(OpAddInstruction, "Write a story")
		assert.Equal(t, "Write a story\n\nExplain your reasoning step by step.", got)
	})

	t.Run("empty content yields only the instruction", func(t *testing.T) {
		m, _ := newScriptedMutator([]int{3}, nil, 0, 0)
		assert.Equal(t, "Be concise and to the point.", m.Apply(OpAddInstruction, ""))
	})
}

func TestMutator_AddConstraintsAndExample(t *testing.T) {
	m, _ := newScriptedMutator([]int{0, 2}, nil, 0, 0)

	assert.Equal(t, "Write a story\n\nLimit your response to 100 words.",
		m.Apply(OpAddConstraints, "Write a story"))
	assert.Equal(t, "Write a story\n\nAs an illustration: When discussing gravity, consider...",
		m.Apply(OpAddExample, "Write a story"))

	m, _ = newScriptedMutator([]int{1}, nil, 0, 0)
	assert.Equal(t, "Example format: Start with a definition, then provide applications.",
		m.Apply(OpAddExample, ""))
}

func TestMutator_ChangeTone(t *testing.T) {
	tests := []struct {
		name    string
		ints    []int
		content string
		want    string
	}{
		{
			name:    "replaces the first tone line only",
			ints:    []int{1},
			content: "Intro\nYou are a bot.\nYou are also a poet.",
			want:    "Intro\nYou are an expert in the field.\nYou are also a poet.",
		},
		{
			name:    "prepends when no tone line exists",
			ints:    []int{0},
			content: "Write a story",
			want:    "You are a helpful assistant.\n\nWrite a story",
		},
		{
			name:    "empty content yields only the tone",
			ints:    []int{4},
			content: "",
			want:    "You are a critical analyst.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newScriptedMutator(tt.ints, nil, 0, 0)
			assert.Equal(t, tt.want, m.Apply(OpChangeTone, tt.content))
		})
	}
}

func TestMutator_SubstituteWords(t *testing.T) {
	tests := []struct {
		name    string
		ints    []int
		content string
		want    string
	}{
		{
			name:    "case and punctuation insensitive, case losing",
			ints:    []int{0, 3},
			content: "This is a Good, simple idea.",
			want:    "This is a excellent clear idea.",
		},
		{
			name:    "keeps line structure",
			ints:    []int{1, 2},
			content: "good\n\nbad",
			want:    "outstanding\n\ninferior",
		},
		{
			name:    "lines without a match are untouched",
			ints:    []int{0},
			content: "keep  this   spacing\nexplain it",
			want:    "keep  this   spacing\ndescribe it",
		},
		{
			name:    "no match returns content verbatim",
			content: "  Write a story  ",
			want:    "  Write a story  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newScriptedMutator(tt.ints, nil, 0, 0)
			assert.Equal(t, tt.want, m.Apply(OpSubstituteWords, tt.content))
		})
	}
}

func TestMutator_RemoveElements(t *testing.T) {
	t.Run("single line is a no-op", func(t *testing.T) {
		m, _ := newScriptedMutator(nil, nil, 0, 0)
		assert.Equal(t, "Write a story", m.Apply(OpRemoveElements, "Write a story"))
		assert.Equal(t, "", m.Apply(OpRemoveElements, ""))
	})

	t.Run("removes the drawn line", func(t *testing.T) {
		m, _ := newScriptedMutator([]int{1}, nil, 0, 0)
		assert.Equal(t, "A\nB", m.Apply(OpRemoveElements, "A\nB\nC"))
	})

	t.Run("always n-1 lines and keeps the first", func(t *testing.T) {
		m, err := NewMutator(NewSeededSource(7), 0, 0)
		require.NoError(t, err)
		content := "first\nb\nc\nd\ne"
		for range 50 {
			got := strings.Split(m.Apply(OpRemoveElements, content), "\n")
			assert.Len(t, got, 4)
			assert.Equal(t, "first", got[0])
		}
	})
}

func TestMutator_ReorderElements(t *testing.T) {
	t.Run("short content is a no-op", func(t *testing.T) {
		m, src := newScriptedMutator(nil, nil, 0, 0)
		assert.Equal(t, "A", m.Apply(OpReorderElements, "A"))
		assert.Equal(t, "A\nB", m.Apply(OpReorderElements, "A\nB"))
		assert.Zero(t, src.shuffles)
	})

	t.Run("shuffles only interior lines", func(t *testing.T) {
		m, src := newScriptedMutator(nil, nil, 0, 0)
		assert.Equal(t, "A\nC\nB\nD", m.Apply(OpReorderElements, "A\nB\nC\nD"))
		assert.Equal(t, 1, src.shuffles)
	})

	t.Run("first and last never move", func(t *testing.T) {
		m, err := NewMutator(NewSeededSource(11), 0, 0)
		require.NoError(t, err)
		content := "head\n1\n2\n3\n4\ntail"
		for range 50 {
			got := strings.Split(m.Apply(OpReorderElements, content), "\n")
			require.Len(t, got, 6)
			assert.Equal(t, "head", got[0])
			assert.Equal(t, "tail", got[5])
			assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, got[1:5])
		}
	})
}

func TestMutator_ApplyUnknownOperator(t *testing.T) {
	m, _ := newScriptedMutator(nil, nil, 0, 0)
	assert.Equal(t, "x", m.Apply(Operator("nope"), "x"))
}

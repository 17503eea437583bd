package memory

import (
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("llm.provider", "ollama"))
	require.NoError(t, s.Set("evolution.population_size", int64(10)))
	require.NoError(t, s.Set("evolution.mutation_rate", 0.25))

	assert.Equal(t, "ollama", s.GetString("llm.provider"))
	assert.Equal(t, 10, s.GetInt("evolution.population_size"))
	assert.InDelta(t, 10.0, s.GetFloat("evolution.population_size"), 0)
	assert.InDelta(t, 0.25, s.GetFloat("evolution.mutation_rate"), 1e-9)

	assert.Empty(t, s.GetString("evolution.population_size"))
	assert.Zero(t, s.GetInt("llm.provider"))
	assert.Zero(t, s.GetFloat("missing"))

	_, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, ":memory:", s.Path())
	assert.NoError(t, s.Save())
	assert.NoError(t, s.Load())
}

func TestConfigStore_SnapshotIsACopy(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("a", 1))

	snap := s.Snapshot()
	snap["a"] = 2
	snap["b"] = 3

	assert.Equal(t, 1, s.GetInt("a"))
	_, ok := s.Get("b")
	assert.False(t, ok)
}

func TestConfigStore_Replace(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("old", "x"))

	values := map[string]any{"new": "y"}
	s.Replace(values)
	values["new"] = "z"

	_, ok := s.Get("old")
	assert.False(t, ok)
	assert.Equal(t, "y", s.GetString("new"))
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{0.5, 0.5, true},
		{float32(0.5), 0.5, true},
		{3, 3, true},
		{int64(4), 4, true},
		{math.NaN(), 0, false},
		{"1.5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}

func TestAsInt(t *testing.T) {
	n, ok := AsInt(7.9)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = AsInt(math.NaN())
	assert.False(t, ok)
	_, ok = AsInt(true)
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	s := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + strconv.Itoa(i)
			_ = s.Set(key, i)
			_ = s.GetInt(key)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Snapshot(), 20)
}

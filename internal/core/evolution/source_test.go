package evolution

// scriptedSource replays fixed draws so operator choices can be asserted
// exactly. Exhausted queues return zero. Shuffle reverses.
type scriptedSource struct {
	ints     []int
	floats   []float64
	shuffles int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Shuffle(n int, swap func(i, j int)) {
	s.shuffles++
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func newScriptedMutator(ints []int, floats []float64, mutationRate, crossoverRate float64) (*Mutator, *scriptedSource) {
	src := &scriptedSource{ints: ints, floats: floats}
	m, err := NewMutator(src, mutationRate, crossoverRate)
	if err != nil {
		panic(err)
	}
	return m, src
}

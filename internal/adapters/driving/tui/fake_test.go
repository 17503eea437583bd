package tui

import (
	"context"
	"errors"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// fakeBreeder implements driving.BreederService over a fixed report.
type fakeBreeder struct {
	report    *driving.GenerationReport
	rated     []driving.RateRequest
	evolved   int
	evaluated int
	err       error
}

func newFakeBreeder() *fakeBreeder {
	run := domain.Run{ID: "run-1", Name: "stories", Config: domain.DefaultEvolutionConfig()}
	return &fakeBreeder{
		report: &driving.GenerationReport{
			Run: run,
			Ranked: []domain.RankedGenome{
				{Genome: domain.Genome{ID: "g-1", Content: "Write a story"}, MeanFitness: 4, Ratings: 1},
				{Genome: domain.Genome{ID: "g-2", Content: "Write a poem", ParentID: "g-0"}, Rank: 1},
				{Genome: domain.Genome{ID: "g-3", Content: "Write a song"}, Rank: 2},
			},
			Stats: domain.GenerationStats{Size: 3, Rated: 1, Best: 4, Mean: 4, Worst: 4},
		},
	}
}

func (f *fakeBreeder) StartRun(context.Context, driving.StartRunRequest) (*domain.Run, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBreeder) GetRun(context.Context, string) (*domain.Run, error) {
	return &f.report.Run, f.err
}

func (f *fakeBreeder) ListRuns(context.Context) ([]domain.Run, error) {
	return []domain.Run{f.report.Run}, f.err
}

func (f *fakeBreeder) DeleteRun(context.Context, string) error {
	return f.err
}

func (f *fakeBreeder) Population(context.Context, string, int) ([]domain.Genome, error) {
	out := make([]domain.Genome, 0, len(f.report.Ranked))
	for _, r := range f.report.Ranked {
		out = append(out, r.Genome)
	}
	return out, f.err
}

func (f *fakeBreeder) Rankings(context.Context, string, int) (*driving.GenerationReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeBreeder) Rate(_ context.Context, req driving.RateRequest) (*domain.FitnessRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rated = append(f.rated, req)
	return &domain.FitnessRecord{GenomeID: req.GenomeID, Rating: req.Rating, RaterID: "human"}, nil
}

func (f *fakeBreeder) Evaluate(context.Context, string) ([]domain.FitnessRecord, error) {
	f.evaluated++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.FitnessRecord{{GenomeID: "g-1", Rating: 3}}, nil
}

func (f *fakeBreeder) Evolve(context.Context, string) (*driving.EvolveResult, error) {
	f.evolved++
	if f.err != nil {
		return nil, f.err
	}
	run := f.report.Run
	run.Generation++
	return &driving.EvolveResult{Run: run, Parent: f.report.Stats}, nil
}

func (f *fakeBreeder) Lineage(context.Context, string) ([]domain.LineageEntry, error) {
	return nil, f.err
}

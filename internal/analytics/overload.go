package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

// Suggestion is the progressive-overload verdict for one exercise. Ready is
// false when fewer than two samples exist in the window or when the latest
// session regressed on weight or reps.
type Suggestion struct {
	Exercise        string
	Ready           bool
	Previous        model.WorkoutSample
	Latest          model.WorkoutSample
	SuggestedWeight float64
	Samples         int
}

// ExerciseHistory returns the samples for exercise in the trailing overload
// window ending at asOf, oldest first.
func (e *Engine) ExerciseHistory(ctx context.Context, exercise string, asOf time.Time) ([]model.WorkoutSample, error) {
	window := model.WeeksBack(asOf, OverloadWindowWeeks)
	samples, err := e.store.ListSamples(ctx, storage.SampleFilter{
		ExerciseName: exercise,
		Start:        window.Start,
		End:          window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("list samples for %s: %w", exercise, err)
	}
	return samples, nil
}

func (e *Engine) ExerciseNames(ctx context.Context) ([]string, error) {
	names, err := e.store.ListExerciseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercise names: %w", err)
	}
	return names, nil
}

func (e *Engine) Suggest(ctx context.Context, exercise string, asOf time.Time) (Suggestion, error) {
	samples, err := e.ExerciseHistory(ctx, exercise, asOf)
	if err != nil {
		return Suggestion{}, err
	}
	return Evaluate(exercise, samples), nil
}

// Evaluate compares the two most recent of samples, which must be ordered
// oldest first. An increase is suggested only when neither weight nor reps
// went down.
func Evaluate(exercise string, samples []model.WorkoutSample) Suggestion {
	out := Suggestion{Exercise: exercise, Samples: len(samples)}
	if len(samples) < 2 {
		return out
	}
	out.Previous = samples[len(samples)-2]
	out.Latest = samples[len(samples)-1]
	if out.Latest.Weight >= out.Previous.Weight && out.Latest.Reps >= out.Previous.Reps {
		out.Ready = true
		out.SuggestedWeight = out.Latest.Weight * OverloadFactor
	}
	return out
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/cadence/internal/model"
)

func sample(date string, weight float64, reps int) model.WorkoutSample {
	return model.WorkoutSample{TaskID: "bench", Date: date, ExerciseName: "Bench", Weight: weight, Sets: 3, Reps: reps}
}

func TestEvaluateSuggestsIncrease(t *testing.T) {
	s := Evaluate("Bench", []model.WorkoutSample{sample("2026-02-02", 40, 8), sample("2026-02-09", 42, 9)})
	assert.True(t, s.Ready)
	assert.InDelta(t, 44.1, s.SuggestedWeight, 1e-9)
	assert.Equal(t, 42.0, s.Latest.Weight)
	assert.Equal(t, 40.0, s.Previous.Weight)
}

func TestEvaluateNoSuggestionWhenRepsDrop(t *testing.T) {
	s := Evaluate("Bench", []model.WorkoutSample{sample("2026-02-02", 40, 8), sample("2026-02-09", 40, 7)})
	assert.False(t, s.Ready)
	assert.Zero(t, s.SuggestedWeight)
}

func TestEvaluateNeedsTwoSamples(t *testing.T) {
	assert.False(t, Evaluate("Bench", nil).Ready)
	assert.False(t, Evaluate("Bench", []model.WorkoutSample{sample("2026-02-09", 40, 8)}).Ready)
}

func TestEvaluateEqualSessionsStillProgress(t *testing.T) {
	s := Evaluate("Bench", []model.WorkoutSample{sample("2026-02-02", 40, 8), sample("2026-02-09", 40, 8)})
	assert.True(t, s.Ready)
	assert.InDelta(t, 42.0, s.SuggestedWeight, 1e-9)
}

func TestSuggestUsesTrailingWindow(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Strength", 0)
	addTask(t, repo, "bench", "p", model.Monday, false)

	for _, s := range []model.WorkoutSample{
		sample("2025-11-03", 80, 10), // outside the 8-week window
		sample("2026-02-02", 40, 8),
		sample("2026-02-09", 42, 9),
	} {
		_, err := repo.InsertSample(t.Context(), s)
		require.NoError(t, err)
	}

	e := New(repo)
	history, err := e.ExerciseHistory(t.Context(), "Bench", asOf)
	require.NoError(t, err)
	require.Len(t, history, 2)

	s, err := e.Suggest(t.Context(), "Bench", asOf)
	require.NoError(t, err)
	assert.True(t, s.Ready)
	assert.InDelta(t, 44.1, s.SuggestedWeight, 1e-9)
	assert.Equal(t, 2, s.Samples)

	none, err := e.Suggest(t.Context(), "Squat", asOf)
	require.NoError(t, err)
	assert.False(t, none.Ready)

	names, err := e.ExerciseNames(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bench"}, names)
}

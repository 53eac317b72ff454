package planner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/ledger"
	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/reminders"
	"github.com/sandeepkv93/cadence/internal/scheduler"
	"github.com/sandeepkv93/cadence/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// A monday far enough ahead that the real-time engine never fires during a test.
var fixedNow = time.Date(2030, 2, 4, 7, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *storage.SQLiteRepository, *scheduler.Engine) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "planner-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate())

	engine := scheduler.NewEngine(8)
	engine.Start()
	t.Cleanup(engine.Stop)

	clock := func() time.Time { return fixedNow }
	m := metrics.NewTestManager()
	triggers := reminders.NewTriggerScheduler(repo, engine, m).WithClock(clock)
	svc := NewService(repo, triggers, ledger.New(repo, m).WithClock(clock), analytics.New(repo)).WithClock(clock)
	return svc, repo, engine
}

func TestTaskLifecycleArmsAndDisarms(t *testing.T) {
	svc, repo, engine := setup(t)
	ctx := t.Context()

	plan, err := svc.CreatePlan(ctx, "Strength", model.CategoryWorkout)
	require.NoError(t, err)

	task, err := svc.AddTask(ctx, plan.ID, TaskInput{
		Day: model.Wednesday, Name: "Bench", Sets: 3, Reps: 8, Intensity: "40kg", StartTime: "18:30", ReminderEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryWorkout, task.Category, "category defaults to the plan's")
	assert.Equal(t, 30, task.DurationMinutes)

	next, ok := svc.NextReminder(task.ID)
	require.True(t, ok)
	assert.Equal(t, time.Date(2030, 2, 6, 18, 20, 0, 0, time.UTC), next)

	task, err = svc.EditTask(ctx, task.ID, TaskInput{Day: model.Thursday, Name: "Bench", StartTime: "07:00", ReminderEnabled: true})
	require.NoError(t, err)
	next, _ = svc.NextReminder(task.ID)
	assert.Equal(t, time.Date(2030, 2, 7, 6, 50, 0, 0, time.UTC), next)
	assert.Equal(t, 1, engine.Len())

	_, err = svc.SetReminder(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, engine.Len())

	_, err = svc.SetReminder(ctx, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Len())

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	assert.Equal(t, 0, engine.Len(), "deleting a task disarms its trigger")
	_, err = repo.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeletePlanDisarmsAndCascades(t *testing.T) {
	svc, repo, engine := setup(t)
	ctx := t.Context()

	plan, err := svc.CreatePlan(ctx, "Strength", model.CategoryWorkout)
	require.NoError(t, err)
	var ids []string
	for _, day := range []model.Weekday{model.Monday, model.Wednesday, model.Friday} {
		task, err := svc.AddTask(ctx, plan.ID, TaskInput{Day: day, Name: "Lift " + string(day), Intensity: "50kg", ReminderEnabled: true})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err = svc.SetCompletion(ctx, ids[0], "", true)
	require.NoError(t, err)
	assert.Equal(t, 3, engine.Len())

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
	assert.Equal(t, 0, engine.Len())

	count, err := repo.CountCompletions(ctx, storage.CompletionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count.Total)
	samples, err := repo.ListSamples(ctx, storage.SampleFilter{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestCompletionAndAnalyticsSurface(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := t.Context()

	plan, err := svc.CreatePlan(ctx, "Daily", model.CategoryChores)
	require.NoError(t, err)
	var tasks []model.PlanTask
	for _, day := range model.Week {
		task, err := svc.AddTask(ctx, plan.ID, TaskInput{Day: day, Name: "Tidy " + day.Short()})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	for i := 0; i < 5; i++ {
		_, err := svc.SetCompletion(ctx, tasks[i].ID, model.DayOf(fixedNow.AddDate(0, 0, -i)), true)
		require.NoError(t, err)
	}

	progress, err := svc.PlanProgress(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, progress.Completed)
	assert.Equal(t, 7, progress.Total)

	streak, err := svc.GetStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)

	rate, err := svc.GetRate(ctx, model.SingleDay(fixedNow), "Daily")
	require.NoError(t, err)
	assert.Equal(t, 1, rate.Total)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	require.Len(t, today.Tasks, 1)
	assert.Equal(t, "Daily", today.Tasks[0].PlanName)
	assert.True(t, today.Tasks[0].Task.Completed)

	report, err := svc.WeeklyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rate.Total, "only monday falls inside this week")
}

func TestSuggestionThroughService(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := t.Context()

	plan, err := svc.CreatePlan(ctx, "Strength", model.CategoryWorkout)
	require.NoError(t, err)
	task, err := svc.AddTask(ctx, plan.ID, TaskInput{Day: model.Monday, Name: "Bench", Reps: 8, Intensity: "40kg"})
	require.NoError(t, err)
	_, err = svc.SetCompletion(ctx, task.ID, "2030-01-28", true)
	require.NoError(t, err)

	task.Reps = 9
	task.Intensity = "42kg"
	require.NoError(t, repo.UpdateTask(ctx, task))
	_, err = svc.SetCompletion(ctx, task.ID, "2030-02-04", true)
	require.NoError(t, err)

	s, err := svc.GetSuggestion(ctx, "Bench")
	require.NoError(t, err)
	assert.True(t, s.Ready)
	assert.InDelta(t, 44.1, s.SuggestedWeight, 1e-9)

	names, err := svc.ExerciseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bench"}, names)
}

func TestValidationErrors(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := t.Context()

	_, err := svc.CreatePlan(ctx, "  ", model.CategoryCustom)
	assert.ErrorIs(t, err, ErrPlanNameRequired)

	plan, err := svc.CreatePlan(ctx, "Study", "")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCustom, plan.Category)

	_, err = svc.AddTask(ctx, plan.ID, TaskInput{Day: "Someday", Name: "Read"})
	assert.ErrorIs(t, err, model.ErrInvalidWeekday)
	_, err = svc.AddTask(ctx, plan.ID, TaskInput{Day: model.Monday, Name: "Read", StartTime: "7pm"})
	assert.ErrorIs(t, err, model.ErrInvalidClock)
	_, err = svc.AddTask(ctx, "missing", TaskInput{Day: model.Monday, Name: "Read"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScheduleAllAfterRestart(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := t.Context()
	plan, err := svc.CreatePlan(ctx, "Strength", model.CategoryWorkout)
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, plan.ID, TaskInput{Day: model.Monday, Name: "A", ReminderEnabled: true})
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, plan.ID, TaskInput{Day: model.Tuesday, Name: "B"})
	require.NoError(t, err)

	fresh := scheduler.NewEngine(4)
	fresh.Start()
	defer fresh.Stop()
	restarted := NewService(repo, reminders.NewTriggerScheduler(repo, fresh, nil), ledger.New(repo, nil), analytics.New(repo))

	armed, err := restarted.ScheduleAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, armed)
	assert.Equal(t, 1, fresh.Len())
}

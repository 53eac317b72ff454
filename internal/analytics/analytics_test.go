package analytics

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

// wednesday 2026-02-11
var asOf = time.Date(2026, 2, 11, 20, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "analytics-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate())
	return repo
}

func addPlan(t *testing.T, repo *storage.SQLiteRepository, id, name string, offset time.Duration) {
	t.Helper()
	at := asOf.Add(offset)
	require.NoError(t, repo.CreatePlan(t.Context(), model.Plan{ID: id, Name: name, Category: model.CategoryCustom, CreatedAt: at, UpdatedAt: at}))
}

func addTask(t *testing.T, repo *storage.SQLiteRepository, id, planID string, day model.Weekday, completed bool) {
	t.Helper()
	task := model.NewPlanTask(planID, day, "Task "+id, model.CategoryCustom)
	task.ID = id
	if completed {
		task.Completed = true
		task.CompletedAt = asOf
	}
	require.NoError(t, repo.CreateTask(t.Context(), task))
}

func addRecord(t *testing.T, repo *storage.SQLiteRepository, taskID, date, planName string) {
	t.Helper()
	_, err := repo.InsertCompletion(t.Context(), model.CompletionRecord{
		TaskID: taskID, Date: date, Completed: true, CompletedAt: asOf, PlanName: planName, TaskName: taskID,
	})
	require.NoError(t, err)
}

func TestStreakStopsAtFirstGap(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Plan", 0)
	addTask(t, repo, "a", "p", model.Monday, false)
	addTask(t, repo, "b", "p", model.Tuesday, false)

	addRecord(t, repo, "a", "2026-02-11", "Plan")
	addRecord(t, repo, "b", "2026-02-11", "Plan")
	addRecord(t, repo, "a", "2026-02-10", "Plan")
	addRecord(t, repo, "a", "2026-02-09", "Plan")
	addRecord(t, repo, "a", "2026-02-07", "Plan")

	e := New(repo)
	streak, err := e.Streak(t.Context(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	streak, err = e.Streak(t.Context(), asOf.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, streak, "a day without completions breaks the streak")
}

func TestStreakIsCapped(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Plan", 0)
	addTask(t, repo, "a", "p", model.Monday, false)
	day := model.StartOfDay(asOf)
	for i := 0; i < MaxStreakDays+10; i++ {
		addRecord(t, repo, "a", model.DayOf(day.AddDate(0, 0, -i)), "Plan")
	}

	streak, err := New(repo).Streak(t.Context(), asOf)
	require.NoError(t, err)
	assert.Equal(t, MaxStreakDays, streak)
}

func TestRateOverRange(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Strength", 0)
	addPlan(t, repo, "q", "Chores", time.Minute)
	for i := 0; i < 4; i++ {
		addTask(t, repo, fmt.Sprintf("t%d", i), "p", model.Monday, false)
	}
	addTask(t, repo, "c", "q", model.Monday, false)

	addRecord(t, repo, "t0", "2026-02-09", "Strength")
	addRecord(t, repo, "t1", "2026-02-10", "Strength")
	addRecord(t, repo, "t2", "2026-02-11", "Strength")
	addRecord(t, repo, "c", "2026-02-11", "Chores")
	// A cleared row inserted directly, as an older writer would have left it.
	_, err := repo.InsertCompletion(t.Context(), model.CompletionRecord{TaskID: "t3", Date: "2026-02-11", Completed: false, CompletedAt: asOf, PlanName: "Strength"})
	require.NoError(t, err)

	e := New(repo)
	week := model.WeekOf(asOf)

	plan, err := e.Rate(t.Context(), week, "Strength")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Completed)
	assert.Equal(t, 4, plan.Total)
	assert.InDelta(t, 75.0, plan.Percent, 1e-9)

	all, err := e.Rate(t.Context(), week, "")
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)

	empty, err := e.Rate(t.Context(), model.WeekOf(asOf.AddDate(0, 0, 14)), "")
	require.NoError(t, err)
	assert.Equal(t, Rate{}, empty)
}

func TestPlanProgressFromFlags(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Strength", 0)
	for i, wd := range model.Week {
		addTask(t, repo, fmt.Sprintf("t%d", i), "p", wd, i < 5)
	}

	rate, err := New(repo).PlanProgress(t.Context(), "p")
	require.NoError(t, err)
	assert.Equal(t, 5, rate.Completed)
	assert.Equal(t, 7, rate.Total)
	assert.InDelta(t, 71.43, rate.Percent, 0.01)

	none, err := New(repo).PlanProgress(t.Context(), "missing")
	require.NoError(t, err)
	assert.Zero(t, none.Percent)
}

func TestMissedCountUsesEarlierWeekdays(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Plan", 0)
	addTask(t, repo, "mon-open", "p", model.Monday, false)
	addTask(t, repo, "mon-done", "p", model.Monday, true)
	addTask(t, repo, "tue-open", "p", model.Tuesday, false)
	addTask(t, repo, "wed-open", "p", model.Wednesday, false)
	addTask(t, repo, "sun-open", "p", model.Sunday, false)

	missed, err := New(repo).MissedCount(t.Context(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, missed, "monday and tuesday pending tasks, today not yet missed")
}

func TestTodaySummary(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Strength", 0)
	addPlan(t, repo, "q", "Chores", time.Minute)
	addTask(t, repo, "a", "p", model.Wednesday, true)
	addTask(t, repo, "b", "q", model.Wednesday, false)
	addTask(t, repo, "c", "q", model.Thursday, false)

	today, err := New(repo).TodaySummary(t.Context(), asOf)
	require.NoError(t, err)
	assert.Equal(t, model.Wednesday, today.Day)
	assert.Equal(t, 2, today.Total)
	assert.Equal(t, 1, today.Completed)
	assert.Equal(t, 1, today.Remaining)
	assert.InDelta(t, 50.0, today.Percent, 1e-9)
	names := []string{today.Tasks[0].PlanName, today.Tasks[1].PlanName}
	assert.ElementsMatch(t, []string{"Strength", "Chores"}, names)
}

func TestWeeklyReport(t *testing.T) {
	repo := setupStore(t)
	addPlan(t, repo, "p", "Strength", 0)
	addPlan(t, repo, "q", "Chores", time.Minute)
	addTask(t, repo, "a", "p", model.Monday, false)
	addTask(t, repo, "b", "q", model.Tuesday, false)
	addRecord(t, repo, "a", "2026-02-09", "Strength")
	addRecord(t, repo, "b", "2026-02-10", "Chores")
	addRecord(t, repo, "a", "2026-02-11", "Strength")
	addRecord(t, repo, "a", "2026-02-02", "Strength")

	report, err := New(repo).WeeklyReport(t.Context(), asOf)
	require.NoError(t, err)
	assert.Equal(t, model.DateRange{Start: "2026-02-09", End: "2026-02-15"}, report.Week)
	assert.Equal(t, 3, report.Rate.Total)
	assert.Equal(t, 4, report.TotalCompleted)
	assert.Equal(t, 3, report.Streak)
	assert.Equal(t, 2, report.Missed)

	require.Len(t, report.Days, 7)
	assert.Equal(t, model.Monday, report.Days[0].Day)
	assert.Equal(t, "2026-02-09", report.Days[0].Date)
	assert.Equal(t, 1, report.Days[0].Completed)
	assert.Equal(t, 0, report.Days[3].Total)
	assert.Equal(t, "2026-02-15", report.Days[6].Date)

	require.Len(t, report.Plans, 2)
	assert.Equal(t, "Strength", report.Plans[0].Plan.Name)
	assert.Equal(t, 2, report.Plans[0].Rate.Completed)
	assert.Equal(t, 1, report.Plans[1].Rate.Completed)
}

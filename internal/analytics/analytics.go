// Package analytics computes read-only aggregates over the completion ledger
// and workout history. Nothing here writes to the store.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

const (
	// MaxStreakDays bounds the backward walk of Streak.
	MaxStreakDays = 365
	// OverloadWindowWeeks is the trailing window of samples considered for a
	// progressive-overload suggestion.
	OverloadWindowWeeks = 8
	// OverloadFactor scales the latest weight when a suggestion is made.
	OverloadFactor = 1.05
)

// Reader is the slice of the task store the engine queries.
type Reader interface {
	ListPlans(ctx context.Context, filter storage.PlanListFilter) ([]model.Plan, error)
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]model.PlanTask, error)
	CountCompletions(ctx context.Context, filter storage.CompletionFilter) (storage.CompletionCount, error)
	CompletedDates(ctx context.Context, start, end string) ([]string, error)
	ListSamples(ctx context.Context, filter storage.SampleFilter) ([]model.WorkoutSample, error)
	ListExerciseNames(ctx context.Context) ([]string, error)
}

type Engine struct {
	store Reader
}

func New(store Reader) *Engine {
	return &Engine{store: store}
}

// Rate is a completed/total ratio. Percent is 0 when Total is 0.
type Rate struct {
	Completed int
	Total     int
	Percent   float64
}

func newRate(completed, total int) Rate {
	r := Rate{Completed: completed, Total: total}
	if total > 0 {
		r.Percent = float64(completed) * 100 / float64(total)
	}
	return r
}

// Streak counts consecutive days ending at asOf that have at least one
// completed ledger row.
func (e *Engine) Streak(ctx context.Context, asOf time.Time) (int, error) {
	end := model.StartOfDay(asOf)
	start := end.AddDate(0, 0, -(MaxStreakDays - 1))
	dates, err := e.store.CompletedDates(ctx, model.DayOf(start), model.DayOf(end))
	if err != nil {
		return 0, fmt.Errorf("completed dates: %w", err)
	}
	covered := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		covered[d] = struct{}{}
	}

	streak := 0
	for day := end; streak < MaxStreakDays; day = day.AddDate(0, 0, -1) {
		if _, ok := covered[model.DayOf(day)]; !ok {
			break
		}
		streak++
	}
	return streak, nil
}

// Rate aggregates ledger rows in r. A non-empty planName restricts the rows to
// those snapshotted under that plan name.
func (e *Engine) Rate(ctx context.Context, r model.DateRange, planName string) (Rate, error) {
	filter := storage.RangeFilter(r)
	filter.PlanName = planName
	count, err := e.store.CountCompletions(ctx, filter)
	if err != nil {
		return Rate{}, fmt.Errorf("count completions: %w", err)
	}
	return newRate(count.Completed, count.Total), nil
}

func (e *Engine) TotalCompleted(ctx context.Context) (int, error) {
	count, err := e.store.CountCompletions(ctx, storage.CompletionFilter{})
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count.Completed, nil
}

// MissedCount approximates missed tasks from the current-cycle flags: a task
// is missed when it is not completed and its weekday is earlier in the week
// than today. Past weeks are not inspected.
func (e *Engine) MissedCount(ctx context.Context, today time.Time) (int, error) {
	tasks, err := e.store.ListTasks(ctx, storage.TaskListFilter{Completed: storage.Bool(false)})
	if err != nil {
		return 0, fmt.Errorf("list pending tasks: %w", err)
	}
	todayIdx := model.WeekdayOf(today).Index()
	missed := 0
	for _, task := range tasks {
		if idx := task.Day.Index(); idx >= 0 && idx < todayIdx {
			missed++
		}
	}
	return missed, nil
}

// DayStat is one column of the weekly breakdown.
type DayStat struct {
	Day       model.Weekday
	Date      string
	Completed int
	Total     int
}

// DailyBreakdown returns seven entries, Monday first, for the week starting
// at week.Start.
func (e *Engine) DailyBreakdown(ctx context.Context, week model.DateRange) ([]DayStat, error) {
	monday, err := model.ParseDay(week.Start, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse week start: %w", err)
	}
	out := make([]DayStat, 0, len(model.Week))
	for i, wd := range model.Week {
		day := model.DayOf(monday.AddDate(0, 0, i))
		count, err := e.store.CountCompletions(ctx, storage.CompletionFilter{Start: day, End: day})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", day, err)
		}
		out = append(out, DayStat{Day: wd, Date: day, Completed: count.Completed, Total: count.Total})
	}
	return out, nil
}

type PlanRate struct {
	Plan model.Plan
	Rate Rate
}

// PlanRates reports the ledger rate in r for every plan, keyed by the plan's
// current name.
func (e *Engine) PlanRates(ctx context.Context, r model.DateRange) ([]PlanRate, error) {
	plans, err := e.store.ListPlans(ctx, storage.PlanListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]PlanRate, 0, len(plans))
	for _, p := range plans {
		rate, err := e.Rate(ctx, r, p.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, PlanRate{Plan: p, Rate: rate})
	}
	return out, nil
}

// PlanProgress is the share of a plan's tasks whose current-cycle flag is set.
func (e *Engine) PlanProgress(ctx context.Context, planID string) (Rate, error) {
	tasks, err := e.store.ListTasks(ctx, storage.TaskListFilter{PlanID: planID})
	if err != nil {
		return Rate{}, fmt.Errorf("list plan tasks: %w", err)
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return newRate(done, len(tasks)), nil
}

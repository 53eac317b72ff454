package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

const unknownPlan = "Unknown Plan"

type TodayTask struct {
	Task     model.PlanTask
	PlanName string
}

type Today struct {
	Day       model.Weekday
	Tasks     []TodayTask
	Total     int
	Completed int
	Remaining int
	Percent   float64
}

// TodaySummary lists the tasks scheduled on today's weekday across all plans,
// counted from the current-cycle flags.
func (e *Engine) TodaySummary(ctx context.Context, today time.Time) (Today, error) {
	day := model.WeekdayOf(today)
	tasks, err := e.store.ListTasks(ctx, storage.TaskListFilter{Day: day})
	if err != nil {
		return Today{}, fmt.Errorf("list today tasks: %w", err)
	}

	names := make(map[string]string)
	out := Today{Day: day, Tasks: make([]TodayTask, 0, len(tasks))}
	for _, t := range tasks {
		name, ok := names[t.PlanID]
		if !ok {
			name = unknownPlan
			if plan, err := e.store.GetPlan(ctx, t.PlanID); err == nil {
				name = plan.Name
			}
			names[t.PlanID] = name
		}
		out.Tasks = append(out.Tasks, TodayTask{Task: t, PlanName: name})
		if t.Completed {
			out.Completed++
		}
	}
	out.Total = len(tasks)
	out.Remaining = out.Total - out.Completed
	out.Percent = newRate(out.Completed, out.Total).Percent
	return out, nil
}

// Report is the weekly statistics page.
type Report struct {
	Week           model.DateRange
	Rate           Rate
	Days           []DayStat
	Plans          []PlanRate
	TotalCompleted int
	Missed         int
	Streak         int
}

func (e *Engine) WeeklyReport(ctx context.Context, asOf time.Time) (Report, error) {
	week := model.WeekOf(asOf)
	out := Report{Week: week}
	var err error
	if out.Rate, err = e.Rate(ctx, week, ""); err != nil {
		return Report{}, err
	}
	if out.Days, err = e.DailyBreakdown(ctx, week); err != nil {
		return Report{}, err
	}
	if out.Plans, err = e.PlanRates(ctx, week); err != nil {
		return Report{}, err
	}
	if out.TotalCompleted, err = e.TotalCompleted(ctx); err != nil {
		return Report{}, err
	}
	if out.Missed, err = e.MissedCount(ctx, asOf); err != nil {
		return Report{}, err
	}
	if out.Streak, err = e.Streak(ctx, asOf); err != nil {
		return Report{}, err
	}
	return out, nil
}

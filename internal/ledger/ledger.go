// Package ledger owns completion state: the current-cycle flag on a task and
// the per-day history rows derived from it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

var ErrInvalidDate = errors.New("ledger: invalid date")

// UnknownPlan is snapshotted when a task's plan cannot be read.
const UnknownPlan = "Unknown Plan"

type Result struct {
	Task   model.PlanTask
	Record *model.CompletionRecord
	Sample *model.WorkoutSample
}

type Ledger struct {
	store   storage.Repository
	metrics *metrics.Manager
	now     func() time.Time
}

func New(store storage.Repository, m *metrics.Manager) *Ledger {
	return &Ledger{store: store, metrics: m, now: time.Now}
}

func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// SetCompletion moves taskID to completed or pending for date (ISO day, empty
// for today). The day's history row is deleted and, when completing,
// re-inserted, so repeating a call leaves exactly one row. Clearing leaves no
// row. Completing a workout task also appends a WorkoutSample every time.
func (l *Ledger) SetCompletion(ctx context.Context, taskID, date string, completed bool) (Result, error) {
	now := l.now()
	day, err := l.normalizeDate(date, now)
	if err != nil {
		return Result{}, err
	}

	var out Result
	err = l.store.InTx(ctx, func(tx storage.Repository) error {
		task, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("load task %s: %w", taskID, err)
		}
		if err := tx.UpdateTaskCompletion(ctx, taskID, completed, now); err != nil {
			return fmt.Errorf("update task %s: %w", taskID, err)
		}
		task.Completed = completed
		task.CompletedAt = time.Time{}
		if completed {
			task.CompletedAt = now
		}
		out.Task = task

		if err := tx.DeleteCompletion(ctx, taskID, day); err != nil {
			return fmt.Errorf("delete completion %s/%s: %w", taskID, day, err)
		}
		if !completed {
			return nil
		}

		rec := model.CompletionRecord{
			TaskID:      taskID,
			Date:        day,
			Completed:   true,
			CompletedAt: now,
			PlanName:    planName(ctx, tx, task.PlanID),
			TaskName:    task.Name,
			Category:    task.Category,
		}
		if rec.ID, err = tx.InsertCompletion(ctx, rec); err != nil {
			return fmt.Errorf("insert completion %s/%s: %w", taskID, day, err)
		}
		out.Record = &rec

		if !task.IsWorkout() {
			return nil
		}
		sample := sampleFor(task, day)
		if sample.ID, err = tx.InsertSample(ctx, sample); err != nil {
			return fmt.Errorf("insert workout sample %s: %w", taskID, err)
		}
		out.Sample = &sample
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	l.observe(out)
	logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"date":      day,
		"completed": completed,
	}).Debug("completion recorded")
	return out, nil
}

// ResetCycle clears the current-cycle flags for planID, or for every plan when
// planID is empty. History is kept.
func (l *Ledger) ResetCycle(ctx context.Context, planID string) (int64, error) {
	n, err := l.store.ResetCompletions(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("reset completions: %w", err)
	}
	logrus.WithFields(logrus.Fields{"plan_id": planID, "tasks": n}).Info("cycle reset")
	return n, nil
}

func (l *Ledger) normalizeDate(date string, now time.Time) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return model.DayOf(now), nil
	}
	parsed, err := model.ParseDay(date, now.Location())
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return model.DayOf(parsed), nil
}

func (l *Ledger) observe(out Result) {
	if l.metrics == nil {
		return
	}
	state := metrics.StateCleared
	if out.Task.Completed {
		state = metrics.StateCompleted
	}
	l.metrics.CounterCompletions.WithLabelValues(state).Inc()
	if out.Sample != nil {
		l.metrics.CounterWorkoutSamples.Inc()
	}
}

func planName(ctx context.Context, tx storage.Repository, planID string) string {
	plan, err := tx.GetPlan(ctx, planID)
	if err != nil {
		logrus.WithError(err).WithField("plan_id", planID).Warn("plan lookup failed, using placeholder name")
		return UnknownPlan
	}
	return plan.Name
}

func sampleFor(task model.PlanTask, day string) model.WorkoutSample {
	weight, ok := model.ParseWeight(task.Intensity)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"task_id":   task.ID,
			"intensity": task.Intensity,
		}).Debug("no numeric weight in intensity, recording 0")
	}
	return model.WorkoutSample{
		TaskID:       task.ID,
		Date:         day,
		ExerciseName: task.Name,
		Weight:       weight,
		Sets:         task.Sets,
		Reps:         task.Reps,
		Notes:        task.Notes,
	}
}

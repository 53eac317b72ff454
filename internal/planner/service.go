// Package planner is the surface the CLI and TUI drive: plan and task editing,
// completion toggles, analytics queries, and reminder scheduling. Edits that
// affect a task's reminder arm or disarm its trigger in the same call.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/ledger"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/reminders"
	"github.com/sandeepkv93/cadence/internal/storage"
)

var ErrPlanNameRequired = errors.New("planner: plan name is required")

type Service struct {
	store     storage.Repository
	triggers  *reminders.TriggerScheduler
	ledger    *ledger.Ledger
	analytics *analytics.Engine
	now       func() time.Time
	newID     func() string
}

// NewService wires the planner. triggers may be nil, in which case reminder
// flags are stored but never armed.
func NewService(store storage.Repository, triggers *reminders.TriggerScheduler, l *ledger.Ledger, a *analytics.Engine) *Service {
	return &Service{
		store:     store,
		triggers:  triggers,
		ledger:    l,
		analytics: a,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreatePlan(ctx context.Context, name string, category model.Category) (model.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Plan{}, ErrPlanNameRequired
	}
	if category == "" {
		category = model.CategoryCustom
	}
	now := s.now()
	plan := model.Plan{ID: s.newID(), Name: name, Category: category, CreatedAt: now, UpdatedAt: now}
	if err := plan.Validate(); err != nil {
		return model.Plan{}, err
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return model.Plan{}, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *Service) RenamePlan(ctx context.Context, id, name string) (model.Plan, error) {
	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return model.Plan{}, err
	}
	if strings.TrimSpace(name) == "" {
		return model.Plan{}, ErrPlanNameRequired
	}
	plan.Name = strings.TrimSpace(name)
	plan.UpdatedAt = s.now()
	if err := plan.Validate(); err != nil {
		return model.Plan{}, err
	}
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return model.Plan{}, fmt.Errorf("update plan: %w", err)
	}
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	return s.store.GetPlan(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context) ([]model.Plan, error) {
	return s.store.ListPlans(ctx, storage.PlanListFilter{})
}

// DeletePlan disarms every task trigger of the plan, then deletes it. Tasks
// and their history go with it.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	tasks, err := s.store.ListTasks(ctx, storage.TaskListFilter{PlanID: id})
	if err != nil {
		return fmt.Errorf("list plan tasks: %w", err)
	}
	for _, t := range tasks {
		s.Cancel(t.ID)
	}
	if err := s.store.DeletePlan(ctx, id); err != nil {
		s.rearm(ctx, tasks)
		return err
	}
	logrus.WithFields(logrus.Fields{"plan_id": id, "tasks": len(tasks)}).Info("plan deleted")
	return nil
}

// TaskInput carries the editable fields of a task. Zero StartTime and
// DurationMinutes take the planner defaults.
type TaskInput struct {
	Day             model.Weekday
	Name            string
	Category        model.Category
	Sets            int
	Reps            int
	Intensity       string
	StartTime       string
	DurationMinutes int
	Notes           string
	ReminderEnabled bool
	OrderIndex      int
}

func (in TaskInput) apply(task *model.PlanTask) {
	task.Day = in.Day
	task.Name = strings.TrimSpace(in.Name)
	task.Category = in.Category
	task.Sets = in.Sets
	task.Reps = in.Reps
	task.Intensity = strings.TrimSpace(in.Intensity)
	if in.StartTime != "" {
		task.StartTime = strings.TrimSpace(in.StartTime)
	}
	if in.DurationMinutes != 0 {
		task.DurationMinutes = in.DurationMinutes
	}
	task.Notes = in.Notes
	task.ReminderEnabled = in.ReminderEnabled
	task.OrderIndex = in.OrderIndex
}

func (s *Service) AddTask(ctx context.Context, planID string, in TaskInput) (model.PlanTask, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return model.PlanTask{}, fmt.Errorf("load plan %s: %w", planID, err)
	}
	if in.Category == "" {
		in.Category = plan.Category
	}
	task := model.NewPlanTask(planID, in.Day, in.Name, in.Category)
	task.ID = s.newID()
	in.apply(&task)
	if err := task.Validate(); err != nil {
		return model.PlanTask{}, err
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return model.PlanTask{}, fmt.Errorf("create task: %w", err)
	}
	s.syncReminder(task)
	return task, nil
}

// EditTask replaces the editable fields of id. Completion state is kept.
func (s *Service) EditTask(ctx context.Context, id string, in TaskInput) (model.PlanTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.PlanTask{}, err
	}
	if in.Category == "" {
		in.Category = task.Category
	}
	in.apply(&task)
	if err := task.Validate(); err != nil {
		return model.PlanTask{}, err
	}
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return model.PlanTask{}, fmt.Errorf("update task: %w", err)
	}
	s.syncReminder(task)
	return task, nil
}

// DeleteTask disarms the task's trigger before removing it, so no trigger
// outlives its task. A failed delete re-arms.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	s.Cancel(id)
	if err := s.store.DeleteTask(ctx, id); err != nil {
		s.rearm(ctx, []model.PlanTask{task})
		return err
	}
	return nil
}

func (s *Service) GetTask(ctx context.Context, id string) (model.PlanTask, error) {
	return s.store.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, planID string, day model.Weekday) ([]model.PlanTask, error) {
	return s.store.ListTasks(ctx, storage.TaskListFilter{PlanID: planID, Day: day})
}

func (s *Service) SetReminder(ctx context.Context, id string, enabled bool) (model.PlanTask, error) {
	if err := s.store.UpdateTaskReminder(ctx, id, enabled); err != nil {
		return model.PlanTask{}, err
	}
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.PlanTask{}, err
	}
	s.syncReminder(task)
	return task, nil
}

func (s *Service) SetCompletion(ctx context.Context, taskID, date string, completed bool) (ledger.Result, error) {
	return s.ledger.SetCompletion(ctx, taskID, date, completed)
}

func (s *Service) ResetCycle(ctx context.Context, planID string) (int64, error) {
	return s.ledger.ResetCycle(ctx, planID)
}

func (s *Service) GetStreak(ctx context.Context) (int, error) {
	return s.analytics.Streak(ctx, s.now())
}

// GetRate reports the ledger rate in r, for one plan name or all when
// planName is empty.
func (s *Service) GetRate(ctx context.Context, r model.DateRange, planName string) (analytics.Rate, error) {
	return s.analytics.Rate(ctx, r, planName)
}

func (s *Service) GetSuggestion(ctx context.Context, exercise string) (analytics.Suggestion, error) {
	return s.analytics.Suggest(ctx, exercise, s.now())
}

func (s *Service) ExerciseNames(ctx context.Context) ([]string, error) {
	return s.analytics.ExerciseNames(ctx)
}

func (s *Service) ExerciseHistory(ctx context.Context, exercise string) ([]model.WorkoutSample, error) {
	return s.analytics.ExerciseHistory(ctx, exercise, s.now())
}

func (s *Service) Today(ctx context.Context) (analytics.Today, error) {
	return s.analytics.TodaySummary(ctx, s.now())
}

func (s *Service) WeeklyReport(ctx context.Context) (analytics.Report, error) {
	return s.analytics.WeeklyReport(ctx, s.now())
}

func (s *Service) PlanProgress(ctx context.Context, planID string) (analytics.Rate, error) {
	return s.analytics.PlanProgress(ctx, planID)
}

func (s *Service) ScheduleAll(ctx context.Context) (int, error) {
	if s.triggers == nil {
		return 0, reminders.ErrNoTimer
	}
	return s.triggers.ScheduleAll(ctx)
}

func (s *Service) Cancel(taskID string) bool {
	if s.triggers == nil {
		return false
	}
	return s.triggers.Cancel(taskID)
}

// NextReminder reports the armed instant for taskID, if any.
func (s *Service) NextReminder(taskID string) (time.Time, bool) {
	if s.triggers == nil {
		return time.Time{}, false
	}
	return s.triggers.Next(taskID)
}

func (s *Service) syncReminder(task model.PlanTask) {
	if s.triggers == nil {
		return
	}
	if !task.ReminderEnabled {
		s.triggers.Cancel(task.ID)
		return
	}
	if _, err := s.triggers.Schedule(task); err != nil {
		logrus.WithError(err).WithField("task_id", task.ID).Warn("reminder not armed")
	}
}

func (s *Service) rearm(ctx context.Context, tasks []model.PlanTask) {
	for _, t := range tasks {
		current, err := s.store.GetTask(ctx, t.ID)
		if err != nil {
			continue
		}
		s.syncReminder(current)
	}
}

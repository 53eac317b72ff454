package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreatePlan(ctx context.Context, in model.Plan) error
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	UpdatePlan(ctx context.Context, in model.Plan) error
	DeletePlan(ctx context.Context, id string) error
	ListPlans(ctx context.Context, filter PlanListFilter) ([]model.Plan, error)

	CreateTask(ctx context.Context, in model.PlanTask) error
	GetTask(ctx context.Context, id string) (model.PlanTask, error)
	UpdateTask(ctx context.Context, in model.PlanTask) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.PlanTask, error)
	UpdateTaskCompletion(ctx context.Context, id string, completed bool, at time.Time) error
	UpdateTaskReminder(ctx context.Context, id string, enabled bool) error
	ResetCompletions(ctx context.Context, planID string) (int64, error)

	InsertCompletion(ctx context.Context, in model.CompletionRecord) (int64, error)
	DeleteCompletion(ctx context.Context, taskID, date string) error
	ListCompletions(ctx context.Context, filter CompletionFilter) ([]model.CompletionRecord, error)
	CountCompletions(ctx context.Context, filter CompletionFilter) (CompletionCount, error)
	CompletedDates(ctx context.Context, start, end string) ([]string, error)

	InsertSample(ctx context.Context, in model.WorkoutSample) (int64, error)
	ListSamples(ctx context.Context, filter SampleFilter) ([]model.WorkoutSample, error)
	ListExerciseNames(ctx context.Context) ([]string, error)

	// InTx runs fn against a repository bound to one transaction. fn's error
	// rolls the transaction back.
	InTx(ctx context.Context, fn func(Repository) error) error
}

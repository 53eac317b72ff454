package storage

import "github.com/sandeepkv93/cadence/internal/model"

type PlanListFilter struct {
	Category model.Category
	Limit    int
	Offset   int
}

// TaskListFilter narrows ListTasks. Zero values match everything; the
// pointer fields distinguish "false" from "any".
type TaskListFilter struct {
	PlanID          string
	Day             model.Weekday
	ReminderEnabled *bool
	Completed       *bool
	Limit           int
	Offset          int
}

// CompletionFilter selects ledger rows. Start and End are inclusive ISO days;
// an empty bound is open.
type CompletionFilter struct {
	TaskID   string
	PlanName string
	Start    string
	End      string
	Limit    int
	Offset   int
}

type SampleFilter struct {
	TaskID       string
	ExerciseName string
	Start        string
	End          string
	Limit        int
	Offset       int
}

// CompletionCount is the aggregate behind the rate queries.
type CompletionCount struct {
	Total     int
	Completed int
}

func RangeFilter(r model.DateRange) CompletionFilter {
	return CompletionFilter{Start: r.Start, End: r.End}
}

func Bool(v bool) *bool {
	return &v
}

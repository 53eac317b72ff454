package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid category")
	ErrInvalidWeekday  = errors.New("model: invalid weekday")
	ErrInvalidClock    = errors.New("model: invalid clock time")
	ErrInvalidDuration = errors.New("model: invalid duration")
)

type Category string

const (
	CategoryWorkout Category = "workout"
	CategoryChores  Category = "chores"
	CategoryStudy   Category = "study"
	CategoryCustom  Category = "custom"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWorkout, CategoryChores, CategoryStudy, CategoryCustom:
		return true
	default:
		return false
	}
}

// ParseCategory accepts the stored lower-case form as well as the display
// names used by the planner screens ("Workout", "Chore", ...).
func ParseCategory(raw string) (Category, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "chore":
		s = string(CategoryChores)
	case "":
		s = string(CategoryCustom)
	}
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

type PlanTask struct {
	ID              string
	PlanID          string
	Day             Weekday
	Name            string
	Category        Category
	Sets            int
	Reps            int
	Intensity       string
	StartTime       string
	DurationMinutes int
	Notes           string
	Completed       bool
	ReminderEnabled bool
	CompletedAt     time.Time
	OrderIndex      int
}

// NewPlanTask returns a task populated with the planner defaults: 08:00 start,
// 30 minutes, reminder off.
func NewPlanTask(planID string, day Weekday, name string, category Category) PlanTask {
	return PlanTask{
		PlanID:          planID,
		Day:             day,
		Name:            name,
		Category:        category,
		StartTime:       DefaultStartTime,
		DurationMinutes: 30,
	}
}

func (t PlanTask) IsWorkout() bool {
	return t.Category == CategoryWorkout
}

func (t PlanTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.PlanID) == "" {
		return errors.New("model: task plan_id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if !t.Day.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, t.Day)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if _, err := ParseClock(t.StartTime); err != nil {
		return err
	}
	if t.DurationMinutes < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, t.DurationMinutes)
	}
	if t.Sets < 0 || t.Reps < 0 {
		return errors.New("model: sets and reps must not be negative")
	}
	if t.Completed && t.CompletedAt.IsZero() {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && !t.CompletedAt.IsZero() {
		return errors.New("model: completed_at must be zero when task is not completed")
	}
	return nil
}

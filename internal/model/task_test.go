package model

import (
	"errors"
	"testing"
	"time"
)

func validTask() PlanTask {
	task := NewPlanTask("plan-1", Monday, "Bench press", CategoryWorkout)
	task.ID = "task-1"
	task.Sets = 3
	task.Reps = 8
	task.Intensity = "40kg"
	return task
}

func TestPlanTaskValidateSuccess(t *testing.T) {
	if err := validTask().Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestPlanTaskValidateCompletedRequiresCompletedAt(t *testing.T) {
	task := validTask()
	task.Completed = true
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed_at is required when task is completed" {
		t.Fatalf("unexpected error: %v", err)
	}

	task.CompletedAt = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid completed task, got: %v", err)
	}
}

func TestPlanTaskValidateInvalidFields(t *testing.T) {
	task := validTask()
	task.Day = Weekday("Funday")
	if err := task.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}

	task = validTask()
	task.Category = Category("leisure")
	if err := task.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}

	task = validTask()
	task.StartTime = "25:00"
	if err := task.Validate(); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got: %v", err)
	}

	task = validTask()
	task.DurationMinutes = 0
	if err := task.Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got: %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"Workout": CategoryWorkout,
		"chore":   CategoryChores,
		"Chores":  CategoryChores,
		" study ": CategoryStudy,
		"":        CategoryCustom,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseCategory("leisure"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestParseWeight(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"40kg", 40, true},
		{"42.5 kg", 42.5, true},
		{"bodyweight", 0, false},
		{"", 0, false},
		{"RPE 8 @ 100", 8, true},
	}
	for _, tc := range cases {
		got, ok := ParseWeight(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseWeight(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

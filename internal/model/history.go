package model

import (
	"regexp"
	"strconv"
	"time"
)

// CompletionRecord is the ledger row for one task on one calendar day. Plan and
// task names are copied at completion time so history keeps the identity the
// task had then.
type CompletionRecord struct {
	ID          int64
	TaskID      string
	Date        string
	Completed   bool
	CompletedAt time.Time
	PlanName    string
	TaskName    string
	Category    Category
}

// WorkoutSample is appended every time a workout task is completed. Rows are
// never updated.
type WorkoutSample struct {
	ID           int64
	TaskID       string
	Date         string
	ExerciseName string
	Weight       float64
	Sets         int
	Reps         int
	Notes        string
}

var weightPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseWeight extracts the first decimal number from a free-text intensity
// such as "42.5kg" or "bar + 20". ok is false when no number is present.
func ParseWeight(intensity string) (weight float64, ok bool) {
	match := weightPattern.FindString(intensity)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

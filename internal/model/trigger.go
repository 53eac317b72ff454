package model

import (
	"time"
)

const (
	// ReminderLead is how long before a task's start its reminder fires.
	ReminderLead = 10 * time.Minute
	// ReminderPeriod is the repeat interval of an armed reminder.
	ReminderPeriod = 7 * 24 * time.Hour
)

// Trigger is the first instant a weekly reminder fires plus its repeat period.
type Trigger struct {
	TaskID   string
	At       time.Time
	Period   time.Duration
	Fallback bool
}

// ReminderClock subtracts the lead time from start, borrowing from the hour.
// dayShift is -1 when the reminder falls on the previous weekday.
func ReminderClock(start Clock) (reminder Clock, dayShift int) {
	minute := start.Minute - int(ReminderLead/time.Minute)
	hour := start.Hour
	if minute < 0 {
		minute += 60
		hour--
		if hour < 0 {
			hour = 23
			dayShift = -1
		}
	}
	return Clock{Hour: hour, Minute: minute}, dayShift
}

// NextTrigger computes the soonest reminder instant for task strictly after
// now, in now's location. A malformed start time falls back to 08:00 and sets
// Fallback so callers can log it.
func NextTrigger(task PlanTask, now time.Time) Trigger {
	start, err := ParseClock(task.StartTime)
	fallback := err != nil
	if fallback {
		start, _ = ParseClock(DefaultStartTime)
	}
	clock, shift := ReminderClock(start)

	day := task.Day
	if !day.IsValid() {
		day = Monday
	}

	monday := StartOfDay(now).AddDate(0, 0, -WeekdayOf(now).Index())
	y, m, d := monday.AddDate(0, 0, day.Index()+shift).Date()
	candidate := time.Date(y, m, d, clock.Hour, clock.Minute, 0, 0, now.Location())
	for !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return Trigger{
		TaskID:   task.ID,
		At:       candidate,
		Period:   ReminderPeriod,
		Fallback: fallback,
	}
}

// Preview lists the next count firing instants of task after from.
func Preview(task PlanTask, from time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	first := NextTrigger(task, from)
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, first.At.AddDate(0, 0, 7*i))
	}
	return out
}

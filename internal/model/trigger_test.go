package model

import (
	"testing"
	"time"
)

func triggerTask(day Weekday, start string) PlanTask {
	task := NewPlanTask("plan-1", day, "Run", CategoryWorkout)
	task.ID = "task-1"
	task.StartTime = start
	task.ReminderEnabled = true
	return task
}

func TestNextTriggerThisWeek(t *testing.T) {
	now := time.Date(2026, 2, 9, 7, 0, 0, 0, time.UTC) // Monday
	trig := NextTrigger(triggerTask(Wednesday, "18:30"), now)
	if got := trig.At.Format("2006-01-02 15:04:05"); got != "2026-02-11 18:20:00" {
		t.Fatalf("unexpected trigger: %s", got)
	}
	if trig.Period != 7*24*time.Hour || trig.Fallback {
		t.Fatalf("unexpected trigger metadata: %+v", trig)
	}
}

func TestNextTriggerAdvancesOneWeekWhenPassed(t *testing.T) {
	now := time.Date(2026, 2, 11, 18, 25, 0, 0, time.UTC) // Wednesday, after 18:20
	trig := NextTrigger(triggerTask(Wednesday, "18:30"), now)
	if got := trig.At.Format("2006-01-02 15:04"); got != "2026-02-18 18:20" {
		t.Fatalf("expected next week's occurrence, got %s", got)
	}
	if !trig.At.After(now) {
		t.Fatalf("trigger must be in the future: %s", trig.At)
	}
}

func TestNextTriggerExactInstantIsStale(t *testing.T) {
	now := time.Date(2026, 2, 11, 18, 20, 0, 0, time.UTC)
	trig := NextTrigger(triggerTask(Wednesday, "18:30"), now)
	if want := now.AddDate(0, 0, 7); !trig.At.Equal(want) {
		t.Fatalf("trigger at now must move a week, got %s want %s", trig.At, want)
	}
}

func TestNextTriggerLeadWrapsToPreviousDay(t *testing.T) {
	now := time.Date(2026, 2, 9, 6, 0, 0, 0, time.UTC) // Monday
	trig := NextTrigger(triggerTask(Tuesday, "00:05"), now)
	if got := trig.At.Format("Monday 15:04 2006-01-02"); got != "Monday 23:55 2026-02-09" {
		t.Fatalf("unexpected wrapped trigger: %s", got)
	}
}

func TestNextTriggerWrapNeverStaleAtWeekEnd(t *testing.T) {
	// Monday 00:05 reminds on Sunday 23:55; at Sunday 23:58 the next one is a week away.
	now := time.Date(2026, 2, 15, 23, 58, 0, 0, time.UTC)
	trig := NextTrigger(triggerTask(Monday, "00:05"), now)
	if got := trig.At.Format("2006-01-02 15:04"); got != "2026-02-22 23:55" {
		t.Fatalf("unexpected trigger: %s", got)
	}
}

func TestNextTriggerMalformedStartFallsBack(t *testing.T) {
	now := time.Date(2026, 2, 9, 6, 0, 0, 0, time.UTC)
	trig := NextTrigger(triggerTask(Thursday, "soon"), now)
	if !trig.Fallback {
		t.Fatal("expected fallback flag")
	}
	if got := trig.At.Format("2006-01-02 15:04"); got != "2026-02-12 07:50" {
		t.Fatalf("unexpected fallback trigger: %s", got)
	}
}

func TestReminderClock(t *testing.T) {
	cases := []struct {
		in    Clock
		want  Clock
		shift int
	}{
		{Clock{9, 30}, Clock{9, 20}, 0},
		{Clock{9, 5}, Clock{8, 55}, 0},
		{Clock{0, 5}, Clock{23, 55}, -1},
		{Clock{0, 10}, Clock{0, 0}, 0},
	}
	for _, tc := range cases {
		got, shift := ReminderClock(tc.in)
		if got != tc.want || shift != tc.shift {
			t.Fatalf("ReminderClock(%s) = %s,%d want %s,%d", tc.in, got, shift, tc.want, tc.shift)
		}
	}
}

func TestPreview(t *testing.T) {
	now := time.Date(2026, 2, 9, 6, 0, 0, 0, time.UTC)
	list := Preview(triggerTask(Friday, "10:00"), now, 3)
	want := []string{"2026-02-13 09:50", "2026-02-20 09:50", "2026-02-27 09:50"}
	if len(list) != len(want) {
		t.Fatalf("expected %d preview items, got %d", len(want), len(list))
	}
	for i := range list {
		if got := list[i].Format("2006-01-02 15:04"); got != want[i] {
			t.Fatalf("preview[%d] got %s want %s", i, got, want[i])
		}
	}
	if len(Preview(triggerTask(Friday, "10:00"), now, 0)) != 0 {
		t.Fatal("expected empty preview for count 0")
	}
}

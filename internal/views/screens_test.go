package views

import (
	"strings"
	"testing"
)

func TestRenderTodayPanel(t *testing.T) {
	out := RenderTodayPanel(TodayPanelData{
		Day:       "Monday",
		Completed: 1,
		Total:     2,
		Percent:   50,
		Rows: []TodayRow{
			{Name: "Bench Press", Plan: "Push", StartTime: "07:00", Completed: true, Reminder: true},
			{Name: "Laundry", StartTime: "18:00", Selected: true},
		},
	})
	for _, want := range []string{"Monday", "1/2 done (50%)", "[x]", "[ ]", "Bench Press", "Laundry", "18:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("today panel missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTodayPanelEmpty(t *testing.T) {
	out := RenderTodayPanel(TodayPanelData{Day: "Sunday"})
	if !strings.Contains(out, "Nothing planned") {
		t.Fatalf("expected empty marker, got %q", out)
	}
}

func TestStatsMarkdown(t *testing.T) {
	md := StatsMarkdown(StatsPanelData{
		Week:      "2026-02-09..2026-02-15",
		Completed: 3,
		Total:     4,
		Percent:   75,
		Days:      []DayColumn{{Day: "Mon", Completed: 2, Total: 2}},
		Plans:     []PlanLine{{Name: "Push", Completed: 1, Total: 2, Percent: 50}},
		Streak:    3,
	})
	for _, want := range []string{"**3/4** (75%)", "| Mon | 2 | 2 |", "Push: 1/2 (50%)", "**3** day(s)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("stats markdown missing %q:\n%s", want, md)
		}
	}
}

func TestSuggestionMarkdown(t *testing.T) {
	md := SuggestionMarkdown(SuggestionPanelData{Exercise: "Squat", Samples: 1})
	if !strings.Contains(md, "Not enough history") {
		t.Fatalf("expected insufficient history message, got %q", md)
	}

	md = SuggestionMarkdown(SuggestionPanelData{
		Exercise: "Squat", Samples: 2, Ready: true,
		PreviousWeight: 40, PreviousReps: 8, LatestWeight: 42, LatestReps: 8, SuggestedWeight: 44.1,
	})
	if !strings.Contains(md, "**44.1**") {
		t.Fatalf("expected suggested weight, got %q", md)
	}
}

func TestRenderAppMarksActiveTab(t *testing.T) {
	out := RenderApp(AppData{Header: "cadence", Tabs: []string{"Today", "Stats"}, ActiveTab: 1, Body: "body", StatusLine: "ready"})
	for _, want := range []string{"cadence", "Today", "Stats", "body", "ready"} {
		if !strings.Contains(out, want) {
			t.Fatalf("app view missing %q", want)
		}
	}
}

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TodayRow struct {
	Name      string
	Plan      string
	StartTime string
	Detail    string
	Completed bool
	Reminder  bool
	Selected  bool
}

type TodayPanelData struct {
	Day       string
	Rows      []TodayRow
	Completed int
	Total     int
	Percent   float64
}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderTodayPanel(d TodayPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d/%d done (%.0f%%)\n\n", d.Day, d.Completed, d.Total, d.Percent)
	if len(d.Rows) == 0 {
		b.WriteString(mutedStyle.Render("Nothing planned for today."))
		return b.String()
	}
	for i, r := range d.Rows {
		box := "[ ]"
		if r.Completed {
			box = "[x]"
		}
		bell := " "
		if r.Reminder {
			bell = "*"
		}
		name := r.Name
		if r.Completed {
			name = doneStyle.Render(name)
		}
		line := fmt.Sprintf("%2d %s %s %s %s", i+1, box, r.StartTime, bell, name)
		if r.Plan != "" {
			line += mutedStyle.Render("  " + r.Plan)
		}
		if r.Detail != "" {
			line += mutedStyle.Render("  " + r.Detail)
		}
		if r.Selected {
			line = cursorStyle.Render(">") + line
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

type DayColumn struct {
	Day       string
	Completed int
	Total     int
}

type PlanLine struct {
	Name      string
	Completed int
	Total     int
	Percent   float64
}

type StatsPanelData struct {
	Week           string
	Completed      int
	Total          int
	Percent        float64
	Days           []DayColumn
	Plans          []PlanLine
	TotalCompleted int
	Missed         int
	Streak         int
}

// StatsMarkdown renders the weekly report as markdown for glamour.
func StatsMarkdown(d StatsPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Week %s\n\n", d.Week)
	fmt.Fprintf(&b, "- Completion: **%d/%d** (%.0f%%)\n", d.Completed, d.Total, d.Percent)
	fmt.Fprintf(&b, "- Streak: **%d** day(s)\n", d.Streak)
	fmt.Fprintf(&b, "- Missed this week: %d\n", d.Missed)
	fmt.Fprintf(&b, "- Completed all time: %d\n\n", d.TotalCompleted)

	b.WriteString("| Day | Done | Total |\n|---|---|---|\n")
	for _, day := range d.Days {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", day.Day, day.Completed, day.Total)
	}

	if len(d.Plans) > 0 {
		b.WriteString("\n## Plans\n\n")
		for _, p := range d.Plans {
			fmt.Fprintf(&b, "- %s: %d/%d (%.0f%%)\n", p.Name, p.Completed, p.Total, p.Percent)
		}
	}
	return b.String()
}

type SuggestionPanelData struct {
	Exercise        string
	Ready           bool
	Samples         int
	PreviousWeight  float64
	PreviousReps    int
	LatestWeight    float64
	LatestReps      int
	SuggestedWeight float64
}

func SuggestionMarkdown(d SuggestionPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", d.Exercise)
	if d.Samples < 2 {
		fmt.Fprintf(&b, "Not enough history yet (%d session(s) in the last 8 weeks).\n", d.Samples)
		return b.String()
	}
	fmt.Fprintf(&b, "- Previous: %.1f x %d\n", d.PreviousWeight, d.PreviousReps)
	fmt.Fprintf(&b, "- Latest: %.1f x %d\n", d.LatestWeight, d.LatestReps)
	if d.Ready {
		fmt.Fprintf(&b, "\nReady to progress: try **%.1f**.\n", d.SuggestedWeight)
	} else {
		b.WriteString("\nHold the current weight until the numbers stop dropping.\n")
	}
	return b.String()
}

package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/reminders"
)

type todayLoadedMsg struct {
	Today analytics.Today
}

type reportLoadedMsg struct {
	Report analytics.Report
}

type exercisesLoadedMsg struct {
	Names []string
}

type suggestionLoadedMsg struct {
	Suggestion analytics.Suggestion
}

type actionDoneMsg struct {
	Text string
	// Reload asks for the today list and report to be refreshed.
	Reload bool
}

type errMsg struct {
	Err error
}

type reminderMsg struct {
	Notification reminders.Notification
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

func waitForReminderCmd(ch <-chan reminders.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return reminderMsg{Notification: n}
	}
}

// run executes fn on the worker queue, or inline without one, and turns its
// outcome into a message.
func (m Model) run(fn func(ctx context.Context) (tea.Msg, error)) tea.Cmd {
	q := m.queue
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		var out tea.Msg
		call := func() error {
			msg, err := fn(ctx)
			out = msg
			return err
		}
		var err error
		if q != nil {
			err = q.Do(ctx, call)
		} else {
			err = call()
		}
		if err != nil {
			return errMsg{Err: err}
		}
		return out
	}
}

func (m Model) loadTodayCmd() tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		today, err := b.Today(ctx)
		if err != nil {
			return nil, err
		}
		return todayLoadedMsg{Today: today}, nil
	})
}

func (m Model) loadReportCmd() tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		report, err := b.WeeklyReport(ctx)
		if err != nil {
			return nil, err
		}
		return reportLoadedMsg{Report: report}, nil
	})
}

func (m Model) loadExercisesCmd() tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		names, err := b.ExerciseNames(ctx)
		if err != nil {
			return nil, err
		}
		return exercisesLoadedMsg{Names: names}, nil
	})
}

func (m Model) loadSuggestionCmd(exercise string) tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		s, err := b.GetSuggestion(ctx, exercise)
		if err != nil {
			return nil, err
		}
		return suggestionLoadedMsg{Suggestion: s}, nil
	})
}

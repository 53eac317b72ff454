package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/commands"
)

func (m Model) setCompletionCmd(task analytics.TodayTask, date string, completed bool) tea.Cmd {
	b, tray := m.backend, m.tray
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		if _, err := b.SetCompletion(ctx, task.Task.ID, date, completed); err != nil {
			return nil, err
		}
		if completed {
			tray.Dismiss(task.Task.ID)
		}
		state := "done"
		if !completed {
			state = "not done"
		}
		if date != "" {
			state += " on " + date
		}
		return actionDoneMsg{Text: fmt.Sprintf("%s marked %s", task.Task.Name, state), Reload: true}, nil
	})
}

func (m Model) setReminderCmd(task analytics.TodayTask, enabled bool) tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		if _, err := b.SetReminder(ctx, task.Task.ID, enabled); err != nil {
			return nil, err
		}
		state := "off"
		if enabled {
			state = "on"
			if at, ok := b.NextReminder(task.Task.ID); ok {
				state += ", next " + at.Format("Mon 15:04")
			}
		}
		return actionDoneMsg{Text: fmt.Sprintf("reminder %s for %s", state, task.Task.Name), Reload: true}, nil
	})
}

// resetCmd clears the cycle for the plan named planName, or for every plan
// when the name is empty.
func (m Model) resetCmd(planName string) tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		planID := ""
		if planName != "" {
			plans, err := b.ListPlans(ctx)
			if err != nil {
				return nil, err
			}
			for _, p := range plans {
				if strings.EqualFold(p.Name, planName) {
					planID = p.ID
					break
				}
			}
			if planID == "" {
				return nil, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no plan named %q", planName)}
			}
		}
		n, err := b.ResetCycle(ctx, planID)
		if err != nil {
			return nil, err
		}
		return actionDoneMsg{Text: fmt.Sprintf("reset %d task(s)", n), Reload: true}, nil
	})
}

func (m Model) listPlansCmd() tea.Cmd {
	b := m.backend
	return m.run(func(ctx context.Context) (tea.Msg, error) {
		plans, err := b.ListPlans(ctx)
		if err != nil {
			return nil, err
		}
		if len(plans) == 0 {
			return actionDoneMsg{Text: "no plans yet"}, nil
		}
		names := make([]string, 0, len(plans))
		for _, p := range plans {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Category))
		}
		return actionDoneMsg{Text: "plans: " + strings.Join(names, ", ")}, nil
	})
}

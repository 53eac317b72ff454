package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case tea.KeyEnter:
		raw := m.commandInput.Value()
		m = m.closePalette()
		return m.executePaletteCommand(raw)
	case tea.KeyCtrlC:
		m.Quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) closePalette() Model {
	m.Palette = false
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) resolveTarget(t commands.Target) (analytics.TodayTask, error) {
	idx := m.Cursor
	if !t.Selected {
		idx = t.Index - 1
	}
	if idx < 0 || idx >= len(m.Today.Tasks) {
		return analytics.TodayTask{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", idx+1)}
	}
	return m.Today.Tasks[idx], nil
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Done: func(a commands.CompletionArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.setCompletionCmd(task, a.Date, true)
			return commands.Result{Message: "completing " + task.Task.Name}, nil
		},
		Undo: func(a commands.CompletionArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.setCompletionCmd(task, a.Date, false)
			return commands.Result{Message: "clearing " + task.Task.Name}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.setReminderCmd(task, a.Enabled)
			return commands.Result{Message: "updating reminder for " + task.Task.Name}, nil
		},
		Suggest: func(a commands.SuggestArgs) (commands.Result, error) {
			m.CurrentView = ViewSuggest
			next = tea.Batch(m.loadExercisesCmd(), m.loadSuggestionCmd(a.Exercise))
			return commands.Result{Message: "loading suggestion for " + a.Exercise}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "today":
				m, next = m.switchView(ViewToday)
			case "stats":
				m, next = m.switchView(ViewStats)
			case "exercises":
				m, next = m.switchView(ViewSuggest)
			case "plans":
				next = m.listPlansCmd()
			}
			return commands.Result{Message: "show " + a.Subject}, nil
		},
		Reset: func(a commands.ResetArgs) (commands.Result, error) {
			next = m.resetCmd(a.Plan)
			if a.Plan == "" {
				return commands.Result{Message: "resetting every plan"}, nil
			}
			return commands.Result{Message: "resetting " + a.Plan}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, next
}

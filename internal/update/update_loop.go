package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTodayCmd(), waitForReminderCmd(m.reminders))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.statsView.Width = max(typed.Width-4, 20)
		m.statsView.Height = max(typed.Height-10, 5)
		m.exerciseList.SetSize(max(typed.Width/2, 20), max(typed.Height-12, 5))
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if m.Palette {
			return m.handlePaletteKey(typed)
		}
		return m.handleKey(typed)
	case todayLoadedMsg:
		m.Today = typed.Today
		if m.Cursor >= len(m.Today.Tasks) {
			m.Cursor = max(len(m.Today.Tasks)-1, 0)
		}
		if m.Status.Text == "loading" {
			m.Status = StatusBar{Text: "ready"}
		}
		return m, nil
	case reportLoadedMsg:
		report := typed.Report
		m.Report = &report
		m.statsView.SetContent(views.RenderMarkdown(views.StatsMarkdown(StatsData(report))))
		return m, nil
	case exercisesLoadedMsg:
		items := make([]list.Item, 0, len(typed.Names))
		for _, n := range typed.Names {
			items = append(items, exerciseItem(n))
		}
		cmd := m.exerciseList.SetItems(items)
		if len(items) == 0 {
			m.Status = StatusBar{Text: "no workout history yet"}
		}
		return m, cmd
	case suggestionLoadedMsg:
		s := typed.Suggestion
		m.Suggestion = &s
		return m, nil
	case actionDoneMsg:
		m.Status = StatusBar{Text: typed.Text}
		if typed.Reload {
			return m, m.reload()
		}
		return m, nil
	case errMsg:
		m.Status = StatusBar{Text: "error: " + typed.Err.Error(), IsError: true}
		return m, nil
	case reminderMsg:
		_ = m.tray.Notify(context.Background(), typed.Notification)
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", typed.Notification.Title, typed.Notification.Body)}
		return m, waitForReminderCmd(m.reminders)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	}
	return m, nil
}

func (m Model) reload() tea.Cmd {
	cmds := []tea.Cmd{m.loadTodayCmd()}
	if m.Report != nil || m.CurrentView == ViewStats {
		cmds = append(cmds, m.loadReportCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) switchView(v View) (Model, tea.Cmd) {
	m.CurrentView = v
	switch v {
	case ViewStats:
		return m, m.loadReportCmd()
	case ViewSuggest:
		return m, m.loadExercisesCmd()
	default:
		return m, m.loadTodayCmd()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		m.Palette = true
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case key.Matches(msg, m.keys.Today):
		return m.switchView(ViewToday)
	case key.Matches(msg, m.keys.Stats):
		return m.switchView(ViewStats)
	case key.Matches(msg, m.keys.Suggest):
		return m.switchView(ViewSuggest)
	case key.Matches(msg, m.keys.Refresh):
		return m.switchView(m.CurrentView)
	}

	switch m.CurrentView {
	case ViewToday:
		return m.handleTodayKey(msg)
	case ViewStats:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd
	case ViewSuggest:
		if key.Matches(msg, m.keys.Select) {
			if item, ok := m.exerciseList.SelectedItem().(exerciseItem); ok {
				return m, m.loadSuggestionCmd(string(item))
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.exerciseList, cmd = m.exerciseList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleTodayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Today.Tasks)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, m.setCompletionCmd(task, "", !task.Task.Completed)
	case key.Matches(msg, m.keys.Remind):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, m.setReminderCmd(task, !task.Task.ReminderEnabled)
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	active := 0
	tabs := make([]string, len(viewOrder))
	for i, v := range viewOrder {
		tabs[i] = fmt.Sprintf("%d %s", i+1, v)
		if v == m.CurrentView {
			active = i
		}
	}

	data := views.AppData{
		Header:     "cadence",
		Tabs:       tabs,
		ActiveTab:  active,
		Body:       m.body(),
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
	}
	if alerts := m.Alerts(); len(alerts) > 0 {
		lines := make([]string, 0, maxAlerts)
		for i := len(alerts) - 1; i >= 0 && len(lines) < maxAlerts; i-- {
			lines = append(lines, alerts[i].Title+": "+alerts[i].Body)
		}
		data.Alert = strings.Join(lines, "\n")
	}
	if m.Palette {
		data.Footer = m.commandInput.View()
	} else {
		m.helpModel.ShowAll = m.HelpVisible
		data.Footer = m.helpModel.View(m.keys)
	}
	return views.RenderApp(data)
}

func (m Model) body() string {
	switch m.CurrentView {
	case ViewStats:
		if m.Report == nil {
			return "loading weekly report"
		}
		return m.statsView.View()
	case ViewSuggest:
		parts := []string{m.exerciseList.View()}
		if m.Suggestion != nil {
			parts = append(parts, views.RenderMarkdown(views.SuggestionMarkdown(SuggestionData(*m.Suggestion))))
		}
		return strings.Join(parts, "\n")
	default:
		return views.RenderTodayPanel(TodayData(m.Today, m.Cursor))
	}
}

func TodayData(t analytics.Today, cursor int) views.TodayPanelData {
	d := views.TodayPanelData{
		Day:       string(t.Day),
		Completed: t.Completed,
		Total:     t.Total,
		Percent:   t.Percent,
	}
	for i, row := range t.Tasks {
		task := row.Task
		detail := ""
		if task.IsWorkout() && (task.Sets > 0 || task.Reps > 0) {
			detail = fmt.Sprintf("%dx%d", task.Sets, task.Reps)
			if task.Intensity != "" {
				detail += " @ " + task.Intensity
			}
		}
		d.Rows = append(d.Rows, views.TodayRow{
			Name:      task.Name,
			Plan:      row.PlanName,
			StartTime: task.StartTime,
			Detail:    detail,
			Completed: task.Completed,
			Reminder:  task.ReminderEnabled,
			Selected:  i == cursor,
		})
	}
	return d
}

func StatsData(r analytics.Report) views.StatsPanelData {
	d := views.StatsPanelData{
		Week:           r.Week.Start + ".." + r.Week.End,
		Completed:      r.Rate.Completed,
		Total:          r.Rate.Total,
		Percent:        r.Rate.Percent,
		TotalCompleted: r.TotalCompleted,
		Missed:         r.Missed,
		Streak:         r.Streak,
	}
	for _, day := range r.Days {
		d.Days = append(d.Days, views.DayColumn{Day: day.Day.Short(), Completed: day.Completed, Total: day.Total})
	}
	for _, p := range r.Plans {
		d.Plans = append(d.Plans, views.PlanLine{Name: p.Plan.Name, Completed: p.Rate.Completed, Total: p.Rate.Total, Percent: p.Rate.Percent})
	}
	return d
}

func SuggestionData(s analytics.Suggestion) views.SuggestionPanelData {
	return views.SuggestionPanelData{
		Exercise:        s.Exercise,
		Ready:           s.Ready,
		Samples:         s.Samples,
		PreviousWeight:  s.Previous.Weight,
		PreviousReps:    s.Previous.Reps,
		LatestWeight:    s.Latest.Weight,
		LatestReps:      s.Latest.Reps,
		SuggestedWeight: s.SuggestedWeight,
	}
}

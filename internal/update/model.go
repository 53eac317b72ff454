// Package update is the bubbletea model for the interactive planner: today's
// checklist, the weekly report and overload suggestions, with a command
// palette and live reminder alerts.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/ledger"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/reminders"
	"github.com/sandeepkv93/cadence/internal/worker"
)

type View string

const (
	ViewToday   View = "Today"
	ViewStats   View = "Stats"
	ViewSuggest View = "Suggest"
)

var viewOrder = []View{ViewToday, ViewStats, ViewSuggest}

const (
	actionTimeout = 10 * time.Second
	maxAlerts     = 5
)

// Backend is the planner surface the TUI drives.
type Backend interface {
	Today(ctx context.Context) (analytics.Today, error)
	WeeklyReport(ctx context.Context) (analytics.Report, error)
	SetCompletion(ctx context.Context, taskID, date string, completed bool) (ledger.Result, error)
	SetReminder(ctx context.Context, id string, enabled bool) (model.PlanTask, error)
	ResetCycle(ctx context.Context, planID string) (int64, error)
	ListPlans(ctx context.Context) ([]model.Plan, error)
	ExerciseNames(ctx context.Context) ([]string, error)
	GetSuggestion(ctx context.Context, exercise string) (analytics.Suggestion, error)
	NextReminder(taskID string) (time.Time, bool)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type keyMap struct {
	Today   key.Binding
	Stats   key.Binding
	Suggest key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Remind  key.Binding
	Select  key.Binding
	Refresh key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Remind, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Today, k.Stats, k.Suggest},
		{k.Up, k.Down, k.Toggle, k.Remind, k.Select},
		{k.Refresh, k.Palette, k.Help, k.Quit},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Today:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "today")),
		Stats:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "stats")),
		Suggest: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "suggest")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("x", "toggle done")),
		Remind:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle reminder")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick exercise")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type Options struct {
	Backend Backend
	// Queue serializes writes with other store users; nil runs actions inline.
	Queue *worker.Queue
	// Reminders delivers fired reminders while the TUI runs. May be nil.
	Reminders <-chan reminders.Notification
}

type Model struct {
	CurrentView View
	Today       analytics.Today
	Report      *analytics.Report
	Suggestion  *analytics.Suggestion
	Cursor      int
	Status      StatusBar
	HelpVisible bool
	Palette     bool
	Quitting    bool

	backend   Backend
	queue     *worker.Queue
	reminders <-chan reminders.Notification
	tray      *reminders.Tray
	keys      keyMap

	exerciseList list.Model
	commandInput textinput.Model
	statsView    viewport.Model
	helpModel    help.Model
	width        int
}

type exerciseItem string

func (i exerciseItem) FilterValue() string { return string(i) }
func (i exerciseItem) Title() string       { return string(i) }
func (i exerciseItem) Description() string { return "" }

func NewModel(opts Options) Model {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "done 1 | undo 2 2026-02-09 | remind 1 off | suggest squat | reset"
	input.CharLimit = 200

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	exercises := list.New(nil, delegate, 40, 12)
	exercises.Title = "Exercises"
	exercises.SetShowHelp(false)
	exercises.SetFilteringEnabled(false)

	return Model{
		CurrentView:  ViewToday,
		Status:       StatusBar{Text: "loading"},
		backend:      opts.Backend,
		queue:        opts.Queue,
		reminders:    opts.Reminders,
		tray:         reminders.NewTray(),
		keys:         defaultKeys(),
		exerciseList: exercises,
		commandInput: input,
		statsView:    viewport.New(76, 18),
		helpModel:    help.New(),
		width:        80,
	}
}

// Alerts lists the reminders raised and not yet dismissed, oldest first. A
// task that fires again replaces its earlier alert.
func (m Model) Alerts() []reminders.Notification {
	return m.tray.Pending()
}

// SelectedTask is the today row under the cursor.
func (m Model) SelectedTask() (analytics.TodayTask, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Today.Tasks) {
		return analytics.TodayTask{}, false
	}
	return m.Today.Tasks[m.Cursor], true
}

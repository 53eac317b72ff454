package reminders

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/sandeepkv93/cadence/internal/model"
)

// DestinationToday is the deep-link target carried by reminder notifications.
const DestinationToday = "today"

// Notification is one user-facing alert. ID is the replacement identity: a
// second notification with the same ID supersedes the first.
type Notification struct {
	ID          string
	Title       string
	Body        string
	Destination string
	At          time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ReminderNotification builds the alert for a fired task trigger.
func ReminderNotification(taskID, taskName string, at time.Time) Notification {
	return Notification{
		ID:          taskID,
		Title:       "Task Reminder",
		Body:        fmt.Sprintf("%s starts in %d minutes!", taskName, int(model.ReminderLead/time.Minute)),
		Destination: DestinationToday,
		At:          at,
	}
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) error { return nil }

// DesktopNotifier shells out to notify-send on Linux and osascript on macOS.
// Other platforms are a no-op.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(ctx context.Context, n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.CommandContext(ctx, "notify-send",
			"--app-name=cadence",
			"--hint=string:x-canonical-private-synchronous:"+n.ID,
			n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Tray keeps the pending notifications keyed by ID, so a re-fired reminder
// replaces the previous entry instead of stacking.
type Tray struct {
	mu      sync.Mutex
	pending map[string]Notification
}

func NewTray() *Tray {
	return &Tray{pending: make(map[string]Notification)}
}

func (t *Tray) Notify(_ context.Context, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[n.ID] = n
	return nil
}

func (t *Tray) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}

// Pending lists notifications oldest first.
func (t *Tray) Pending() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notification, 0, len(t.pending))
	for _, n := range t.pending {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

// ChannelNotifier forwards notifications to a consumer such as the TUI. A full
// channel drops the notification.
type ChannelNotifier struct {
	ch chan Notification
}

func NewChannelNotifier(size int) *ChannelNotifier {
	if size <= 0 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan Notification, size)}
}

func (c *ChannelNotifier) C() <-chan Notification {
	return c.ch
}

func (c *ChannelNotifier) Notify(_ context.Context, n Notification) error {
	select {
	case c.ch <- n:
		return nil
	default:
		return fmt.Errorf("reminders: notification channel full, dropped %s", n.ID)
	}
}

type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	logrus.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"destination":     n.Destination,
	}).Infof("%s: %s", n.Title, n.Body)
	return nil
}

// MultiNotifier delivers to every notifier and combines their failures.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var err error
	for _, target := range m {
		err = multierr.Append(err, target.Notify(ctx, n))
	}
	return err
}

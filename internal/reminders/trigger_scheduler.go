package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/scheduler"
	"github.com/sandeepkv93/cadence/internal/storage"
)

var (
	ErrNoTimer          = errors.New("reminders: no timer service")
	ErrReminderDisabled = errors.New("reminders: reminder disabled for task")
)

// Timers is the host timer service. *scheduler.Engine implements it.
type Timers interface {
	Arm(t scheduler.Trigger) error
	Disarm(key string) bool
	DisarmAll() int
	Next(key string) (scheduler.Trigger, bool)
	Len() int
}

// TaskSource is the slice of the task store the reminder subsystem reads.
type TaskSource interface {
	GetTask(ctx context.Context, id string) (model.PlanTask, error)
	ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]model.PlanTask, error)
}

// TriggerScheduler maps reminder-enabled tasks onto weekly timer triggers
// keyed by task id.
type TriggerScheduler struct {
	store   TaskSource
	timers  Timers
	metrics *metrics.Manager
	now     func() time.Time
}

func NewTriggerScheduler(store TaskSource, timers Timers, m *metrics.Manager) *TriggerScheduler {
	return &TriggerScheduler{store: store, timers: timers, metrics: m, now: time.Now}
}

func (s *TriggerScheduler) WithClock(now func() time.Time) *TriggerScheduler {
	s.now = now
	return s
}

// Schedule arms the weekly trigger for task, replacing any trigger it had.
func (s *TriggerScheduler) Schedule(task model.PlanTask) (model.Trigger, error) {
	if s.timers == nil {
		logrus.WithField("task_id", task.ID).Warn("no timer service, reminder not scheduled")
		return model.Trigger{}, ErrNoTimer
	}
	if !task.ReminderEnabled {
		s.Cancel(task.ID)
		return model.Trigger{}, ErrReminderDisabled
	}

	trig := model.NextTrigger(task, s.now())
	if trig.Fallback {
		logrus.WithFields(logrus.Fields{
			"task_id":    task.ID,
			"start_time": task.StartTime,
		}).Warnf("malformed start time, reminding at %s", model.DefaultStartTime)
	}
	err := s.timers.Arm(scheduler.Trigger{
		Key:      task.ID,
		At:       trig.At,
		Period:   trig.Period,
		TaskID:   task.ID,
		TaskName: task.Name,
	})
	if err != nil {
		return model.Trigger{}, fmt.Errorf("arm trigger for %s: %w", task.ID, err)
	}
	if s.metrics != nil {
		s.metrics.CounterTriggersArmed.Inc()
	}
	s.reportActive()
	logrus.WithFields(logrus.Fields{
		"task_id": task.ID,
		"at":      trig.At.Format(time.RFC3339),
	}).Debug("reminder armed")
	return trig, nil
}

// ScheduleAll arms every reminder-enabled task. One task failing to arm does
// not stop the others; the failures come back combined.
func (s *TriggerScheduler) ScheduleAll(ctx context.Context) (int, error) {
	if s.timers == nil {
		logrus.Warn("no timer service, skipping reminder scheduling")
		return 0, ErrNoTimer
	}
	tasks, err := s.store.ListTasks(ctx, storage.TaskListFilter{ReminderEnabled: storage.Bool(true)})
	if err != nil {
		return 0, fmt.Errorf("list reminder tasks: %w", err)
	}

	var errs error
	armed := 0
	for _, task := range tasks {
		if _, err := s.Schedule(task); err != nil {
			logrus.WithError(err).WithField("task_id", task.ID).Warn("schedule reminder failed")
			errs = multierr.Append(errs, err)
			continue
		}
		armed++
	}
	logrus.WithFields(logrus.Fields{"armed": armed, "tasks": len(tasks)}).Info("reminders scheduled")
	return armed, errs
}

// Cancel disarms the trigger for taskID. Cancelling a task without a trigger
// is a no-op.
func (s *TriggerScheduler) Cancel(taskID string) bool {
	if s.timers == nil {
		return false
	}
	if !s.timers.Disarm(taskID) {
		return false
	}
	if s.metrics != nil {
		s.metrics.CounterTriggersDisarmed.Inc()
	}
	s.reportActive()
	logrus.WithField("task_id", taskID).Debug("reminder disarmed")
	return true
}

// Resync drops every armed trigger and schedules from the store again.
func (s *TriggerScheduler) Resync(ctx context.Context) (int, error) {
	if s.timers == nil {
		return 0, ErrNoTimer
	}
	if n := s.timers.DisarmAll(); n > 0 && s.metrics != nil {
		s.metrics.CounterTriggersDisarmed.Add(float64(n))
	}
	return s.ScheduleAll(ctx)
}

// Next reports when taskID's reminder fires next.
func (s *TriggerScheduler) Next(taskID string) (time.Time, bool) {
	if s.timers == nil {
		return time.Time{}, false
	}
	trig, ok := s.timers.Next(taskID)
	if !ok {
		return time.Time{}, false
	}
	return trig.At, true
}

func (s *TriggerScheduler) Active() int {
	if s.timers == nil {
		return 0
	}
	return s.timers.Len()
}

func (s *TriggerScheduler) reportActive() {
	if s.metrics != nil {
		s.metrics.GaugeTriggersActive.Set(float64(s.timers.Len()))
	}
}

package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/scheduler"
	"github.com/sandeepkv93/cadence/internal/storage"
)

// Dispatcher turns fired triggers into notifications.
type Dispatcher struct {
	store     TaskSource
	scheduler *TriggerScheduler
	notifier  Notifier
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewDispatcher(store TaskSource, sched *TriggerScheduler, notifier Notifier, m *metrics.Manager) *Dispatcher {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Dispatcher{store: store, scheduler: sched, notifier: notifier, metrics: m, now: time.Now}
}

// OnRestart re-arms every reminder. Triggers do not survive the process, so
// this runs unconditionally at startup.
func (d *Dispatcher) OnRestart(ctx context.Context) (int, error) {
	logrus.Info("restart: re-arming reminders")
	return d.scheduler.ScheduleAll(ctx)
}

// Run handles events until ctx is done or events is closed.
func (d *Dispatcher) Run(ctx context.Context, events <-chan scheduler.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := d.Handle(ctx, ev); err != nil {
				logrus.WithError(err).WithField("task_id", ev.TaskID).Warn("reminder dispatch failed")
			}
		}
	}
}

// Handle delivers the notification for one fired trigger. The task is read
// again so a trigger outliving its task, or its reminder flag, disarms itself
// instead of notifying.
func (d *Dispatcher) Handle(ctx context.Context, ev scheduler.Event) error {
	if d.metrics != nil {
		d.metrics.CounterTriggersFired.Inc()
	}
	log := logrus.WithFields(logrus.Fields{"task_id": ev.TaskID, "key": ev.Key})

	task, err := d.store.GetTask(ctx, ev.TaskID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warn("trigger fired for missing task, disarming")
		d.scheduler.Cancel(ev.Key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load task %s: %w", ev.TaskID, err)
	}
	if !task.ReminderEnabled {
		log.Debug("reminder disabled since arming, disarming")
		d.scheduler.Cancel(ev.Key)
		return nil
	}

	name := task.Name
	if name == "" {
		name = ev.TaskName
	}
	if err := d.notifier.Notify(ctx, ReminderNotification(task.ID, name, d.now())); err != nil {
		if d.metrics != nil {
			d.metrics.CounterNotificationErrors.Inc()
		}
		return fmt.Errorf("notify %s: %w", task.ID, err)
	}
	if d.metrics != nil {
		d.metrics.CounterNotificationsSent.Inc()
	}
	log.Info("reminder delivered")
	return nil
}

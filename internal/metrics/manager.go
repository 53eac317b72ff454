package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StateCompleted = "completed"
	StateCleared   = "cleared"
)

type Manager struct {
	// counters
	CounterTriggersArmed      prometheus.Counter
	CounterTriggersDisarmed   prometheus.Counter
	CounterTriggersFired      prometheus.Counter
	CounterNotificationsSent  prometheus.Counter
	CounterNotificationErrors prometheus.Counter
	CounterCompletions        *prometheus.CounterVec
	CounterWorkoutSamples     prometheus.Counter

	// gauges
	GaugeTriggersActive prometheus.Gauge
}

func NewTestManager() *Manager {
	return NewManager("cadence", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("cadence", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterTriggersArmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_armed",
			Help:      "The total number of reminder triggers armed",
		}),
		CounterTriggersDisarmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_disarmed",
			Help:      "The total number of reminder triggers disarmed",
		}),
		CounterTriggersFired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_fired",
			Help:      "The total number of fired reminder triggers handled",
		}),
		CounterNotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_sent",
			Help:      "The total number of delivered notifications",
		}),
		CounterNotificationErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_errors",
			Help:      "The total number of failed notification deliveries",
		}),
		CounterCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completions",
			Help:      "Completion toggles by resulting state",
		}, []string{"state"}),
		CounterWorkoutSamples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_samples",
			Help:      "The total number of appended workout samples",
		}),
		GaugeTriggersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_active",
			Help:      "Current number of armed reminder triggers",
		}),
	}
}

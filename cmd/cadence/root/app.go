package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/cadence/internal/analytics"
	"github.com/sandeepkv93/cadence/internal/config"
	"github.com/sandeepkv93/cadence/internal/ledger"
	"github.com/sandeepkv93/cadence/internal/logging"
	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/planner"
	"github.com/sandeepkv93/cadence/internal/reminders"
	"github.com/sandeepkv93/cadence/internal/scheduler"
	"github.com/sandeepkv93/cadence/internal/storage"
)

type app struct {
	cfg      config.RuntimeConfig
	store    *storage.SQLiteRepository
	registry *prometheus.Registry
	metrics  *metrics.Manager
	engine   *scheduler.Engine
	triggers *reminders.TriggerScheduler
	service  *planner.Service
}

type appOptions struct {
	// withTimers starts an in-process timer engine so reminder changes are armed.
	withTimers bool
	// quietStdout keeps logs off the terminal, for the TUI.
	quietStdout bool
}

func loadConfig() (config.RuntimeConfig, error) {
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	cfg = config.FromEnv(cfg)
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func openApp(opts appOptions) (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout && !opts.quietStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
	}

	a := &app{
		cfg:      cfg,
		store:    store,
		registry: prometheus.NewRegistry(),
	}
	a.metrics = metrics.NewManager("cadence", "planner", a.registry)

	if opts.withTimers {
		a.engine = scheduler.NewEngine(cfg.SchedulerBuffer)
		a.engine.Start()
		a.triggers = reminders.NewTriggerScheduler(store, a.engine, a.metrics)
	}
	a.service = planner.NewService(store, a.triggers, ledger.New(store, a.metrics), analytics.New(store))

	logrus.WithFields(logrus.Fields{"db": cfg.DBPath, "timers": opts.withTimers}).Debug("app opened")

	cleanup := func() {
		if a.engine != nil {
			a.engine.Stop()
		}
		_ = store.Close()
	}
	return a, cleanup, nil
}

// withService opens the app without timers, for one-shot commands.
func withService(fn func(ctx context.Context, svc *planner.Service) error) error {
	a, cleanup, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(context.Background(), a.service)
}

// resolvePlan accepts a plan id, a unique id prefix or a case-insensitive name.
func resolvePlan(ctx context.Context, svc *planner.Service, ref string) (model.Plan, error) {
	plans, err := svc.ListPlans(ctx)
	if err != nil {
		return model.Plan{}, err
	}
	ref = strings.TrimSpace(ref)
	var matches []model.Plan
	for _, p := range plans {
		if p.ID == ref {
			return p, nil
		}
		if strings.EqualFold(p.Name, ref) || strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return model.Plan{}, fmt.Errorf("%w: plan %q", storage.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return model.Plan{}, fmt.Errorf("plan %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveTask accepts a task id or a unique id prefix.
func resolveTask(ctx context.Context, svc *planner.Service, ref string) (model.PlanTask, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.PlanTask{}, fmt.Errorf("%w: empty task id", storage.ErrNotFound)
	}
	tasks, err := svc.ListTasks(ctx, "", "")
	if err != nil {
		return model.PlanTask{}, err
	}
	var matches []model.PlanTask
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.PlanTask{}, fmt.Errorf("%w: task %q", storage.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return model.PlanTask{}, fmt.Errorf("task %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package root

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/metrics"
	"github.com/sandeepkv93/cadence/internal/reminders"
)

func reminderNotifier(desktop bool, extra ...reminders.Notifier) reminders.Notifier {
	out := reminders.MultiNotifier{reminders.LogNotifier{}}
	if desktop {
		out = append(out, reminders.DesktopNotifier{})
	}
	return append(out, extra...)
}

func newDaemonCmd() *cobra.Command {
	var metricsAddr string
	var desktop bool
	var resyncEvery time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder loop; SIGHUP re-reads tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(appOptions{withTimers: true})
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.MetricsAddr = metricsAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := reminders.NewDispatcher(a.store, a.triggers, reminderNotifier(desktop || a.cfg.DesktopNotifications), a.metrics)
			n, err := d.OnRestart(ctx)
			if err != nil {
				logrus.WithError(err).Warn("some reminders could not be armed")
			}
			logrus.WithField("armed", n).Info("reminder daemon started")

			var srv *http.Server
			if a.cfg.MetricsAddr != "" {
				a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				srv = &http.Server{
					Addr: a.cfg.MetricsAddr,
					Handler: metrics.NewRouter(a.registry, func() error {
						pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
						defer cancel()
						return a.store.Ping(pingCtx)
					}),
					ReadTimeout:  15 * time.Second,
					WriteTimeout: 15 * time.Second,
				}
				go func() {
					logrus.Infof(" > metrics listening on: [%s]", a.cfg.MetricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logrus.WithError(err).Error("metrics server failed")
					}
				}()
			}

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go resyncLoop(ctx, a.triggers, hup, resyncEvery)

			err = d.Run(ctx, a.engine.C())

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logrus.WithError(err).Error("failed to gracefully shutdown metrics server")
				}
			}
			logrus.WithField("dropped", a.engine.Dropped()).Warn("reminder daemon stopped")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address")
	cmd.Flags().BoolVar(&desktop, "desktop", false, "Also raise desktop notifications")
	cmd.Flags().DurationVar(&resyncEvery, "resync", 5*time.Minute, "Re-read tasks at this interval (0 disables)")
	return cmd
}

// resyncLoop re-arms every trigger from the store on SIGHUP and on each tick,
// picking up edits made by other processes.
func resyncLoop(ctx context.Context, triggers *reminders.TriggerScheduler, hup <-chan os.Signal, every time.Duration) {
	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logrus.Info("SIGHUP received, resyncing reminders")
		case <-tick:
		}
		n, err := triggers.Resync(ctx)
		if err != nil {
			logrus.WithError(err).Warn("resync incomplete")
		}
		logrus.WithField("armed", n).Debug("reminders resynced")
	}
}

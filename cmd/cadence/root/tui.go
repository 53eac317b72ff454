package root

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/reminders"
	"github.com/sandeepkv93/cadence/internal/update"
	"github.com/sandeepkv93/cadence/internal/worker"
)

func newTUICmd() *cobra.Command {
	var desktop bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive planner with live reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(appOptions{withTimers: true, quietStdout: true})
			if err != nil {
				return err
			}
			defer cleanup()

			queue := worker.New(a.cfg.SchedulerBuffer)
			defer queue.Close()

			alerts := reminders.NewChannelNotifier(16)
			d := reminders.NewDispatcher(a.store, a.triggers, reminderNotifier(desktop || a.cfg.DesktopNotifications, alerts), a.metrics)

			ctx, cancel := context.WithCancel(context.Background())
			if _, err := d.OnRestart(ctx); err != nil {
				logrus.WithError(err).Warn("some reminders could not be armed")
			}
			runDone := make(chan struct{})
			go func() {
				defer close(runDone)
				_ = d.Run(ctx, a.engine.C())
			}()
			defer func() {
				cancel()
				<-runDone
			}()

			program := tea.NewProgram(update.NewModel(update.Options{
				Backend:   a.service,
				Queue:     queue,
				Reminders: alerts.C(),
			}), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&desktop, "desktop", false, "Also raise desktop notifications")
	return cmd
}

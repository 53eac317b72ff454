package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	configPath string
	dbPath     string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cadence",
		Short:         "Weekly plans with reminders, a completion ledger and progress stats",
		Long:          "cadence keeps recurring weekly plans in a local SQLite file, reminds you before tasks start and reports streaks, rates and progressive-overload suggestions.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")

	cmd.AddCommand(
		newPlanCmd(),
		newTaskCmd(),
		newDoneCmd(),
		newUndoCmd(),
		newTodayCmd(),
		newStatsCmd(),
		newSuggestCmd(),
		newResetCmd(),
		newDaemonCmd(),
		newTUICmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/planner"
)

func newDoneCmd() *cobra.Command {
	return newCompletionCmd("done", "Mark a task completed for a day (default today)", true)
}

func newUndoCmd() *cobra.Command {
	return newCompletionCmd("undo", "Clear a task's completion for a day (default today)", false)
}

func newCompletionCmd(use, short string, completed bool) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   use + " <task>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				task, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				res, err := svc.SetCompletion(ctx, task.ID, date, completed)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !completed {
					fmt.Fprintf(out, "cleared %q\n", res.Task.Name)
					return nil
				}
				day := date
				if res.Record != nil {
					day = res.Record.Date
				}
				fmt.Fprintf(out, "completed %q on %s\n", res.Task.Name, day)
				if res.Sample != nil {
					fmt.Fprintf(out, "logged %s: %.1f x %d x %d\n", res.Sample.ExerciseName, res.Sample.Weight, res.Sample.Sets, res.Sample.Reps)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD")
	return cmd
}

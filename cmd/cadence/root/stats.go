package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/planner"
	"github.com/sandeepkv93/cadence/internal/update"
	"github.com/sandeepkv93/cadence/internal/views"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's tasks across all plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				today, err := svc.Today(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderTodayPanel(update.TodayData(today, -1)))
				return nil
			})
		},
	}
}

func newStatsCmd() *cobra.Command {
	var raw bool
	var planName string
	var weeks int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Weekly completion report with streak and per-plan rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				if planName != "" || weeks > 0 {
					return printRate(ctx, cmd, svc, planName, weeks)
				}
				report, err := svc.WeeklyReport(ctx)
				if err != nil {
					return err
				}
				md := views.StatsMarkdown(update.StatsData(report))
				if !raw {
					md = views.RenderMarkdown(md)
				}
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "markdown", false, "Print plain markdown")
	cmd.Flags().StringVarP(&planName, "plan", "p", "", "Only report the completion rate of this plan")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Report the rate over the trailing N weeks instead of this week")
	return cmd
}

// printRate reports a single ledger rate. Plans are matched by the name stored
// in each record, so a plan counts under the name it had when completed.
func printRate(ctx context.Context, cmd *cobra.Command, svc *planner.Service, planName string, weeks int) error {
	now := time.Now()
	r := model.WeekOf(now)
	if weeks > 0 {
		r = model.WeeksBack(now, weeks)
	}
	name := planName
	if planName != "" {
		if plan, err := resolvePlan(ctx, svc, planName); err == nil {
			name = plan.Name
		}
	}
	rate, err := svc.GetRate(ctx, r, name)
	if err != nil {
		return err
	}
	streak, err := svc.GetStreak(ctx)
	if err != nil {
		return err
	}
	label := "all plans"
	if name != "" {
		label = name
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s..%s: %d/%d (%.0f%%), streak %d\n", label, r.Start, r.End, rate.Completed, rate.Total, rate.Percent, streak)
	return nil
}

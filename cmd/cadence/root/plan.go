package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/planner"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create, list, rename and delete weekly plans",
	}
	cmd.AddCommand(newPlanAddCmd(), newPlanListCmd(), newPlanRenameCmd(), newPlanDeleteCmd())
	return cmd
}

func newPlanAddCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a plan",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("plan name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := model.ParseCategory(category)
			if err != nil {
				return err
			}
			return withService(func(ctx context.Context, svc *planner.Service) error {
				plan, err := svc.CreatePlan(ctx, strings.Join(args, " "), cat)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created plan %s %q (%s)\n", shortID(plan.ID), plan.Name, plan.Category)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "custom", "Category (workout|chores|study|custom)")
	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans with their current-cycle progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				plans, err := svc.ListPlans(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(plans) == 0 {
					fmt.Fprintln(out, "no plans yet")
					return nil
				}
				for _, p := range plans {
					progress, err := svc.PlanProgress(ctx, p.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s  %-24s %-8s %d/%d (%.0f%%)\n", shortID(p.ID), p.Name, p.Category,
						progress.Completed, progress.Total, progress.Percent)
				}
				return nil
			})
		},
	}
}

func newPlanRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <plan> <new name>",
		Short: "Rename a plan. Past completion records keep the old name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				plan, err := resolvePlan(ctx, svc, args[0])
				if err != nil {
					return err
				}
				renamed, err := svc.RenamePlan(ctx, plan.ID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed %q to %q\n", plan.Name, renamed.Name)
				return nil
			})
		},
	}
}

func newPlanDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan>",
		Short: "Delete a plan with its tasks and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				plan, err := resolvePlan(ctx, svc, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeletePlan(ctx, plan.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted plan %q\n", plan.Name)
				return nil
			})
		},
	}
}

package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/planner"
)

func newResetCmd() *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "reset-week",
		Short: "Clear current-cycle completion flags. History is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				planID, label := "", "all plans"
				if planRef != "" {
					plan, err := resolvePlan(ctx, svc, planRef)
					if err != nil {
						return err
					}
					planID, label = plan.ID, fmt.Sprintf("%q", plan.Name)
				}
				n, err := svc.ResetCycle(ctx, planID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %d task(s) in %s\n", n, label)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&planRef, "plan", "p", "", "Only reset this plan")
	return cmd
}

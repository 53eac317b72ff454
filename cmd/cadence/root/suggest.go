package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/planner"
	"github.com/sandeepkv93/cadence/internal/update"
	"github.com/sandeepkv93/cadence/internal/views"
)

func newSuggestCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "suggest [exercise]",
		Short: "Progressive-overload suggestion for an exercise, or list logged exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					names, err := svc.ExerciseNames(ctx)
					if err != nil {
						return err
					}
					if len(names) == 0 {
						fmt.Fprintln(out, "no workout history yet")
					}
					for _, n := range names {
						fmt.Fprintln(out, n)
					}
					return nil
				}

				exercise := strings.Join(args, " ")
				s, err := svc.GetSuggestion(ctx, exercise)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, views.RenderMarkdown(views.SuggestionMarkdown(update.SuggestionData(s))))

				if history {
					samples, err := svc.ExerciseHistory(ctx, exercise)
					if err != nil {
						return err
					}
					for _, smp := range samples {
						fmt.Fprintf(out, "%s  %.1f x %d x %d\n", smp.Date, smp.Weight, smp.Sets, smp.Reps)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Also print the samples in the window")
	return cmd
}

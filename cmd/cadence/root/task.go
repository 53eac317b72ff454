package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/planner"
)

const reminderLayout = "Mon 2006-01-02 15:04"

type taskFlags struct {
	day       string
	category  string
	sets      int
	reps      int
	intensity string
	start     string
	duration  int
	notes     string
	remind    bool
	order     int
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.day, "day", "", "Weekday (Monday..Sunday, or a 3-letter prefix)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category (defaults to the plan's)")
	cmd.Flags().IntVar(&f.sets, "sets", 0, "Sets (workouts)")
	cmd.Flags().IntVar(&f.reps, "reps", 0, "Reps (workouts)")
	cmd.Flags().StringVar(&f.intensity, "intensity", "", "Intensity, e.g. 42.5kg")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time HH:mm (default 08:00)")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "Duration in minutes (default 30)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVar(&f.remind, "remind", false, "Remind 10 minutes before start")
	cmd.Flags().IntVar(&f.order, "order", 0, "Position within the day")
}

// apply overlays the flags the user set onto in.
func (f *taskFlags) apply(cmd *cobra.Command, in *planner.TaskInput) error {
	changed := cmd.Flags().Changed
	if changed("day") {
		day, err := model.ParseWeekday(f.day)
		if err != nil {
			return err
		}
		in.Day = day
	}
	if changed("category") {
		cat, err := model.ParseCategory(f.category)
		if err != nil {
			return err
		}
		in.Category = cat
	}
	if changed("sets") {
		in.Sets = f.sets
	}
	if changed("reps") {
		in.Reps = f.reps
	}
	if changed("intensity") {
		in.Intensity = f.intensity
	}
	if changed("start") {
		in.StartTime = f.start
	}
	if changed("duration") {
		in.DurationMinutes = f.duration
	}
	if changed("notes") {
		in.Notes = f.notes
	}
	if changed("remind") {
		in.ReminderEnabled = f.remind
	}
	if changed("order") {
		in.OrderIndex = f.order
	}
	return nil
}

func inputFromTask(t model.PlanTask) planner.TaskInput {
	return planner.TaskInput{
		Day:             t.Day,
		Name:            t.Name,
		Category:        t.Category,
		Sets:            t.Sets,
		Reps:            t.Reps,
		Intensity:       t.Intensity,
		StartTime:       t.StartTime,
		DurationMinutes: t.DurationMinutes,
		Notes:           t.Notes,
		ReminderEnabled: t.ReminderEnabled,
		OrderIndex:      t.OrderIndex,
	}
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the weekday tasks of a plan",
	}
	cmd.AddCommand(newTaskAddCmd(), newTaskEditCmd(), newTaskDeleteCmd(), newTaskListCmd(), newTaskRemindCmd(), newTaskNextCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var flags taskFlags
	var planRef string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task to a plan",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("task name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("day") {
				return errors.New("--day is required")
			}
			in := planner.TaskInput{Name: strings.Join(args, " ")}
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}
			return withService(func(ctx context.Context, svc *planner.Service) error {
				plan, err := resolvePlan(ctx, svc, planRef)
				if err != nil {
					return err
				}
				task, err := svc.AddTask(ctx, plan.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %q on %s at %s to %q\n", shortID(task.ID), task.Name, task.Day, task.StartTime, plan.Name)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&planRef, "plan", "p", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var flags taskFlags
	var name string

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change fields of a task; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				task, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				in := inputFromTask(task)
				if cmd.Flags().Changed("name") {
					in.Name = name
				}
				if err := flags.apply(cmd, &in); err != nil {
					return err
				}
				updated, err := svc.EditTask(ctx, task.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q\n", shortID(updated.ID), updated.Name)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "New task name")
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task>",
		Short: "Delete a task and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				task, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteTask(ctx, task.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", task.Name)
				return nil
			})
		},
	}
}

func newTaskListCmd() *cobra.Command {
	var planRef, day string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally for one plan or weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var wd model.Weekday
			if day != "" {
				parsed, err := model.ParseWeekday(day)
				if err != nil {
					return err
				}
				wd = parsed
			}
			return withService(func(ctx context.Context, svc *planner.Service) error {
				planID := ""
				if planRef != "" {
					plan, err := resolvePlan(ctx, svc, planRef)
					if err != nil {
						return err
					}
					planID = plan.ID
				}
				tasks, err := svc.ListTasks(ctx, planID, wd)
				if err != nil {
					return err
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&planRef, "plan", "p", "", "Plan id or name")
	cmd.Flags().StringVar(&day, "day", "", "Weekday")
	return cmd
}

func printTasks(out io.Writer, tasks []model.PlanTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		bell := ""
		if t.ReminderEnabled {
			bell = " (remind)"
		}
		line := fmt.Sprintf("%s %s %-3s %s %s%s", shortID(t.ID), box, t.Day.Short(), t.StartTime, t.Name, bell)
		if t.IsWorkout() && (t.Sets > 0 || t.Reps > 0) {
			line += fmt.Sprintf("  %dx%d", t.Sets, t.Reps)
			if t.Intensity != "" {
				line += " @ " + t.Intensity
			}
		}
		fmt.Fprintln(out, line)
	}
}

func newTaskRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <task> on|off",
		Short: "Turn a task's reminder on or off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[1]) {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[1])
			}
			return withService(func(ctx context.Context, svc *planner.Service) error {
				task, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				if _, err := svc.SetReminder(ctx, task.ID, enabled); err != nil {
					return err
				}
				state := "off"
				if enabled {
					next := model.NextTrigger(task, time.Now())
					state = "on, next " + next.At.Format(reminderLayout)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminder %s for %q\n", state, task.Name)
				return nil
			})
		},
	}
}

func newTaskNextCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next <task>",
		Short: "Preview the upcoming reminder instants of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *planner.Service) error {
				task, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !task.ReminderEnabled {
					fmt.Fprintf(out, "reminder is off for %q\n", task.Name)
				}
				for _, at := range model.Preview(task, time.Now(), count) {
					fmt.Fprintln(out, at.Format(reminderLayout))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 4, "Number of instants")
	return cmd
}

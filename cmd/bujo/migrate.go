package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "plan <monthly-id> [date]",
		Short:   "Plan a monthly or future task onto a day of its month",
		GroupID: "migrate",
		Args:    cobra.RangeArgs(1, 2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(optArg(args, 1), a.engine.Today())
			if err != nil {
				return err
			}
			anchor, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}
			e, err := a.engine.PlanToDay(ctx, a.userID(), anchor.ID, day)
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			r.Entry(e)
			days, err := a.engine.AssignedDays(ctx, a.userID(), anchor.ID)
			if err != nil {
				return err
			}
			r.Days(days)
			return nil
		}),
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate <id> <date>",
		Short:   "Move a daily task to another day",
		GroupID: "migrate",
		Long: `Move a daily task to another day. The days it leaves keep a migrated (>)
record. A day in another month moves the task to that month's log.`,
		Args: cobra.ExactArgs(2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(args[1], a.engine.Today())
			if err != nil {
				return err
			}
			src, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}
			e, err := a.engine.MigrateEntry(ctx, a.userID(), src.ID, day)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(e)
			return nil
		}),
	}
}

func newMigrateMonthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate-month <id> <YYYY-MM>",
		Short:   "Move a task to the monthly log of a later month",
		GroupID: "migrate",
		Args:    cobra.ExactArgs(2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, err := parseMonth(args[1], a.engine.Today())
			if err != nil {
				return err
			}
			src, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}
			e, err := a.engine.MigrateToMonth(ctx, a.userID(), src.ID, month)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(e)
			return nil
		}),
	}
}

func newMigrateAllCmd(a *app) *cobra.Command {
	var before, to string
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "migrate-all",
		Short:   "Carry every open daily task from earlier days forward",
		GroupID: "migrate",
		Args:    cobra.NoArgs,
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			today := a.engine.Today()
			beforeDay, err := parseDay(before, today)
			if err != nil {
				return err
			}
			toDay, err := parseDay(to, today)
			if err != nil {
				return err
			}

			if dryRun {
				pending, err := a.engine.IncompleteBefore(ctx, a.userID(), beforeDay)
				if err != nil {
					return err
				}
				r := a.renderer(cmd.OutOrStdout())
				r.Header("Open before %s", beforeDay)
				r.Entries(pending, nil)
				return nil
			}

			n, err := a.engine.MigrateAllIncomplete(ctx, a.userID(), beforeDay, toDay)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tasks to %s.\n", n, toDay)
			return nil
		}),
	}

	cmd.Flags().StringVar(&before, "before", "", "move tasks dated before this day (default today)")
	cmd.Flags().StringVar(&to, "to", "", "target day (default today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the tasks that would move")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/rapidlog"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		logType   string
		date      string
		entryType string
		anchor    string
	)

	cmd := &cobra.Command{
		Use:     "add <text...>",
		Short:   "Log a task, event or note",
		GroupID: "log",
		Long: `Add an entry using rapid-log notation: "- " starts a note, "* " an event,
anything else is a task. #hashtags become tags.

A daily task is linked to this month's log automatically. Use --anchor to
plan it from an existing monthly or future task instead.`,
		Example: `  bujo add Call the plumber #home
  bujo add "* Team offsite" --date 2024-03-14
  bujo add -- "- Gate B12"
  bujo add Renew passport --log future --date 2024-07`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			item := rapidlog.Parse(strings.Join(args, " "))
			if entryType != "" {
				item.Type = model.EntryType(entryType)
			}

			p := lifecycle.CreateParams{
				Type:    item.Type,
				Content: item.Content,
				LogType: model.LogType(logType),
				Tags:    item.Tags,
			}

			var err error
			if p.LogType == model.LogTypeMonthly || p.LogType == model.LogTypeFuture {
				p.Date, err = parseMonth(date, a.engine.Today())
			} else {
				p.Date, err = parseDay(date, a.engine.Today())
			}
			if err != nil {
				return err
			}

			if anchor != "" {
				ref, err := a.engine.Resolve(ctx, a.userID(), anchor)
				if err != nil {
					return err
				}
				p.AnchorID = ref.ID
			}

			e, err := a.engine.Create(ctx, a.userID(), p)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(e)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&logType, "log", "l", string(model.LogTypeDaily), "log: daily, monthly or future")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day, or month for monthly and future entries (default today)")
	cmd.Flags().StringVarP(&entryType, "type", "t", "", "override the bullet type: task, event or note")
	cmd.Flags().StringVar(&anchor, "anchor", "", "monthly or future task to plan this daily task from")
	return cmd
}

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "day [date]",
		Aliases: []string{"today"},
		Short:   "Show the daily log of a day",
		GroupID: "views",
		Args:    cobra.MaximumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(optArg(args, 0), a.engine.Today())
			if err != nil {
				return err
			}
			entries, err := a.engine.EntriesForDate(ctx, a.userID(), day)
			if err != nil {
				return err
			}
			res, err := a.resolutionsFor(ctx, entries)
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			r.Header("%s", day.Time().Format("Monday, January 2 2006"))
			r.Entries(entries, res)
			return nil
		}),
	}
}

func newMonthCmd(a *app) *cobra.Command {
	var withDays bool

	cmd := &cobra.Command{
		Use:     "month [YYYY-MM]",
		Short:   "Show the monthly log",
		GroupID: "views",
		Args:    cobra.MaximumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, err := parseMonth(optArg(args, 0), a.engine.Today())
			if err != nil {
				return err
			}
			monthly, err := a.engine.MonthlyEntries(ctx, a.userID(), month)
			if err != nil {
				return err
			}
			res, err := a.resolutionsFor(ctx, monthly)
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			r.Header("%s", month.Time().Format("January 2006"))
			r.Entries(monthly, res)
			if !withDays {
				return nil
			}

			daily, err := a.engine.EntriesForMonth(ctx, a.userID(), month)
			if err != nil {
				return err
			}
			res, err = a.resolutionsFor(ctx, daily)
			if err != nil {
				return err
			}
			r.Header("Daily log")
			r.Entries(daily, res)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&withDays, "days", false, "also list the month's daily entries")
	return cmd
}

func newFutureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "future [YYYY-MM]",
		Short:   "Show the future log from a month on",
		GroupID: "views",
		Args:    cobra.MaximumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			from, err := parseMonth(optArg(args, 0), a.engine.Today())
			if err != nil {
				return err
			}
			entries, err := a.engine.FutureEntries(cmd.Context(), a.userID(), from)
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			r.Header("Future log from %s", from.Time().Format("January 2006"))
			r.Entries(entries, nil)
			return nil
		}),
	}
}

func newUnassignedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "unassigned [YYYY-MM]",
		Short:   "List open monthly tasks not planned onto any day",
		GroupID: "views",
		Args:    cobra.MaximumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(optArg(args, 0), a.engine.Today())
			if err != nil {
				return err
			}
			entries, err := a.engine.UnassignedAnchors(cmd.Context(), a.userID(), month)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entries(entries, nil)
			return nil
		}),
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "history <id>",
		Short:   "Show every row of a task across logs and months",
		GroupID: "views",
		Args:    cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}
			rows, err := a.engine.ChainHistory(ctx, a.userID(), e.ChainID)
			if err != nil {
				return err
			}
			res, err := a.engine.ChainResolutions(ctx, a.userID(), []string{e.ChainID})
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			r.Header("%s", e.Content)
			r.Entries(rows, res)
			if e.Kind() == model.KindAnchor && e.Type == model.EntryTypeTask {
				days, err := a.engine.AssignedDays(ctx, a.userID(), e.ID)
				if err != nil {
					return err
				}
				r.Days(days)
			}
			return nil
		}),
	}
}

// transition picks the engine operation a status command applies.
type transition func(*lifecycle.Engine) func(ctx context.Context, userID, id string) (*model.Entry, error)

// statusCmd builds done and cancel, which differ only in the transition.
func statusCmd(a *app, use, short string, apply transition) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <id>...",
		Short:   short,
		GroupID: "log",
		Args:    cobra.MinimumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := a.renderer(cmd.OutOrStdout())
			for _, ref := range args {
				e, err := a.engine.Resolve(ctx, a.userID(), ref)
				if err != nil {
					return err
				}
				updated, err := apply(a.engine)(ctx, a.userID(), e.ID)
				if err != nil {
					return fmt.Errorf("%s %s: %w", use, ref, err)
				}
				r.Entry(updated)
			}
			return nil
		}),
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return statusCmd(a, "done", "Complete entries everywhere they appear this month",
		func(e *lifecycle.Engine) func(context.Context, string, string) (*model.Entry, error) { return e.Complete })
}

func newCancelCmd(a *app) *cobra.Command {
	return statusCmd(a, "cancel", "Cancel entries everywhere they appear this month",
		func(e *lifecycle.Engine) func(context.Context, string, string) (*model.Entry, error) { return e.Cancel })
}

func newEditCmd(a *app) *cobra.Command {
	var entryType string

	cmd := &cobra.Command{
		Use:     "edit <id> [text...]",
		Short:   "Change the text or bullet type of an entry",
		GroupID: "log",
		Long:    `Edit an entry. Linked rows in the same month follow; migrated history keeps its old text.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var ed lifecycle.Edit
			if len(args) > 1 {
				content := strings.Join(args[1:], " ")
				ed.Content = &content
			}
			if entryType != "" {
				t := model.EntryType(entryType)
				ed.Type = &t
			}
			if ed.Content == nil && ed.Type == nil {
				return fmt.Errorf("%w: nothing to change; give new text or --type", model.ErrInvalidInput)
			}

			e, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}
			updated, err := a.engine.UpdateWithSync(ctx, a.userID(), e.ID, ed)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(updated)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&entryType, "type", "t", "", "new bullet type: task, event or note")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var chain, yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete an entry, or with --chain every row of its task",
		GroupID: "log",
		Long: `Delete a single entry. A task row that other rows depend on cannot be
removed alone; use --chain to delete the task from every log and month,
history included.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.engine.Resolve(ctx, a.userID(), args[0])
			if err != nil {
				return err
			}

			if !chain {
				if err := a.engine.Delete(ctx, a.userID(), e.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", e.Content)
				return nil
			}

			if !yes {
				confirmed, err := confirm(fmt.Sprintf("Delete %q everywhere?", e.Content),
					"Every daily, monthly and future row of this task goes, history included.")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
					return nil
				}
			}

			n, err := a.engine.DeleteChain(ctx, a.userID(), e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d rows).\n", e.Content, n)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&chain, "chain", false, "delete every row of the task across all logs")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func optArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

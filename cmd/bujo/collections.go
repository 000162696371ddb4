package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/collections"
	"github.com/nhle/bujo/internal/model"
)

// findCollection resolves a collection by id prefix or name. "meetings" and
// "ideas" name the built-in collections, which are created on first use.
func (a *app) findCollection(ctx context.Context, ref string) (*model.Collection, error) {
	if t := model.CollectionType(strings.ToLower(ref)); t.Singleton() {
		return a.coll.ByType(ctx, a.userID(), t)
	}
	cs, err := a.coll.List(ctx, a.userID())
	if err != nil {
		return nil, err
	}
	c, err := matchRef("collection", ref, cs,
		func(c model.Collection) string { return c.ID },
		func(c model.Collection) string { return c.Name })
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// findNote resolves a meeting note of the meetings collection by id prefix
// or title.
func (a *app) findNote(ctx context.Context, ref string) (*model.MeetingNote, error) {
	meetings, err := a.coll.ByType(ctx, a.userID(), model.CollectionTypeMeetings)
	if err != nil {
		return nil, err
	}
	notes, err := a.coll.Notes(ctx, a.userID(), meetings.ID)
	if err != nil {
		return nil, err
	}
	n, err := matchRef("meeting note", ref, notes,
		func(n model.MeetingNote) string { return n.ID },
		func(n model.MeetingNote) string { return n.Title })
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func confirm(title, description string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Delete").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

func newCollectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Manage collections",
		GroupID: "more",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			cs, err := a.coll.List(cmd.Context(), a.userID())
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Collections(cs)
			return nil
		}),
	}

	var colType, icon string
	create := &cobra.Command{
		Use:   "create <name...>",
		Short: "Create a collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			t := model.CollectionType(colType)
			if icon == "" {
				icon = model.DefaultCollectionIcon
				if b, ok := model.BuiltinCollections[t]; ok {
					icon = b.Icon
				}
			}
			c, err := a.coll.Create(cmd.Context(), a.userID(), collections.CreateParams{
				Name: strings.Join(args, " "),
				Type: t,
				Icon: icon,
			})
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Collections([]model.Collection{*c})
			return nil
		}),
	}
	create.Flags().StringVar(&colType, "type", string(model.CollectionTypeCustom), "custom, meetings or ideas")
	create.Flags().StringVar(&icon, "icon", "", "icon shown next to the name")

	var newIcon string
	rename := &cobra.Command{
		Use:   "rename <collection> <name...>",
		Short: "Rename a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.findCollection(ctx, args[0])
			if err != nil {
				return err
			}
			u := collections.Update{}
			name := strings.Join(args[1:], " ")
			u.Name = &name
			if cmd.Flags().Changed("icon") {
				u.Icon = &newIcon
			}
			c, err = a.coll.Update(ctx, a.userID(), c.ID, u)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Collections([]model.Collection{*c})
			return nil
		}),
	}
	rename.Flags().StringVar(&newIcon, "icon", "", "new icon")

	var yes bool
	rm := &cobra.Command{
		Use:   "rm <collection>",
		Short: "Delete a collection with its entries and meeting notes",
		Args:  cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.findCollection(ctx, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete collection %q?", c.Name),
					"Its entries, meeting notes and every task linked to them are removed.")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
					return nil
				}
			}
			if err := a.coll.Delete(ctx, a.userID(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted collection %q.\n", c.Name)
			return nil
		}),
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	show := &cobra.Command{
		Use:   "show <collection>",
		Short: "List the entries of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.findCollection(ctx, args[0])
			if err != nil {
				return err
			}
			entries, err := a.coll.Entries(ctx, a.userID(), c.ID)
			if err != nil {
				return err
			}
			r := a.renderer(cmd.OutOrStdout())
			r.Header("%s", strings.TrimSpace(c.Icon+" "+c.Name))
			r.Entries(entries, nil)
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add <collection> <text...>",
		Short: "Add a rapid-log line to a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.findCollection(ctx, args[0])
			if err != nil {
				return err
			}
			e, err := a.coll.AddEntry(ctx, a.userID(), c.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(e)
			return nil
		}),
	}

	cmd.AddCommand(list, create, rename, rm, show, add)
	return cmd
}

func newMeetingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"mtg"},
		Short:   "Record meeting notes and their action items",
		GroupID: "more",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List meeting notes, newest first",
		Args:  cobra.NoArgs,
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			meetings, err := a.coll.ByType(ctx, a.userID(), model.CollectionTypeMeetings)
			if err != nil {
				return err
			}
			notes, err := a.coll.Notes(ctx, a.userID(), meetings.ID)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).MeetingNotes(notes)
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <note>",
		Short: "Show a meeting note with its action items",
		Args:  cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := a.findNote(ctx, args[0])
			if err != nil {
				return err
			}
			items, err := a.coll.ActionItems(ctx, a.userID(), n.ID)
			if err != nil {
				return err
			}
			r := a.renderer(cmd.OutOrStdout())
			r.MeetingNote(n)
			r.Header("Action items")
			r.Entries(items, nil)
			return nil
		}),
	}

	var (
		date      string
		attendees []string
		agenda    string
		notes     string
	)

	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Record a meeting",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(date, a.engine.Today())
			if err != nil {
				return err
			}
			meetings, err := a.coll.ByType(ctx, a.userID(), model.CollectionTypeMeetings)
			if err != nil {
				return err
			}
			n, err := a.coll.CreateNote(ctx, a.userID(), collections.NoteParams{
				CollectionID: meetings.ID,
				Date:         day,
				Title:        strings.Join(args, " "),
				Attendees:    attendees,
				Agenda:       agenda,
				Notes:        notes,
			})
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).MeetingNotes([]model.MeetingNote{*n})
			return nil
		}),
	}
	addFlags := add.Flags()
	addFlags.StringVarP(&date, "date", "d", "", "meeting day (default today)")
	addFlags.StringSliceVarP(&attendees, "attendees", "a", nil, "comma-separated attendees")
	addFlags.StringVar(&agenda, "agenda", "", "agenda")
	addFlags.StringVar(&notes, "notes", "", "notes")

	var title string
	edit := &cobra.Command{
		Use:   "edit <note>",
		Short: "Change a meeting note",
		Args:  cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := a.findNote(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var u collections.NoteUpdate
			if flags.Changed("date") {
				day, err := parseDay(date, a.engine.Today())
				if err != nil {
					return err
				}
				u.Date = &day
			}
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("attendees") {
				u.Attendees = attendees
			}
			if flags.Changed("agenda") {
				u.Agenda = &agenda
			}
			if flags.Changed("notes") {
				u.Notes = &notes
			}

			n, err = a.coll.UpdateNote(ctx, a.userID(), n.ID, u)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).MeetingNote(n)
			return nil
		}),
	}
	editFlags := edit.Flags()
	editFlags.StringVarP(&date, "date", "d", "", "meeting day")
	editFlags.StringVar(&title, "title", "", "title")
	editFlags.StringSliceVarP(&attendees, "attendees", "a", nil, "comma-separated attendees")
	editFlags.StringVar(&agenda, "agenda", "", "agenda")
	editFlags.StringVar(&notes, "notes", "", "notes")

	rm := &cobra.Command{
		Use:   "rm <note>",
		Short: "Delete a meeting note; its action items stay in the journal",
		Args:  cobra.ExactArgs(1),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := a.findNote(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.coll.DeleteNote(ctx, a.userID(), n.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meeting note %q.\n", n.Title)
			return nil
		}),
	}

	action := &cobra.Command{
		Use:   "action <note> <text...>",
		Short: "Raise a task from a meeting into this month's log",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := a.findNote(ctx, args[0])
			if err != nil {
				return err
			}
			e, err := a.coll.AddActionItem(ctx, a.userID(), n.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Entry(e)
			return nil
		}),
	}

	cmd.AddCommand(list, show, add, edit, rm, action)
	return cmd
}

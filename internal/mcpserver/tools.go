// Package mcpserver exposes the journal over the Model Context Protocol so
// assistants can log, plan and migrate entries on behalf of one user.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// List views accepted by list_entries.
const (
	viewDate       = "date"
	viewMonth      = "month"
	viewMonthly    = "monthly"
	viewFuture     = "future"
	viewUnassigned = "unassigned"
	viewIncomplete = "incomplete"
)

func idParam(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(desc))
}

func dateParam(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(desc+" (YYYY-MM-DD, defaults to today)"))
}

func createEntryTool() mcp.Tool {
	return mcp.NewTool("create_entry",
		mcp.WithDescription("Create a journal entry. A daily task gets a monthly anchor automatically unless anchor_id is given. #hashtags in the content become tags."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Enum("task", "event", "note"),
			mcp.Description("Bullet type")),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Entry text")),
		mcp.WithString("log_type",
			mcp.Enum("daily", "monthly", "future", "collection"),
			mcp.Description("Log the entry belongs to (defaults to daily)")),
		dateParam("date", "Day of the entry; monthly and future entries use any day of their month"),
		mcp.WithString("anchor_id",
			mcp.Description("Existing monthly or future entry a daily task is planned from")),
		mcp.WithString("collection_id",
			mcp.Description("Collection to file the entry in")),
	)
}

func listEntriesTool() mcp.Tool {
	return mcp.NewTool("list_entries",
		mcp.WithDescription("List entries. Views: date (one day), month (daily rows of a month), monthly (monthly and future rows of a month), future (future log from a month on), unassigned (open monthly tasks not planned on any day), incomplete (open daily tasks before a day)."),
		mcp.WithString("view",
			mcp.Required(),
			mcp.Enum(viewDate, viewMonth, viewMonthly, viewFuture, viewUnassigned, viewIncomplete),
			mcp.Description("Which list to return")),
		dateParam("date", "Day or any day of the month the view is about"),
	)
}

func completeEntryTool() mcp.Tool {
	return mcp.NewTool("complete_entry",
		mcp.WithDescription("Mark an entry done. The status reaches every live row of the same task in its month."),
		idParam("id", "Entry id"),
	)
}

func cancelEntryTool() mcp.Tool {
	return mcp.NewTool("cancel_entry",
		mcp.WithDescription("Cancel an entry. The status reaches every live row of the same task in its month."),
		idParam("id", "Entry id"),
	)
}

func updateEntryTool() mcp.Tool {
	return mcp.NewTool("update_entry",
		mcp.WithDescription("Change the content or type of an entry. Linked rows in the same month are updated too; migrated history is left as it was."),
		idParam("id", "Entry id"),
		mcp.WithString("content",
			mcp.Description("New text")),
		mcp.WithString("type",
			mcp.Enum("task", "event", "note"),
			mcp.Description("New bullet type")),
	)
}

func planToDayTool() mcp.Tool {
	return mcp.NewTool("plan_to_day",
		mcp.WithDescription("Plan a monthly or future task onto a day of the same month."),
		idParam("anchor_id", "Monthly or future task id"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to plan onto (YYYY-MM-DD)")),
	)
}

func migrateEntryTool() mcp.Tool {
	return mcp.NewTool("migrate_entry",
		mcp.WithDescription("Move a daily task to another day. Earlier days keep a migrated record; a day in another month moves the task to that month's log."),
		idParam("id", "Daily task id"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Target day (YYYY-MM-DD)")),
	)
}

func migrateToMonthTool() mcp.Tool {
	return mcp.NewTool("migrate_to_month",
		mcp.WithDescription("Move a task to the monthly log of a later month. Its current rows become migrated history."),
		idParam("id", "Entry id"),
		mcp.WithString("month",
			mcp.Required(),
			mcp.Description("Any day of the target month (YYYY-MM-DD)")),
	)
}

func migrateIncompleteTool() mcp.Tool {
	return mcp.NewTool("migrate_incomplete",
		mcp.WithDescription("Migrate every open daily task dated before a day to a target day. Returns how many were moved."),
		dateParam("before", "Tasks dated before this day are moved"),
		dateParam("to", "Target day"),
	)
}

func deleteChainTool() mcp.Tool {
	return mcp.NewTool("delete_chain",
		mcp.WithDescription("Permanently delete every row of a task across all logs and months, history included."),
		idParam("id", "Id of any row of the task"),
	)
}

func chainResolutionsTool() mcp.Tool {
	return mcp.NewTool("chain_resolutions",
		mcp.WithDescription("Report which tasks were eventually completed or cancelled, keyed by chain id. Unresolved chains are omitted."),
		mcp.WithArray("chain_ids",
			mcp.Required(),
			mcp.Description("Chain ids to look up"),
			mcp.WithStringItems()),
	)
}

func listCollectionsTool() mcp.Tool {
	return mcp.NewTool("list_collections",
		mcp.WithDescription("List the user's collections."),
	)
}

func addCollectionEntryTool() mcp.Tool {
	return mcp.NewTool("add_collection_entry",
		mcp.WithDescription("Add a rapid-log line to a collection. '- ' starts a note, '* ' an event, anything else is a task."),
		idParam("collection_id", "Collection id"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Rapid-log line")),
	)
}

func addActionItemTool() mcp.Tool {
	return mcp.NewTool("add_action_item",
		mcp.WithDescription("Raise a task from a meeting note. It lands in this month's log, tagged with the meeting."),
		idParam("meeting_note_id", "Meeting note id"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Task text")),
	)
}

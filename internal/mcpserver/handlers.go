package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nhle/bujo/internal/collections"
	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/rapidlog"
)

// Handlers serves the journal tools for one user. Entries created here are
// recorded as coming from an external integration.
type Handlers struct {
	engine      *lifecycle.Engine
	collections *collections.Service
	userID      string
}

// NewHandlers binds the tools to userID.
func NewHandlers(engine *lifecycle.Engine, coll *collections.Service, userID string) *Handlers {
	return &Handlers{
		engine:      engine,
		collections: coll.WithSource(model.SourceExternalIntegration),
		userID:      userID,
	}
}

// args wraps tool arguments with validating accessors.
type args map[string]any

func argsOf(request mcp.CallToolRequest) args {
	a := request.GetArguments()
	if a == nil {
		return args{}
	}
	return args(a)
}

func (a args) str(key string) string {
	s, _ := a[key].(string)
	return strings.TrimSpace(s)
}

func (a args) required(key string) (string, error) {
	s := a.str(key)
	if s == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	return s, nil
}

// id returns the UUID under key. Optional ids may be absent.
func (a args) id(key string, required bool) (string, error) {
	s := a.str(key)
	if s == "" {
		if required {
			return "", fmt.Errorf("missing required parameter: %s", key)
		}
		return "", nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid %s %q: not a UUID", key, s)
	}
	return s, nil
}

// date returns the YYYY-MM-DD date under key, or def when absent.
func (a args) date(key string, def model.Date) (model.Date, error) {
	s := a.str(key)
	if s == "" {
		if def == "" {
			return "", fmt.Errorf("missing required parameter: %s", key)
		}
		return def, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: want YYYY-MM-DD", key, s)
	}
	return d, nil
}

func argError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// engineError turns an operation failure into a tool error naming its kind.
func engineError(op string, err error) *mcp.CallToolResult {
	kind := "error"
	switch {
	case errors.Is(err, model.ErrNotFound):
		kind = "not found"
	case errors.Is(err, model.ErrReadOnly):
		kind = "read only"
	case errors.Is(err, model.ErrInvalidTransition):
		kind = "invalid transition"
	case errors.Is(err, model.ErrInvalidInput):
		kind = "invalid input"
	case errors.Is(err, model.ErrInvariantViolation):
		kind = "invariant violation"
	case errors.Is(err, model.ErrConflict):
		kind = "conflict"
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed (%s): %v", op, kind, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// HandleCreateEntry creates an entry from type, content, log_type, date,
// anchor_id and collection_id.
func (h *Handlers) HandleCreateEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	typ, err := a.required("type")
	if err != nil {
		return argError(err), nil
	}
	content, err := a.required("content")
	if err != nil {
		return argError(err), nil
	}
	logType := model.LogType(a.str("log_type"))
	if logType == "" {
		logType = model.LogTypeDaily
	}
	date, err := a.date("date", h.engine.Today())
	if err != nil {
		return argError(err), nil
	}
	if logType == model.LogTypeMonthly || logType == model.LogTypeFuture {
		date = date.FirstOfMonth()
	}
	anchorID, err := a.id("anchor_id", false)
	if err != nil {
		return argError(err), nil
	}
	collectionID, err := a.id("collection_id", false)
	if err != nil {
		return argError(err), nil
	}

	p := lifecycle.CreateParams{
		Type:     model.EntryType(typ),
		Content:  content,
		LogType:  logType,
		Date:     date,
		AnchorID: anchorID,
		Tags:     rapidlog.ExtractTags(content),
		Source:   model.SourceExternalIntegration,
	}
	if collectionID != "" {
		p.CollectionID = &collectionID
	}

	entry, err := h.engine.Create(ctx, h.userID, p)
	if err != nil {
		return engineError("create_entry", err), nil
	}
	return jsonResult(entry)
}

// HandleListEntries returns one of the list views.
func (h *Handlers) HandleListEntries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	view, err := a.required("view")
	if err != nil {
		return argError(err), nil
	}
	date, err := a.date("date", h.engine.Today())
	if err != nil {
		return argError(err), nil
	}

	var entries []model.Entry
	switch view {
	case viewDate:
		entries, err = h.engine.EntriesForDate(ctx, h.userID, date)
	case viewMonth:
		entries, err = h.engine.EntriesForMonth(ctx, h.userID, date)
	case viewMonthly:
		entries, err = h.engine.MonthlyEntries(ctx, h.userID, date)
	case viewFuture:
		entries, err = h.engine.FutureEntries(ctx, h.userID, date)
	case viewUnassigned:
		entries, err = h.engine.UnassignedAnchors(ctx, h.userID, date)
	case viewIncomplete:
		entries, err = h.engine.IncompleteBefore(ctx, h.userID, date)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown view %q", view)), nil
	}
	if err != nil {
		return engineError("list_entries", err), nil
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return jsonResult(entries)
}

// HandleCompleteEntry marks an entry done.
func (h *Handlers) HandleCompleteEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := argsOf(request).id("id", true)
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.engine.Complete(ctx, h.userID, id)
	if err != nil {
		return engineError("complete_entry", err), nil
	}
	return jsonResult(entry)
}

// HandleCancelEntry marks an entry cancelled.
func (h *Handlers) HandleCancelEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := argsOf(request).id("id", true)
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.engine.Cancel(ctx, h.userID, id)
	if err != nil {
		return engineError("cancel_entry", err), nil
	}
	return jsonResult(entry)
}

// HandleUpdateEntry edits content or type.
func (h *Handlers) HandleUpdateEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	id, err := a.id("id", true)
	if err != nil {
		return argError(err), nil
	}
	var ed lifecycle.Edit
	if _, ok := a["content"]; ok {
		content := a.str("content")
		ed.Content = &content
	}
	if typ := a.str("type"); typ != "" {
		t := model.EntryType(typ)
		ed.Type = &t
	}
	if ed.Content == nil && ed.Type == nil {
		return mcp.NewToolResultError("No update fields provided (use content or type)."), nil
	}

	entry, err := h.engine.UpdateWithSync(ctx, h.userID, id, ed)
	if err != nil {
		return engineError("update_entry", err), nil
	}
	return jsonResult(entry)
}

// HandlePlanToDay plans an anchor onto a day.
func (h *Handlers) HandlePlanToDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	anchorID, err := a.id("anchor_id", true)
	if err != nil {
		return argError(err), nil
	}
	date, err := a.date("date", "")
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.engine.PlanToDay(ctx, h.userID, anchorID, date)
	if err != nil {
		return engineError("plan_to_day", err), nil
	}
	return jsonResult(entry)
}

// HandleMigrateEntry moves a daily task to another day.
func (h *Handlers) HandleMigrateEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	id, err := a.id("id", true)
	if err != nil {
		return argError(err), nil
	}
	date, err := a.date("date", "")
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.engine.MigrateEntry(ctx, h.userID, id, date)
	if err != nil {
		return engineError("migrate_entry", err), nil
	}
	return jsonResult(entry)
}

// HandleMigrateToMonth moves a task to a later month.
func (h *Handlers) HandleMigrateToMonth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	id, err := a.id("id", true)
	if err != nil {
		return argError(err), nil
	}
	month, err := a.date("month", "")
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.engine.MigrateToMonth(ctx, h.userID, id, month)
	if err != nil {
		return engineError("migrate_to_month", err), nil
	}
	return jsonResult(entry)
}

// HandleMigrateIncomplete moves every open daily task before a day.
func (h *Handlers) HandleMigrateIncomplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)
	today := h.engine.Today()

	before, err := a.date("before", today)
	if err != nil {
		return argError(err), nil
	}
	to, err := a.date("to", today)
	if err != nil {
		return argError(err), nil
	}
	n, err := h.engine.MigrateAllIncomplete(ctx, h.userID, before, to)
	if err != nil {
		return engineError("migrate_incomplete", err), nil
	}
	return jsonResult(map[string]int{"migrated": n})
}

// HandleDeleteChain removes a whole chain.
func (h *Handlers) HandleDeleteChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := argsOf(request).id("id", true)
	if err != nil {
		return argError(err), nil
	}
	n, err := h.engine.DeleteChain(ctx, h.userID, id)
	if err != nil {
		return engineError("delete_chain", err), nil
	}
	return jsonResult(map[string]int64{"deleted": n})
}

// HandleChainResolutions reports the final status of chains.
func (h *Handlers) HandleChainResolutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := argsOf(request)["chain_ids"].([]any)
	if !ok {
		return mcp.NewToolResultError("missing required parameter: chain_ids"), nil
	}
	ids := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid chain id at index %d", i)), nil
		}
		if _, err := uuid.Parse(s); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid chain id %q: not a UUID", s)), nil
		}
		ids = append(ids, s)
	}

	res, err := h.engine.ChainResolutions(ctx, h.userID, ids)
	if err != nil {
		return engineError("chain_resolutions", err), nil
	}
	return jsonResult(res)
}

// HandleListCollections lists collections.
func (h *Handlers) HandleListCollections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cs, err := h.collections.List(ctx, h.userID)
	if err != nil {
		return engineError("list_collections", err), nil
	}
	if cs == nil {
		cs = []model.Collection{}
	}
	return jsonResult(cs)
}

// HandleAddCollectionEntry files a rapid-log line in a collection.
func (h *Handlers) HandleAddCollectionEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	collectionID, err := a.id("collection_id", true)
	if err != nil {
		return argError(err), nil
	}
	text, err := a.required("text")
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.collections.AddEntry(ctx, h.userID, collectionID, text)
	if err != nil {
		return engineError("add_collection_entry", err), nil
	}
	return jsonResult(entry)
}

// HandleAddActionItem raises a task from a meeting note.
func (h *Handlers) HandleAddActionItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := argsOf(request)

	noteID, err := a.id("meeting_note_id", true)
	if err != nil {
		return argError(err), nil
	}
	content, err := a.required("content")
	if err != nil {
		return argError(err), nil
	}
	entry, err := h.collections.AddActionItem(ctx, h.userID, noteID, content)
	if err != nil {
		return engineError("add_action_item", err), nil
	}
	return jsonResult(entry)
}

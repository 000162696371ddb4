package lifecycle_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
	"github.com/nhle/bujo/tests/testutil"
)

const (
	user  = "user-1"
	other = "user-2"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T, opts ...lifecycle.Option) (*lifecycle.Engine, store.Store) {
	t.Helper()
	st := testutil.NewTestStore(t)
	opts = append([]lifecycle.Option{lifecycle.WithClock(fixedClock)}, opts...)
	return lifecycle.New(st, opts...), st
}

func d(s string) model.Date {
	return model.MustDate(s)
}

func createDailyTask(t *testing.T, eng *lifecycle.Engine, content, date string) *model.Entry {
	t.Helper()
	e, err := eng.Create(context.Background(), user, lifecycle.CreateParams{
		Type:    model.EntryTypeTask,
		Content: content,
		LogType: model.LogTypeDaily,
		Date:    d(date),
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", content, err)
	}
	return e
}

func createMonthlyTask(t *testing.T, eng *lifecycle.Engine, content, date string) *model.Entry {
	t.Helper()
	e, err := eng.Create(context.Background(), user, lifecycle.CreateParams{
		Type:    model.EntryTypeTask,
		Content: content,
		LogType: model.LogTypeMonthly,
		Date:    d(date),
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", content, err)
	}
	return e
}

func mustGet(t *testing.T, st store.Store, id string) *model.Entry {
	t.Helper()
	e, err := st.GetEntry(context.Background(), user, id)
	if err != nil {
		t.Fatalf("GetEntry(%s): %v", id, err)
	}
	return e
}

func requireStatus(t *testing.T, st store.Store, id string, want model.Status) {
	t.Helper()
	if got := mustGet(t, st, id).Status; got != want {
		t.Errorf("entry %s status: got %q, want %q", id, got, want)
	}
}

func activeDaily(t *testing.T, st store.Store, anchorID string) []model.Entry {
	t.Helper()
	rows, err := st.ListEntries(context.Background(), user, store.EntryFilter{
		LogTypes:        []model.LogType{model.LogTypeDaily},
		AnchorID:        &anchorID,
		ExcludeStatuses: []model.Status{model.StatusMigrated},
	})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	return rows
}

// requireInvariants checks that every daily task has an anchor of its own
// chain in its month and that no anchor has more than one active daily row.
func requireInvariants(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	all, err := st.ListEntries(ctx, user, store.EntryFilter{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	active := make(map[string]int)
	for i := range all {
		e := &all[i]
		if e.Kind() != model.KindDailyTask {
			continue
		}
		if e.AnchorID == nil {
			t.Errorf("daily task %s has no anchor", e.ID)
			continue
		}
		anchor := mustGet(t, st, *e.AnchorID)
		if anchor.ChainID != e.ChainID {
			t.Errorf("daily task %s chain %s, anchor chain %s", e.ID, e.ChainID, anchor.ChainID)
		}
		if !e.Migrated() {
			active[anchor.ID]++
		}
	}
	for anchorID, n := range active {
		if n > 1 {
			t.Errorf("anchor %s has %d active daily rows, want at most 1", anchorID, n)
		}
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_DailyTaskGetsMonthlyAnchor(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)

	daily := createDailyTask(t, eng, "Buy milk", "2024-03-05")

	if daily.AnchorID == nil {
		t.Fatal("daily task has no anchor")
	}
	anchor := mustGet(t, st, *daily.AnchorID)
	if anchor.LogType != model.LogTypeMonthly {
		t.Errorf("anchor log type: got %q, want monthly", anchor.LogType)
	}
	if anchor.Date != d("2024-03-05") {
		t.Errorf("anchor date: got %s, want 2024-03-05", anchor.Date)
	}
	if anchor.Status != model.StatusOpen {
		t.Errorf("anchor status: got %q, want open", anchor.Status)
	}
	if anchor.ChainID != daily.ChainID || daily.ChainID == "" {
		t.Errorf("chain ids: daily %q, anchor %q", daily.ChainID, anchor.ChainID)
	}
	if anchor.Content != "Buy milk" || anchor.AnchorID != nil {
		t.Errorf("anchor: got %+v", anchor)
	}
}

func TestCreate_Positions(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	first := createDailyTask(t, eng, "first", "2024-03-05")
	second := createDailyTask(t, eng, "second", "2024-03-05")
	elsewhere := createDailyTask(t, eng, "elsewhere", "2024-03-06")

	if first.Position != 0 || second.Position != 1 || elsewhere.Position != 0 {
		t.Errorf("daily positions: got %d, %d, %d, want 0, 1, 0",
			first.Position, second.Position, elsewhere.Position)
	}

	// Three auto-anchors in March.
	monthly := createMonthlyTask(t, eng, "monthly", "2024-03-01")
	if monthly.Position != 3 {
		t.Errorf("monthly position: got %d, want 3", monthly.Position)
	}
}

func TestCreate_WithExistingAnchor(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "Write report", "2024-03-01")

	daily, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type:     model.EntryTypeTask,
		Content:  "Write report",
		LogType:  model.LogTypeDaily,
		Date:     d("2024-03-12"),
		AnchorID: anchor.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if daily.ChainID != anchor.ChainID {
		t.Errorf("chain: got %s, want %s", daily.ChainID, anchor.ChainID)
	}
	if daily.AnchorID == nil || *daily.AnchorID != anchor.ID {
		t.Errorf("anchor: got %v, want %s", daily.AnchorID, anchor.ID)
	}
	if a := mustGet(t, st, anchor.ID); a.Date != d("2024-03-12") {
		t.Errorf("anchor date: got %s, want 2024-03-12", a.Date)
	}

	_, err = eng.Create(ctx, user, lifecycle.CreateParams{
		Type:     model.EntryTypeTask,
		Content:  "Write report",
		LogType:  model.LogTypeDaily,
		Date:     d("2024-03-20"),
		AnchorID: anchor.ID,
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("second daily row: got %v, want ErrInvalidInput", err)
	}
	if rows := activeDaily(t, st, anchor.ID); len(rows) != 1 || rows[0].ID != daily.ID {
		t.Errorf("active daily rows: got %d, want only %s", len(rows), daily.ID)
	}

	_, err = eng.Create(ctx, user, lifecycle.CreateParams{
		Type:     model.EntryTypeTask,
		Content:  "Write report",
		LogType:  model.LogTypeDaily,
		Date:     d("2024-04-02"),
		AnchorID: anchor.ID,
	})
	if !errors.Is(err, model.ErrInvariantViolation) {
		t.Errorf("cross-month anchor: got %v, want ErrInvariantViolation", err)
	}

	var inv *model.InvariantError
	if !errors.As(err, &inv) {
		t.Errorf("cross-month anchor: error %v is not an *InvariantError", err)
	}
	requireInvariants(t, st)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	tests := []struct {
		name string
		p    lifecycle.CreateParams
	}{
		{
			name: "blank content",
			p:    lifecycle.CreateParams{Type: model.EntryTypeTask, Content: "  ", LogType: model.LogTypeDaily, Date: d("2024-03-05")},
		},
		{
			name: "unknown type",
			p:    lifecycle.CreateParams{Type: "idea", Content: "x", LogType: model.LogTypeDaily, Date: d("2024-03-05")},
		},
		{
			name: "unknown log type",
			p:    lifecycle.CreateParams{Type: model.EntryTypeTask, Content: "x", LogType: "weekly", Date: d("2024-03-05")},
		},
		{
			name: "bad date",
			p:    lifecycle.CreateParams{Type: model.EntryTypeTask, Content: "x", LogType: model.LogTypeDaily, Date: "2024-3-5"},
		},
		{
			name: "anchor on a note",
			p:    lifecycle.CreateParams{Type: model.EntryTypeNote, Content: "x", LogType: model.LogTypeDaily, Date: d("2024-03-05"), AnchorID: "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Create(context.Background(), user, tt.p)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreate_NoteHasNoAnchor(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	note, err := eng.Create(context.Background(), user, lifecycle.CreateParams{
		Type:    model.EntryTypeNote,
		Content: "Rainy day",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-05"),
		Tags:    []string{"weather"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.AnchorID != nil {
		t.Errorf("note anchor: got %v, want nil", *note.AnchorID)
	}
	if note.ChainID == "" {
		t.Error("note has no chain id")
	}
	if !note.HasTag("weather") {
		t.Errorf("tags: got %v", note.Tags)
	}
}

// ---------------------------------------------------------------------------
// Status transitions
// ---------------------------------------------------------------------------

func TestComplete_PropagatesToAnchorNotHistory(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Call plumber", "2024-03-05")
	moved, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-07"))
	if err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	got, err := eng.Complete(ctx, user, moved.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Status != model.StatusDone {
		t.Errorf("returned status: got %q, want done", got.Status)
	}
	requireStatus(t, st, *daily.AnchorID, model.StatusDone)
	requireStatus(t, st, daily.ID, model.StatusMigrated)
}

func TestCancelAnchor_PropagatesToActiveDescendants(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Renew passport", "2024-03-05")
	moved, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-09"))
	if err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	if _, err := eng.CancelAnchor(ctx, user, *daily.AnchorID); err != nil {
		t.Fatalf("CancelAnchor: %v", err)
	}
	requireStatus(t, st, *daily.AnchorID, model.StatusCancelled)
	requireStatus(t, st, moved.ID, model.StatusCancelled)
	requireStatus(t, st, daily.ID, model.StatusMigrated)
}

func TestCompleteAnchor_RejectsDailyRow(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	_, err := eng.CompleteAnchor(context.Background(), user, daily.ID)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestComplete_OnAnchorReachesDescendants(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	if _, err := eng.Complete(context.Background(), user, *daily.AnchorID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	requireStatus(t, st, daily.ID, model.StatusDone)
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	if _, err := eng.Complete(ctx, user, daily.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	t.Run("same terminal status is idempotent", func(t *testing.T) {
		if _, err := eng.Complete(ctx, user, daily.ID); err != nil {
			t.Errorf("second Complete: %v", err)
		}
	})

	t.Run("terminal to other terminal fails", func(t *testing.T) {
		_, err := eng.Cancel(ctx, user, daily.ID)
		if !errors.Is(err, model.ErrInvalidTransition) {
			t.Errorf("got %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := eng.Complete(ctx, user, "missing")
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestComplete_MigratedRowIsReadOnly(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	if _, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-08")); err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	_, err := eng.Complete(ctx, user, daily.ID)
	if !errors.Is(err, model.ErrReadOnly) {
		t.Errorf("got %v, want ErrReadOnly", err)
	}
	requireStatus(t, st, daily.ID, model.StatusMigrated)
}

func TestComplete_UnanchoredDailyTaskUpdatesOnlyItself(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	eng, st := newEngine(t, lifecycle.WithLogger(log.New(&buf, "", 0)))
	ctx := context.Background()

	orphan := &model.Entry{
		UserID:  user,
		Type:    model.EntryTypeTask,
		Content: "orphan",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-05"),
		ChainID: model.NewChainID(),
	}
	if err := st.InsertEntry(ctx, orphan); err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}

	if _, err := eng.Complete(ctx, user, orphan.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	requireStatus(t, st, orphan.ID, model.StatusDone)
	if !strings.Contains(buf.String(), orphan.ID) {
		t.Errorf("log output %q does not mention %s", buf.String(), orphan.ID)
	}
}

// ---------------------------------------------------------------------------
// UpdateWithSync
// ---------------------------------------------------------------------------

func TestUpdateWithSync_DailyToAnchor(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)

	daily := createDailyTask(t, eng, "Buy milk", "2024-03-05")
	content := "Buy oat milk"
	got, err := eng.UpdateWithSync(context.Background(), user, daily.ID, lifecycle.Edit{Content: &content})
	if err != nil {
		t.Fatalf("UpdateWithSync: %v", err)
	}
	if got.Content != content {
		t.Errorf("content: got %q, want %q", got.Content, content)
	}
	if a := mustGet(t, st, *daily.AnchorID); a.Content != content {
		t.Errorf("anchor content: got %q, want %q", a.Content, content)
	}
	if got.Status != model.StatusOpen {
		t.Errorf("status changed to %q", got.Status)
	}
}

func TestUpdateWithSync_AnchorSkipsMigratedDescendants(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Draft", "2024-03-05")
	moved, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-10"))
	if err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	content := "Final draft"
	if _, err := eng.UpdateWithSync(ctx, user, *daily.AnchorID, lifecycle.Edit{Content: &content}); err != nil {
		t.Fatalf("UpdateWithSync: %v", err)
	}
	if got := mustGet(t, st, moved.ID).Content; got != content {
		t.Errorf("active descendant content: got %q, want %q", got, content)
	}
	if got := mustGet(t, st, daily.ID).Content; got != "Draft" {
		t.Errorf("migrated descendant content: got %q, want %q", got, "Draft")
	}
}

func TestUpdateWithSync_MigratedRowUnchanged(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Draft", "2024-03-05")
	if _, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-10")); err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	content := "changed"
	note := model.EntryTypeNote
	_, err := eng.UpdateWithSync(ctx, user, daily.ID, lifecycle.Edit{Content: &content, Type: &note})
	if !errors.Is(err, model.ErrReadOnly) {
		t.Fatalf("got %v, want ErrReadOnly", err)
	}

	got := mustGet(t, st, daily.ID)
	if got.Content != "Draft" || got.Type != model.EntryTypeTask || got.Status != model.StatusMigrated {
		t.Errorf("migrated row changed: %+v", got)
	}
}

func TestUpdateWithSync_NoteBecomesTaskGetsAnchor(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	note, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type:    model.EntryTypeNote,
		Content: "Maybe paint the fence",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	task := model.EntryTypeTask
	got, err := eng.UpdateWithSync(ctx, user, note.ID, lifecycle.Edit{Type: &task})
	if err != nil {
		t.Fatalf("UpdateWithSync: %v", err)
	}
	if got.AnchorID == nil {
		t.Fatal("task has no anchor after type change")
	}
	anchor := mustGet(t, st, *got.AnchorID)
	if anchor.LogType != model.LogTypeMonthly || anchor.ChainID != got.ChainID {
		t.Errorf("anchor: got %+v", anchor)
	}
	requireInvariants(t, st)
}

func TestUpdateWithSync_RejectsBlankContent(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	blank := "   "
	_, err := eng.UpdateWithSync(context.Background(), user, daily.ID, lifecycle.Edit{Content: &blank})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

// ---------------------------------------------------------------------------
// PlanToDay
// ---------------------------------------------------------------------------

func TestPlanToDay(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "Book dentist", "2024-03-01")

	first, err := eng.PlanToDay(ctx, user, anchor.ID, d("2024-03-07"))
	if err != nil {
		t.Fatalf("PlanToDay: %v", err)
	}
	if first.LogType != model.LogTypeDaily || first.Date != d("2024-03-07") {
		t.Errorf("planned row: got %+v", first)
	}
	if first.ChainID != anchor.ChainID || first.AnchorID == nil || *first.AnchorID != anchor.ID {
		t.Errorf("planned row linkage: got chain %s anchor %v", first.ChainID, first.AnchorID)
	}

	second, err := eng.PlanToDay(ctx, user, anchor.ID, d("2024-03-09"))
	if err != nil {
		t.Fatalf("PlanToDay again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replanning created a new row %s, want %s moved", second.ID, first.ID)
	}

	a := mustGet(t, st, anchor.ID)
	if a.Date != d("2024-03-09") {
		t.Errorf("anchor date: got %s, want 2024-03-09", a.Date)
	}
	if a.Status != model.StatusOpen {
		t.Errorf("anchor status: got %q, want open", a.Status)
	}

	days, err := eng.AssignedDays(ctx, user, anchor.ID)
	if err != nil {
		t.Fatalf("AssignedDays: %v", err)
	}
	if len(days) != 1 || days[0] != d("2024-03-09") {
		t.Errorf("AssignedDays: got %v, want [2024-03-09]", days)
	}
	requireInvariants(t, st)
}

func TestPlanToDay_CarriesCollectionAndTags(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	c := &model.Collection{UserID: user, Name: "Meetings"}
	if err := st.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	anchor, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type:         model.EntryTypeTask,
		Content:      "Send minutes",
		LogType:      model.LogTypeMonthly,
		Date:         d("2024-03-01"),
		CollectionID: &c.ID,
		Tags:         []string{"work"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	daily, err := eng.PlanToDay(ctx, user, anchor.ID, d("2024-03-08"))
	if err != nil {
		t.Fatalf("PlanToDay: %v", err)
	}
	if daily.CollectionID == nil || *daily.CollectionID != c.ID {
		t.Errorf("collection: got %v, want %s", daily.CollectionID, c.ID)
	}
	if strings.Join(daily.Tags, ",") != "work" {
		t.Errorf("tags: got %v, want [work]", daily.Tags)
	}
}

func TestPlanToDay_Rejects(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "x", "2024-03-01")
	daily := createDailyTask(t, eng, "y", "2024-03-05")
	note, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type:    model.EntryTypeNote,
		Content: "z",
		LogType: model.LogTypeMonthly,
		Date:    d("2024-03-01"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name string
		id   string
		date model.Date
		want error
	}{
		{"other month", anchor.ID, d("2024-04-02"), model.ErrInvalidInput},
		{"daily row", daily.ID, d("2024-03-06"), model.ErrInvalidInput},
		{"note anchor", note.ID, d("2024-03-06"), model.ErrInvalidInput},
		{"unknown anchor", "missing", d("2024-03-06"), model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.PlanToDay(ctx, user, tt.id, tt.date)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Migration
// ---------------------------------------------------------------------------

func TestMigrateEntry_SameMonthTwice(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Buy milk", "2024-03-05")

	if _, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-10")); err != nil {
		t.Fatalf("MigrateEntry to 03-10: %v", err)
	}
	got, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-12"))
	if err != nil {
		t.Fatalf("MigrateEntry to 03-12: %v", err)
	}

	active := activeDaily(t, st, *daily.AnchorID)
	if len(active) != 1 {
		t.Fatalf("active daily rows: got %d, want 1", len(active))
	}
	if active[0].ID != got.ID || active[0].Date != d("2024-03-12") || active[0].Status != model.StatusOpen {
		t.Errorf("active row: got %+v", active[0])
	}
	if got.ChainID != daily.ChainID {
		t.Errorf("chain: got %s, want %s", got.ChainID, daily.ChainID)
	}
	if a := mustGet(t, st, *daily.AnchorID); a.Date != d("2024-03-12") {
		t.Errorf("anchor date: got %s, want 2024-03-12", a.Date)
	}
	requireStatus(t, st, daily.ID, model.StatusMigrated)
	requireInvariants(t, st)
}

func TestMigrateEntry_ReactivatesPeerAtTarget(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Water plants", "2024-03-05")
	forward, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-10"))
	if err != nil {
		t.Fatalf("MigrateEntry forward: %v", err)
	}

	back, err := eng.MigrateEntry(ctx, user, forward.ID, d("2024-03-05"))
	if err != nil {
		t.Fatalf("MigrateEntry back: %v", err)
	}
	if back.ID != daily.ID {
		t.Errorf("result: got %s, want reactivated %s", back.ID, daily.ID)
	}
	if back.Status != model.StatusOpen {
		t.Errorf("result status: got %q, want open", back.Status)
	}
	if _, err := st.GetEntry(ctx, user, forward.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("forward placement: got %v, want ErrNotFound", err)
	}
	requireInvariants(t, st)
}

func TestMigrateEntry_CrossMonthDelegates(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)

	daily := createDailyTask(t, eng, "Taxes", "2024-03-28")
	got, err := eng.MigrateEntry(context.Background(), user, daily.ID, d("2024-04-15"))
	if err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}
	if got.LogType != model.LogTypeMonthly || got.Date != d("2024-04-01") {
		t.Errorf("result: got %s on %s, want monthly on 2024-04-01", got.LogType, got.Date)
	}
	if got.ChainID != daily.ChainID {
		t.Errorf("chain: got %s, want %s", got.ChainID, daily.ChainID)
	}
	requireStatus(t, st, daily.ID, model.StatusMigrated)
	requireStatus(t, st, *daily.AnchorID, model.StatusMigrated)
}

func TestMigrateEntry_MissingAnchor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	eng, st := newEngine(t, lifecycle.WithLogger(log.New(&buf, "", 0)))
	ctx := context.Background()

	orphan := &model.Entry{
		UserID:  user,
		Type:    model.EntryTypeTask,
		Content: "orphan",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-05"),
		ChainID: model.NewChainID(),
	}
	if err := st.InsertEntry(ctx, orphan); err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}

	_, err := eng.MigrateEntry(ctx, user, orphan.ID, d("2024-03-06"))
	if !errors.Is(err, model.ErrInvariantViolation) {
		t.Fatalf("got %v, want ErrInvariantViolation", err)
	}
	if buf.Len() == 0 {
		t.Error("invariant violation was not logged")
	}

	rows, err := st.ListEntries(ctx, user, store.EntryFilter{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows after failed migration: got %d, want 1", len(rows))
	}
}

func TestMigrateEntry_RejectsNonTask(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)

	event, err := eng.Create(context.Background(), user, lifecycle.CreateParams{
		Type:    model.EntryTypeEvent,
		Content: "Concert",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = eng.MigrateEntry(context.Background(), user, event.ID, d("2024-03-06"))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestMigrateToMonth(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "Plan trip", "2024-03-01")
	daily, err := eng.PlanToDay(ctx, user, anchor.ID, d("2024-03-20"))
	if err != nil {
		t.Fatalf("PlanToDay: %v", err)
	}

	next, err := eng.MigrateToMonth(ctx, user, anchor.ID, d("2024-04-01"))
	if err != nil {
		t.Fatalf("MigrateToMonth: %v", err)
	}

	requireStatus(t, st, anchor.ID, model.StatusMigrated)
	requireStatus(t, st, daily.ID, model.StatusMigrated)

	if next.LogType != model.LogTypeMonthly || next.Date != d("2024-04-01") {
		t.Errorf("new anchor: got %s on %s", next.LogType, next.Date)
	}
	if next.Status != model.StatusOpen || next.AnchorID != nil {
		t.Errorf("new anchor: status %q, anchor %v", next.Status, next.AnchorID)
	}
	if next.ChainID != anchor.ChainID {
		t.Errorf("chain: got %s, want %s", next.ChainID, anchor.ChainID)
	}
	if next.Content != "Plan trip" {
		t.Errorf("content: got %q", next.Content)
	}
}

func TestMigrateToMonth_Rejects(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "x", "2024-03-01")
	if _, err := eng.MigrateToMonth(ctx, user, anchor.ID, d("2024-03-15")); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("same month: got %v, want ErrInvalidInput", err)
	}

	if _, err := eng.MigrateToMonth(ctx, user, anchor.ID, d("2024-04-01")); err != nil {
		t.Fatalf("MigrateToMonth: %v", err)
	}
	if _, err := eng.MigrateToMonth(ctx, user, anchor.ID, d("2024-05-01")); !errors.Is(err, model.ErrReadOnly) {
		t.Errorf("migrated anchor: got %v, want ErrReadOnly", err)
	}
}

func TestMigrateAllIncomplete(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	eng, st := newEngine(t, lifecycle.WithLogger(log.New(&buf, "", 0)))
	ctx := context.Background()

	createDailyTask(t, eng, "one", "2024-03-01")
	createDailyTask(t, eng, "two", "2024-03-02")
	done := createDailyTask(t, eng, "done", "2024-03-03")
	if _, err := eng.Complete(ctx, user, done.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	createDailyTask(t, eng, "later", "2024-03-10")
	if _, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type: model.EntryTypeNote, Content: "note", LogType: model.LogTypeDaily, Date: d("2024-03-01"),
	}); err != nil {
		t.Fatalf("Create note: %v", err)
	}

	orphan := &model.Entry{
		UserID:  user,
		Type:    model.EntryTypeTask,
		Content: "orphan",
		LogType: model.LogTypeDaily,
		Date:    d("2024-03-02"),
		ChainID: model.NewChainID(),
	}
	if err := st.InsertEntry(ctx, orphan); err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}

	n, err := eng.MigrateAllIncomplete(ctx, user, d("2024-03-05"), d("2024-03-05"))
	if err != nil {
		t.Fatalf("MigrateAllIncomplete: %v", err)
	}
	if n != 2 {
		t.Errorf("migrated: got %d, want 2", n)
	}
	if !strings.Contains(buf.String(), orphan.ID) {
		t.Errorf("skipped orphan not logged: %q", buf.String())
	}

	today, err := eng.EntriesForDate(ctx, user, d("2024-03-05"))
	if err != nil {
		t.Fatalf("EntriesForDate: %v", err)
	}
	var contents []string
	for _, e := range today {
		contents = append(contents, e.Content)
	}
	if strings.Join(contents, ",") != "one,two" {
		t.Errorf("entries on 2024-03-05: got %v, want [one two]", contents)
	}

	left, err := eng.IncompleteBefore(ctx, user, d("2024-03-05"))
	if err != nil {
		t.Fatalf("IncompleteBefore: %v", err)
	}
	if len(left) != 1 || left[0].ID != orphan.ID {
		t.Errorf("IncompleteBefore: got %d rows, want only the orphan", len(left))
	}
}

func TestMigrateAllIncomplete_SkipsRowsRetiredDuringRun(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	// Two open rows on one anchor, as older journals may hold.
	anchor := createMonthlyTask(t, eng, "Water plants", "2024-03-01")
	for _, day := range []string{"2024-03-01", "2024-03-02"} {
		row := &model.Entry{
			UserID:   user,
			Type:     model.EntryTypeTask,
			Content:  "Water plants",
			Status:   model.StatusOpen,
			LogType:  model.LogTypeDaily,
			Date:     d(day),
			AnchorID: &anchor.ID,
			ChainID:  anchor.ChainID,
			Source:   model.SourceUser,
		}
		if err := st.InsertEntry(ctx, row); err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
	}

	n, err := eng.MigrateAllIncomplete(ctx, user, d("2024-03-05"), d("2024-03-05"))
	if err != nil {
		t.Fatalf("MigrateAllIncomplete: %v", err)
	}
	if n != 1 {
		t.Errorf("migrated: got %d, want 1", n)
	}
	if rows := activeDaily(t, st, anchor.ID); len(rows) != 1 || rows[0].Date != d("2024-03-05") {
		t.Errorf("active daily rows: got %v, want one on 2024-03-05", rows)
	}
	requireInvariants(t, st)
}

func TestInvariantsHoldAcrossPlanAndMigrate(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	anchor := createMonthlyTask(t, eng, "Refactor", "2024-03-01")
	current := anchor.ID

	steps := []struct {
		op   string
		date string
	}{
		{"plan", "2024-03-03"},
		{"plan", "2024-03-08"},
		{"migrate", "2024-03-12"},
		{"migrate", "2024-03-06"},
		{"plan", "2024-03-20"},
		{"migrate", "2024-03-02"},
		{"migrate", "2024-03-25"},
	}
	for _, step := range steps {
		var (
			got *model.Entry
			err error
		)
		switch step.op {
		case "plan":
			got, err = eng.PlanToDay(ctx, user, anchor.ID, d(step.date))
		case "migrate":
			got, err = eng.MigrateEntry(ctx, user, current, d(step.date))
		}
		if err != nil {
			t.Fatalf("%s to %s: %v", step.op, step.date, err)
		}
		current = got.ID

		requireInvariants(t, st)
		if got.ChainID != anchor.ChainID {
			t.Errorf("%s to %s: chain %s, want %s", step.op, step.date, got.ChainID, anchor.ChainID)
		}
		if a := mustGet(t, st, anchor.ID); a.Date != d(step.date) {
			t.Errorf("%s to %s: anchor date %s", step.op, step.date, a.Date)
		}
	}
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

func TestDeleteChain_AcrossMonths(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "Long task", "2024-03-05")
	april, err := eng.MigrateToMonth(ctx, user, daily.ID, d("2024-04-01"))
	if err != nil {
		t.Fatalf("MigrateToMonth April: %v", err)
	}
	aprilDaily, err := eng.PlanToDay(ctx, user, april.ID, d("2024-04-10"))
	if err != nil {
		t.Fatalf("PlanToDay: %v", err)
	}
	may, err := eng.MigrateToMonth(ctx, user, aprilDaily.ID, d("2024-05-01"))
	if err != nil {
		t.Fatalf("MigrateToMonth May: %v", err)
	}

	bystander := createDailyTask(t, eng, "Unrelated", "2024-03-05")

	history, err := eng.ChainHistory(ctx, user, daily.ChainID)
	if err != nil {
		t.Fatalf("ChainHistory: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("chain rows before delete: got %d, want 5", len(history))
	}

	removed, err := eng.DeleteChain(ctx, user, may.ID)
	if err != nil {
		t.Fatalf("DeleteChain: %v", err)
	}
	if removed != 5 {
		t.Errorf("removed: got %d, want 5", removed)
	}

	history, err = eng.ChainHistory(ctx, user, daily.ChainID)
	if err != nil {
		t.Fatalf("ChainHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("chain rows after delete: got %d, want 0", len(history))
	}
	mustGet(t, st, bystander.ID)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "x", "2024-03-05")
	moved, err := eng.MigrateEntry(ctx, user, daily.ID, d("2024-03-06"))
	if err != nil {
		t.Fatalf("MigrateEntry: %v", err)
	}

	if err := eng.Delete(ctx, user, daily.ID); !errors.Is(err, model.ErrReadOnly) {
		t.Errorf("migrated row: got %v, want ErrReadOnly", err)
	}
	if err := eng.Delete(ctx, user, *daily.AnchorID); !errors.Is(err, model.ErrReadOnly) {
		t.Errorf("anchor with daily rows: got %v, want ErrReadOnly", err)
	}
	if err := eng.Delete(ctx, user, moved.ID); err != nil {
		t.Errorf("active daily row: %v", err)
	}
	if _, err := st.GetEntry(ctx, user, moved.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("deleted row: got %v, want ErrNotFound", err)
	}
	if err := eng.Delete(ctx, user, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestChainResolutions(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	done := createDailyTask(t, eng, "done", "2024-03-05")
	open := createDailyTask(t, eng, "open", "2024-03-05")
	cancelled := createDailyTask(t, eng, "cancelled", "2024-03-05")

	if _, err := eng.Complete(ctx, user, done.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := eng.Cancel(ctx, user, cancelled.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	got, err := eng.ChainResolutions(ctx, user, []string{done.ChainID, open.ChainID, cancelled.ChainID})
	if err != nil {
		t.Fatalf("ChainResolutions: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("resolutions: got %v, want 2 chains", got)
	}
	if got[done.ChainID] != model.StatusDone {
		t.Errorf("done chain: got %q", got[done.ChainID])
	}
	if got[cancelled.ChainID] != model.StatusCancelled {
		t.Errorf("cancelled chain: got %q", got[cancelled.ChainID])
	}
	if _, ok := got[open.ChainID]; ok {
		t.Error("open chain reported as resolved")
	}

	empty, err := eng.ChainResolutions(ctx, user, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("no chains: got %v, %v", empty, err)
	}
}

func TestUnassignedAnchors(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	planned := createMonthlyTask(t, eng, "planned", "2024-03-01")
	free := createMonthlyTask(t, eng, "free", "2024-03-01")
	createDailyTask(t, eng, "daily", "2024-03-05")
	createMonthlyTask(t, eng, "april", "2024-04-01")
	if _, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type: model.EntryTypeNote, Content: "note", LogType: model.LogTypeMonthly, Date: d("2024-03-01"),
	}); err != nil {
		t.Fatalf("Create note: %v", err)
	}
	if _, err := eng.PlanToDay(ctx, user, planned.ID, d("2024-03-04")); err != nil {
		t.Fatalf("PlanToDay: %v", err)
	}

	got, err := eng.UnassignedAnchors(ctx, user, d("2024-03-15"))
	if err != nil {
		t.Fatalf("UnassignedAnchors: %v", err)
	}
	if len(got) != 1 || got[0].ID != free.ID {
		t.Errorf("UnassignedAnchors: got %d rows, want only %q", len(got), free.Content)
	}
}

func TestMonthAndFutureViews(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	createDailyTask(t, eng, "b", "2024-03-09")
	createDailyTask(t, eng, "a", "2024-03-02")
	createDailyTask(t, eng, "april", "2024-04-02")
	if _, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type: model.EntryTypeTask, Content: "someday", LogType: model.LogTypeFuture, Date: d("2024-07-01"),
	}); err != nil {
		t.Fatalf("Create future: %v", err)
	}

	month, err := eng.EntriesForMonth(ctx, user, d("2024-03-01"))
	if err != nil {
		t.Fatalf("EntriesForMonth: %v", err)
	}
	if len(month) != 2 || month[0].Content != "a" || month[1].Content != "b" {
		t.Errorf("EntriesForMonth: got %+v", month)
	}

	monthly, err := eng.MonthlyEntries(ctx, user, d("2024-03-20"))
	if err != nil {
		t.Fatalf("MonthlyEntries: %v", err)
	}
	if len(monthly) != 2 {
		t.Errorf("MonthlyEntries: got %d rows, want 2 anchors", len(monthly))
	}

	future, err := eng.FutureEntries(ctx, user, d("2024-04-15"))
	if err != nil {
		t.Fatalf("FutureEntries: %v", err)
	}
	if len(future) != 2 || future[0].Content != "april" || future[1].Content != "someday" {
		t.Errorf("FutureEntries: got %+v", future)
	}
}

func TestUserScoping(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	daily := createDailyTask(t, eng, "private", "2024-03-05")

	if _, err := eng.Get(ctx, other, daily.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
	if _, err := eng.Complete(ctx, other, daily.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Complete: got %v, want ErrNotFound", err)
	}
	if _, err := eng.DeleteChain(ctx, other, daily.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteChain: got %v, want ErrNotFound", err)
	}
	rows, err := eng.EntriesForDate(ctx, other, d("2024-03-05"))
	if err != nil {
		t.Fatalf("EntriesForDate: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("EntriesForDate for other user: got %d rows", len(rows))
	}
}

func TestToday(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	if got := eng.Today(); got != d("2024-03-05") {
		t.Errorf("Today: got %s, want 2024-03-05", got)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	eng, st := newEngine(t)
	ctx := context.Background()

	task := createDailyTask(t, eng, "Order paint", "2024-03-05")

	got, err := eng.Resolve(ctx, user, task.ID)
	if err != nil || got.ID != task.ID {
		t.Fatalf("Resolve(full id): %v, %v", got, err)
	}
	got, err = eng.Resolve(ctx, user, strings.ToUpper(task.ID[:13]))
	if err != nil || got.ID != task.ID {
		t.Errorf("Resolve(prefix): %v, %v", got, err)
	}

	for _, id := range []string{"abc00000-0000-4000-8000-000000000001", "abc00000-0000-4000-8000-000000000002"} {
		e := &model.Entry{
			ID: id, UserID: user, Type: model.EntryTypeNote, Content: "twin", Status: model.StatusOpen,
			LogType: model.LogTypeDaily, Date: d("2024-03-06"), ChainID: model.NewChainID(), Source: model.SourceUser,
		}
		if err := st.InsertEntry(ctx, e); err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
	}

	tests := []struct {
		name string
		ref  string
		want error
	}{
		{"ambiguous prefix", "abc00000", model.ErrInvalidInput},
		{"blank", "  ", model.ErrInvalidInput},
		{"no match", "ffff", model.ErrNotFound},
		{"other user", task.ID[:13], nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid := user
			if tt.name == "other user" {
				uid = other
			}
			_, err := eng.Resolve(ctx, uid, tt.ref)
			want := tt.want
			if want == nil {
				want = model.ErrNotFound
			}
			if !errors.Is(err, want) {
				t.Errorf("Resolve(%q): got %v, want %v", tt.ref, err, want)
			}
		})
	}
}

func TestResolve_RejectsWildcards(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.Create(ctx, user, lifecycle.CreateParams{
		Type: model.EntryTypeNote, Content: "only entry", LogType: model.LogTypeDaily, Date: d("2024-03-05"),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, ref := range []string{"%", "_", "a%", "ab_d", "'"} {
		if got, err := eng.Resolve(ctx, user, ref); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("Resolve(%q): got %v, %v; want ErrInvalidInput", ref, got, err)
		}
	}
}

func TestCreateAll(t *testing.T) {
	t.Parallel()
	eng, _ := newEngine(t)
	ctx := context.Background()

	created, err := eng.CreateAll(ctx, user, []lifecycle.CreateParams{
		{Type: model.EntryTypeTask, Content: "Pack", LogType: model.LogTypeDaily, Date: d("2024-03-05")},
		{Type: model.EntryTypeNote, Content: "Gate B12", LogType: model.LogTypeDaily, Date: d("2024-03-05")},
	})
	if err != nil {
		t.Fatalf("CreateAll: %v", err)
	}
	if len(created) != 2 || created[1].Position != 1 || created[0].AnchorID == nil {
		t.Errorf("created: %+v", created)
	}

	// A failure inside the transaction leaves nothing behind.
	_, err = eng.CreateAll(ctx, user, []lifecycle.CreateParams{
		{Type: model.EntryTypeNote, Content: "Taxi booked", LogType: model.LogTypeDaily, Date: d("2024-03-06")},
		{Type: model.EntryTypeTask, Content: "Check in", LogType: model.LogTypeDaily, Date: d("2024-03-06"), AnchorID: "missing"},
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("CreateAll with bad anchor: got %v, want ErrNotFound", err)
	}
	rows, err := eng.EntriesForDate(ctx, user, d("2024-03-06"))
	if err != nil {
		t.Fatalf("EntriesForDate: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rolled back batch left %d rows", len(rows))
	}

	if _, err := eng.CreateAll(ctx, user, []lifecycle.CreateParams{{Type: model.EntryTypeTask, Content: " "}}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("blank content: got %v, want ErrInvalidInput", err)
	}
}

package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// Get returns a single entry.
func (e *Engine) Get(ctx context.Context, userID, id string) (*model.Entry, error) {
	return e.store.GetEntry(ctx, userID, id)
}

// Resolve finds an entry by its full id or by an unambiguous id prefix.
func (e *Engine) Resolve(ctx context.Context, userID, ref string) (*model.Entry, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("%w: empty entry id", model.ErrInvalidInput)
	}
	if _, err := uuid.Parse(ref); err == nil {
		return e.store.GetEntry(ctx, userID, ref)
	}
	if strings.Trim(ref, "0123456789abcdef-") != "" {
		return nil, fmt.Errorf("%w: %q is not an entry id", model.ErrInvalidInput, ref)
	}

	matches, err := e.store.ListEntries(ctx, userID, store.EntryFilter{IDPrefix: ref, Limit: 2})
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("entry %s: %w", ref, model.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: id prefix %q matches several entries", model.ErrInvalidInput, ref)
	}
}

// EntriesForDate returns the daily log of one day in display order.
func (e *Engine) EntriesForDate(ctx context.Context, userID string, date model.Date) ([]model.Entry, error) {
	if !date.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, date)
	}
	return e.store.ListEntries(ctx, userID, store.EntryFilter{
		LogTypes: dailyLog,
		Date:     &date,
	})
}

// EntriesForMonth returns every daily row of the month containing month,
// ordered by date then position.
func (e *Engine) EntriesForMonth(ctx context.Context, userID string, month model.Date) ([]model.Entry, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, month)
	}
	first, last := month.FirstOfMonth(), month.LastOfMonth()
	return e.store.ListEntries(ctx, userID, store.EntryFilter{
		LogTypes: dailyLog,
		DateFrom: &first,
		DateTo:   &last,
		SortBy:   "date",
	})
}

// MonthlyEntries returns the monthly and future rows dated within the month
// containing month.
func (e *Engine) MonthlyEntries(ctx context.Context, userID string, month model.Date) ([]model.Entry, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, month)
	}
	return e.store.ListEntries(ctx, userID, monthFilter(month))
}

// FutureEntries returns monthly and future rows from the first of from's
// month onwards.
func (e *Engine) FutureEntries(ctx context.Context, userID string, from model.Date) ([]model.Entry, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, from)
	}
	first := from.FirstOfMonth()
	return e.store.ListEntries(ctx, userID, store.EntryFilter{
		LogTypes: model.AnchorLogTypes,
		DateFrom: &first,
		SortBy:   "date",
	})
}

// UnassignedAnchors returns the open task anchors of a month that have no
// active daily row.
func (e *Engine) UnassignedAnchors(ctx context.Context, userID string, month model.Date) ([]model.Entry, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, month)
	}
	filter := monthFilter(month)
	filter.Types = []model.EntryType{model.EntryTypeTask}
	filter.Statuses = []model.Status{model.StatusOpen}
	filter.WithoutActiveDaily = true
	return e.store.ListEntries(ctx, userID, filter)
}

// IncompleteBefore returns the open daily tasks dated before date, oldest
// first.
func (e *Engine) IncompleteBefore(ctx context.Context, userID string, date model.Date) ([]model.Entry, error) {
	if !date.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, date)
	}
	return e.store.ListEntries(ctx, userID, store.EntryFilter{
		LogTypes:   dailyLog,
		Types:      []model.EntryType{model.EntryTypeTask},
		Statuses:   []model.Status{model.StatusOpen},
		DateBefore: &date,
		SortBy:     "date",
	})
}

// AssignedDays returns the distinct days on which the anchor has an active
// daily row.
func (e *Engine) AssignedDays(ctx context.Context, userID, anchorID string) ([]model.Date, error) {
	filter := activeDaily(anchorID)
	filter.SortBy = "date"
	rows, err := e.store.ListEntries(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	days := make([]model.Date, 0, len(rows))
	for _, r := range rows {
		if n := len(days); n > 0 && days[n-1] == r.Date {
			continue
		}
		days = append(days, r.Date)
	}
	return days, nil
}

// ChainHistory returns every row of a chain, oldest placement first.
func (e *Engine) ChainHistory(ctx context.Context, userID, chainID string) ([]model.Entry, error) {
	return e.store.ListEntries(ctx, userID, store.EntryFilter{
		ChainIDs: []string{chainID},
		SortBy:   "date",
	})
}

// ChainResolutions reports, for each chain that has one, the status of the
// first done or cancelled row found in it. Chains with no resolved row are
// absent from the map.
func (e *Engine) ChainResolutions(ctx context.Context, userID string, chainIDs []string) (map[string]model.Status, error) {
	resolved := make(map[string]model.Status)
	if len(chainIDs) == 0 {
		return resolved, nil
	}

	rows, err := e.store.ListEntries(ctx, userID, store.EntryFilter{
		ChainIDs: chainIDs,
		Statuses: []model.Status{model.StatusDone, model.StatusCancelled},
		SortBy:   "updated_at",
	})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if _, ok := resolved[r.ChainID]; !ok {
			resolved[r.ChainID] = r.Status
		}
	}
	return resolved, nil
}

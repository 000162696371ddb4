package lifecycle

import (
	"context"
	"fmt"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// PlanToDay places an anchored task on a day of its month. The anchor's one
// active daily descendant is moved there, or created when none exists, and
// the anchor's date follows it. The anchor's status is left alone.
func (e *Engine) PlanToDay(ctx context.Context, userID, anchorID string, date model.Date) (*model.Entry, error) {
	if !date.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, date)
	}

	var result *model.Entry
	err := e.store.WithTx(ctx, func(st store.Store) error {
		anchor, err := st.GetEntry(ctx, userID, anchorID)
		if err != nil {
			return err
		}
		if anchor.Kind() != model.KindAnchor || anchor.Type != model.EntryTypeTask {
			return fmt.Errorf("%w: entry %s is not a task anchor", model.ErrInvalidInput, anchorID)
		}
		if anchor.Migrated() {
			return fmt.Errorf("anchor %s: %w", anchorID, model.ErrReadOnly)
		}
		if !anchor.Date.SameMonth(date) {
			return fmt.Errorf("%w: %s is outside the anchor's month %s; migrate the task instead",
				model.ErrInvalidInput, date, anchor.Date.Month())
		}

		filter := activeDaily(anchorID)
		filter.SortBy = "date"
		filter.Limit = 1
		active, err := st.ListEntries(ctx, userID, filter)
		if err != nil {
			return err
		}

		var dailyID string
		if len(active) > 0 {
			dailyID = active[0].ID
			if err := st.UpdateEntry(ctx, userID, dailyID, store.EntryPatch{Date: &date}); err != nil {
				return err
			}
		} else {
			pos, err := dayPosition(ctx, st, userID, date)
			if err != nil {
				return err
			}
			daily := &model.Entry{
				UserID:       userID,
				Type:         anchor.Type,
				Content:      anchor.Content,
				Status:       model.StatusOpen,
				LogType:      model.LogTypeDaily,
				Date:         date,
				AnchorID:     &anchor.ID,
				CollectionID: anchor.CollectionID,
				ChainID:      anchor.ChainID,
				Position:     pos,
				Tags:         anchor.Tags,
				Source:       anchor.Source,
			}
			if err := st.InsertEntry(ctx, daily); err != nil {
				return err
			}
			dailyID = daily.ID
		}

		if err := st.UpdateEntry(ctx, userID, anchorID, store.EntryPatch{Date: &date}); err != nil {
			return err
		}

		result, err = st.GetEntry(ctx, userID, dailyID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("planning %s to %s: %w", anchorID, date, err)
	}
	return result, nil
}

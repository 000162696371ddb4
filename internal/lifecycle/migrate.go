package lifecycle

import (
	"context"
	"fmt"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// MigrateEntry moves a daily task to newDate. A date in another month is
// handed to MigrateToMonth. Within the month the anchor ends up with exactly
// one active daily row, at newDate: rows dated later are removed and rows
// dated earlier stay behind as migrated history. A migrated daily row may be
// passed as the source; it stands for its chain segment.
func (e *Engine) MigrateEntry(ctx context.Context, userID, id string, newDate model.Date) (*model.Entry, error) {
	if !newDate.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, newDate)
	}

	var result *model.Entry
	err := e.store.WithTx(ctx, func(st store.Store) error {
		src, err := st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}

		if !src.Date.SameMonth(newDate) {
			if src.Migrated() && src.Kind() != model.KindDailyTask {
				return fmt.Errorf("entry %s: %w", id, model.ErrReadOnly)
			}
			result, err = e.migrateToMonth(ctx, st, src, newDate.FirstOfMonth())
			return err
		}

		if src.Kind() != model.KindDailyTask {
			return fmt.Errorf("%w: entry %s is not a daily task", model.ErrInvalidInput, id)
		}
		if err := model.RequireAnchor(src); err != nil {
			e.logger.Printf("lifecycle: refusing to migrate: %v", err)
			return err
		}

		result, err = e.migrateWithinMonth(ctx, st, src, newDate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("migrating entry %s to %s: %w", id, newDate, err)
	}
	return result, nil
}

func (e *Engine) migrateWithinMonth(
	ctx context.Context,
	st store.Store,
	src *model.Entry,
	newDate model.Date,
) (*model.Entry, error) {
	userID := src.UserID
	anchorID := *src.AnchorID

	anchor, err := st.GetEntry(ctx, userID, anchorID)
	if err != nil {
		return nil, fmt.Errorf("loading anchor: %w", err)
	}
	if anchor.Migrated() {
		return nil, fmt.Errorf("anchor %s: %w", anchorID, model.ErrReadOnly)
	}

	target, err := e.peerAt(ctx, st, src, newDate)
	if err != nil {
		return nil, err
	}

	if target != nil {
		if target.Status != model.StatusOpen {
			open := model.StatusOpen
			if err := st.UpdateEntry(ctx, userID, target.ID, store.EntryPatch{Status: &open}); err != nil {
				return nil, err
			}
		}
	} else {
		pos, err := dayPosition(ctx, st, userID, newDate)
		if err != nil {
			return nil, err
		}
		target = &model.Entry{
			UserID:       userID,
			Type:         src.Type,
			Content:      src.Content,
			Status:       model.StatusOpen,
			LogType:      model.LogTypeDaily,
			Date:         newDate,
			CollectionID: src.CollectionID,
			AnchorID:     &anchorID,
			ChainID:      src.ChainID,
			Position:     pos,
			Tags:         src.Tags,
			Source:       src.Source,
		}
		if err := st.InsertEntry(ctx, target); err != nil {
			return nil, err
		}
	}

	// Forward placements beyond the new date are obsolete.
	if _, err := st.DeleteEntries(ctx, userID, store.EntryFilter{
		LogTypes:  dailyLog,
		AnchorID:  &anchorID,
		DateAfter: &newDate,
		ExcludeID: target.ID,
	}); err != nil {
		return nil, err
	}

	// Earlier placements, the source included, become history.
	migrated := model.StatusMigrated
	if _, err := st.UpdateEntries(ctx, userID, store.EntryFilter{
		LogTypes:        dailyLog,
		AnchorID:        &anchorID,
		DateBefore:      &newDate,
		ExcludeStatuses: notFrozen,
		ExcludeID:       target.ID,
	}, store.EntryPatch{Status: &migrated}); err != nil {
		return nil, err
	}

	if err := st.UpdateEntry(ctx, userID, anchorID, store.EntryPatch{Date: &newDate}); err != nil {
		return nil, fmt.Errorf("moving anchor: %w", err)
	}

	return st.GetEntry(ctx, userID, target.ID)
}

// peerAt returns the daily row of src's anchor already sitting at date, or
// nil. The source itself wins, then any non-migrated row.
func (e *Engine) peerAt(
	ctx context.Context,
	st store.Store,
	src *model.Entry,
	date model.Date,
) (*model.Entry, error) {
	if src.Date == date {
		return src, nil
	}

	peers, err := st.ListEntries(ctx, src.UserID, store.EntryFilter{
		LogTypes: dailyLog,
		AnchorID: src.AnchorID,
		Date:     &date,
	})
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, nil
	}
	for i := range peers {
		if !peers[i].Migrated() {
			return &peers[i], nil
		}
	}
	return &peers[0], nil
}

// MigrateToMonth retires the chain segment holding entryID and starts a new
// one in the month of target. The segment head (the anchor, or the entry
// itself when it is not a daily task) and all of its daily rows become
// migrated; a new open monthly anchor with the same chain id is created on
// the first of the month and returned.
func (e *Engine) MigrateToMonth(ctx context.Context, userID, entryID string, target model.Date) (*model.Entry, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, target)
	}

	var result *model.Entry
	err := e.store.WithTx(ctx, func(st store.Store) error {
		src, err := st.GetEntry(ctx, userID, entryID)
		if err != nil {
			return err
		}
		if src.Migrated() && src.Kind() != model.KindDailyTask {
			return fmt.Errorf("entry %s: %w", entryID, model.ErrReadOnly)
		}
		result, err = e.migrateToMonth(ctx, st, src, target.FirstOfMonth())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("migrating entry %s to %s: %w", entryID, target.Month(), err)
	}
	return result, nil
}

func (e *Engine) migrateToMonth(
	ctx context.Context,
	st store.Store,
	src *model.Entry,
	first model.Date,
) (*model.Entry, error) {
	userID := src.UserID

	head := src
	if src.Kind() == model.KindDailyTask {
		if err := model.RequireAnchor(src); err != nil {
			e.logger.Printf("lifecycle: refusing to migrate: %v", err)
			return nil, err
		}
		anchor, err := st.GetEntry(ctx, userID, *src.AnchorID)
		if err != nil {
			return nil, fmt.Errorf("loading anchor: %w", err)
		}
		head = anchor
	}

	if head.Migrated() {
		return nil, fmt.Errorf("entry %s: %w", head.ID, model.ErrReadOnly)
	}
	if head.Date.SameMonth(first) {
		return nil, fmt.Errorf("%w: entry %s already belongs to %s",
			model.ErrInvalidInput, head.ID, first.Month())
	}

	migrated := model.StatusMigrated
	if head.Kind() == model.KindAnchor {
		headID := head.ID
		if _, err := st.UpdateEntries(ctx, userID, store.EntryFilter{
			LogTypes: dailyLog,
			AnchorID: &headID,
		}, store.EntryPatch{Status: &migrated}); err != nil {
			return nil, err
		}
	}
	if err := st.UpdateEntry(ctx, userID, head.ID, store.EntryPatch{Status: &migrated}); err != nil {
		return nil, err
	}

	pos, err := monthPosition(ctx, st, userID, first)
	if err != nil {
		return nil, err
	}

	next := &model.Entry{
		UserID:       userID,
		Type:         head.Type,
		Content:      head.Content,
		Status:       model.StatusOpen,
		LogType:      model.LogTypeMonthly,
		Date:         first,
		CollectionID: head.CollectionID,
		ChainID:      head.ChainID,
		Position:     pos,
		Tags:         head.Tags,
		Source:       head.Source,
	}
	if err := st.InsertEntry(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// MigrateAllIncomplete migrates every open daily task dated before
// beforeDate to toDate, oldest first, one transaction per entry. Entries
// that fail are logged and skipped; the count covers successes only.
func (e *Engine) MigrateAllIncomplete(
	ctx context.Context,
	userID string,
	beforeDate, toDate model.Date,
) (int, error) {
	if !toDate.Valid() {
		return 0, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, toDate)
	}

	pending, err := e.IncompleteBefore(ctx, userID, beforeDate)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return migrated, err
		}
		// An earlier migration in this run may have retired the row.
		current, err := e.store.GetEntry(ctx, userID, entry.ID)
		if err != nil {
			e.logger.Printf("lifecycle: skipping entry %s: %v", entry.ID, err)
			continue
		}
		if current.Status != model.StatusOpen {
			continue
		}
		if _, err := e.MigrateEntry(ctx, userID, entry.ID, toDate); err != nil {
			e.logger.Printf("lifecycle: skipping entry %s: %v", entry.ID, err)
			continue
		}
		migrated++
	}
	return migrated, nil
}

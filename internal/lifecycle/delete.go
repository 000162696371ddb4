package lifecycle

import (
	"context"
	"fmt"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// DeleteChain removes every row of the user sharing the chain id of the
// given entry, across all log types and months, migrated history included.
// It returns the number of rows removed.
func (e *Engine) DeleteChain(ctx context.Context, userID, id string) (int64, error) {
	var removed int64
	err := e.store.WithTx(ctx, func(st store.Store) error {
		entry, err := st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}
		chain := []string{entry.ChainID}

		// Daily rows first, so none of them goes by anchor cascade and
		// escapes the count.
		daily, err := st.DeleteEntries(ctx, userID, store.EntryFilter{
			LogTypes: dailyLog,
			ChainIDs: chain,
		})
		if err != nil {
			return err
		}
		rest, err := st.DeleteEntries(ctx, userID, store.EntryFilter{ChainIDs: chain})
		if err != nil {
			return err
		}
		removed = daily + rest
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deleting chain of %s: %w", id, err)
	}
	e.logger.Printf("lifecycle: deleted %d rows in chain of %s", removed, id)
	return removed, nil
}

// Delete removes a single row. Migrated rows only go with their chain, and
// an anchor that still has daily rows cannot be removed on its own.
func (e *Engine) Delete(ctx context.Context, userID, id string) error {
	err := e.store.WithTx(ctx, func(st store.Store) error {
		entry, err := st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}
		if entry.Migrated() {
			return fmt.Errorf("entry %s is migrated history, delete its chain instead: %w",
				id, model.ErrReadOnly)
		}
		if entry.IsAnchorLog() {
			n, err := st.CountEntries(ctx, userID, store.EntryFilter{
				LogTypes: dailyLog,
				AnchorID: &entry.ID,
			})
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("anchor %s has %d daily rows, delete its chain instead: %w",
					id, n, model.ErrReadOnly)
			}
		}
		return st.DeleteEntry(ctx, userID, id)
	})
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

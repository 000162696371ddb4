package lifecycle

import (
	"context"
	"fmt"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// Complete marks an entry done. On a daily task the status also reaches its
// anchor and every active peer; on an anchor it reaches every active daily
// descendant.
func (e *Engine) Complete(ctx context.Context, userID, id string) (*model.Entry, error) {
	return e.resolve(ctx, userID, id, model.StatusDone, false)
}

// Cancel marks an entry cancelled, propagating like Complete.
func (e *Engine) Cancel(ctx context.Context, userID, id string) (*model.Entry, error) {
	return e.resolve(ctx, userID, id, model.StatusCancelled, false)
}

// CompleteAnchor marks a monthly or future anchor done together with its
// active daily descendants.
func (e *Engine) CompleteAnchor(ctx context.Context, userID, id string) (*model.Entry, error) {
	return e.resolve(ctx, userID, id, model.StatusDone, true)
}

// CancelAnchor marks a monthly or future anchor cancelled together with its
// active daily descendants.
func (e *Engine) CancelAnchor(ctx context.Context, userID, id string) (*model.Entry, error) {
	return e.resolve(ctx, userID, id, model.StatusCancelled, true)
}

func (e *Engine) resolve(
	ctx context.Context,
	userID, id string,
	status model.Status,
	anchorOnly bool,
) (*model.Entry, error) {
	var result *model.Entry
	err := e.store.WithTx(ctx, func(st store.Store) error {
		entry, err := st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}
		if entry.Migrated() {
			return fmt.Errorf("entry %s: %w", id, model.ErrReadOnly)
		}
		if entry.Status != model.StatusOpen && entry.Status != status {
			return fmt.Errorf("entry %s is %s: %w", id, entry.Status, model.ErrInvalidTransition)
		}

		kind := entry.Kind()
		if anchorOnly && kind != model.KindAnchor {
			return fmt.Errorf("%w: entry %s is not an anchor", model.ErrInvalidInput, id)
		}

		if err := st.UpdateEntry(ctx, userID, id, store.EntryPatch{Status: &status}); err != nil {
			return err
		}

		switch kind {
		case model.KindAnchor:
			if err := e.toDescendants(ctx, st, userID, id, store.EntryPatch{Status: &status}); err != nil {
				return err
			}
		case model.KindDailyTask:
			if err := model.RequireAnchor(entry); err != nil {
				e.logger.Printf("lifecycle: %v; status not propagated", err)
				break
			}
			if err := e.toAnchorAndPeers(ctx, st, entry, status); err != nil {
				return err
			}
		}

		result, err = st.GetEntry(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("setting entry %s %s: %w", id, status, err)
	}
	return result, nil
}

// toDescendants applies patch to every active daily row anchored on
// anchorID.
func (e *Engine) toDescendants(
	ctx context.Context,
	st store.Store,
	userID, anchorID string,
	patch store.EntryPatch,
) error {
	_, err := st.UpdateEntries(ctx, userID, activeDaily(anchorID), patch)
	return err
}

// toAnchorAndPeers applies status to the anchor of daily and to every other
// active daily row sharing that anchor.
func (e *Engine) toAnchorAndPeers(
	ctx context.Context,
	st store.Store,
	daily *model.Entry,
	status model.Status,
) error {
	anchorID := *daily.AnchorID
	patch := store.EntryPatch{Status: &status}

	if err := e.toAnchor(ctx, st, daily.UserID, anchorID, patch); err != nil {
		return err
	}

	peers := activeDaily(anchorID)
	peers.ExcludeID = daily.ID
	_, err := st.UpdateEntries(ctx, daily.UserID, peers, patch)
	return err
}

// toAnchor applies patch to the anchor unless it is migrated.
func (e *Engine) toAnchor(
	ctx context.Context,
	st store.Store,
	userID, anchorID string,
	patch store.EntryPatch,
) error {
	anchor, err := st.GetEntry(ctx, userID, anchorID)
	if err != nil {
		return fmt.Errorf("loading anchor: %w", err)
	}
	if anchor.Migrated() {
		return nil
	}
	return st.UpdateEntry(ctx, userID, anchorID, patch)
}

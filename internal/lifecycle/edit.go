package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// Edit holds the fields UpdateWithSync may change. Nil fields are kept.
type Edit struct {
	Content *string
	Type    *model.EntryType
}

func (ed Edit) patch() (store.EntryPatch, error) {
	var p store.EntryPatch
	if ed.Content != nil {
		content := strings.TrimSpace(*ed.Content)
		if content == "" {
			return p, fmt.Errorf("%w: content must not be empty", model.ErrInvalidInput)
		}
		p.Content = &content
	}
	if ed.Type != nil {
		if !ed.Type.Valid() {
			return p, fmt.Errorf("%w: unknown entry type %q", model.ErrInvalidInput, *ed.Type)
		}
		p.Type = ed.Type
	}
	return p, nil
}

// UpdateWithSync edits the content or type of an entry and copies the same
// values to its anchor (for a daily row) or to its daily descendants (for an
// anchor). Migrated rows are neither edited nor edit targets. Status is
// never changed.
func (e *Engine) UpdateWithSync(ctx context.Context, userID, id string, ed Edit) (*model.Entry, error) {
	patch, err := ed.patch()
	if err != nil {
		return nil, err
	}

	var result *model.Entry
	err = e.store.WithTx(ctx, func(st store.Store) error {
		entry, err := st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}
		if entry.Migrated() {
			return fmt.Errorf("entry %s: %w", id, model.ErrReadOnly)
		}
		if patch.Empty() {
			result = entry
			return nil
		}

		if err := st.UpdateEntry(ctx, userID, id, patch); err != nil {
			return err
		}

		if entry.LogType == model.LogTypeDaily && entry.AnchorID != nil {
			if err := e.toAnchor(ctx, st, userID, *entry.AnchorID, patch); err != nil {
				return err
			}
		}
		if entry.IsAnchorLog() {
			if err := e.toDescendants(ctx, st, userID, id, patch); err != nil {
				return err
			}
		}

		result, err = st.GetEntry(ctx, userID, id)
		if err != nil {
			return err
		}

		// A daily row that just became a task needs an anchor.
		if result.Kind() == model.KindDailyTask && result.AnchorID == nil {
			anchor, err := e.createAnchorFor(ctx, st, result)
			if err != nil {
				return err
			}
			if err := st.UpdateEntry(ctx, userID, id, store.EntryPatch{AnchorID: &anchor.ID}); err != nil {
				return err
			}
			result.AnchorID = &anchor.ID
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating entry %s: %w", id, err)
	}
	return result, nil
}

package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// CreateParams describes a new entry.
type CreateParams struct {
	Type    model.EntryType
	Content string
	LogType model.LogType
	Date    model.Date

	// Position is the display slot; nil appends to the date or month bucket.
	Position *int

	// AnchorID links a daily task to an existing monthly or future anchor.
	// When empty for a daily task, an anchor is created alongside it.
	AnchorID string

	// ChainID joins an existing chain; empty allocates a fresh one.
	ChainID string

	CollectionID *string
	Tags         []string
	Source       model.Source
	ExternalID   *string
}

func (p *CreateParams) validate() error {
	p.Content = strings.TrimSpace(p.Content)
	if p.Content == "" {
		return fmt.Errorf("%w: content must not be empty", model.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown entry type %q", model.ErrInvalidInput, p.Type)
	}
	if !p.LogType.Valid() {
		return fmt.Errorf("%w: unknown log type %q", model.ErrInvalidInput, p.LogType)
	}
	if !p.Date.Valid() {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, p.Date)
	}
	if p.Source == "" {
		p.Source = model.SourceUser
	}
	if !p.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", model.ErrInvalidInput, p.Source)
	}
	if p.AnchorID != "" && (p.LogType != model.LogTypeDaily || p.Type != model.EntryTypeTask) {
		return fmt.Errorf("%w: only daily tasks carry an anchor", model.ErrInvalidInput)
	}
	return nil
}

// Create inserts a new entry. A daily task created without an anchor gets a
// monthly anchor in the same transaction, dated the same day and sharing a
// fresh chain.
func (e *Engine) Create(ctx context.Context, userID string, p CreateParams) (*model.Entry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var created *model.Entry
	err := e.store.WithTx(ctx, func(st store.Store) error {
		var err error
		created, err = e.create(ctx, st, userID, p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	return created, nil
}

// CreateAll inserts several entries in one transaction. Either all of them
// are created or none is.
func (e *Engine) CreateAll(ctx context.Context, userID string, ps []CreateParams) ([]*model.Entry, error) {
	for i := range ps {
		if err := ps[i].validate(); err != nil {
			return nil, err
		}
	}

	created := make([]*model.Entry, 0, len(ps))
	err := e.store.WithTx(ctx, func(st store.Store) error {
		for _, p := range ps {
			entry, err := e.create(ctx, st, userID, p)
			if err != nil {
				return err
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating %d entries: %w", len(ps), err)
	}
	return created, nil
}

func (e *Engine) create(ctx context.Context, st store.Store, userID string, p CreateParams) (*model.Entry, error) {
	entry := &model.Entry{
		UserID:       userID,
		Type:         p.Type,
		Content:      p.Content,
		Status:       model.StatusOpen,
		LogType:      p.LogType,
		Date:         p.Date,
		CollectionID: p.CollectionID,
		ChainID:      p.ChainID,
		Tags:         p.Tags,
		Source:       p.Source,
		ExternalID:   p.ExternalID,
	}

	if entry.Kind() == model.KindDailyTask {
		if p.AnchorID == "" {
			if entry.ChainID == "" {
				entry.ChainID = model.NewChainID()
			}
			anchor, err := e.createAnchorFor(ctx, st, entry)
			if err != nil {
				return nil, err
			}
			entry.AnchorID = &anchor.ID
		} else {
			anchor, err := st.GetEntry(ctx, userID, p.AnchorID)
			if err != nil {
				return nil, err
			}
			if anchor.Migrated() {
				return nil, fmt.Errorf("anchor %s: %w", anchor.ID, model.ErrReadOnly)
			}
			if entry.ChainID == "" {
				entry.ChainID = anchor.ChainID
			}
			if err := model.CheckAnchorPair(entry, anchor); err != nil {
				return nil, err
			}
			active, err := st.CountEntries(ctx, userID, activeDaily(anchor.ID))
			if err != nil {
				return nil, err
			}
			if active > 0 {
				return nil, fmt.Errorf("%w: anchor %s is already planned; plan or migrate it instead",
					model.ErrInvalidInput, anchor.ID)
			}
			if anchor.Date != entry.Date {
				if err := st.UpdateEntry(ctx, userID, anchor.ID, store.EntryPatch{Date: &entry.Date}); err != nil {
					return nil, err
				}
			}
			entry.AnchorID = &anchor.ID
		}
	}

	if entry.ChainID == "" {
		entry.ChainID = model.NewChainID()
	}

	if p.Position != nil {
		entry.Position = *p.Position
	} else {
		pos, err := e.appendPosition(ctx, st, entry)
		if err != nil {
			return nil, err
		}
		entry.Position = pos
	}

	if err := st.InsertEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// createAnchorFor inserts the monthly anchor of a new daily task. The anchor
// carries the task's day so the monthly view shows when it is planned.
func (e *Engine) createAnchorFor(ctx context.Context, st store.Store, daily *model.Entry) (*model.Entry, error) {
	pos, err := monthPosition(ctx, st, daily.UserID, daily.Date)
	if err != nil {
		return nil, err
	}

	anchor := &model.Entry{
		UserID:   daily.UserID,
		Type:     daily.Type,
		Content:  daily.Content,
		Status:   model.StatusOpen,
		LogType:  model.LogTypeMonthly,
		Date:     daily.Date,
		ChainID:  daily.ChainID,
		Position: pos,
		Source:   daily.Source,
	}
	if err := st.InsertEntry(ctx, anchor); err != nil {
		return nil, fmt.Errorf("creating anchor: %w", err)
	}
	return anchor, nil
}

// appendPosition returns the current size of the bucket entry joins.
func (e *Engine) appendPosition(ctx context.Context, st store.Store, entry *model.Entry) (int, error) {
	switch entry.LogType {
	case model.LogTypeDaily:
		return dayPosition(ctx, st, entry.UserID, entry.Date)
	case model.LogTypeMonthly, model.LogTypeFuture:
		return monthPosition(ctx, st, entry.UserID, entry.Date)
	default:
		filter := store.EntryFilter{LogTypes: []model.LogType{model.LogTypeCollection}}
		if entry.CollectionID != nil {
			filter.CollectionID = entry.CollectionID
		}
		return st.CountEntries(ctx, entry.UserID, filter)
	}
}

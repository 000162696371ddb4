// Package lifecycle implements the entry lifecycle of the journal: creation
// with automatic anchors, status propagation along a chain, content sync,
// planning, same-month and cross-month migration, and chain-wide deletion.
//
// Every operation takes the id of the acting user and touches only that
// user's rows. Operations that write more than one row run inside a single
// store transaction.
package lifecycle

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// Engine runs lifecycle operations against a Store.
type Engine struct {
	store  store.Store
	logger *log.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for invariant violations and skipped
// bulk migrations. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine backed by s.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine writes to.
func (e *Engine) Store() store.Store {
	return e.store
}

// Today returns the engine's current calendar day.
func (e *Engine) Today() model.Date {
	return model.DateOf(e.now())
}

func ptr[T any](v T) *T {
	return &v
}

var (
	dailyLog  = []model.LogType{model.LogTypeDaily}
	notFrozen = []model.Status{model.StatusMigrated}
)

// dayPosition returns the append position for a daily row at date.
func dayPosition(ctx context.Context, st store.Store, userID string, date model.Date) (int, error) {
	return st.CountEntries(ctx, userID, store.EntryFilter{
		LogTypes: dailyLog,
		Date:     &date,
	})
}

// monthPosition returns the append position for a monthly or future row in
// date's month.
func monthPosition(ctx context.Context, st store.Store, userID string, date model.Date) (int, error) {
	return st.CountEntries(ctx, userID, monthFilter(date))
}

// monthFilter selects the monthly and future rows dated within date's month.
func monthFilter(date model.Date) store.EntryFilter {
	first, last := date.FirstOfMonth(), date.LastOfMonth()
	return store.EntryFilter{
		LogTypes: model.AnchorLogTypes,
		DateFrom: &first,
		DateTo:   &last,
	}
}

// activeDaily selects the non-migrated daily rows anchored on anchorID.
func activeDaily(anchorID string) store.EntryFilter {
	return store.EntryFilter{
		LogTypes:        dailyLog,
		AnchorID:        &anchorID,
		ExcludeStatuses: notFrozen,
	}
}

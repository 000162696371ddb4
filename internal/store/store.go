package store

import (
	"context"

	"github.com/nhle/bujo/internal/model"
)

// EntryFilter selects entries of one user. Nil and empty fields do not
// constrain the query; set fields are combined with AND.
type EntryFilter struct {
	LogTypes        []model.LogType
	Types           []model.EntryType
	Statuses        []model.Status
	ExcludeStatuses []model.Status
	Date            *model.Date // exact day
	DateFrom        *model.Date // inclusive
	DateTo          *model.Date // inclusive
	DateBefore      *model.Date // exclusive
	DateAfter       *model.Date // exclusive
	AnchorID        *string
	ChainIDs        []string
	CollectionID    *string
	Tag             *string
	ExternalID      *string
	IDPrefix        string
	ExcludeID       string
	SortBy          string // "position" (default), "date", "created_at", "updated_at"
	SortDesc        bool
	Limit           int

	// WithoutActiveDaily keeps only rows that no non-migrated daily entry
	// references as its anchor.
	WithoutActiveDaily bool
}

// EntryPatch lists the columns an update writes. Nil fields are left as is;
// updated_at is always refreshed.
type EntryPatch struct {
	Type     *model.EntryType
	Content  *string
	Status   *model.Status
	Date     *model.Date
	AnchorID *string
	Position *int
}

// Empty reports whether p would change nothing but updated_at.
func (p EntryPatch) Empty() bool {
	return p.Type == nil && p.Content == nil && p.Status == nil &&
		p.Date == nil && p.AnchorID == nil && p.Position == nil
}

// Store defines the persistence interface for journal entries, collections
// and meeting notes. Every method is scoped by user id.
type Store interface {
	// === Entries ===

	InsertEntry(ctx context.Context, e *model.Entry) error
	GetEntry(ctx context.Context, userID, id string) (*model.Entry, error)
	UpdateEntry(ctx context.Context, userID, id string, patch EntryPatch) error
	UpdateEntries(ctx context.Context, userID string, filter EntryFilter, patch EntryPatch) (int64, error)
	DeleteEntry(ctx context.Context, userID, id string) error
	DeleteEntries(ctx context.Context, userID string, filter EntryFilter) (int64, error)
	ListEntries(ctx context.Context, userID string, filter EntryFilter) ([]model.Entry, error)
	CountEntries(ctx context.Context, userID string, filter EntryFilter) (int, error)

	// === Collections ===

	CreateCollection(ctx context.Context, c *model.Collection) error
	UpdateCollection(ctx context.Context, c model.Collection) error
	DeleteCollection(ctx context.Context, userID, id string) error
	GetCollection(ctx context.Context, userID, id string) (*model.Collection, error)
	GetCollectionByType(ctx context.Context, userID string, t model.CollectionType) (*model.Collection, error)
	ListCollections(ctx context.Context, userID string) ([]model.Collection, error)

	// === Meeting notes ===

	CreateMeetingNote(ctx context.Context, n *model.MeetingNote) error
	UpdateMeetingNote(ctx context.Context, n model.MeetingNote) error
	DeleteMeetingNote(ctx context.Context, userID, id string) error
	DeleteMeetingNotes(ctx context.Context, userID, collectionID string) (int64, error)
	GetMeetingNote(ctx context.Context, userID, id string) (*model.MeetingNote, error)
	ListMeetingNotes(ctx context.Context, userID, collectionID string) ([]model.MeetingNote, error)

	// === Transactions ===

	// WithTx runs fn against a Store bound to one transaction, committing
	// when fn returns nil and rolling back otherwise. Calling WithTx on a
	// transactional Store runs fn inside the existing transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Close() error
}

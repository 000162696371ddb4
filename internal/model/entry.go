package model

import "time"

// EntryType is the bullet kind of an entry.
type EntryType string

const (
	EntryTypeTask  EntryType = "task"
	EntryTypeEvent EntryType = "event"
	EntryTypeNote  EntryType = "note"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeTask, EntryTypeEvent, EntryTypeNote:
		return true
	}
	return false
}

// Status is the lifecycle state of a single entry row.
type Status string

const (
	StatusOpen      Status = "open"
	StatusDone      Status = "done"
	StatusMigrated  Status = "migrated"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusDone, StatusMigrated, StatusCancelled:
		return true
	}
	return false
}

// Resolved reports whether s decides the fate of a chain.
func (s Status) Resolved() bool {
	return s == StatusDone || s == StatusCancelled
}

// LogType names the view that owns an entry row.
type LogType string

const (
	LogTypeDaily      LogType = "daily"
	LogTypeMonthly    LogType = "monthly"
	LogTypeFuture     LogType = "future"
	LogTypeCollection LogType = "collection"
)

// Valid reports whether l is a known log type.
func (l LogType) Valid() bool {
	switch l {
	case LogTypeDaily, LogTypeMonthly, LogTypeFuture, LogTypeCollection:
		return true
	}
	return false
}

// AnchorLogTypes are the log types whose rows can anchor daily tasks.
var AnchorLogTypes = []LogType{LogTypeMonthly, LogTypeFuture}

// Source records where an entry came from. It has no behavioral effect.
type Source string

const (
	SourceUser                Source = "user"
	SourceExternalIntegration Source = "external-integration"
	SourceCalendarSync        Source = "calendar-sync"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceUser, SourceExternalIntegration, SourceCalendarSync:
		return true
	}
	return false
}

// Entry is one bullet-journal item. Several entries may represent the same
// logical task; they share a ChainID.
type Entry struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Type         EntryType `json:"type" db:"type"`
	Content      string    `json:"content" db:"content"`
	Status       Status    `json:"status" db:"status"`
	LogType      LogType   `json:"log_type" db:"log_type"`
	Date         Date      `json:"date" db:"date"`
	CollectionID *string   `json:"collection_id,omitempty" db:"collection_id"`
	AnchorID     *string   `json:"anchor_id,omitempty" db:"monthly_id"`
	ChainID      string    `json:"chain_id" db:"task_uid"`
	Position     int       `json:"position" db:"position"`
	Source       Source    `json:"source" db:"source"`
	ExternalID   *string   `json:"external_id,omitempty" db:"external_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Tags is loaded from entry_tags.
	Tags []string `json:"tags" db:"-"`
}

// EntryKind is the structural role of an entry within its chain.
type EntryKind int

const (
	// KindOther is any row that takes no part in anchor linkage.
	KindOther EntryKind = iota
	// KindDailyTask is a daily task row; it must reference an anchor.
	KindDailyTask
	// KindAnchor is a monthly or future row that daily tasks may reference.
	KindAnchor
)

// Kind classifies e by its log type and bullet type.
func (e *Entry) Kind() EntryKind {
	switch {
	case e.LogType == LogTypeDaily && e.Type == EntryTypeTask:
		return KindDailyTask
	case e.IsAnchorLog():
		return KindAnchor
	default:
		return KindOther
	}
}

// IsAnchorLog reports whether e lives in the monthly or future log.
func (e *Entry) IsAnchorLog() bool {
	return e.LogType == LogTypeMonthly || e.LogType == LogTypeFuture
}

// Migrated reports whether e is a frozen history row.
func (e *Entry) Migrated() bool {
	return e.Status == StatusMigrated
}

// HasTag reports whether e carries tag.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MeetingTag is the tag that ties an action item to a meeting note.
func MeetingTag(meetingNoteID string) string {
	return "meeting:" + meetingNoteID
}

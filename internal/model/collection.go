package model

import "time"

// CollectionType distinguishes built-in collections from user-made ones.
type CollectionType string

const (
	CollectionTypeMeetings CollectionType = "meetings"
	CollectionTypeIdeas    CollectionType = "ideas"
	CollectionTypeCustom   CollectionType = "custom"
)

// Valid reports whether t is a known collection type.
func (t CollectionType) Valid() bool {
	switch t {
	case CollectionTypeMeetings, CollectionTypeIdeas, CollectionTypeCustom:
		return true
	}
	return false
}

// Singleton reports whether a user has at most one collection of type t.
func (t CollectionType) Singleton() bool {
	return t == CollectionTypeMeetings || t == CollectionTypeIdeas
}

// DefaultCollectionIcon is used when a collection is created without one.
const DefaultCollectionIcon = "📋"

// BuiltinCollection holds the defaults for an auto-created collection.
type BuiltinCollection struct {
	Name string
	Icon string
}

// BuiltinCollections maps singleton types to their defaults.
var BuiltinCollections = map[CollectionType]BuiltinCollection{
	CollectionTypeMeetings: {Name: "Meeting Notes", Icon: "📋"},
	CollectionTypeIdeas:    {Name: "Ideas", Icon: "💡"},
}

// Collection is a named container of collection-log entries and, for the
// meetings type, meeting notes.
type Collection struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Name      string         `json:"name" db:"name"`
	Type      CollectionType `json:"type" db:"type"`
	Icon      string         `json:"icon" db:"icon"`
	Template  map[string]any `json:"template,omitempty" db:"-"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

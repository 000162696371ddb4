package model

import "time"

// MeetingNote records one meeting. Its action items are monthly task
// entries tagged with MeetingTag(ID).
type MeetingNote struct {
	ID           string    `json:"id" db:"id"`
	CollectionID string    `json:"collection_id" db:"collection_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Date         Date      `json:"date" db:"date"`
	Title        string    `json:"title" db:"title"`
	Attendees    []string  `json:"attendees" db:"-"`
	Agenda       string    `json:"agenda" db:"agenda"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

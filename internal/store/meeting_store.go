package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/bujo/internal/model"
)

const meetingColumns = `id, collection_id, user_id, date, title, attendees,
	agenda, notes, created_at, updated_at`

// meetingRow is the stored shape of a meeting note; attendees are JSON.
type meetingRow struct {
	model.MeetingNote
	AttendeesJSON string `db:"attendees"`
}

func (r meetingRow) toModel() (model.MeetingNote, error) {
	n := r.MeetingNote
	n.Attendees = []string{}
	if r.AttendeesJSON != "" {
		if err := json.Unmarshal([]byte(r.AttendeesJSON), &n.Attendees); err != nil {
			return model.MeetingNote{}, fmt.Errorf("decoding attendees of meeting note %s: %w", n.ID, err)
		}
	}
	return n, nil
}

func encodeAttendees(attendees []string) (string, error) {
	if attendees == nil {
		attendees = []string{}
	}
	data, err := json.Marshal(attendees)
	if err != nil {
		return "", fmt.Errorf("encoding attendees: %w", err)
	}
	return string(data), nil
}

func validateMeetingNote(n *model.MeetingNote) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: meeting title must not be empty", model.ErrInvalidInput)
	}
	if !n.Date.Valid() {
		return fmt.Errorf("%w: meeting date %q", model.ErrInvalidInput, n.Date)
	}
	return nil
}

// CreateMeetingNote inserts a meeting note and writes the stored values
// back into n. Generates a UUID if ID is empty.
func (s *SQLStore) CreateMeetingNote(ctx context.Context, n *model.MeetingNote) error {
	if err := validateMeetingNote(n); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Attendees == nil {
		n.Attendees = []string{}
	}

	attendees, err := encodeAttendees(n.Attendees)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, `
		INSERT INTO meeting_notes (
			id, collection_id, user_id, date, title, attendees,
			agenda, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.CollectionID, n.UserID, n.Date, n.Title, attendees,
		n.Agenda, n.Notes, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating meeting note: %w", err)
	}
	return nil
}

// UpdateMeetingNote updates every editable field of a meeting note.
func (s *SQLStore) UpdateMeetingNote(ctx context.Context, n model.MeetingNote) error {
	if err := validateMeetingNote(&n); err != nil {
		return err
	}
	attendees, err := encodeAttendees(n.Attendees)
	if err != nil {
		return err
	}

	rows, err := s.exec(ctx, `
		UPDATE meeting_notes SET
			date = ?, title = ?, attendees = ?, agenda = ?, notes = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`,
		n.Date, n.Title, attendees, n.Agenda, n.Notes, time.Now().UTC(),
		n.UserID, n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating meeting note %s: %w", n.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("meeting note %s: %w", n.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteMeetingNote removes a meeting note by ID.
func (s *SQLStore) DeleteMeetingNote(ctx context.Context, userID, id string) error {
	rows, err := s.exec(ctx, "DELETE FROM meeting_notes WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting meeting note %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("meeting note %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteMeetingNotes removes every meeting note of a collection.
func (s *SQLStore) DeleteMeetingNotes(ctx context.Context, userID, collectionID string) (int64, error) {
	rows, err := s.exec(ctx,
		"DELETE FROM meeting_notes WHERE user_id = ? AND collection_id = ?", userID, collectionID)
	if err != nil {
		return 0, fmt.Errorf("deleting meeting notes of collection %s: %w", collectionID, err)
	}
	return rows, nil
}

// GetMeetingNote retrieves a single meeting note by ID.
func (s *SQLStore) GetMeetingNote(ctx context.Context, userID, id string) (*model.MeetingNote, error) {
	var row meetingRow
	err := s.get(ctx, &row,
		"SELECT "+meetingColumns+" FROM meeting_notes WHERE user_id = ? AND id = ?",
		userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meeting note %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting meeting note %s: %w", id, err)
	}

	n, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListMeetingNotes returns the notes of a collection, most recent first.
func (s *SQLStore) ListMeetingNotes(ctx context.Context, userID, collectionID string) ([]model.MeetingNote, error) {
	var rows []meetingRow
	if err := s.sel(ctx, &rows,
		"SELECT "+meetingColumns+" FROM meeting_notes WHERE user_id = ? AND collection_id = ? ORDER BY date DESC, created_at DESC",
		userID, collectionID,
	); err != nil {
		return nil, fmt.Errorf("querying meeting notes: %w", err)
	}

	notes := make([]model.MeetingNote, 0, len(rows))
	for _, r := range rows {
		n, err := r.toModel()
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

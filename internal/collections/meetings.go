package collections

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/store"
)

// Notes returns the meeting notes of a collection, most recent first.
func (s *Service) Notes(ctx context.Context, userID, collectionID string) ([]model.MeetingNote, error) {
	return s.store.ListMeetingNotes(ctx, userID, collectionID)
}

// Note returns one meeting note.
func (s *Service) Note(ctx context.Context, userID, id string) (*model.MeetingNote, error) {
	return s.store.GetMeetingNote(ctx, userID, id)
}

// NoteParams describes a new meeting note.
type NoteParams struct {
	CollectionID string
	Date         model.Date
	Title        string
	Attendees    []string
	Agenda       string
	Notes        string
}

// CreateNote records a meeting in a collection.
func (s *Service) CreateNote(ctx context.Context, userID string, p NoteParams) (*model.MeetingNote, error) {
	if _, err := s.store.GetCollection(ctx, userID, p.CollectionID); err != nil {
		return nil, err
	}

	n := &model.MeetingNote{
		CollectionID: p.CollectionID,
		UserID:       userID,
		Date:         p.Date,
		Title:        strings.TrimSpace(p.Title),
		Attendees:    p.Attendees,
		Agenda:       p.Agenda,
		Notes:        p.Notes,
	}
	if err := s.store.CreateMeetingNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// NoteUpdate holds the meeting note fields that may change. Nil fields are
// kept.
type NoteUpdate struct {
	Date      *model.Date
	Title     *string
	Attendees []string
	Agenda    *string
	Notes     *string
}

// UpdateNote edits a meeting note.
func (s *Service) UpdateNote(ctx context.Context, userID, id string, u NoteUpdate) (*model.MeetingNote, error) {
	var result *model.MeetingNote
	err := s.store.WithTx(ctx, func(st store.Store) error {
		n, err := st.GetMeetingNote(ctx, userID, id)
		if err != nil {
			return err
		}
		if u.Date != nil {
			n.Date = *u.Date
		}
		if u.Title != nil {
			n.Title = strings.TrimSpace(*u.Title)
		}
		if u.Attendees != nil {
			n.Attendees = u.Attendees
		}
		if u.Agenda != nil {
			n.Agenda = *u.Agenda
		}
		if u.Notes != nil {
			n.Notes = *u.Notes
		}
		if err := st.UpdateMeetingNote(ctx, *n); err != nil {
			return err
		}
		result, err = st.GetMeetingNote(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating meeting note %s: %w", id, err)
	}
	return result, nil
}

// DeleteNote removes a meeting note. Its action items stay in the journal.
func (s *Service) DeleteNote(ctx context.Context, userID, id string) error {
	return s.store.DeleteMeetingNote(ctx, userID, id)
}

// ActionItems returns the tasks raised in a meeting, by position.
func (s *Service) ActionItems(ctx context.Context, userID, noteID string) ([]model.Entry, error) {
	n, err := s.store.GetMeetingNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	tag := model.MeetingTag(n.ID)
	return s.store.ListEntries(ctx, userID, store.EntryFilter{
		Types:        []model.EntryType{model.EntryTypeTask},
		CollectionID: &n.CollectionID,
		Tag:          &tag,
	})
}

// AddActionItem raises a task from a meeting. It lands in the monthly log
// of the current month, filed in the meeting's collection and tagged with
// the meeting.
func (s *Service) AddActionItem(ctx context.Context, userID, noteID, content string) (*model.Entry, error) {
	n, err := s.store.GetMeetingNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	return s.engine.Create(ctx, userID, lifecycle.CreateParams{
		Type:         model.EntryTypeTask,
		Content:      content,
		LogType:      model.LogTypeMonthly,
		Date:         s.engine.Today().FirstOfMonth(),
		CollectionID: &n.CollectionID,
		Tags:         []string{model.MeetingTag(n.ID)},
		Source:       s.source,
	})
}

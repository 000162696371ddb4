package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/bujo/internal/model"
)

const entryColumns = `entries.id, entries.user_id, entries.type, entries.content,
	entries.status, entries.log_type, entries.date, entries.collection_id,
	entries.monthly_id, entries.task_uid, entries.position, entries.source,
	entries.external_id, entries.created_at, entries.updated_at`

// InsertEntry inserts e and writes the stored values (id, defaults and
// timestamps) back into it. Generates a UUID if ID is empty.
func (s *SQLStore) InsertEntry(ctx context.Context, e *model.Entry) error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: entry user must not be empty", model.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: entry content must not be empty", model.ErrInvalidInput)
	}
	if !e.Type.Valid() || !e.LogType.Valid() {
		return fmt.Errorf("%w: entry type %q / log type %q", model.ErrInvalidInput, e.Type, e.LogType)
	}
	if !e.Date.Valid() {
		return fmt.Errorf("%w: entry date %q", model.ErrInvalidInput, e.Date)
	}
	if e.ChainID == "" {
		return fmt.Errorf("%w: entry chain must not be empty", model.ErrInvalidInput)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = model.StatusOpen
	}
	if e.Source == "" {
		e.Source = model.SourceUser
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.exec(ctx, `
		INSERT INTO entries (
			id, user_id, type, content, status, log_type, date,
			collection_id, monthly_id, task_uid, position, source,
			external_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Type, e.Content, e.Status, e.LogType, e.Date,
		e.CollectionID, e.AnchorID, e.ChainID, e.Position, e.Source,
		e.ExternalID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	if err := s.setEntryTags(ctx, e.ID, e.Tags); err != nil {
		return err
	}
	return nil
}

// GetEntry retrieves a single entry by ID, including its tags.
func (s *SQLStore) GetEntry(ctx context.Context, userID, id string) (*model.Entry, error) {
	var e model.Entry
	err := s.get(ctx, &e,
		"SELECT "+entryColumns+" FROM entries WHERE entries.user_id = ? AND entries.id = ?",
		userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}

	tags, err := s.loadTags(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Tags = tagsOrEmpty(tags[e.ID])

	return &e, nil
}

// UpdateEntry applies patch to one entry.
func (s *SQLStore) UpdateEntry(ctx context.Context, userID, id string, patch EntryPatch) error {
	set, args := buildEntryPatch(patch)
	args = append(args, userID, id)

	rows, err := s.exec(ctx,
		"UPDATE entries SET "+set+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("entry %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// UpdateEntries applies patch to every entry matching filter and returns
// the number of rows changed.
func (s *SQLStore) UpdateEntries(
	ctx context.Context,
	userID string,
	filter EntryFilter,
	patch EntryPatch,
) (int64, error) {
	set, setArgs := buildEntryPatch(patch)
	where, whereArgs := buildEntryWhere(userID, filter)

	rows, err := s.exec(ctx,
		"UPDATE entries SET "+set+" WHERE "+where,
		append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, fmt.Errorf("updating entries: %w", err)
	}
	return rows, nil
}

// DeleteEntry removes an entry by ID. Cascades to entry_tags and to daily
// entries anchored on it.
func (s *SQLStore) DeleteEntry(ctx context.Context, userID, id string) error {
	rows, err := s.exec(ctx, "DELETE FROM entries WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("entry %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteEntries removes every entry matching filter in one statement.
func (s *SQLStore) DeleteEntries(ctx context.Context, userID string, filter EntryFilter) (int64, error) {
	where, args := buildEntryWhere(userID, filter)

	rows, err := s.exec(ctx, "DELETE FROM entries WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting entries: %w", err)
	}
	return rows, nil
}

// ListEntries retrieves entries matching the filter, with their tags.
func (s *SQLStore) ListEntries(ctx context.Context, userID string, filter EntryFilter) ([]model.Entry, error) {
	where, args := buildEntryWhere(userID, filter)
	query := "SELECT " + entryColumns + " FROM entries WHERE " + where + buildEntryOrder(filter)

	var entries []model.Entry
	if err := s.sel(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tags = tagsOrEmpty(tags[entries[i].ID])
	}

	return entries, nil
}

// CountEntries returns the count of entries matching the filter.
func (s *SQLStore) CountEntries(ctx context.Context, userID string, filter EntryFilter) (int, error) {
	where, args := buildEntryWhere(userID, filter)

	var count int
	if err := s.get(ctx, &count, "SELECT COUNT(*) FROM entries WHERE "+where, args...); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// setEntryTags replaces the tags of an entry, keeping their order.
func (s *SQLStore) setEntryTags(ctx context.Context, entryID string, tags []string) error {
	if _, err := s.exec(ctx, "DELETE FROM entry_tags WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clearing tags for entry %s: %w", entryID, err)
	}

	seen := make(map[string]bool, len(tags))
	pos := 0
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		if _, err := s.exec(ctx,
			"INSERT INTO entry_tags (entry_id, tag, position) VALUES (?, ?, ?)",
			entryID, tag, pos,
		); err != nil {
			return fmt.Errorf("tagging entry %s: %w", entryID, err)
		}
		pos++
	}
	return nil
}

// loadTags returns the tags of the given entries keyed by entry id.
func (s *SQLStore) loadTags(ctx context.Context, entryIDs []string) (map[string][]string, error) {
	query, args, err := sqlx.In(
		"SELECT entry_id, tag FROM entry_tags WHERE entry_id IN (?) ORDER BY entry_id, position",
		entryIDs)
	if err != nil {
		return nil, fmt.Errorf("building tag query: %w", err)
	}

	var rows []struct {
		EntryID string `db:"entry_id"`
		Tag     string `db:"tag"`
	}
	if err := s.sel(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}

	tags := make(map[string][]string, len(entryIDs))
	for _, r := range rows {
		tags[r.EntryID] = append(tags[r.EntryID], r.Tag)
	}
	return tags, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// buildEntryPatch returns the SET clause and args for patch.
func buildEntryPatch(patch EntryPatch) (string, []any) {
	var sets []string
	var args []any

	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *patch.Type)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *patch.Date)
	}
	if patch.AnchorID != nil {
		sets = append(sets, "monthly_id = ?")
		args = append(args, *patch.AnchorID)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())

	return strings.Join(sets, ", "), args
}

// buildEntryWhere constructs the WHERE clause and args for an EntryFilter.
// The user condition is always present.
func buildEntryWhere(userID string, filter EntryFilter) (string, []any) {
	conditions := []string{"entries.user_id = ?"}
	args := []any{userID}

	in := func(column string, n int) {
		conditions = append(conditions, column+" IN ("+placeholders(n)+")")
	}

	if len(filter.LogTypes) > 0 {
		in("entries.log_type", len(filter.LogTypes))
		for _, v := range filter.LogTypes {
			args = append(args, v)
		}
	}
	if len(filter.Types) > 0 {
		in("entries.type", len(filter.Types))
		for _, v := range filter.Types {
			args = append(args, v)
		}
	}
	if len(filter.Statuses) > 0 {
		in("entries.status", len(filter.Statuses))
		for _, v := range filter.Statuses {
			args = append(args, v)
		}
	}
	if len(filter.ExcludeStatuses) > 0 {
		conditions = append(conditions,
			"entries.status NOT IN ("+placeholders(len(filter.ExcludeStatuses))+")")
		for _, v := range filter.ExcludeStatuses {
			args = append(args, v)
		}
	}
	if filter.Date != nil {
		conditions = append(conditions, "entries.date = ?")
		args = append(args, *filter.Date)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "entries.date >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "entries.date <= ?")
		args = append(args, *filter.DateTo)
	}
	if filter.DateBefore != nil {
		conditions = append(conditions, "entries.date < ?")
		args = append(args, *filter.DateBefore)
	}
	if filter.DateAfter != nil {
		conditions = append(conditions, "entries.date > ?")
		args = append(args, *filter.DateAfter)
	}
	if filter.AnchorID != nil {
		conditions = append(conditions, "entries.monthly_id = ?")
		args = append(args, *filter.AnchorID)
	}
	if len(filter.ChainIDs) > 0 {
		in("entries.task_uid", len(filter.ChainIDs))
		for _, v := range filter.ChainIDs {
			args = append(args, v)
		}
	}
	if filter.CollectionID != nil {
		conditions = append(conditions, "entries.collection_id = ?")
		args = append(args, *filter.CollectionID)
	}
	if filter.Tag != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM entry_tags WHERE entry_tags.entry_id = entries.id AND entry_tags.tag = ?)")
		args = append(args, *filter.Tag)
	}
	if filter.ExternalID != nil {
		conditions = append(conditions, "entries.external_id = ?")
		args = append(args, *filter.ExternalID)
	}
	if filter.IDPrefix != "" {
		conditions = append(conditions, "entries.id LIKE ?")
		args = append(args, filter.IDPrefix+"%")
	}
	if filter.ExcludeID != "" {
		conditions = append(conditions, "entries.id <> ?")
		args = append(args, filter.ExcludeID)
	}
	if filter.WithoutActiveDaily {
		conditions = append(conditions, `NOT EXISTS (
			SELECT 1 FROM entries AS daily
			WHERE daily.monthly_id = entries.id
				AND daily.log_type = ? AND daily.status <> ?)`)
		args = append(args, model.LogTypeDaily, model.StatusMigrated)
	}

	return strings.Join(conditions, " AND "), args
}

// buildEntryOrder returns the ORDER BY and LIMIT clauses for filter.
func buildEntryOrder(filter EntryFilter) string {
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var order string
	switch filter.SortBy {
	case "date":
		order = fmt.Sprintf("entries.date %s, entries.position %s, entries.created_at %s",
			direction, direction, direction)
	case "created_at":
		order = fmt.Sprintf("entries.created_at %s, entries.id %s", direction, direction)
	case "updated_at":
		order = fmt.Sprintf("entries.updated_at %s, entries.id %s", direction, direction)
	default:
		order = fmt.Sprintf("entries.position %s, entries.created_at %s", direction, direction)
	}

	query := " ORDER BY " + order
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query
}

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

const collectionColumns = "id, user_id, name, type, icon, template, created_at"

// collectionRow is the stored shape of a collection; the template is JSON.
type collectionRow struct {
	model.Collection
	TemplateJSON *string `db:"template"`
}

func (r collectionRow) toModel() (model.Collection, error) {
	c := r.Collection
	if r.TemplateJSON != nil && *r.TemplateJSON != "" {
		if err := json.Unmarshal([]byte(*r.TemplateJSON), &c.Template); err != nil {
			return model.Collection{}, fmt.Errorf("decoding template of collection %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func encodeTemplate(template map[string]any) (*string, error) {
	if template == nil {
		return nil, nil
	}
	data, err := json.Marshal(template)
	if err != nil {
		return nil, fmt.Errorf("encoding collection template: %w", err)
	}
	str := string(data)
	return &str, nil
}

// CreateCollection inserts a new collection and writes the stored values
// back into c. Generates a UUID if ID is empty. A second meetings or ideas
// collection for the same user fails with model.ErrConflict.
func (s *SQLStore) CreateCollection(ctx context.Context, c *model.Collection) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: collection name must not be empty", model.ErrInvalidInput)
	}
	if c.Type == "" {
		c.Type = model.CollectionTypeCustom
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: collection type %q", model.ErrInvalidInput, c.Type)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Icon == "" {
		c.Icon = model.DefaultCollectionIcon
	}
	c.CreatedAt = time.Now().UTC()

	template, err := encodeTemplate(c.Template)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, `
		INSERT INTO collections (id, user_id, name, type, icon, template, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Type, c.Icon, template, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// UpdateCollection updates the name, icon and template of a collection.
func (s *SQLStore) UpdateCollection(ctx context.Context, c model.Collection) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: collection name must not be empty", model.ErrInvalidInput)
	}
	if c.Icon == "" {
		c.Icon = model.DefaultCollectionIcon
	}
	template, err := encodeTemplate(c.Template)
	if err != nil {
		return err
	}

	rows, err := s.exec(ctx,
		"UPDATE collections SET name = ?, icon = ?, template = ? WHERE user_id = ? AND id = ?",
		c.Name, c.Icon, template, c.UserID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating collection %s: %w", c.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("collection %s: %w", c.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteCollection removes a collection by ID. Cascades to meeting_notes;
// entries that still reference it lose the reference.
func (s *SQLStore) DeleteCollection(ctx context.Context, userID, id string) error {
	rows, err := s.exec(ctx, "DELETE FROM collections WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("collection %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetCollection retrieves a single collection by ID.
func (s *SQLStore) GetCollection(ctx context.Context, userID, id string) (*model.Collection, error) {
	var row collectionRow
	err := s.get(ctx, &row,
		"SELECT "+collectionColumns+" FROM collections WHERE user_id = ? AND id = ?",
		userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", id, err)
	}

	c, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCollectionByType returns the oldest collection of type t.
func (s *SQLStore) GetCollectionByType(
	ctx context.Context,
	userID string,
	t model.CollectionType,
) (*model.Collection, error) {
	var row collectionRow
	err := s.get(ctx, &row,
		"SELECT "+collectionColumns+" FROM collections WHERE user_id = ? AND type = ? ORDER BY created_at LIMIT 1",
		userID, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s collection: %w", t, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s collection: %w", t, err)
	}

	c, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCollections returns all collections of a user, oldest first.
func (s *SQLStore) ListCollections(ctx context.Context, userID string) ([]model.Collection, error) {
	var rows []collectionRow
	if err := s.sel(ctx, &rows,
		"SELECT "+collectionColumns+" FROM collections WHERE user_id = ? ORDER BY created_at, name",
		userID,
	); err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}

	collections := make([]model.Collection, 0, len(rows))
	for _, r := range rows {
		c, err := r.toModel()
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, nil
}

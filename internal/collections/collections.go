// Package collections manages collections, their entries, meeting notes and
// meeting action items. Collection entries are ordinary journal entries
// created through the lifecycle engine; this package adds no chain rules of
// its own.
package collections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/rapidlog"
	"github.com/nhle/bujo/internal/store"
)

// Service runs collection and meeting operations for one store.
type Service struct {
	engine *lifecycle.Engine
	store  store.Store
	source model.Source
}

// New creates a Service sharing the engine's store.
func New(engine *lifecycle.Engine) *Service {
	return &Service{engine: engine, store: engine.Store(), source: model.SourceUser}
}

// WithSource returns a copy of s that records src on the entries it
// creates.
func (s *Service) WithSource(src model.Source) *Service {
	c := *s
	c.source = src
	return &c
}

// List returns every collection of the user, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Collection, error) {
	return s.store.ListCollections(ctx, userID)
}

// Get returns one collection.
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Collection, error) {
	return s.store.GetCollection(ctx, userID, id)
}

// ByType returns the user's collection of type t. The meetings and ideas
// collections are created with their built-in name and icon on first use.
func (s *Service) ByType(ctx context.Context, userID string, t model.CollectionType) (*model.Collection, error) {
	c, err := s.store.GetCollectionByType(ctx, userID, t)
	if err == nil || !errors.Is(err, model.ErrNotFound) {
		return c, err
	}

	builtin, ok := model.BuiltinCollections[t]
	if !ok {
		return nil, err
	}
	c = &model.Collection{UserID: userID, Name: builtin.Name, Type: t, Icon: builtin.Icon}
	err = s.store.CreateCollection(ctx, c)
	if errors.Is(err, model.ErrConflict) {
		// Created concurrently.
		return s.store.GetCollectionByType(ctx, userID, t)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateParams describes a new collection.
type CreateParams struct {
	Name     string
	Type     model.CollectionType
	Icon     string
	Template map[string]any
}

// Create adds a collection. Creating a second meetings or ideas collection
// fails with model.ErrConflict.
func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (*model.Collection, error) {
	c := &model.Collection{
		UserID:   userID,
		Name:     strings.TrimSpace(p.Name),
		Type:     p.Type,
		Icon:     p.Icon,
		Template: p.Template,
	}
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update holds the collection fields that may change. Nil fields are kept.
type Update struct {
	Name     *string
	Icon     *string
	Template map[string]any
}

// Update renames a collection or changes its icon or template.
func (s *Service) Update(ctx context.Context, userID, id string, u Update) (*model.Collection, error) {
	c, err := s.store.GetCollection(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Icon != nil {
		c.Icon = *u.Icon
	}
	if u.Template != nil {
		c.Template = u.Template
	}
	if err := s.store.UpdateCollection(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a collection with its entries and meeting notes. Every
// chain that has a row in the collection is removed whole, so no daily row
// is left pointing at a deleted anchor.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.store.WithTx(ctx, func(st store.Store) error {
		if _, err := st.GetCollection(ctx, userID, id); err != nil {
			return err
		}

		rows, err := st.ListEntries(ctx, userID, store.EntryFilter{CollectionID: &id})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			seen := make(map[string]bool, len(rows))
			var chains []string
			for _, r := range rows {
				if !seen[r.ChainID] {
					seen[r.ChainID] = true
					chains = append(chains, r.ChainID)
				}
			}
			if _, err := st.DeleteEntries(ctx, userID, store.EntryFilter{
				LogTypes: []model.LogType{model.LogTypeDaily},
				ChainIDs: chains,
			}); err != nil {
				return err
			}
			if _, err := st.DeleteEntries(ctx, userID, store.EntryFilter{ChainIDs: chains}); err != nil {
				return err
			}
		}

		if _, err := st.DeleteMeetingNotes(ctx, userID, id); err != nil {
			return err
		}
		return st.DeleteCollection(ctx, userID, id)
	})
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", id, err)
	}
	return nil
}

// Entries returns the entries filed in a collection by position.
func (s *Service) Entries(ctx context.Context, userID, collectionID string) ([]model.Entry, error) {
	return s.store.ListEntries(ctx, userID, store.EntryFilter{CollectionID: &collectionID})
}

// AddEntry files a rapid-log line in a collection, dated today. The
// signifier picks the entry type and hashtags become tags.
func (s *Service) AddEntry(ctx context.Context, userID, collectionID, line string) (*model.Entry, error) {
	if _, err := s.store.GetCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}

	item := rapidlog.Parse(line)
	return s.engine.Create(ctx, userID, lifecycle.CreateParams{
		Type:         item.Type,
		Content:      item.Content,
		LogType:      model.LogTypeCollection,
		Date:         s.engine.Today(),
		CollectionID: &collectionID,
		Tags:         item.Tags,
		Source:       s.source,
	})
}

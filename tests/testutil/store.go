// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/store"
)

// NewTestStore opens an in-memory SQLite journal with every migration
// applied and closes it when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestEngine returns an engine over a fresh test store whose clock is
// stopped at now.
func NewTestEngine(t *testing.T, now time.Time) (*lifecycle.Engine, *store.SQLStore) {
	t.Helper()
	st := NewTestStore(t)
	return lifecycle.New(st, lifecycle.WithClock(func() time.Time { return now })), st
}

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/bujo/internal/model"
)

// Open returns the store selected by cfg.Backend.
//
//   - "sqlite" (default): opens cfg.SQLitePath, creating its directory.
//   - "postgres": connects with cfg.PostgresDSN.
//
// Returns an error if the backend is unknown or cannot be opened.
func Open(ctx context.Context, cfg model.StorageConfig) (*SQLStore, error) {
	switch cfg.Backend {
	case "", model.BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = model.DefaultSQLitePath()
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return NewSQLiteStore(path)

	case model.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected %q or %q",
			cfg.Backend, model.BackendSQLite, model.BackendPostgres)
	}
}

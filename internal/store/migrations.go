package store

// migration holds a single schema migration with its target version and
// the SQL for each supported dialect.
type migration struct {
	version  int
	sqlite   string
	postgres string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sqlite: `
CREATE TABLE IF NOT EXISTS collections (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'custom'
	           CHECK (type IN ('meetings', 'ideas', 'custom')),
	icon       TEXT NOT NULL DEFAULT '📋',
	template   TEXT,
	created_at DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_collections_builtin
	ON collections(user_id, type) WHERE type IN ('meetings', 'ideas');

CREATE TABLE IF NOT EXISTS entries (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	type          TEXT NOT NULL CHECK (type IN ('task', 'event', 'note')),
	content       TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'open'
	              CHECK (status IN ('open', 'done', 'migrated', 'cancelled')),
	log_type      TEXT NOT NULL
	              CHECK (log_type IN ('daily', 'monthly', 'future', 'collection')),
	date          TEXT NOT NULL,
	collection_id TEXT REFERENCES collections(id) ON DELETE SET NULL,
	monthly_id    TEXT REFERENCES entries(id) ON DELETE CASCADE,
	task_uid      TEXT NOT NULL,
	position      INTEGER NOT NULL DEFAULT 0,
	source        TEXT NOT NULL DEFAULT 'user',
	external_id   TEXT,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user_id, date);
CREATE INDEX IF NOT EXISTS idx_entries_user_log_type ON entries(user_id, log_type);
CREATE INDEX IF NOT EXISTS idx_entries_collection_id ON entries(collection_id);
CREATE INDEX IF NOT EXISTS idx_entries_task_uid ON entries(task_uid);
CREATE INDEX IF NOT EXISTS idx_entries_monthly_id ON entries(monthly_id);

CREATE TABLE IF NOT EXISTS entry_tags (
	entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	tag      TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entry_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag);

CREATE TABLE IF NOT EXISTS meeting_notes (
	id            TEXT PRIMARY KEY,
	collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	user_id       TEXT NOT NULL,
	date          TEXT NOT NULL,
	title         TEXT NOT NULL,
	attendees     TEXT NOT NULL DEFAULT '[]',
	agenda        TEXT NOT NULL DEFAULT '',
	notes         TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meeting_notes_collection
	ON meeting_notes(collection_id, date);
`,
		postgres: `
CREATE TABLE IF NOT EXISTS collections (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'custom'
	           CHECK (type IN ('meetings', 'ideas', 'custom')),
	icon       TEXT NOT NULL DEFAULT '📋',
	template   TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_collections_builtin
	ON collections(user_id, type) WHERE type IN ('meetings', 'ideas');

CREATE TABLE IF NOT EXISTS entries (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	type          TEXT NOT NULL CHECK (type IN ('task', 'event', 'note')),
	content       TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'open'
	              CHECK (status IN ('open', 'done', 'migrated', 'cancelled')),
	log_type      TEXT NOT NULL
	              CHECK (log_type IN ('daily', 'monthly', 'future', 'collection')),
	date          TEXT NOT NULL CHECK (date ~ '^\d{4}-\d{2}-\d{2}$'),
	collection_id TEXT REFERENCES collections(id) ON DELETE SET NULL,
	monthly_id    TEXT REFERENCES entries(id) ON DELETE CASCADE,
	task_uid      TEXT NOT NULL,
	position      INTEGER NOT NULL DEFAULT 0,
	source        TEXT NOT NULL DEFAULT 'user',
	external_id   TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user_id, date);
CREATE INDEX IF NOT EXISTS idx_entries_user_log_type ON entries(user_id, log_type);
CREATE INDEX IF NOT EXISTS idx_entries_collection_id ON entries(collection_id);
CREATE INDEX IF NOT EXISTS idx_entries_task_uid ON entries(task_uid);
CREATE INDEX IF NOT EXISTS idx_entries_monthly_id ON entries(monthly_id);

CREATE TABLE IF NOT EXISTS entry_tags (
	entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	tag      TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entry_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag);

CREATE TABLE IF NOT EXISTS meeting_notes (
	id            TEXT PRIMARY KEY,
	collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	user_id       TEXT NOT NULL,
	date          TEXT NOT NULL,
	title         TEXT NOT NULL,
	attendees     TEXT NOT NULL DEFAULT '[]',
	agenda        TEXT NOT NULL DEFAULT '',
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meeting_notes_collection
	ON meeting_notes(collection_id, date);
`,
	},
}

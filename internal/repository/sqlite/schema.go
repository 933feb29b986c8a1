package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_live_idx
    ON users (LOWER(email)) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    category    TEXT NOT NULL CHECK (category IN ('ELECTRONICS','CLOTHING','ACCESSORIES','DOCUMENTS','KEYS','BAGS','OTHERS')),
    location    TEXT NOT NULL,
    event_date  DATETIME NOT NULL,
    status      TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','FOUND','CLAIMED','RETURNED','CLOSED')),
    images      TEXT NOT NULL DEFAULT '[]',
    reporter_id TEXT NOT NULL REFERENCES users (id),
    finder_id   TEXT REFERENCES users (id),
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL,
    deleted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS items_reporter_idx ON items (reporter_id);

CREATE TABLE IF NOT EXISTS claims (
    id          TEXT PRIMARY KEY,
    item_id     TEXT NOT NULL REFERENCES items (id),
    claimer_id  TEXT NOT NULL REFERENCES users (id),
    description TEXT NOT NULL,
    evidence    TEXT NOT NULL DEFAULT '[]',
    status      TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','APPROVED','REJECTED')),
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS claims_item_claimer_live_idx
    ON claims (item_id, claimer_id) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS messages (
    id           TEXT PRIMARY KEY,
    content      TEXT NOT NULL,
    sender_id    TEXT NOT NULL REFERENCES users (id),
    recipient_id TEXT NOT NULL REFERENCES users (id),
    item_id      TEXT NOT NULL REFERENCES items (id),
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS messages_sender_idx ON messages (sender_id);
CREATE INDEX IF NOT EXISTS messages_recipient_idx ON messages (recipient_id);
`

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

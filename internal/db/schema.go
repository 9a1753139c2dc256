package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	date             TEXT NOT NULL,
	location         TEXT NOT NULL,
	capacity         INT NOT NULL CHECK (capacity > 0),
	organizer        TEXT NOT NULL,
	status           TEXT NOT NULL,
	waitlist_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
	id                TEXT NOT NULL,
	user_id           TEXT NOT NULL,
	event_id          TEXT NOT NULL,
	status            TEXT NOT NULL,
	waitlist_position INT,
	created_at        TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, event_id)
);

CREATE INDEX IF NOT EXISTS registrations_event_idx ON registrations (event_id);
`

// EnsureSchema creates the tables if they are missing. Good enough for a
// single-service deployment; a migration tool would replace this at scale.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS DIRECTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users directory
-- Version: 001
-- The directory is owned by an external collaborator; the engine only reads
-- id, display name and department. The table exists here so a standalone
-- deployment has something to join against.

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    department VARCHAR(100) NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_display_name ON users(display_name);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: KUDOS EVENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create kudos_events table
-- Version: 002
-- Append-only: rows are never updated or deleted except for the liker set,
-- which is the single mutable field. The version column backs the optimistic
-- compare-and-swap that serializes like toggles.

CREATE TABLE IF NOT EXISTS kudos_events (
    id UUID PRIMARY KEY,
    sender_id TEXT NOT NULL,
    recipient_id TEXT NOT NULL,
    category VARCHAR(20) NOT NULL,
    message VARCHAR(500) NOT NULL,
    likers TEXT[] NOT NULL DEFAULT '{}',
    version BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('Teamwork', 'Innovation', 'Leadership', 'Excellence', 'Help')),
    CONSTRAINT non_empty_message CHECK (length(message) > 0)
);

CREATE INDEX IF NOT EXISTS idx_kudos_events_created_at ON kudos_events(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_kudos_events_recipient ON kudos_events(recipient_id);
CREATE INDEX IF NOT EXISTS idx_kudos_events_sender ON kudos_events(sender_id);
CREATE INDEX IF NOT EXISTS idx_kudos_events_category ON kudos_events(category);
`

// migration is one ordered schema step.
type migration struct {
	Version int
	Name    string
	Up      string
}

// migrations lists all schema steps in order.
var migrations = []migration{
	{Version: 1, Name: "create_users", Up: migration001Up},
	{Version: 2, Name: "create_kudos_events", Up: migration002Up},
}

// Migrate applies all pending migrations inside transactions.
func Migrate(ctx context.Context, conn *Connection) error {
	_, err := conn.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create schema_migrations: %v", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		applied, err := isApplied(ctx, conn, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Up); err != nil {
				return fmt.Errorf("%w: migration %03d (%s): %v", ErrMigrationFailed, m.Version, m.Name, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("%w: recording migration %03d: %v", ErrMigrationFailed, m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func isApplied(ctx context.Context, conn *Connection, version int) (bool, error) {
	var exists bool
	err := conn.Pool().QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking migration %03d: %v", ErrMigrationFailed, version, err)
	}
	return exists, nil
}

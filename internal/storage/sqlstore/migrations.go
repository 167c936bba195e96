package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrations are applied in order and recorded in schema_migrations.
// Never edit an entry that has shipped; append a new one instead.
// The SQL is the common subset of SQLite and PostgreSQL.
var migrations = []string{
	// 1: initial schema
	`
CREATE TABLE IF NOT EXISTS devices (
    trip_id TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    joined_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, id)
);

CREATE TABLE IF NOT EXISTS notes (
    trip_id TEXT NOT NULL,
    block_id TEXT NOT NULL,
    id TEXT NOT NULL,
    content TEXT NOT NULL,
    author_name TEXT NOT NULL,
    device_id TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, block_id, id)
);

CREATE INDEX IF NOT EXISTS idx_notes_block ON notes(trip_id, block_id, created_at);

CREATE TABLE IF NOT EXISTS note_reactions (
    trip_id TEXT NOT NULL,
    block_id TEXT NOT NULL,
    note_id TEXT NOT NULL,
    emoji TEXT NOT NULL,
    device_id TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, block_id, note_id, emoji, device_id),
    FOREIGN KEY (trip_id, block_id, note_id) REFERENCES notes(trip_id, block_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS gastro_marks (
    trip_id TEXT NOT NULL,
    place_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    device_id TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, place_id, kind, device_id)
);
`,
	// 2: gamification. Points are kept equal to the number of checks by
	// SetCheck, which writes both tables in one transaction.
	`
CREATE TABLE IF NOT EXISTS scores (
    trip_id TEXT NOT NULL,
    device_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    points INTEGER NOT NULL DEFAULT 0,
    updated_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, device_id)
);

CREATE TABLE IF NOT EXISTS checks (
    trip_id TEXT NOT NULL,
    device_id TEXT NOT NULL,
    item_type TEXT NOT NULL,
    item_id TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, device_id, item_type, item_id)
);
`,
}

// runMigrations applies the migrations that have not run yet.
func runMigrations(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx,
			d.rebind("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"),
			version, time.Now().Unix(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage/storagetest"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "tripjapan-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := New(filepath.Join(tempDir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}

func TestMigrationsAreReentrant(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()
	if _, err := store.CreateNote(ctx, &models.Note{ID: "n1", TripID: "t", BlockID: "b", Content: "hola"}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	store.Close()

	// Reopening must not re-run migrations or lose data
	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	db := openRaw(t, dbPath)
	var version int
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	notes, err := store.ListNotes(ctx, "t", "b", 0)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("Expected 1 note after reopen, got %d", len(notes))
	}
}

// openRaw opens a second handle on the store's file with the same pragmas.
func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestForeignKeysEnabled(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_, err = openRaw(t, dbPath).Exec(
		"INSERT INTO note_reactions (trip_id, block_id, note_id, emoji, device_id, created_at) VALUES ('t', 'b', 'ghost', '👍', 'd', 1)",
	)
	if err == nil {
		t.Error("Expected foreign key violation for reaction on missing note")
	}
}

// Package device holds the state that lives on a traveller's device: app
// settings, packing checklists, the expense ledger, itinerary progress,
// favorites, photo galleries, optimistic check toggles and the queue of
// notes waiting to be sent.
//
// Everything is stored as JSON in a small key-value store. Values are
// wrapped in a versioned envelope so their shape can evolve.
package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// KV is a string-keyed byte store.
type KV interface {
	// Get returns ok=false for missing keys.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys lists the keys starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

// FileKV stores values in a SQLite file.
type FileKV struct {
	db *sql.DB
}

// OpenFile opens or creates the store at path.
func OpenFile(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &FileKV{db: db}, nil
}

func (s *FileKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *FileKV) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FileKV) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key", len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *FileKV) Close() error {
	return s.db.Close()
}

// MemoryKV keeps values in memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryKV) Close() error { return nil }

// safeKV never fails. Writes land in memory first, so when the backing store
// is unavailable the feature keeps working for the rest of the session.
type safeKV struct {
	backing KV
	mem     *MemoryKV
}

func newSafeKV(backing KV) *safeKV {
	return &safeKV{backing: backing, mem: NewMemory()}
}

func (s *safeKV) get(key string) ([]byte, bool) {
	if v, ok, _ := s.mem.Get(key); ok {
		return v, true
	}
	v, ok, err := s.backing.Get(key)
	if err != nil {
		slog.Warn("Local storage read failed", "key", key, "error", err)
		return nil, false
	}
	return v, ok
}

func (s *safeKV) set(key string, value []byte) {
	s.mem.Set(key, value)
	if err := s.backing.Set(key, value); err != nil {
		slog.Warn("Local storage write failed, keeping value in memory", "key", key, "error", err)
	}
}

func (s *safeKV) delete(key string) {
	s.mem.Delete(key)
	if err := s.backing.Delete(key); err != nil {
		slog.Warn("Local storage delete failed", "key", key, "error", err)
	}
}

func (s *safeKV) keys(prefix string) []string {
	seen := make(map[string]bool)
	memKeys, _ := s.mem.Keys(prefix)
	for _, k := range memKeys {
		seen[k] = true
	}
	backingKeys, err := s.backing.Keys(prefix)
	if err != nil {
		slog.Warn("Local storage list failed", "prefix", prefix, "error", err)
	}
	for _, k := range backingKeys {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

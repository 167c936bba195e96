// Package sqlstore implements storage.Store on top of database/sql.
//
// The queries are written in the SQL subset shared by SQLite and
// PostgreSQL. Placeholders are written as "?" and rewritten for drivers
// that use numbered parameters. The sqlite and postgres packages open the
// database and hand it over to New.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Dialect selects the placeholder style of the driver.
type Dialect int

const (
	// Question uses "?" placeholders (SQLite).
	Question Dialect = iota
	// Dollar uses "$1, $2, ..." placeholders (PostgreSQL).
	Dollar
)

func (d Dialect) String() string {
	if d == Dollar {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites "?" placeholders for the dialect.
// None of the queries in this package contain a literal "?".
func (d Dialect) rebind(query string) string {
	if d != Dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Store implements storage.Store for any database/sql driver.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// New runs the pending migrations and returns a Store. The Store takes
// ownership of db and closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if err := runMigrations(ctx, db, dialect); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db, dialect: dialect, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// queryer is implemented by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) exec(ctx context.Context, q queryer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, q queryer, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, q queryer, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// UpsertDevice creates the device or updates its name.
func (s *Store) UpsertDevice(ctx context.Context, device *models.Device) error {
	if device.JoinedAt == 0 {
		device.JoinedAt = s.now().Unix()
	}
	_, err := s.exec(ctx, s.db, `
		INSERT INTO devices (trip_id, id, name, joined_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (trip_id, id) DO UPDATE SET name = excluded.name`,
		device.TripID, device.ID, device.Name, device.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}
	return nil
}

// GetDevice returns ErrNotFound for unknown devices.
func (s *Store) GetDevice(ctx context.Context, tripID, deviceID string) (*models.Device, error) {
	d := &models.Device{TripID: tripID, ID: deviceID}
	err := s.queryRow(ctx, s.db,
		"SELECT name, joined_at FROM devices WHERE trip_id = ? AND id = ?",
		tripID, deviceID,
	).Scan(&d.Name, &d.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

// CreateNote inserts a note unless a note with the same ID exists in the
// block.
func (s *Store) CreateNote(ctx context.Context, note *models.Note) (bool, error) {
	if note.CreatedAt == 0 {
		note.CreatedAt = s.now().UnixMilli()
	}
	res, err := s.exec(ctx, s.db, `
		INSERT INTO notes (trip_id, block_id, id, content, author_name, device_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		note.TripID, note.BlockID, note.ID, note.Content, note.AuthorName, note.DeviceID, note.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert note: %w", err)
	}
	return n > 0, nil
}

// ListNotes returns up to limit notes of a block, oldest first.
func (s *Store) ListNotes(ctx context.Context, tripID, blockID string, limit int) ([]*models.Note, error) {
	if limit <= 0 || limit > models.NoteListLimit {
		limit = models.NoteListLimit
	}

	// Take the newest notes, then present them oldest first.
	rows, err := s.query(ctx, s.db, `
		SELECT id, content, author_name, device_id, created_at FROM notes
		WHERE trip_id = ? AND block_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		tripID, blockID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	var notes []*models.Note
	byID := make(map[string]*models.Note)
	for rows.Next() {
		n := &models.Note{TripID: tripID, BlockID: blockID, Reactions: map[string][]string{}}
		if err := rows.Scan(&n.ID, &n.Content, &n.AuthorName, &n.DeviceID, &n.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	rows.Close()

	if err := s.loadReactions(ctx, s.db, tripID, blockID, byID); err != nil {
		return nil, err
	}

	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
	return notes, nil
}

// loadReactions fills the reactions of the notes in byID.
func (s *Store) loadReactions(ctx context.Context, q queryer, tripID, blockID string, byID map[string]*models.Note) error {
	if len(byID) == 0 {
		return nil
	}
	rows, err := s.query(ctx, q, `
		SELECT note_id, emoji, device_id FROM note_reactions
		WHERE trip_id = ? AND block_id = ?
		ORDER BY created_at, device_id`,
		tripID, blockID,
	)
	if err != nil {
		return fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, emoji, deviceID string
		if err := rows.Scan(&noteID, &emoji, &deviceID); err != nil {
			return fmt.Errorf("failed to scan reaction: %w", err)
		}
		if n, ok := byID[noteID]; ok {
			n.Reactions[emoji] = append(n.Reactions[emoji], deviceID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating reactions: %w", err)
	}
	return nil
}

// ToggleReaction adds or removes the device's reaction on a note.
func (s *Store) ToggleReaction(ctx context.Context, tripID, blockID, noteID, emoji, deviceID string) (*models.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	n := &models.Note{ID: noteID, TripID: tripID, BlockID: blockID, Reactions: map[string][]string{}}
	err = s.queryRow(ctx, tx, `
		SELECT content, author_name, device_id, created_at FROM notes
		WHERE trip_id = ? AND block_id = ? AND id = ?`,
		tripID, blockID, noteID,
	).Scan(&n.Content, &n.AuthorName, &n.DeviceID, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	res, err := s.exec(ctx, tx, `
		DELETE FROM note_reactions
		WHERE trip_id = ? AND block_id = ? AND note_id = ? AND emoji = ? AND device_id = ?`,
		tripID, blockID, noteID, emoji, deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete reaction: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to delete reaction: %w", err)
	}
	if removed == 0 {
		if _, err := s.exec(ctx, tx, `
			INSERT INTO note_reactions (trip_id, block_id, note_id, emoji, device_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			tripID, blockID, noteID, emoji, deviceID, s.now().UnixMilli(),
		); err != nil {
			return nil, fmt.Errorf("failed to insert reaction: %w", err)
		}
	}

	// Only this note's reactions are kept by loadReactions.
	if err := s.loadReactions(ctx, tx, tripID, blockID, map[string]*models.Note{noteID: n}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

// ToggleMark flips a vote or favorite and reports the new state.
func (s *Store) ToggleMark(ctx context.Context, kind models.MarkKind, tripID, placeID, deviceID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.exec(ctx, tx, `
		DELETE FROM gastro_marks
		WHERE trip_id = ? AND place_id = ? AND kind = ? AND device_id = ?`,
		tripID, placeID, string(kind), deviceID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete mark: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete mark: %w", err)
	}

	on := removed == 0
	if on {
		if _, err := s.exec(ctx, tx, `
			INSERT INTO gastro_marks (trip_id, place_id, kind, device_id, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			tripID, placeID, string(kind), deviceID, s.now().Unix(),
		); err != nil {
			return false, fmt.Errorf("failed to insert mark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return on, nil
}

// CountMarks aggregates votes and favorites per restaurant.
func (s *Store) CountMarks(ctx context.Context, tripID, deviceID string) (map[string]models.MarkCounts, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT place_id, kind, COUNT(*), SUM(CASE WHEN device_id = ? THEN 1 ELSE 0 END)
		FROM gastro_marks
		WHERE trip_id = ?
		GROUP BY place_id, kind`,
		deviceID, tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count marks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]models.MarkCounts)
	for rows.Next() {
		var placeID, kind string
		var total, mine int64
		if err := rows.Scan(&placeID, &kind, &total, &mine); err != nil {
			return nil, fmt.Errorf("failed to scan mark count: %w", err)
		}
		c := counts[placeID]
		switch models.MarkKind(kind) {
		case models.MarkVote:
			c.Votes = int(total)
			c.MyVote = mine > 0
		case models.MarkFav:
			c.Favs = int(total)
			c.MyFav = mine > 0
		}
		counts[placeID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mark counts: %w", err)
	}
	return counts, nil
}

// SetCheck moves a check mark to the desired state and keeps the score in
// step within one transaction.
func (s *Store) SetCheck(ctx context.Context, mark models.CheckMark, checked bool) (*models.Score, bool, error) {
	now := s.now().Unix()
	if mark.At == 0 {
		mark.At = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureScore(ctx, tx, mark.TripID, mark.DeviceID, now); err != nil {
		return nil, false, err
	}

	var res sql.Result
	if checked {
		res, err = s.exec(ctx, tx, `
			INSERT INTO checks (trip_id, device_id, item_type, item_id, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			mark.TripID, mark.DeviceID, string(mark.ItemType), mark.ItemID, mark.At,
		)
	} else {
		res, err = s.exec(ctx, tx, `
			DELETE FROM checks
			WHERE trip_id = ? AND device_id = ? AND item_type = ? AND item_id = ?`,
			mark.TripID, mark.DeviceID, string(mark.ItemType), mark.ItemID,
		)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to write check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to write check: %w", err)
	}

	changed := n > 0
	if changed {
		delta := 1
		if !checked {
			delta = -1
		}
		if _, err := s.exec(ctx, tx, `
			UPDATE scores SET points = points + ?, updated_at = ?
			WHERE trip_id = ? AND device_id = ?`,
			delta, now, mark.TripID, mark.DeviceID,
		); err != nil {
			return nil, false, fmt.Errorf("failed to update score: %w", err)
		}
	}

	score, err := s.getScore(ctx, tx, mark.TripID, mark.DeviceID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return score, changed, nil
}

func (s *Store) ensureScore(ctx context.Context, q queryer, tripID, deviceID string, now int64) error {
	if _, err := s.exec(ctx, q, `
		INSERT INTO scores (trip_id, device_id, name, points, updated_at)
		VALUES (?, ?, '', 0, ?)
		ON CONFLICT (trip_id, device_id) DO NOTHING`,
		tripID, deviceID, now,
	); err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

// ListChecks returns the IDs the device has checked, oldest first.
func (s *Store) ListChecks(ctx context.Context, tripID, deviceID string, itemType models.ItemType) ([]string, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT item_id FROM checks
		WHERE trip_id = ? AND device_id = ? AND item_type = ?
		ORDER BY created_at, item_id`,
		tripID, deviceID, string(itemType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checks: %w", err)
	}
	return ids, nil
}

// SetScoreName stores the ranking display name.
func (s *Store) SetScoreName(ctx context.Context, tripID, deviceID, name string) error {
	now := s.now().Unix()
	_, err := s.exec(ctx, s.db, `
		INSERT INTO scores (trip_id, device_id, name, points, updated_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT (trip_id, device_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		tripID, deviceID, name, now,
	)
	if err != nil {
		return fmt.Errorf("failed to set score name: %w", err)
	}
	return nil
}

// GetScore returns ErrNotFound when the device has no score yet.
func (s *Store) GetScore(ctx context.Context, tripID, deviceID string) (*models.Score, error) {
	return s.getScore(ctx, s.db, tripID, deviceID)
}

func (s *Store) getScore(ctx context.Context, q queryer, tripID, deviceID string) (*models.Score, error) {
	score := &models.Score{TripID: tripID, DeviceID: deviceID}
	err := s.queryRow(ctx, q,
		"SELECT name, points, updated_at FROM scores WHERE trip_id = ? AND device_id = ?",
		tripID, deviceID,
	).Scan(&score.Name, &score.Points, &score.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return score, nil
}

// ListScores returns every score of the trip ordered by device ID.
func (s *Store) ListScores(ctx context.Context, tripID string) ([]*models.Score, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT device_id, name, points, updated_at FROM scores WHERE trip_id = ? ORDER BY device_id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.Score
	for rows.Next() {
		score := &models.Score{TripID: tripID}
		if err := rows.Scan(&score.DeviceID, &score.Name, &score.Points, &score.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return scores, nil
}

// Health pings the database and reports connection pool statistics.
// It never returns an error; problems are reported in the map.
func (s *Store) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	stats["driver"] = s.dialect.String()

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if msg := loadMessage(dbStats); msg != "" {
		stats["message"] = msg
	}
	return stats
}

// loadMessage describes pool pressure relative to the configured limit.
func loadMessage(st sql.DBStats) string {
	switch {
	case st.WaitCount > 1000:
		return "The database has a high number of wait events, indicating potential bottlenecks."
	case st.MaxOpenConnections > 0 && st.InUse >= st.MaxOpenConnections:
		return "The database is experiencing heavy load."
	}
	return ""
}

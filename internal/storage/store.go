// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripjapan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DeviceStore persists the devices that joined a trip.
type DeviceStore interface {
	// UpsertDevice creates the device or updates its name.
	// JoinedAt is only written on creation.
	UpsertDevice(ctx context.Context, device *models.Device) error

	// GetDevice returns ErrNotFound for unknown devices.
	GetDevice(ctx context.Context, tripID, deviceID string) (*models.Device, error)
}

// NoteStore persists itinerary notes and their reactions.
type NoteStore interface {
	// CreateNote inserts a note keyed by its client-generated ID.
	// Posting the same ID twice is a no-op and reports created=false,
	// so replays from a device queue never duplicate notes.
	CreateNote(ctx context.Context, note *models.Note) (created bool, err error)

	// ListNotes returns up to limit notes of a block, oldest first.
	ListNotes(ctx context.Context, tripID, blockID string, limit int) ([]*models.Note, error)

	// ToggleReaction adds the device's reaction to a note, or removes it
	// when already present, and returns the updated note.
	ToggleReaction(ctx context.Context, tripID, blockID, noteID, emoji, deviceID string) (*models.Note, error)
}

// MarkStore persists gastronomy votes and favorites.
type MarkStore interface {
	// ToggleMark flips the device's mark on a restaurant and reports
	// whether the mark is now set.
	ToggleMark(ctx context.Context, kind models.MarkKind, tripID, placeID, deviceID string) (on bool, err error)

	// CountMarks aggregates marks per restaurant. deviceID fills the
	// MyVote and MyFav flags.
	CountMarks(ctx context.Context, tripID, deviceID string) (map[string]models.MarkCounts, error)
}

// ScoreStore persists check marks and the points derived from them.
type ScoreStore interface {
	// SetCheck moves a check mark to the desired state. Creating or
	// deleting the mark and adjusting the score by one happen in a single
	// transaction. Asking for the current state changes nothing and
	// reports changed=false.
	SetCheck(ctx context.Context, mark models.CheckMark, checked bool) (score *models.Score, changed bool, err error)

	// ListChecks returns the IDs the device has checked for an item type.
	ListChecks(ctx context.Context, tripID, deviceID string, itemType models.ItemType) ([]string, error)

	// SetScoreName stores the display name used in the ranking, creating
	// the score record when needed.
	SetScoreName(ctx context.Context, tripID, deviceID, name string) error

	// GetScore returns ErrNotFound when the device has no score yet.
	GetScore(ctx context.Context, tripID, deviceID string) (*models.Score, error)

	// ListScores returns every score of the trip, unsorted.
	ListScores(ctx context.Context, tripID string) ([]*models.Score, error)
}

// Store defines the interface for the trip's shared state.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	DeviceStore
	NoteStore
	MarkStore
	ScoreStore

	// Health reports the database status and connection pool statistics.
	Health(ctx context.Context) map[string]string

	// Close releases any resources held by the store.
	Close() error
}

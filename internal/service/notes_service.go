package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// NoteStorage is what the notes service needs from the store.
type NoteStorage interface {
	storage.NoteStore
	storage.DeviceStore
}

// NotesService implements the Connect NotesService.
type NotesService struct {
	apiconnect.UnimplementedNotesServiceHandler
	store   NoteStorage
	content *catalog.Source
	hub     *hub.Hub
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewNotesService creates a NotesService.
func NewNotesService(store NoteStorage, content *catalog.Source, h *hub.Hub, m *metrics.Metrics) *NotesService {
	return &NotesService{store: store, content: content, hub: h, metrics: m, now: time.Now}
}

// knownBlock reports whether blockID names a day of the itinerary.
func (s *NotesService) knownBlock(blockID string) bool {
	for _, d := range s.content.Current().Days {
		if catalog.BlockID(d.Date, d.Title) == blockID {
			return true
		}
	}
	return false
}

// PostNote stores a note. Replaying a note ID returns Created=false.
func (s *NotesService) PostNote(ctx context.Context, req *connect.Request[pb.PostNoteRequest]) (*connect.Response[pb.PostNoteResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("PostNote request received", "block_id", req.Msg.BlockID, "note_id", req.Msg.ID, "device_id", deviceID)

	content := strings.TrimSpace(req.Msg.Content)
	switch {
	case req.Msg.ID == "" || len(req.Msg.ID) > 64:
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidNoteID)
	case content == "":
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyNote)
	case utf8.RuneCountInString(content) > models.MaxNoteLength:
		return nil, connect.NewError(connect.CodeInvalidArgument, errNoteTooLong)
	case !s.knownBlock(req.Msg.BlockID):
		return nil, connect.NewError(connect.CodeNotFound, errUnknownBlock)
	}

	author := strings.TrimSpace(req.Msg.AuthorName)
	if author == "" {
		author = models.DefaultDisplayName
		if d, err := s.store.GetDevice(ctx, tripID, deviceID); err == nil {
			author = d.Name
		} else if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("PostNote device lookup failed", "device_id", deviceID, "error", err)
		}
	}

	// Queued notes keep the time they were written on the device
	createdAt := req.Msg.CreatedAt
	if now := s.now().UnixMilli(); createdAt <= 0 || createdAt > now {
		createdAt = now
	}

	note := &models.Note{
		ID:         req.Msg.ID,
		TripID:     tripID,
		BlockID:    req.Msg.BlockID,
		Content:    content,
		AuthorName: author,
		DeviceID:   deviceID,
		CreatedAt:  createdAt,
		Reactions:  map[string][]string{},
	}
	created, err := s.store.CreateNote(ctx, note)
	if err != nil {
		slog.Error("PostNote failed", "note_id", note.ID, "error", err)
		return nil, storeError(err)
	}

	if created {
		s.metrics.NotesPosted.Inc()
		s.hub.Publish(hub.NotesTopic(tripID, note.BlockID), deviceID)
		slog.Info("Note posted", "note_id", note.ID, "block_id", note.BlockID)
	} else {
		slog.Info("Note replay ignored", "note_id", note.ID, "block_id", note.BlockID)
	}
	return connect.NewResponse(&pb.PostNoteResponse{Note: toPBNote(note), Created: created}), nil
}

// ListNotes returns the notes of a block, oldest first.
func (s *NotesService) ListNotes(ctx context.Context, req *connect.Request[pb.ListNotesRequest]) (*connect.Response[pb.ListNotesResponse], error) {
	tripID, _, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotes(ctx, tripID, req.Msg.BlockID, req.Msg.Limit)
	if err != nil {
		slog.Error("ListNotes failed", "block_id", req.Msg.BlockID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*pb.Note, len(notes))
	for i, n := range notes {
		out[i] = toPBNote(n)
	}
	return connect.NewResponse(&pb.ListNotesResponse{Notes: out}), nil
}

// ToggleReaction adds or removes the caller's reaction on a note.
func (s *NotesService) ToggleReaction(ctx context.Context, req *connect.Request[pb.ToggleReactionRequest]) (*connect.Response[pb.ToggleReactionResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if !models.IsReaction(req.Msg.Emoji) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errBadReaction)
	}

	note, err := s.store.ToggleReaction(ctx, tripID, req.Msg.BlockID, req.Msg.NoteID, req.Msg.Emoji, deviceID)
	if err != nil {
		slog.Warn("ToggleReaction failed", "note_id", req.Msg.NoteID, "error", err)
		return nil, storeError(err)
	}

	s.hub.Publish(hub.NotesTopic(tripID, req.Msg.BlockID), deviceID)
	return connect.NewResponse(&pb.ToggleReactionResponse{Note: toPBNote(note)}), nil
}

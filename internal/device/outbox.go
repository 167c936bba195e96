package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/pkg/api"
)

// ErrEmptyNote is returned when posting a blank note.
var ErrEmptyNote = errors.New("note content is required")

// NotePoster is the part of the notes API the outbox calls.
type NotePoster interface {
	PostNote(context.Context, *connect.Request[api.PostNoteRequest]) (*connect.Response[api.PostNoteResponse], error)
}

// QueuedNote is a note written on the device that the server has not
// confirmed yet.
type QueuedNote struct {
	ID         string `json:"id"`
	BlockID    string `json:"blockId"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	CreatedAt  int64  `json:"createdAt"`
}

func (q QueuedNote) request() *api.PostNoteRequest {
	return &api.PostNoteRequest{
		ID:         q.ID,
		BlockID:    q.BlockID,
		Content:    q.Content,
		AuthorName: q.AuthorName,
		CreatedAt:  q.CreatedAt,
	}
}

// DisplayNote is a note as shown to the traveller. Local notes are still in
// the outbox.
type DisplayNote struct {
	api.Note
	Local bool
}

var outboxSchema = schema[[]QueuedNote]{version: 1, def: func() []QueuedNote { return nil }}

const outboxPrefix = "outbox/"

// OutboxKey is where the queued notes of a block live.
func OutboxKey(blockID string) string {
	return outboxPrefix + blockID
}

// Outbox queues notes that could not be sent.
type Outbox struct {
	app *App
}

// retryable reports whether a failed post may succeed later. Rejections
// such as an invalid note or an unknown block would block the queue forever.
func retryable(err error) bool {
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeUnauthenticated,
		connect.CodePermissionDenied, connect.CodeUnimplemented:
		return false
	}
	return true
}

// Post sends a note with a fresh ID. When the server cannot be reached the
// note is queued and returned with Local set.
func (o *Outbox) Post(ctx context.Context, poster NotePoster, blockID, content, author string) (DisplayNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return DisplayNote{}, ErrEmptyNote
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = models.DefaultDisplayName
	}
	q := QueuedNote{
		ID:         o.app.newID(),
		BlockID:    blockID,
		Content:    content,
		AuthorName: author,
		CreatedAt:  o.app.now().UnixMilli(),
	}

	resp, err := poster.PostNote(ctx, connect.NewRequest(q.request()))
	if err != nil {
		if !retryable(err) {
			return DisplayNote{}, err
		}
		slog.Warn("Note queued for later", "note_id", q.ID, "block_id", blockID, "error", err)
		o.app.mu.Lock()
		update(o.app.kv, OutboxKey(blockID), outboxSchema, func(xs []QueuedNote) []QueuedNote {
			return append(xs, q)
		})
		o.app.mu.Unlock()
		return DisplayNote{Note: q.note(o.app.DeviceID()), Local: true}, nil
	}
	return DisplayNote{Note: *resp.Msg.Note}, nil
}

func (q QueuedNote) note(deviceID string) api.Note {
	return api.Note{
		ID:         q.ID,
		BlockID:    q.BlockID,
		Content:    q.Content,
		AuthorName: q.AuthorName,
		DeviceID:   deviceID,
		CreatedAt:  q.CreatedAt,
	}
}

// Pending returns the queued notes of a block, oldest first.
func (o *Outbox) Pending(blockID string) []QueuedNote {
	o.app.mu.Lock()
	defer o.app.mu.Unlock()
	return load(o.app.kv, OutboxKey(blockID), outboxSchema)
}

// Blocks lists the blocks with queued notes.
func (o *Outbox) Blocks() []string {
	var blocks []string
	for _, k := range o.app.kv.keys(outboxPrefix) {
		blockID := strings.TrimPrefix(k, outboxPrefix)
		if len(o.Pending(blockID)) > 0 {
			blocks = append(blocks, blockID)
		}
	}
	return blocks
}

// Flush replays the queued notes of a block in order. The queue is cleared
// only when every note went through; the first failure stops the replay and
// leaves the queue as it was. Replaying a note the server already has is
// harmless.
func (o *Outbox) Flush(ctx context.Context, poster NotePoster, blockID string) (int, error) {
	queued := o.Pending(blockID)
	if len(queued) == 0 {
		return 0, nil
	}

	for i, q := range queued {
		if _, err := poster.PostNote(ctx, connect.NewRequest(q.request())); err != nil {
			slog.Warn("Outbox flush stopped", "block_id", blockID, "sent", i, "queued", len(queued), "error", err)
			return i, fmt.Errorf("failed to send queued note %s: %w", q.ID, err)
		}
	}

	o.app.mu.Lock()
	defer o.app.mu.Unlock()
	// Notes queued while flushing stay for the next round
	update(o.app.kv, OutboxKey(blockID), outboxSchema, func(xs []QueuedNote) []QueuedNote {
		if len(xs) <= len(queued) {
			return nil
		}
		return xs[len(queued):]
	})
	slog.Info("Outbox flushed", "block_id", blockID, "sent", len(queued))
	return len(queued), nil
}

// FlushAll flushes every block and returns how many notes were sent. It
// keeps going when a block fails and returns the joined errors.
func (o *Outbox) FlushAll(ctx context.Context, poster NotePoster) (int, error) {
	total := 0
	var errs []error
	for _, blockID := range o.Blocks() {
		n, err := o.Flush(ctx, poster, blockID)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// Merge lists the confirmed notes followed by the queued ones the server
// does not have yet.
func Merge(remote []*api.Note, pending []QueuedNote, deviceID string) []DisplayNote {
	out := make([]DisplayNote, 0, len(remote)+len(pending))
	seen := make(map[string]bool, len(remote))
	for _, n := range remote {
		seen[n.ID] = true
		out = append(out, DisplayNote{Note: *n})
	}
	for _, q := range pending {
		if !seen[q.ID] {
			out = append(out, DisplayNote{Note: q.note(deviceID), Local: true})
		}
	}
	return out
}

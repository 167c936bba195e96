package device

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// ToggleState is where a check toggle stands.
type ToggleState int

const (
	Idle ToggleState = iota
	Pending
	Committed
	RolledBack
)

func (s ToggleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return "idle"
	}
}

// ErrPending is returned when the same item is toggled while a previous
// toggle is still waiting for the server.
var ErrPending = errors.New("toggle already in flight for this item")

// CheckClient is the part of the game API a Toggler calls.
type CheckClient interface {
	SetCheck(context.Context, *connect.Request[api.SetCheckRequest]) (*connect.Response[api.SetCheckResponse], error)
}

// ToggleResult is the outcome of a toggle.
type ToggleResult struct {
	Checked bool
	Points  int
	State   ToggleState
}

// Toggler flips check marks optimistically: the local mark changes first and
// is reverted when the server rejects the change.
type Toggler struct {
	app    *App
	client CheckClient

	mu      sync.Mutex
	pending map[string]bool
	states  map[string]ToggleState
}

// Toggler returns a toggler sending changes through client.
func (a *App) Toggler(client CheckClient) *Toggler {
	return &Toggler{
		app:     a,
		client:  client,
		pending: make(map[string]bool),
		states:  make(map[string]ToggleState),
	}
}

func toggleKey(itemType, itemID string) string {
	return itemType + "/" + itemID
}

// Checks returns the local marks of an item type.
func (t *Toggler) Checks(itemType string) *Set {
	return t.app.Set("checks/" + itemType)
}

// Checked reports the local mark of an item.
func (t *Toggler) Checked(itemType, itemID string) bool {
	return t.Checks(itemType).Has(itemID)
}

// State returns the state of the last toggle of an item.
func (t *Toggler) State(itemType, itemID string) ToggleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[toggleKey(itemType, itemID)]
}

func (t *Toggler) finish(key string, s ToggleState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, key)
	t.states[key] = s
}

// Toggle flips the item's mark locally, then asks the server for the new
// state. On failure the local mark is restored and the error returned;
// there is no retry.
func (t *Toggler) Toggle(ctx context.Context, itemType, itemID string) (ToggleResult, error) {
	key := toggleKey(itemType, itemID)
	set := t.Checks(itemType)

	t.mu.Lock()
	if t.pending[key] {
		t.mu.Unlock()
		return ToggleResult{Checked: set.Has(itemID), State: Pending}, ErrPending
	}
	t.pending[key] = true
	t.states[key] = Pending
	t.mu.Unlock()

	prev := set.Has(itemID)
	next := !prev
	set.Put(next, itemID)

	resp, err := t.client.SetCheck(ctx, connect.NewRequest(&api.SetCheckRequest{
		ItemType: itemType,
		ItemID:   itemID,
		Checked:  next,
	}))
	if err != nil {
		set.Put(prev, itemID)
		t.finish(key, RolledBack)
		slog.Warn("Check toggle rolled back", "item_type", itemType, "item_id", itemID, "error", err)
		return ToggleResult{Checked: prev, State: RolledBack}, err
	}

	set.Put(resp.Msg.Checked, itemID)
	t.finish(key, Committed)
	return ToggleResult{Checked: resp.Msg.Checked, Points: resp.Msg.Points, State: Committed}, nil
}

// Reconcile makes the local marks of an item type match the server's list.
// Items with a toggle in flight keep their local mark.
func (t *Toggler) Reconcile(itemType string, remote []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Checks(itemType).update(func(local map[string]bool) {
		keep := make(map[string]bool)
		for id, on := range local {
			if t.pending[toggleKey(itemType, id)] {
				keep[id] = on
			}
		}
		clear(local)
		for _, id := range remote {
			if !t.pending[toggleKey(itemType, id)] {
				local[id] = true
			}
		}
		for id, on := range keep {
			if on {
				local[id] = true
			}
		}
	})
}

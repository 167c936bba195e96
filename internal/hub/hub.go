// Package hub fans out change notifications to live subscribers.
//
// Events are invalidation hints: a subscriber that falls behind loses
// events instead of blocking publishers, and clients re-read state after
// any event.
package hub

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Event tells subscribers that the state behind Topic changed.
type Event struct {
	Topic string
	// DeviceID is the device that caused the change, if any.
	DeviceID string
	At       time.Time
}

// Topic helpers. Patterns passed to Subscribe may end in "*" to match
// every topic with that prefix.
func NotesTopic(tripID, blockID string) string { return tripID + "/notes/" + blockID }
func GastroTopic(tripID, placeID string) string { return tripID + "/gastro/" + placeID }
func ScoresTopic(tripID string) string { return tripID + "/scores" }

// TripTopics returns the patterns matching every topic of a trip.
func TripTopics(tripID string) []string { return []string{tripID + "/*"} }

type subscriber struct {
	patterns []string
	ch       chan Event
}

func (s *subscriber) matches(topic string) bool {
	for _, p := range s.patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(topic, prefix) {
				return true
			}
		} else if p == topic {
			return true
		}
	}
	return false
}

// Hub is safe for concurrent use. The zero value is not usable; call New.
type Hub struct {
	buffer int

	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	// OnDrop, when set, is called for every event a slow subscriber missed.
	OnDrop func(Event)
}

// New creates a hub with the given per-subscriber buffer.
func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{buffer: buffer, subs: make(map[*subscriber]struct{})}
}

// Subscribe registers interest in the given topic patterns. The returned
// channel is closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, patterns ...string) <-chan Event {
	s := &subscriber{patterns: patterns, ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, s)
		close(s.ch)
		h.mu.Unlock()
	}()
	return s.ch
}

// Publish delivers an event to every matching subscriber without blocking.
func (h *Hub) Publish(topic, deviceID string) {
	ev := Event{Topic: topic, DeviceID: deviceID, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !s.matches(topic) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			if h.OnDrop != nil {
				h.OnDrop(ev)
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

package device

import (
	"sort"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/models"
)

// Well-known sets.
const (
	SetItineraryDone  = "itinerary/done"
	SetPlaceFavorites = "places/favorites"
	SetPhotoFavorites = "photos/favorites"
	SetPhotoDone      = "photos/done"
)

var setSchema = schema[map[string]bool]{version: 1, def: func() map[string]bool { return map[string]bool{} }}

// Set is a persisted set of IDs.
type Set struct {
	app *App
	key string
}

func (s *Set) update(fn func(map[string]bool)) map[string]bool {
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	return update(s.app.kv, s.key, setSchema, func(m map[string]bool) map[string]bool {
		if m == nil {
			m = map[string]bool{}
		}
		fn(m)
		return m
	})
}

// All returns a copy of the set.
func (s *Set) All() map[string]bool {
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	out := map[string]bool{}
	for id, on := range load(s.app.kv, s.key, setSchema) {
		if on {
			out[id] = true
		}
	}
	return out
}

// IDs returns the members, sorted.
func (s *Set) IDs() []string {
	all := s.All()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Set) Has(id string) bool {
	return s.All()[id]
}

// Put adds or removes ids.
func (s *Set) Put(on bool, ids ...string) {
	s.update(func(m map[string]bool) {
		for _, id := range ids {
			if on {
				m[id] = true
			} else {
				delete(m, id)
			}
		}
	})
}

// Toggle flips id and reports whether it is now a member.
func (s *Set) Toggle(id string) bool {
	var on bool
	s.update(func(m map[string]bool) {
		on = !m[id]
		if on {
			m[id] = true
		} else {
			delete(m, id)
		}
	})
	return on
}

// Itinerary tracks which activities are done.
type Itinerary struct {
	set *Set
}

// Toggle flips an activity and reports whether it is now done.
func (it *Itinerary) Toggle(activityID string) bool {
	return it.set.Toggle(activityID)
}

func (it *Itinerary) IsDone(activityID string) bool {
	return it.set.Has(activityID)
}

// MarkDay marks every activity of a day as done or pending.
func (it *Itinerary) MarkDay(day models.Day, done bool) {
	ids := make([]string, len(day.Activities))
	for i := range day.Activities {
		ids[i] = catalog.ActivityID(day.Date, i)
	}
	it.set.Put(done, ids...)
}

// DayProgress counts the done activities of a day.
func (it *Itinerary) DayProgress(day models.Day) (done, total, percent int) {
	all := it.set.All()
	for i := range day.Activities {
		if all[catalog.ActivityID(day.Date, i)] {
			done++
		}
	}
	total = len(day.Activities)
	return done, total, calculator.Percent(done, total)
}

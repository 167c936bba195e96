// Package game ranks travellers by the points they collect checking places
// and dishes.
package game

import (
	"sort"

	"github.com/mmynk/tripjapan/internal/models"
)

// Tier is a status level reached at Min points.
type Tier struct {
	Label string
	Emoji string
	Min   int
}

// Tiers from highest to lowest.
var Tiers = []Tier{
	{Label: "Sensei", Emoji: "🧘‍♂️", Min: 60},
	{Label: "Samurái", Emoji: "🗡️", Min: 30},
	{Label: "Explorador", Emoji: "🧭", Min: 15},
	{Label: "Novato", Emoji: "🌱", Min: 5},
	{Label: "Turista", Emoji: "🧳", Min: 0},
}

// TierFor returns the highest tier reached with points.
func TierFor(points int) Tier {
	for _, t := range Tiers {
		if points >= t.Min {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// NextTarget returns the points needed for the next tier and how many are
// left. ok is false once the top tier is reached.
func NextTarget(points int) (target, toNext int, ok bool) {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].Min > points {
			return Tiers[i].Min, Tiers[i].Min - points, true
		}
	}
	return 0, 0, false
}

// Medal returns the medal for a zero-based ranking position.
func Medal(pos int) string {
	switch pos {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return "🎯"
	}
}

// Entry is one row of the ranking.
type Entry struct {
	Position int // 1-based
	Medal    string
	DeviceID string
	Name     string
	Points   int
	Tier     Tier
}

// Rank sorts scores by points, highest first. Ties keep a stable order by
// name and device.
func Rank(scores []*models.Score) []Entry {
	sorted := make([]*models.Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.DeviceID < b.DeviceID
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		name := s.Name
		if name == "" {
			name = models.DefaultDisplayName
		}
		entries[i] = Entry{
			Position: i + 1,
			Medal:    Medal(i),
			DeviceID: s.DeviceID,
			Name:     name,
			Points:   s.Points,
			Tier:     TierFor(s.Points),
		}
	}
	return entries
}

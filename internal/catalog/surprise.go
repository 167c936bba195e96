package catalog

import "github.com/mmynk/tripjapan/internal/models"

// DateSeed sums the character codes of an ISO date string.
func DateSeed(date string) int {
	seed := 0
	for _, r := range date {
		seed += int(r)
	}
	return seed
}

// Surprise picks the restaurant of the day. The pick is deterministic for a
// given date and each restaurant weighs votes+1, so voted places come up
// more often without starving the rest. ok is false for an empty list.
func Surprise(restaurants []models.Restaurant, votes map[string]int, date string) (models.Restaurant, bool) {
	if len(restaurants) == 0 {
		return models.Restaurant{}, false
	}

	total := 0
	for _, r := range restaurants {
		total += weight(votes[r.ID])
	}

	idx := DateSeed(date) % total
	for _, r := range restaurants {
		w := weight(votes[r.ID])
		if idx < w {
			return r, true
		}
		idx -= w
	}
	return restaurants[len(restaurants)-1], true
}

func weight(votes int) int {
	if votes < 0 {
		votes = 0
	}
	return votes + 1
}

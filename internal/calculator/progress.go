package calculator

import (
	"fmt"
	"math"
	"time"
)

// Percent returns round(done / total × 100), treating total as at least 1.
func Percent(done, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// TripProgress describes where today falls within the trip.
type TripProgress struct {
	Days    int
	Elapsed int
	Percent int
	Status  string

	// DaysUntilStart is zero once the trip has started.
	DaysUntilStart int
}

const day = 24 * time.Hour

// CalculateTripProgress compares today with the trip dates. Dates are
// compared by calendar day in today's location.
func CalculateTripProgress(start, end, today time.Time) TripProgress {
	start = midnight(start, today.Location())
	end = midnight(end, today.Location())

	days := int(math.Ceil(float64(end.Sub(start))/float64(day))) + 1
	if days < 1 {
		days = 1
	}

	p := TripProgress{Days: days}
	switch {
	case today.Before(start):
		p.DaysUntilStart = int(math.Ceil(float64(start.Sub(today)) / float64(day)))
		p.Status = fmt.Sprintf("Comienza en %d días", p.DaysUntilStart)
	case today.After(end.Add(day - time.Nanosecond)):
		p.Elapsed = days
		p.Status = "Viaje finalizado"
	default:
		p.Elapsed = min(days, int(today.Sub(start)/day)+1)
		p.Status = "¡Viaje en curso!"
	}
	p.Percent = Percent(p.Elapsed, p.Days)
	return p
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

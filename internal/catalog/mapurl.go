package catalog

import (
	"net/url"
	"strings"

	"github.com/mmynk/tripjapan/internal/models"
)

const (
	mapsHome      = "https://www.google.com/maps"
	mapsDirection = "https://www.google.com/maps/dir/?api=1"
	myMapsEmbed   = "https://www.google.com/maps/d/u/0/embed?mid="

	maxStops    = 10
	maxFallback = 5
)

// DayMap is the result of DayMapURL.
type DayMap struct {
	URL    string
	Points int

	// FromStops is false when the points come from the fallback places.
	FromStops bool
}

// DayMapURL builds a walking route for a day from its activity stops. When
// the day has no stops the links of fallback places are used instead.
func DayMapURL(day models.Day, fallback []string) DayMap {
	stops := make([]string, 0, len(day.Activities))
	for _, a := range day.Activities {
		if a.Stop != "" {
			stops = append(stops, a.Stop)
		}
	}
	stops = capped(dedupe(stops), maxStops)
	if len(stops) > 0 {
		return DayMap{URL: MapsURL(stops), Points: len(stops), FromStops: true}
	}

	points := capped(dedupe(fallback), maxFallback)
	return DayMap{URL: MapsURL(points), Points: len(points)}
}

// FallbackLinks returns the map links of the places whose city is named in
// the day title.
func FallbackLinks(day models.Day, places []models.Place) []string {
	title := strings.ToLower(day.Title)
	var links []string
	for _, p := range places {
		if p.Links.GMaps != "" && strings.Contains(title, strings.ToLower(p.City)) {
			links = append(links, p.Links.GMaps)
		}
	}
	return links
}

// MapsURL builds a Google Maps URL for a list of map links:
// none opens Maps, one is returned as is, two or more become walking
// directions with the middle points as waypoints.
func MapsURL(points []string) string {
	switch len(points) {
	case 0:
		return mapsHome
	case 1:
		return points[0]
	}

	params := make([]string, len(points))
	for i, p := range points {
		params[i] = url.QueryEscape(QueryOrPlace(p))
	}

	var b strings.Builder
	b.WriteString(mapsDirection)
	b.WriteString("&origin=" + params[0])
	b.WriteString("&destination=" + params[len(params)-1])
	b.WriteString("&travelmode=walking")
	if mids := params[1 : len(params)-1]; len(mids) > 0 {
		b.WriteString("&waypoints=" + strings.Join(mids, "|"))
	}
	return b.String()
}

// EmbedMapURL turns a Google My Maps viewer link into its embeddable form,
// keeping the ll and z parameters. Links that do not parse as absolute URLs
// only get the path rewritten.
func EmbedMapURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return strings.Replace(link, "/viewer?mid=", "/embed?mid=", 1)
	}
	q := u.Query()
	embed := myMapsEmbed + q.Get("mid")
	if ll := q.Get("ll"); ll != "" {
		embed += "&ll=" + url.QueryEscape(ll)
	}
	if z := q.Get("z"); z != "" {
		embed += "&z=" + url.QueryEscape(z)
	}
	return embed
}

// QueryOrPlace extracts a searchable value from a Google Maps link:
// "place_id:<id>" when the link has one, otherwise its query, destination
// or q parameter. Anything else is returned unchanged.
func QueryOrPlace(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return link
	}
	q := u.Query()
	for _, k := range []string{"query_place_id", "place_id"} {
		if v := q.Get(k); v != "" {
			return "place_id:" + v
		}
	}
	for _, k := range []string{"query", "destination", "q"} {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return link
}

func dedupe(links []string) []string {
	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		k := strings.ToLower(strings.TrimSpace(l))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

func capped(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

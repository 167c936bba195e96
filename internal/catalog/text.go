package catalog

import (
	"strings"

	"github.com/mmynk/tripjapan/internal/models"
)

// Lines joins the non-empty strings with newlines.
func Lines(xs ...string) string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != "" {
			out = append(out, x)
		}
	}
	return strings.Join(out, "\n")
}

// PhraseText is the copyable form of a phrase: "jp (romaji) — es".
func PhraseText(p models.Phrase) string {
	return p.JP + " (" + p.Romaji + ") — " + p.ES
}

// TelURI returns a dialable tel: link, keeping only "+" and digits.
func TelURI(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}

// EmergencyText is the copyable form of an emergency number.
func EmergencyText(n models.EmergencyNumber) string {
	return n.Label + ": " + n.Number
}

// PlaceShareText summarizes a place with its links and up to two foods.
func PlaceShareText(p models.Place, foods []models.Food) string {
	emoji := p.Emoji
	if emoji == "" {
		emoji = "📍"
	}
	var official, gmaps, food string
	if p.Links.Official != "" {
		official = "Oficial: " + p.Links.Official
	}
	if p.Links.GMaps != "" {
		gmaps = "Mapa: " + p.Links.GMaps
	}
	if len(foods) > 0 {
		names := make([]string, 0, 2)
		for i := 0; i < len(foods) && i < 2; i++ {
			names = append(names, foods[i].Name)
		}
		food = "Comida cerca: " + strings.Join(names, ", ")
	}
	return Lines(emoji+" "+p.Name+" — "+p.City, p.Brief, official, gmaps, food)
}

// FactsText lists every curiosity for sharing.
func FactsText(facts []string) string {
	lines := make([]string, 0, len(facts)+1)
	lines = append(lines, "CURIOSIDADES DE JAPÓN")
	for _, f := range facts {
		lines = append(lines, "• "+f)
	}
	return Lines(lines...)
}

// FlightsText is the shareable flight plan. It is empty when there are no
// flights.
func FlightsText(f models.Flights) string {
	if len(f.Legs) == 0 {
		return ""
	}
	lines := []string{"🛫 " + f.Title}
	for _, leg := range f.Legs {
		lines = append(lines, "", "✈ "+leg.Heading)
		for _, s := range leg.Segments {
			lines = append(lines,
				"• "+s.Flight+" ("+s.Aircraft+")",
				"  "+s.From+" "+s.Departs+" → "+s.To+" "+s.Arrives+" · "+s.Duration)
			if s.Layover != "" {
				lines = append(lines, "• Escala: "+s.Layover)
			}
		}
		if leg.Total != "" {
			lines = append(lines, "→ Total: "+leg.Total+" (incluye escala)")
		}
	}
	if len(f.Details) > 0 {
		lines = append(lines, "", "🔎 Detalles:")
		for _, d := range f.Details {
			lines = append(lines, "• "+d)
		}
	}
	return strings.Join(lines, "\n")
}

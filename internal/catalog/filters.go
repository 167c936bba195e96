package catalog

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mmynk/tripjapan/internal/models"
)

// AllCities is the city filter value that matches every place.
const AllCities = "Todas"

// AnyTime is the time of day of photo ideas that do not name one.
const AnyTime = "cualquier"

func matchesQuery(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	hay := strings.ToLower(strings.Join(fields, " "))
	return strings.Contains(hay, strings.ToLower(q))
}

func matchesDiet(gf, lf, wantGF, wantLF bool) bool {
	return (!wantGF || gf) && (!wantLF || lf)
}

// PlaceFilter selects sights.
type PlaceFilter struct {
	Query string
	City  string // "" or AllCities for every city
	GF    bool   // gluten-free food nearby
	LF    bool   // lactose-free food nearby
}

// PlaceResult is a place with its foods narrowed by the diet filter.
type PlaceResult struct {
	Place    models.Place
	Foods    []models.Food
	Favorite bool
}

// FilterPlaces applies f and sorts favorites first, then by rating.
// With a diet filter a place is kept only if at least one food matches.
func FilterPlaces(places []models.Place, f PlaceFilter, favorites map[string]bool) []PlaceResult {
	var out []PlaceResult
	for _, p := range places {
		if !matchesQuery(f.Query, p.Name, p.City, p.Brief) {
			continue
		}
		if f.City != "" && f.City != AllCities && p.City != f.City {
			continue
		}
		foods := make([]models.Food, 0, len(p.Foods))
		for _, food := range p.Foods {
			if matchesDiet(food.GF, food.LF, f.GF, f.LF) {
				foods = append(foods, food)
			}
		}
		if (f.GF || f.LF) && len(foods) == 0 {
			continue
		}
		out = append(out, PlaceResult{Place: p, Foods: foods, Favorite: favorites[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Favorite != out[j].Favorite {
			return out[i].Favorite
		}
		return out[i].Place.Rating > out[j].Place.Rating
	})
	return out
}

// PlaceCities returns the city filter options, AllCities first.
func PlaceCities(places []models.Place) []string {
	return append([]string{AllCities}, distinct(len(places), func(i int) string { return places[i].City })...)
}

// RestaurantFilter selects gastronomy entries.
type RestaurantFilter struct {
	City          string
	Area          string // "" for every area
	Price         int    // 0 for every price level
	NoReservation bool   // only places that take walk-ins
	Query         string
}

// FilterRestaurants applies f keeping catalog order.
func FilterRestaurants(restaurants []models.Restaurant, f RestaurantFilter) []models.Restaurant {
	var out []models.Restaurant
	for _, r := range restaurants {
		if f.City != "" && r.City != f.City {
			continue
		}
		if f.Area != "" && r.Area != f.Area {
			continue
		}
		if f.Price != 0 && r.Price != f.Price {
			continue
		}
		if f.NoReservation && !r.NoReservation {
			continue
		}
		if !matchesQuery(f.Query, r.Name, r.Area, r.Cuisine, strings.Join(r.Tags, " ")) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RestaurantCities returns the cities of the gastronomy catalog in order of
// appearance.
func RestaurantCities(restaurants []models.Restaurant) []string {
	return distinct(len(restaurants), func(i int) string { return restaurants[i].City })
}

// Areas returns the sorted distinct areas of a city.
func Areas(restaurants []models.Restaurant, city string) []string {
	set := make(map[string]bool)
	for _, r := range restaurants {
		if r.City == city {
			set[r.Area] = true
		}
	}
	areas := make([]string, 0, len(set))
	for a := range set {
		areas = append(areas, a)
	}
	sort.Strings(areas)
	return areas
}

// PriceLabel renders a price level as euro signs.
func PriceLabel(level int) string {
	if level < 1 {
		return ""
	}
	return strings.Repeat("€", level)
}

// DishFilter selects must-eat dishes.
type DishFilter struct {
	City string
	GF   bool
	LF   bool
}

// FilterDishes applies f keeping catalog order.
func FilterDishes(dishes []models.Dish, f DishFilter) []models.Dish {
	var out []models.Dish
	for _, d := range dishes {
		if f.City != "" && d.City != f.City {
			continue
		}
		if !matchesDiet(d.GF, d.LF, f.GF, f.LF) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// PhotoIdeaFilter selects photo ideas. Empty fields match everything.
type PhotoIdeaFilter struct {
	City  string
	Who   string
	Vibe  string
	Time  string
	Query string
}

// PhotoIdeaResult is a photo idea with its device-local flags.
type PhotoIdeaResult struct {
	Idea     models.PhotoIdea
	Favorite bool
	Done     bool
}

// FilterPhotoIdeas applies f and puts favorites first.
func FilterPhotoIdeas(ideas []models.PhotoIdea, f PhotoIdeaFilter, favorites, done map[string]bool) []PhotoIdeaResult {
	var out []PhotoIdeaResult
	for _, p := range ideas {
		if f.City != "" && f.City != AllCities && p.City != f.City {
			continue
		}
		if f.Who != "" && !contains(p.Who, f.Who) {
			continue
		}
		if f.Vibe != "" && !contains(p.Vibe, f.Vibe) {
			continue
		}
		if f.Time != "" {
			t := p.Time
			if t == "" {
				t = AnyTime
			}
			if t != f.Time {
				continue
			}
		}
		if !matchesQuery(f.Query, p.Place, p.City, p.Idea, p.How, p.Tips) {
			continue
		}
		out = append(out, PhotoIdeaResult{Idea: p, Favorite: favorites[p.ID], Done: done[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Favorite && !out[j].Favorite
	})
	return out
}

// PhotoIdeaMapsURL returns the idea's map link, or a search for its place.
func PhotoIdeaMapsURL(p models.PhotoIdea) string {
	if p.GMaps != "" {
		return p.GMaps
	}
	return "https://maps.google.com/?q=" + url.QueryEscape(p.Place+" "+p.City+" Japan")
}

// PhotoIdeaShareText summarizes a photo idea for sharing.
func PhotoIdeaShareText(p models.PhotoIdea) string {
	var tips, gmaps string
	if p.Tips != "" {
		tips = "• Tips: " + p.Tips
	}
	if p.GMaps != "" {
		gmaps = "• Mapa: " + p.GMaps
	}
	return Lines(
		"📷 IDEA FOTO — "+p.Place+" ("+p.City+")",
		"• Idea: "+p.Idea,
		"• Cómo: "+p.How,
		tips,
		gmaps,
	)
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func distinct(n int, at func(int) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < n; i++ {
		v := at(i)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

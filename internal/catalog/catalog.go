// Package catalog loads the static trip content: itinerary, places,
// restaurants, must-eat dishes, photo ideas and practical information.
//
// Content ships embedded in the binary as YAML. A content directory can
// override any of the files; see Source.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/tripjapan/internal/models"
)

//go:embed data/*.yaml
var embedded embed.FS

// File names making up a catalog.
const (
	tripFile        = "trip.yaml"
	itineraryFile   = "itinerary.yaml"
	placesFile      = "places.yaml"
	restaurantsFile = "gastro.yaml"
	dishesFile      = "musteat.yaml"
	photoIdeasFile  = "photoideas.yaml"
)

// Files lists the catalog file names, used by the watcher to filter events.
var Files = []string{tripFile, itineraryFile, placesFile, restaurantsFile, dishesFile, photoIdeasFile}

const dateLayout = "2006-01-02"

// Catalog is an immutable snapshot of the trip content.
type Catalog struct {
	Trip       models.Trip
	Travellers []string
	Checklist  []string
	Flights    models.Flights
	Currency   models.Currency
	Emergency  []models.EmergencyNumber
	Phrases    []models.PhraseCategory
	Apps       []models.App
	Facts      []string

	Days        []models.Day
	Places      []models.Place
	Restaurants []models.Restaurant
	Dishes      []models.Dish
	PhotoIdeas  []models.PhotoIdea
}

type tripDoc struct {
	Trip       models.Trip              `yaml:"trip"`
	Travellers []string                 `yaml:"travellers"`
	Checklist  []string                 `yaml:"checklist"`
	Flights    models.Flights           `yaml:"flights"`
	Currency   models.Currency          `yaml:"currency"`
	Emergency  []models.EmergencyNumber `yaml:"emergency"`
	Phrases    []models.PhraseCategory  `yaml:"phrases"`
	Apps       []models.App             `yaml:"apps"`
	Facts      []string                 `yaml:"facts"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// MustDefault is like Default but panics on error. The embedded content is
// validated by the package tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog. For every file the first source that has it wins,
// so overrides go first.
func Load(sources ...fs.FS) (*Catalog, error) {
	var trip tripDoc
	var itinerary struct {
		Days []models.Day `yaml:"days"`
	}
	var places struct {
		Places []models.Place `yaml:"places"`
	}
	var restaurants struct {
		Restaurants []models.Restaurant `yaml:"restaurants"`
	}
	var dishes struct {
		Dishes []models.Dish `yaml:"dishes"`
	}
	var ideas struct {
		Ideas []models.PhotoIdea `yaml:"ideas"`
	}

	docs := []struct {
		name string
		dst  any
	}{
		{tripFile, &trip},
		{itineraryFile, &itinerary},
		{placesFile, &places},
		{restaurantsFile, &restaurants},
		{dishesFile, &dishes},
		{photoIdeasFile, &ideas},
	}
	for _, d := range docs {
		if err := decodeFirst(sources, d.name, d.dst); err != nil {
			return nil, err
		}
	}

	c := &Catalog{
		Trip:        trip.Trip,
		Travellers:  trip.Travellers,
		Checklist:   trip.Checklist,
		Flights:     trip.Flights,
		Currency:    trip.Currency,
		Emergency:   trip.Emergency,
		Phrases:     trip.Phrases,
		Apps:        trip.Apps,
		Facts:       trip.Facts,
		Days:        itinerary.Days,
		Places:      places.Places,
		Restaurants: restaurants.Restaurants,
		Dishes:      dishes.Dishes,
		PhotoIdeas:  ideas.Ideas,
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

func decodeFirst(sources []fs.FS, name string, dst any) error {
	for _, src := range sources {
		f, err := src.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(dst)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

func (c *Catalog) validate() error {
	if c.Trip.ID == "" {
		return errors.New("trip id is required")
	}
	start, err := time.Parse(dateLayout, c.Trip.Start)
	if err != nil {
		return fmt.Errorf("trip start: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Trip.End)
	if err != nil {
		return fmt.Errorf("trip end: %w", err)
	}
	if end.Before(start) {
		return errors.New("trip ends before it starts")
	}
	if len(c.Travellers) == 0 {
		return errors.New("at least one traveller is required")
	}
	if c.Currency.DefaultRate <= 0 {
		return errors.New("currency default_rate must be positive")
	}

	seen := make(map[string]bool)
	for _, d := range c.Days {
		if _, err := time.Parse(dateLayout, d.Date); err != nil {
			return fmt.Errorf("day %q: %w", d.Date, err)
		}
		if seen[d.Date] {
			return fmt.Errorf("duplicate day %s", d.Date)
		}
		seen[d.Date] = true
	}

	if err := uniqueIDs("place", len(c.Places), func(i int) string { return c.Places[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("restaurant", len(c.Restaurants), func(i int) string { return c.Restaurants[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("dish", len(c.Dishes), func(i int) string { return c.Dishes[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("photo idea", len(c.PhotoIdeas), func(i int) string { return c.PhotoIdeas[i].ID }); err != nil {
		return err
	}
	for _, r := range c.Restaurants {
		if r.Price < 1 || r.Price > 4 {
			return fmt.Errorf("restaurant %s: price must be between 1 and 4", r.ID)
		}
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return fmt.Errorf("%s #%d has no id", kind, i)
		}
		if seen[v] {
			return fmt.Errorf("duplicate %s id %s", kind, v)
		}
		seen[v] = true
	}
	return nil
}

// StartDate returns the first day of the trip.
func (c *Catalog) StartDate() time.Time {
	t, _ := time.Parse(dateLayout, c.Trip.Start)
	return t
}

// EndDate returns the last day of the trip.
func (c *Catalog) EndDate() time.Time {
	t, _ := time.Parse(dateLayout, c.Trip.End)
	return t
}

// Day returns the itinerary day for an ISO date.
func (c *Catalog) Day(date string) (models.Day, bool) {
	for _, d := range c.Days {
		if d.Date == date {
			return d, true
		}
	}
	return models.Day{}, false
}

// Restaurant looks up a restaurant by ID.
func (c *Catalog) Restaurant(id string) (models.Restaurant, bool) {
	for _, r := range c.Restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}

// Dish looks up a must-eat dish by ID.
func (c *Catalog) Dish(id string) (models.Dish, bool) {
	for _, d := range c.Dishes {
		if d.ID == id {
			return d, true
		}
	}
	return models.Dish{}, false
}

// Place looks up a sight by ID.
func (c *Catalog) Place(id string) (models.Place, bool) {
	for _, p := range c.Places {
		if p.ID == id {
			return p, true
		}
	}
	return models.Place{}, false
}

// HasItem reports whether a checkable item exists.
func (c *Catalog) HasItem(t models.ItemType, id string) bool {
	switch t {
	case models.ItemPlace:
		_, ok := c.Restaurant(id)
		return ok
	case models.ItemDish:
		_, ok := c.Dish(id)
		return ok
	default:
		return false
	}
}

// IsTraveller reports whether name is one of the trip's travellers.
func (c *Catalog) IsTraveller(name string) bool {
	for _, t := range c.Travellers {
		if t == name {
			return true
		}
	}
	return false
}

// Source holds the current catalog and swaps it atomically on reload.
// When dir is empty only the embedded content is used.
type Source struct {
	dir     string
	current atomic.Pointer[Catalog]
}

// NewSource loads the catalog, overriding embedded files with the ones
// found in dir.
func NewSource(dir string) (*Source, error) {
	s := &Source{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// StaticSource wraps an already loaded catalog.
func StaticSource(c *Catalog) *Source {
	s := &Source{}
	s.current.Store(c)
	return s
}

// Current returns the latest successfully loaded catalog.
func (s *Source) Current() *Catalog {
	return s.current.Load()
}

// Dir returns the override directory.
func (s *Source) Dir() string {
	return s.dir
}

// Reload reads the content again. On error the previous catalog stays.
func (s *Source) Reload() error {
	base, err := fs.Sub(embedded, "data")
	if err != nil {
		return err
	}
	sources := []fs.FS{base}
	if s.dir != "" {
		sources = append([]fs.FS{os.DirFS(s.dir)}, sources...)
	}
	c, err := Load(sources...)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}

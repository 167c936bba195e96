package models

// Trip describes the trip itself. Dates are ISO "2006-01-02" strings.
type Trip struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// Map is the group's Google My Maps link, optional.
	Map string `yaml:"map,omitempty"`
}

// Activity is one line of an itinerary day.
type Activity struct {
	Time string `yaml:"time"`
	Text string `yaml:"text"`

	// Stop is an optional Google Maps link used to build the day map.
	Stop string `yaml:"stop"`
}

// Day is one itinerary day.
type Day struct {
	Date       string     `yaml:"date"`
	Title      string     `yaml:"title"`
	Emoji      string     `yaml:"emoji"`
	Activities []Activity `yaml:"activities"`
}

// Food is a dish recommended near a place.
type Food struct {
	Name string `yaml:"name"`
	GF   bool   `yaml:"gf"`
	LF   bool   `yaml:"lf"`
	Note string `yaml:"note"`
}

// PlaceLinks holds the external links of a place.
type PlaceLinks struct {
	Official string `yaml:"official"`
	GMaps    string `yaml:"gmaps"`
}

// Place is a sight worth visiting.
type Place struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	City   string     `yaml:"city"`
	Emoji  string     `yaml:"emoji"`
	Brief  string     `yaml:"brief"`
	Rating float64    `yaml:"rating"`
	Links  PlaceLinks `yaml:"links"`
	Foods  []Food     `yaml:"foods"`
}

// Restaurant is an entry of the gastronomy catalog.
type Restaurant struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	City          string   `yaml:"city"`
	Area          string   `yaml:"area"`
	Cuisine       string   `yaml:"cuisine"`
	Price         int      `yaml:"price"` // 1 (cheap) to 4
	NoReservation bool     `yaml:"no_reservation"`
	Hours         string   `yaml:"hours"`
	Tags          []string `yaml:"tags"`
	GMaps         string   `yaml:"gmaps"`
	Lat           float64  `yaml:"lat"`
	Lng           float64  `yaml:"lng"`
}

// Dish is a must-eat dish of a city.
type Dish struct {
	ID          string `yaml:"id"`
	City        string `yaml:"city"`
	Dish        string `yaml:"dish"`
	Emoji       string `yaml:"emoji"`
	Description string `yaml:"description"`
	GF          bool   `yaml:"gf"`
	LF          bool   `yaml:"lf"`
	Tip         string `yaml:"tip"`
}

// PhotoIdea is a suggested photo composition.
type PhotoIdea struct {
	ID    string   `yaml:"id"`
	City  string   `yaml:"city"`
	Place string   `yaml:"place"`
	GMaps string   `yaml:"gmaps"`
	Vibe  []string `yaml:"vibe"`
	Who   []string `yaml:"who"`
	Idea  string   `yaml:"idea"`
	How   string   `yaml:"how"`
	Tips  string   `yaml:"tips"`
	Time  string   `yaml:"time"`
}

// Phrase is a phrasebook entry.
type Phrase struct {
	JP     string `yaml:"jp"`
	Romaji string `yaml:"romaji"`
	ES     string `yaml:"es"`
}

// PhraseCategory groups phrases by situation.
type PhraseCategory struct {
	Category string   `yaml:"category"`
	Items    []Phrase `yaml:"items"`
}

// App is a recommended mobile app.
type App struct {
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

// EmergencyNumber is a phone number worth having at hand.
type EmergencyNumber struct {
	Label  string `yaml:"label"`
	Number string `yaml:"number"`
}

// Currency holds the converter defaults.
type Currency struct {
	DefaultRate float64   `yaml:"default_rate"`
	QuickRates  []float64 `yaml:"quick_rates"`
}

// Flights is the group's flight plan.
type Flights struct {
	Title   string          `yaml:"title"`
	Legs    []FlightJourney `yaml:"legs"`
	Details []string        `yaml:"details"`
}

// FlightJourney is one direction of the trip, possibly with connections.
type FlightJourney struct {
	Heading  string          `yaml:"heading"`
	Segments []FlightSegment `yaml:"segments"`
	Total    string          `yaml:"total"`
}

// FlightSegment is a single flight. Layover is the wait before the next
// segment.
type FlightSegment struct {
	Flight   string `yaml:"flight"`
	Aircraft string `yaml:"aircraft"`
	From     string `yaml:"from"`
	Departs  string `yaml:"departs"`
	To       string `yaml:"to"`
	Arrives  string `yaml:"arrives"`
	Duration string `yaml:"duration"`
	Layover  string `yaml:"layover,omitempty"`
}

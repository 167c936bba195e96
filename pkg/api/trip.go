package api

type Trip struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Travellers []string `json:"travellers,omitempty"`
	Map        string   `json:"map,omitempty"`
	MapEmbed   string   `json:"mapEmbed,omitempty"`
}

type Activity struct {
	ID   string `json:"id"`
	Time string `json:"time,omitempty"`
	Text string `json:"text"`
	Stop string `json:"stop,omitempty"`
}

type Day struct {
	Date       string      `json:"date"`
	Title      string      `json:"title"`
	Emoji      string      `json:"emoji,omitempty"`
	BlockID    string      `json:"blockId"`
	Activities []*Activity `json:"activities"`
}

type TripProgress struct {
	Days           int    `json:"days"`
	Elapsed        int    `json:"elapsed"`
	Percent        int    `json:"percent"`
	Status         string `json:"status"`
	DaysUntilStart int    `json:"daysUntilStart,omitempty"`
}

type GetItineraryRequest struct{}

type GetItineraryResponse struct {
	Trip     *Trip         `json:"trip"`
	Days     []*Day        `json:"days"`
	Progress *TripProgress `json:"progress"`
}

type Food struct {
	Name string `json:"name"`
	GF   bool   `json:"gf,omitempty"`
	LF   bool   `json:"lf,omitempty"`
	Note string `json:"note,omitempty"`
}

type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Emoji    string  `json:"emoji,omitempty"`
	Brief    string  `json:"brief,omitempty"`
	Rating   float64 `json:"rating"`
	Official string  `json:"official,omitempty"`
	GMaps    string  `json:"gmaps,omitempty"`
	Foods    []*Food `json:"foods,omitempty"`
}

type ListPlacesRequest struct {
	Query       string `json:"query,omitempty"`
	City        string `json:"city,omitempty"`
	GlutenFree  bool   `json:"glutenFree,omitempty"`
	LactoseFree bool   `json:"lactoseFree,omitempty"`
}

type ListPlacesResponse struct {
	Places []*Place `json:"places"`
	Cities []string `json:"cities"`
}

type Dish struct {
	ID          string `json:"id"`
	City        string `json:"city"`
	Dish        string `json:"dish"`
	Emoji       string `json:"emoji,omitempty"`
	Description string `json:"description,omitempty"`
	GF          bool   `json:"gf,omitempty"`
	LF          bool   `json:"lf,omitempty"`
	Tip         string `json:"tip,omitempty"`
}

type ListMustEatRequest struct {
	City        string `json:"city,omitempty"`
	GlutenFree  bool   `json:"glutenFree,omitempty"`
	LactoseFree bool   `json:"lactoseFree,omitempty"`
}

type ListMustEatResponse struct {
	Dishes []*Dish `json:"dishes"`
}

type PhotoIdea struct {
	ID      string   `json:"id"`
	City    string   `json:"city"`
	Place   string   `json:"place"`
	GMaps   string   `json:"gmaps,omitempty"`
	Vibe    []string `json:"vibe,omitempty"`
	Who     []string `json:"who,omitempty"`
	Idea    string   `json:"idea"`
	How     string   `json:"how,omitempty"`
	Tips    string   `json:"tips,omitempty"`
	Time    string   `json:"time,omitempty"`
	MapsURL string   `json:"mapsUrl"`
}

type ListPhotoIdeasRequest struct {
	City  string `json:"city,omitempty"`
	Who   string `json:"who,omitempty"`
	Vibe  string `json:"vibe,omitempty"`
	Time  string `json:"time,omitempty"`
	Query string `json:"query,omitempty"`
}

type ListPhotoIdeasResponse struct {
	Ideas []*PhotoIdea `json:"ideas"`
}

type Currency struct {
	DefaultRate float64   `json:"defaultRate"`
	QuickRates  []float64 `json:"quickRates,omitempty"`
}

type EmergencyNumber struct {
	Label  string `json:"label"`
	Number string `json:"number"`
	TelURI string `json:"telUri"`
}

type Phrase struct {
	JP     string `json:"jp"`
	Romaji string `json:"romaji"`
	ES     string `json:"es"`
}

type PhraseCategory struct {
	Category string    `json:"category"`
	Items    []*Phrase `json:"items"`
}

type App struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

type GetPracticalInfoRequest struct{}

type GetPracticalInfoResponse struct {
	Currency  *Currency          `json:"currency"`
	Emergency []*EmergencyNumber `json:"emergency"`
	Phrases   []*PhraseCategory  `json:"phrases"`
	Apps      []*App             `json:"apps"`
	Facts     []string           `json:"facts"`
	Flights   string             `json:"flights,omitempty"`
}

type GetDayMapRequest struct {
	Date string `json:"date"`
}

type GetDayMapResponse struct {
	URL       string `json:"url"`
	Points    int    `json:"points"`
	FromStops bool   `json:"fromStops"`
}

package api

type Restaurant struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Area          string   `json:"area"`
	Cuisine       string   `json:"cuisine"`
	Price         int      `json:"price"`
	PriceLabel    string   `json:"priceLabel"`
	NoReservation bool     `json:"noReservation,omitempty"`
	Hours         string   `json:"hours,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	GMaps         string   `json:"gmaps,omitempty"`
	Lat           float64  `json:"lat,omitempty"`
	Lng           float64  `json:"lng,omitempty"`

	Votes  int  `json:"votes"`
	Favs   int  `json:"favs"`
	MyVote bool `json:"myVote,omitempty"`
	MyFav  bool `json:"myFav,omitempty"`
}

type ListGastroRequest struct {
	City          string `json:"city,omitempty"`
	Area          string `json:"area,omitempty"`
	Price         int    `json:"price,omitempty"`
	NoReservation bool   `json:"noReservation,omitempty"`
	Query         string `json:"query,omitempty"`
	// Date picks the surprise of the day (YYYY-MM-DD). Defaults to today.
	Date string `json:"date,omitempty"`
}

type ListGastroResponse struct {
	Restaurants []*Restaurant `json:"restaurants"`
	Cities      []string      `json:"cities"`
	Areas       []string      `json:"areas"`
	Surprise    *Restaurant   `json:"surprise,omitempty"`
}

type ToggleVoteRequest struct {
	PlaceID string `json:"placeId"`
}

type ToggleVoteResponse struct {
	On    bool `json:"on"`
	Votes int  `json:"votes"`
}

type ToggleFavRequest struct {
	PlaceID string `json:"placeId"`
}

type ToggleFavResponse struct {
	On   bool `json:"on"`
	Favs int  `json:"favs"`
}

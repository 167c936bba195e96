package api

// Item types accepted by SetCheck and ListChecks.
const (
	ItemPlace = "place"
	ItemDish  = "dish"
)

type SetCheckRequest struct {
	ItemType string `json:"itemType"`
	ItemID   string `json:"itemId"`
	// Checked is the desired state. Asking for the current state is a no-op.
	Checked bool `json:"checked"`
}

type SetCheckResponse struct {
	Checked bool `json:"checked"`
	Changed bool `json:"changed"`
	Points  int  `json:"points"`
}

type ListChecksRequest struct {
	ItemType string `json:"itemType"`
}

type ListChecksResponse struct {
	ItemIDs []string `json:"itemIds"`
}

type SetNameRequest struct {
	Name string `json:"name"`
}

type SetNameResponse struct {
	Name string `json:"name"`
}

type RankingEntry struct {
	Position  int    `json:"position"`
	Medal     string `json:"medal"`
	DeviceID  string `json:"deviceId"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Tier      string `json:"tier"`
	TierEmoji string `json:"tierEmoji"`
}

type GetRankingRequest struct{}

type GetRankingResponse struct {
	Entries []*RankingEntry `json:"entries"`
	// Me is the caller's entry, nil until the device has a score.
	Me *RankingEntry `json:"me,omitempty"`
	// NextTarget and ToNext are zero once the top tier is reached.
	NextTarget int `json:"nextTarget,omitempty"`
	ToNext     int `json:"toNext,omitempty"`
}

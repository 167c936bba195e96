package models

// DefaultExpenseSplit is the group size used when an expense does not say
// how many people share it.
const DefaultExpenseSplit = 11

// Expense is a shared expense recorded on a single device.
type Expense struct {
	ID      string  `json:"id"`
	Concept string  `json:"concept"`
	Amount  float64 `json:"amount"`
	Split   int     `json:"split"`

	// Payer is optional. Balances only consider expenses with a payer.
	Payer string `json:"payer,omitempty"`

	// Participants names the travellers sharing the expense. Empty means
	// the whole group, which is only valid when Split is the group size.
	Participants []string `json:"participants,omitempty"`

	// Weights optionally assigns shares per traveller. When empty the
	// amount is split equally.
	Weights map[string]float64 `json:"weights,omitempty"`
}

// ChecklistItem is one entry of a traveller's packing checklist.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

package models

// ItemType identifies what a check mark refers to.
type ItemType string

const (
	// ItemPlace is a restaurant from the gastronomy catalog marked as eaten.
	ItemPlace ItemType = "place"
	// ItemDish is a must-eat dish marked as tried.
	ItemDish ItemType = "dish"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemPlace || t == ItemDish
}

// CheckMark records that a device checked an item. Each mark is worth one
// point on the device's score.
type CheckMark struct {
	TripID   string
	ItemType ItemType
	ItemID   string
	DeviceID string
	At       int64
}

// Score is a device's gamification total.
// Points always equals the number of check marks held by the device.
type Score struct {
	TripID    string
	DeviceID  string
	Name      string
	Points    int
	UpdatedAt int64
}

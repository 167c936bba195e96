package models

import "time"

// DefaultDisplayName is used until a traveller picks a name.
const DefaultDisplayName = "Invitado"

// Device is a traveller device that joined a trip.
// The ID is generated on the device and never changes.
type Device struct {
	ID     string
	TripID string

	// Name is the display name shown in notes and rankings.
	Name string

	// JoinedAt is the Unix timestamp of the first join.
	JoinedAt int64
}

// NewDevice creates a device record for the given trip.
func NewDevice(tripID, deviceID, name string) *Device {
	if name == "" {
		name = DefaultDisplayName
	}
	return &Device{
		ID:       deviceID,
		TripID:   tripID,
		Name:     name,
		JoinedAt: time.Now().Unix(),
	}
}

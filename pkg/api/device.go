package api

// Device is a traveller device registered on the trip.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt int64  `json:"joinedAt"`
}

type JoinTripRequest struct {
	TripID   string `json:"tripId"`
	DeviceID string `json:"deviceId"`
	Name     string `json:"name,omitempty"`
	// Passcode is required when the server is configured with one.
	Passcode string `json:"passcode,omitempty"`
}

type JoinTripResponse struct {
	Device *Device `json:"device"`
	Token  string  `json:"token"`
	// ExpiresAt is a Unix timestamp.
	ExpiresAt int64 `json:"expiresAt"`
}

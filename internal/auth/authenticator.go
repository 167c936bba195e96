package auth

import (
	"context"

	"github.com/mmynk/tripjapan/internal/models"
)

// Authenticator decides whether a device may join a trip.
// This abstraction allows swapping the join policy (open trip, shared
// passcode, invitations) without changing the service layer code.
type Authenticator interface {
	// Join registers the device on the trip, or refreshes its name when it
	// already joined, and returns the stored device.
	Join(ctx context.Context, tripID, deviceID, name, credential string) (*models.Device, error)
}

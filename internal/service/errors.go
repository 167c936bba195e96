package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/middleware"
	"github.com/mmynk/tripjapan/internal/storage"
)

var (
	errNoDevice      = errors.New("device identity missing from context")
	errUnknownBlock  = errors.New("unknown itinerary block")
	errUnknownItem   = errors.New("unknown item")
	errUnknownPlace  = errors.New("unknown restaurant")
	errUnknownDate   = errors.New("no itinerary day for that date")
	errInvalidNoteID = errors.New("note id must be 1 to 64 characters")
	errEmptyNote     = errors.New("note content is required")
	errNoteTooLong   = errors.New("note content is too long")
	errBadReaction   = errors.New("unsupported reaction")
	errBadItemType   = errors.New("item type must be place or dish")
	errNameTooLong   = errors.New("name is too long")
)

// identity returns the trip and device set by the auth interceptor.
func identity(ctx context.Context) (tripID, deviceID string, err error) {
	tripID, deviceID = middleware.GetTripID(ctx), middleware.GetDeviceID(ctx)
	if tripID == "" || deviceID == "" {
		return "", "", connect.NewError(connect.CodeUnauthenticated, errNoDevice)
	}
	return tripID, deviceID, nil
}

// storeError maps storage errors to Connect codes.
func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripjapan/internal/models"
)

var (
	ErrInvalidPasscode = errors.New("invalid trip passcode")
	ErrUnknownTrip     = errors.New("unknown trip")
	ErrInvalidDeviceID = errors.New("device id must be 8 to 64 characters")
	ErrNameTooLong     = errors.New("name must be at most 40 characters")
)

// MaxNameLength bounds display names.
const MaxNameLength = 40

// DeviceStorage defines the device persistence the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type DeviceStorage interface {
	UpsertDevice(ctx context.Context, device *models.Device) error
	GetDevice(ctx context.Context, tripID, deviceID string) (*models.Device, error)
}

// PasscodeAuthenticator lets devices join a single trip, optionally guarded
// by a shared passcode stored as a bcrypt hash.
type PasscodeAuthenticator struct {
	storage DeviceStorage
	tripID  string
	hash    []byte
}

// NewPasscodeAuthenticator creates an authenticator for tripID. An empty
// passcodeHash leaves the trip open to any device.
func NewPasscodeAuthenticator(storage DeviceStorage, tripID, passcodeHash string) *PasscodeAuthenticator {
	a := &PasscodeAuthenticator{storage: storage, tripID: tripID}
	if passcodeHash != "" {
		a.hash = []byte(passcodeHash)
	}
	return a
}

// HashPasscode returns the bcrypt hash to configure as the trip passcode.
func HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", ErrInvalidPasscode
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hash), nil
}

// ValidateDeviceID checks the shape of a client generated device ID.
func ValidateDeviceID(id string) error {
	if len(id) < 8 || len(id) > 64 || strings.ContainsAny(id, " /\t\n") {
		return ErrInvalidDeviceID
	}
	return nil
}

// Join checks the passcode and registers the device.
func (a *PasscodeAuthenticator) Join(ctx context.Context, tripID, deviceID, name, credential string) (*models.Device, error) {
	if tripID != a.tripID {
		return nil, ErrUnknownTrip
	}
	if err := ValidateDeviceID(deviceID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if len([]rune(name)) > MaxNameLength {
		return nil, ErrNameTooLong
	}

	if a.hash != nil {
		// Compare passcode hash
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
			return nil, ErrInvalidPasscode
		}
	}

	// Rejoining without a name keeps the stored one
	if name == "" {
		if existing, err := a.storage.GetDevice(ctx, tripID, deviceID); err == nil {
			return existing, nil
		}
	}

	device := models.NewDevice(tripID, deviceID, name)
	if err := a.storage.UpsertDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	stored, err := a.storage.GetDevice(ctx, tripID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	return stored, nil
}

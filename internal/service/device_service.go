package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/storage"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// DeviceService implements the Connect DeviceService.
type DeviceService struct {
	apiconnect.UnimplementedDeviceServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	scores        storage.ScoreStore
	hub           *hub.Hub
}

// NewDeviceService creates a new device service.
func NewDeviceService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, scores storage.ScoreStore, h *hub.Hub) *DeviceService {
	return &DeviceService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		scores:        scores,
		hub:           h,
	}
}

// JoinTrip registers a device and hands out its token.
func (s *DeviceService) JoinTrip(ctx context.Context, req *connect.Request[pb.JoinTripRequest]) (*connect.Response[pb.JoinTripResponse], error) {
	slog.Info("JoinTrip request received", "trip_id", req.Msg.TripID, "device_id", req.Msg.DeviceID)

	device, err := s.authenticator.Join(ctx, req.Msg.TripID, req.Msg.DeviceID, req.Msg.Name, req.Msg.Passcode)
	if err != nil {
		slog.Warn("JoinTrip failed", "trip_id", req.Msg.TripID, "device_id", req.Msg.DeviceID, "error", err)
		switch {
		case errors.Is(err, auth.ErrInvalidPasscode):
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		case errors.Is(err, auth.ErrUnknownTrip):
			return nil, connect.NewError(connect.CodeNotFound, err)
		case errors.Is(err, auth.ErrInvalidDeviceID), errors.Is(err, auth.ErrNameTooLong):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	// The ranking shows the join name until the device renames itself
	if req.Msg.Name != "" {
		if err := s.scores.SetScoreName(ctx, device.TripID, device.ID, device.Name); err != nil {
			slog.Error("JoinTrip failed", "device_id", device.ID, "error", err)
			return nil, storeError(err)
		}
		s.hub.Publish(hub.ScoresTopic(device.TripID), device.ID)
	}

	token, expiresAt, err := s.jwtManager.Generate(device)
	if err != nil {
		slog.Error("Failed to generate token", "device_id", device.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Device joined", "trip_id", device.TripID, "device_id", device.ID, "name", device.Name)
	return connect.NewResponse(&pb.JoinTripResponse{
		Device:    toPBDevice(device),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

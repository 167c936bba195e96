package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/hub"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// ReadyTopic is the topic of the first message of every Watch stream.
const ReadyTopic = pb.ReadyTopic

var errBadTopic = errors.New("topics must be relative to the trip")

// SyncService implements the Connect SyncService.
type SyncService struct {
	apiconnect.UnimplementedSyncServiceHandler
	hub *hub.Hub
}

// NewSyncService creates a SyncService.
func NewSyncService(h *hub.Hub) *SyncService {
	return &SyncService{hub: h}
}

// Watch streams change events of the caller's trip until the client goes
// away. Events carry no state; clients re-read what changed.
func (s *SyncService) Watch(ctx context.Context, req *connect.Request[pb.WatchRequest], stream *connect.ServerStream[pb.WatchResponse]) error {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return err
	}

	patterns := hub.TripTopics(tripID)
	if len(req.Msg.Topics) > 0 {
		patterns = patterns[:0]
		for _, t := range req.Msg.Topics {
			if t == "" || strings.HasPrefix(t, "/") {
				return connect.NewError(connect.CodeInvalidArgument, errBadTopic)
			}
			patterns = append(patterns, tripID+"/"+t)
		}
	}
	slog.Info("Watch request received", "device_id", deviceID, "topics", patterns)

	events := s.hub.Subscribe(ctx, patterns...)
	if err := stream.Send(&pb.WatchResponse{Topic: ReadyTopic}); err != nil {
		return err
	}

	prefix := tripID + "/"
	for ev := range events {
		if err := stream.Send(&pb.WatchResponse{
			Topic:    strings.TrimPrefix(ev.Topic, prefix),
			DeviceID: ev.DeviceID,
			At:       ev.At.UnixMilli(),
		}); err != nil {
			return err
		}
	}
	// The channel closes when ctx is done
	return connect.NewError(connect.CodeCanceled, ctx.Err())
}

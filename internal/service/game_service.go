package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/game"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// GameService implements the Connect GameService: check marks, display
// names and the ranking.
type GameService struct {
	apiconnect.UnimplementedGameServiceHandler
	store   storage.ScoreStore
	content *catalog.Source
	hub     *hub.Hub
	metrics *metrics.Metrics
}

// NewGameService creates a GameService.
func NewGameService(store storage.ScoreStore, content *catalog.Source, h *hub.Hub, m *metrics.Metrics) *GameService {
	return &GameService{store: store, content: content, hub: h, metrics: m}
}

// SetCheck moves a check mark to the requested state. The mark and the
// score change together or not at all.
func (s *GameService) SetCheck(ctx context.Context, req *connect.Request[pb.SetCheckRequest]) (*connect.Response[pb.SetCheckResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	itemType := models.ItemType(req.Msg.ItemType)
	slog.Info("SetCheck request received",
		"item_type", itemType,
		"item_id", req.Msg.ItemID,
		"checked", req.Msg.Checked,
		"device_id", deviceID,
	)

	if !itemType.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errBadItemType)
	}
	if !s.content.Current().HasItem(itemType, req.Msg.ItemID) {
		return nil, connect.NewError(connect.CodeNotFound, errUnknownItem)
	}

	score, changed, err := s.store.SetCheck(ctx, models.CheckMark{
		TripID:   tripID,
		ItemType: itemType,
		ItemID:   req.Msg.ItemID,
		DeviceID: deviceID,
	}, req.Msg.Checked)
	if err != nil {
		slog.Error("SetCheck failed", "item_id", req.Msg.ItemID, "error", err)
		return nil, storeError(err)
	}

	if changed {
		direction := "uncheck"
		if req.Msg.Checked {
			direction = "check"
		}
		s.metrics.ChecksChanged.WithLabelValues(string(itemType), direction).Inc()
		s.hub.Publish(hub.ScoresTopic(tripID), deviceID)
	}

	slog.Info("SetCheck successful", "item_id", req.Msg.ItemID, "changed", changed, "points", score.Points)
	return connect.NewResponse(&pb.SetCheckResponse{
		Checked: req.Msg.Checked,
		Changed: changed,
		Points:  score.Points,
	}), nil
}

// ListChecks returns the caller's checked items of a type.
func (s *GameService) ListChecks(ctx context.Context, req *connect.Request[pb.ListChecksRequest]) (*connect.Response[pb.ListChecksResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	itemType := models.ItemType(req.Msg.ItemType)
	if !itemType.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errBadItemType)
	}

	ids, err := s.store.ListChecks(ctx, tripID, deviceID, itemType)
	if err != nil {
		slog.Error("ListChecks failed", "item_type", itemType, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&pb.ListChecksResponse{ItemIDs: ids}), nil
}

// SetName stores the caller's ranking name. An empty name resets it to the
// default.
func (s *GameService) SetName(ctx context.Context, req *connect.Request[pb.SetNameRequest]) (*connect.Response[pb.SetNameResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if utf8.RuneCountInString(name) > auth.MaxNameLength {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNameTooLong)
	}
	if name == "" {
		name = models.DefaultDisplayName
	}

	if err := s.store.SetScoreName(ctx, tripID, deviceID, name); err != nil {
		slog.Error("SetName failed", "device_id", deviceID, "error", err)
		return nil, storeError(err)
	}
	s.hub.Publish(hub.ScoresTopic(tripID), deviceID)

	return connect.NewResponse(&pb.SetNameResponse{Name: name}), nil
}

// GetRanking returns every score of the trip, best first.
func (s *GameService) GetRanking(ctx context.Context, req *connect.Request[pb.GetRankingRequest]) (*connect.Response[pb.GetRankingResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := s.store.ListScores(ctx, tripID)
	if err != nil {
		slog.Error("GetRanking failed", "error", err)
		return nil, storeError(err)
	}

	resp := &pb.GetRankingResponse{}
	for _, e := range game.Rank(scores) {
		entry := toPBRankingEntry(e)
		resp.Entries = append(resp.Entries, entry)
		if e.DeviceID == deviceID {
			resp.Me = entry
		}
	}

	points := 0
	if resp.Me != nil {
		points = resp.Me.Points
	}
	if target, toNext, ok := game.NextTarget(points); ok {
		resp.NextTarget, resp.ToNext = target, toNext
	}
	return connect.NewResponse(resp), nil
}

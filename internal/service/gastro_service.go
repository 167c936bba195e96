package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// GastroService implements the Connect GastroService.
type GastroService struct {
	apiconnect.UnimplementedGastroServiceHandler
	store   storage.MarkStore
	content *catalog.Source
	hub     *hub.Hub
	now     func() time.Time
}

// NewGastroService creates a GastroService.
func NewGastroService(store storage.MarkStore, content *catalog.Source, h *hub.Hub) *GastroService {
	return &GastroService{store: store, content: content, hub: h, now: time.Now}
}

// ListGastro filters the restaurants and attaches vote and favorite counts.
func (s *GastroService) ListGastro(ctx context.Context, req *connect.Request[pb.ListGastroRequest]) (*connect.Response[pb.ListGastroResponse], error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	c := s.content.Current()

	counts, err := s.store.CountMarks(ctx, tripID, deviceID)
	if err != nil {
		slog.Error("ListGastro failed", "error", err)
		return nil, storeError(err)
	}

	filtered := catalog.FilterRestaurants(c.Restaurants, catalog.RestaurantFilter{
		City:          req.Msg.City,
		Area:          req.Msg.Area,
		Price:         req.Msg.Price,
		NoReservation: req.Msg.NoReservation,
		Query:         req.Msg.Query,
	})

	resp := &pb.ListGastroResponse{
		Restaurants: make([]*pb.Restaurant, len(filtered)),
		Cities:      catalog.RestaurantCities(c.Restaurants),
		Areas:       catalog.Areas(c.Restaurants, req.Msg.City),
	}
	votes := make(map[string]int, len(filtered))
	for i, r := range filtered {
		resp.Restaurants[i] = toPBRestaurant(r, counts[r.ID])
		votes[r.ID] = counts[r.ID].Votes
	}

	date := req.Msg.Date
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}
	if pick, ok := catalog.Surprise(filtered, votes, date); ok {
		resp.Surprise = toPBRestaurant(pick, counts[pick.ID])
	}

	return connect.NewResponse(resp), nil
}

// ToggleVote flips the caller's vote on a restaurant.
func (s *GastroService) ToggleVote(ctx context.Context, req *connect.Request[pb.ToggleVoteRequest]) (*connect.Response[pb.ToggleVoteResponse], error) {
	on, counts, err := s.toggle(ctx, models.MarkVote, req.Msg.PlaceID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.ToggleVoteResponse{On: on, Votes: counts.Votes}), nil
}

// ToggleFav flips the caller's favorite on a restaurant.
func (s *GastroService) ToggleFav(ctx context.Context, req *connect.Request[pb.ToggleFavRequest]) (*connect.Response[pb.ToggleFavResponse], error) {
	on, counts, err := s.toggle(ctx, models.MarkFav, req.Msg.PlaceID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.ToggleFavResponse{On: on, Favs: counts.Favs}), nil
}

func (s *GastroService) toggle(ctx context.Context, kind models.MarkKind, placeID string) (bool, models.MarkCounts, error) {
	tripID, deviceID, err := identity(ctx)
	if err != nil {
		return false, models.MarkCounts{}, err
	}
	slog.Info("Toggle mark request received", "kind", kind, "place_id", placeID, "device_id", deviceID)

	if _, ok := s.content.Current().Restaurant(placeID); !ok {
		return false, models.MarkCounts{}, connect.NewError(connect.CodeNotFound, errUnknownPlace)
	}

	on, err := s.store.ToggleMark(ctx, kind, tripID, placeID, deviceID)
	if err != nil {
		slog.Error("Toggle mark failed", "kind", kind, "place_id", placeID, "error", err)
		return false, models.MarkCounts{}, storeError(err)
	}
	s.hub.Publish(hub.GastroTopic(tripID, placeID), deviceID)

	counts, err := s.store.CountMarks(ctx, tripID, deviceID)
	if err != nil {
		slog.Error("Toggle mark failed", "kind", kind, "place_id", placeID, "error", err)
		return false, models.MarkCounts{}, storeError(err)
	}
	return on, counts[placeID], nil
}

package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/catalog"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// TripService implements the Connect TripService over the static content.
type TripService struct {
	apiconnect.UnimplementedTripServiceHandler
	content *catalog.Source
	now     func() time.Time
}

// NewTripService creates a TripService reading from content.
func NewTripService(content *catalog.Source) *TripService {
	return &TripService{content: content, now: time.Now}
}

// GetItinerary returns the days of the trip and where today falls.
func (s *TripService) GetItinerary(ctx context.Context, req *connect.Request[pb.GetItineraryRequest]) (*connect.Response[pb.GetItineraryResponse], error) {
	c := s.content.Current()

	days := make([]*pb.Day, len(c.Days))
	for i, d := range c.Days {
		days[i] = toPBDay(d)
	}
	p := calculator.CalculateTripProgress(c.StartDate(), c.EndDate(), s.now())
	var embed string
	if c.Trip.Map != "" {
		embed = catalog.EmbedMapURL(c.Trip.Map)
	}

	slog.Debug("GetItinerary successful", "days", len(days))
	return connect.NewResponse(&pb.GetItineraryResponse{
		Trip: &pb.Trip{
			ID:         c.Trip.ID,
			Title:      c.Trip.Title,
			Start:      c.Trip.Start,
			End:        c.Trip.End,
			Travellers: c.Travellers,
			Map:        c.Trip.Map,
			MapEmbed:   embed,
		},
		Days: days,
		Progress: &pb.TripProgress{
			Days:           p.Days,
			Elapsed:        p.Elapsed,
			Percent:        p.Percent,
			Status:         p.Status,
			DaysUntilStart: p.DaysUntilStart,
		},
	}), nil
}

// ListPlaces filters the sights. Favorites live on the device, so results
// come sorted by rating only.
func (s *TripService) ListPlaces(ctx context.Context, req *connect.Request[pb.ListPlacesRequest]) (*connect.Response[pb.ListPlacesResponse], error) {
	c := s.content.Current()
	results := catalog.FilterPlaces(c.Places, catalog.PlaceFilter{
		Query: req.Msg.Query,
		City:  req.Msg.City,
		GF:    req.Msg.GlutenFree,
		LF:    req.Msg.LactoseFree,
	}, nil)

	places := make([]*pb.Place, len(results))
	for i, r := range results {
		places[i] = toPBPlace(r.Place, r.Foods)
	}
	return connect.NewResponse(&pb.ListPlacesResponse{
		Places: places,
		Cities: catalog.PlaceCities(c.Places),
	}), nil
}

// ListMustEat filters the must-eat dishes.
func (s *TripService) ListMustEat(ctx context.Context, req *connect.Request[pb.ListMustEatRequest]) (*connect.Response[pb.ListMustEatResponse], error) {
	dishes := catalog.FilterDishes(s.content.Current().Dishes, catalog.DishFilter{
		City: req.Msg.City,
		GF:   req.Msg.GlutenFree,
		LF:   req.Msg.LactoseFree,
	})
	out := make([]*pb.Dish, len(dishes))
	for i, d := range dishes {
		out[i] = toPBDish(d)
	}
	return connect.NewResponse(&pb.ListMustEatResponse{Dishes: out}), nil
}

// ListPhotoIdeas filters the photo ideas.
func (s *TripService) ListPhotoIdeas(ctx context.Context, req *connect.Request[pb.ListPhotoIdeasRequest]) (*connect.Response[pb.ListPhotoIdeasResponse], error) {
	results := catalog.FilterPhotoIdeas(s.content.Current().PhotoIdeas, catalog.PhotoIdeaFilter{
		City:  req.Msg.City,
		Who:   req.Msg.Who,
		Vibe:  req.Msg.Vibe,
		Time:  req.Msg.Time,
		Query: req.Msg.Query,
	}, nil, nil)

	ideas := make([]*pb.PhotoIdea, len(results))
	for i, r := range results {
		ideas[i] = toPBPhotoIdea(r.Idea)
	}
	return connect.NewResponse(&pb.ListPhotoIdeasResponse{Ideas: ideas}), nil
}

// GetPracticalInfo returns the currency, emergency, phrase and app sections
// with the facts and the flight plan.
func (s *TripService) GetPracticalInfo(ctx context.Context, req *connect.Request[pb.GetPracticalInfoRequest]) (*connect.Response[pb.GetPracticalInfoResponse], error) {
	c := s.content.Current()

	resp := &pb.GetPracticalInfoResponse{
		Currency: &pb.Currency{DefaultRate: c.Currency.DefaultRate, QuickRates: c.Currency.QuickRates},
		Facts:    c.Facts,
		Flights:  catalog.FlightsText(c.Flights),
	}
	for _, n := range c.Emergency {
		resp.Emergency = append(resp.Emergency, &pb.EmergencyNumber{Label: n.Label, Number: n.Number, TelURI: catalog.TelURI(n.Number)})
	}
	for _, cat := range c.Phrases {
		pc := &pb.PhraseCategory{Category: cat.Category}
		for _, p := range cat.Items {
			pc.Items = append(pc.Items, &pb.Phrase{JP: p.JP, Romaji: p.Romaji, ES: p.ES})
		}
		resp.Phrases = append(resp.Phrases, pc)
	}
	for _, a := range c.Apps {
		resp.Apps = append(resp.Apps, &pb.App{Category: a.Category, Name: a.Name, Description: a.Description, Link: a.Link})
	}
	return connect.NewResponse(resp), nil
}

// GetDayMap builds the walking route of a day.
func (s *TripService) GetDayMap(ctx context.Context, req *connect.Request[pb.GetDayMapRequest]) (*connect.Response[pb.GetDayMapResponse], error) {
	c := s.content.Current()
	day, ok := c.Day(req.Msg.Date)
	if !ok {
		slog.Warn("GetDayMap failed", "date", req.Msg.Date, "error", errUnknownDate)
		return nil, connect.NewError(connect.CodeNotFound, errUnknownDate)
	}

	m := catalog.DayMapURL(day, catalog.FallbackLinks(day, c.Places))
	return connect.NewResponse(&pb.GetDayMapResponse{URL: m.URL, Points: m.Points, FromStops: m.FromStops}), nil
}

package service

import (
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/game"
	"github.com/mmynk/tripjapan/internal/models"
	pb "github.com/mmynk/tripjapan/pkg/api"
)

func toPBDevice(d *models.Device) *pb.Device {
	return &pb.Device{ID: d.ID, Name: d.Name, JoinedAt: d.JoinedAt}
}

func toPBNote(n *models.Note) *pb.Note {
	return &pb.Note{
		ID:         n.ID,
		BlockID:    n.BlockID,
		Content:    n.Content,
		AuthorName: n.AuthorName,
		DeviceID:   n.DeviceID,
		CreatedAt:  n.CreatedAt,
		Reactions:  n.Reactions,
	}
}

func toPBDay(d models.Day) *pb.Day {
	day := &pb.Day{
		Date:       d.Date,
		Title:      d.Title,
		Emoji:      d.Emoji,
		BlockID:    catalog.BlockID(d.Date, d.Title),
		Activities: make([]*pb.Activity, len(d.Activities)),
	}
	for i, a := range d.Activities {
		day.Activities[i] = &pb.Activity{
			ID:   catalog.ActivityID(d.Date, i),
			Time: a.Time,
			Text: a.Text,
			Stop: a.Stop,
		}
	}
	return day
}

func toPBPlace(p models.Place, foods []models.Food) *pb.Place {
	out := &pb.Place{
		ID:       p.ID,
		Name:     p.Name,
		City:     p.City,
		Emoji:    p.Emoji,
		Brief:    p.Brief,
		Rating:   p.Rating,
		Official: p.Links.Official,
		GMaps:    p.Links.GMaps,
	}
	for _, f := range foods {
		out.Foods = append(out.Foods, &pb.Food{Name: f.Name, GF: f.GF, LF: f.LF, Note: f.Note})
	}
	return out
}

func toPBDish(d models.Dish) *pb.Dish {
	return &pb.Dish{
		ID:          d.ID,
		City:        d.City,
		Dish:        d.Dish,
		Emoji:       d.Emoji,
		Description: d.Description,
		GF:          d.GF,
		LF:          d.LF,
		Tip:         d.Tip,
	}
}

func toPBPhotoIdea(p models.PhotoIdea) *pb.PhotoIdea {
	return &pb.PhotoIdea{
		ID:      p.ID,
		City:    p.City,
		Place:   p.Place,
		GMaps:   p.GMaps,
		Vibe:    p.Vibe,
		Who:     p.Who,
		Idea:    p.Idea,
		How:     p.How,
		Tips:    p.Tips,
		Time:    p.Time,
		MapsURL: catalog.PhotoIdeaMapsURL(p),
	}
}

func toPBRestaurant(r models.Restaurant, c models.MarkCounts) *pb.Restaurant {
	return &pb.Restaurant{
		ID:            r.ID,
		Name:          r.Name,
		City:          r.City,
		Area:          r.Area,
		Cuisine:       r.Cuisine,
		Price:         r.Price,
		PriceLabel:    catalog.PriceLabel(r.Price),
		NoReservation: r.NoReservation,
		Hours:         r.Hours,
		Tags:          r.Tags,
		GMaps:         r.GMaps,
		Lat:           r.Lat,
		Lng:           r.Lng,
		Votes:         c.Votes,
		Favs:          c.Favs,
		MyVote:        c.MyVote,
		MyFav:         c.MyFav,
	}
}

func toPBRankingEntry(e game.Entry) *pb.RankingEntry {
	return &pb.RankingEntry{
		Position:  e.Position,
		Medal:     e.Medal,
		DeviceID:  e.DeviceID,
		Name:      e.Name,
		Points:    e.Points,
		Tier:      e.Tier.Label,
		TierEmoji: e.Tier.Emoji,
	}
}

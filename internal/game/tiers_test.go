package game

import (
	"testing"

	"github.com/mmynk/tripjapan/internal/models"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "Turista"},
		{4, "Turista"},
		{5, "Novato"},
		{14, "Novato"},
		{15, "Explorador"},
		{30, "Samurái"},
		{59, "Samurái"},
		{60, "Sensei"},
		{200, "Sensei"},
	}
	for _, tt := range tests {
		if got := TierFor(tt.points).Label; got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestNextTarget(t *testing.T) {
	tests := []struct {
		points     int
		wantTarget int
		wantToNext int
		wantOK     bool
	}{
		{0, 5, 5, true},
		{7, 15, 8, true},
		{29, 30, 1, true},
		{45, 60, 15, true},
		{60, 0, 0, false},
	}
	for _, tt := range tests {
		target, toNext, ok := NextTarget(tt.points)
		if target != tt.wantTarget || toNext != tt.wantToNext || ok != tt.wantOK {
			t.Errorf("NextTarget(%d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.points, target, toNext, ok, tt.wantTarget, tt.wantToNext, tt.wantOK)
		}
	}
}

func TestRank(t *testing.T) {
	scores := []*models.Score{
		{DeviceID: "d1", Name: "Moi", Points: 3},
		{DeviceID: "d2", Name: "Alba", Points: 12},
		{DeviceID: "d3", Name: "", Points: 3},
		{DeviceID: "d4", Name: "Jani", Points: 40},
	}

	entries := Rank(scores)
	wantOrder := []string{"Jani", "Alba", "Invitado", "Moi"}
	wantMedals := []string{"🥇", "🥈", "🥉", "🎯"}
	for i, e := range entries {
		if e.Name != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i+1, e.Name, wantOrder[i])
		}
		if e.Medal != wantMedals[i] {
			t.Errorf("position %d medal = %s, want %s", i+1, e.Medal, wantMedals[i])
		}
		if e.Position != i+1 {
			t.Errorf("Position = %d, want %d", e.Position, i+1)
		}
	}
	if entries[0].Tier.Label != "Samurái" {
		t.Errorf("top tier = %s, want Samurái", entries[0].Tier.Label)
	}

	// Input is left untouched
	if scores[0].DeviceID != "d1" {
		t.Error("Rank modified its input")
	}
}

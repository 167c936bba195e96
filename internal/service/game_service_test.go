package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/models"
	pb "github.com/mmynk/tripjapan/pkg/api"
)

func TestSetCheck(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()
	me := server.join(t, "device-game-0001", "Moi")
	ctx := context.Background()

	check := func(itemType, id string, checked bool) *pb.SetCheckResponse {
		t.Helper()
		resp, err := me.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: itemType, ItemID: id, Checked: checked}))
		if err != nil {
			t.Fatalf("SetCheck(%s, %s, %v) failed: %v", itemType, id, checked, err)
		}
		return resp.Msg
	}

	if got := check(pb.ItemDish, "tokyo-ramen", true); !got.Changed || got.Points != 1 {
		t.Errorf("Expected first check to score 1, got %+v", got)
	}
	// Re-sending the same state is a no-op
	if got := check(pb.ItemDish, "tokyo-ramen", true); got.Changed || got.Points != 1 {
		t.Errorf("Expected repeat check to change nothing, got %+v", got)
	}
	if got := check(pb.ItemPlace, "osaka-kani-doraku", true); got.Points != 2 {
		t.Errorf("Expected 2 points, got %d", got.Points)
	}

	list, err := me.game.ListChecks(ctx, connect.NewRequest(&pb.ListChecksRequest{ItemType: pb.ItemDish}))
	if err != nil {
		t.Fatalf("ListChecks failed: %v", err)
	}
	if len(list.Msg.ItemIDs) != 1 || list.Msg.ItemIDs[0] != "tokyo-ramen" {
		t.Errorf("Unexpected checked dishes: %v", list.Msg.ItemIDs)
	}

	if got := check(pb.ItemDish, "tokyo-ramen", false); !got.Changed || got.Points != 1 {
		t.Errorf("Expected uncheck to drop to 1, got %+v", got)
	}
	if got := check(pb.ItemDish, "tokyo-ramen", false); got.Changed || got.Points != 1 {
		t.Errorf("Expected repeat uncheck to change nothing, got %+v", got)
	}
}

func TestSetCheckErrors(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()
	me := server.join(t, "device-game-0001", "Moi")
	ctx := context.Background()

	_, err := me.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: "photo", ItemID: "x", Checked: true}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = me.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: pb.ItemDish, ItemID: "pizza", Checked: true}))
	assertCode(t, err, connect.CodeNotFound)

	// A dish ID is not a restaurant
	_, err = me.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: pb.ItemPlace, ItemID: "tokyo-ramen", Checked: true}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = me.game.ListChecks(ctx, connect.NewRequest(&pb.ListChecksRequest{ItemType: ""}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestRanking(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()
	alice := server.join(t, "device-game-0001", "Alice")
	bob := server.join(t, "device-game-0002", "Bob")
	ctx := context.Background()

	for _, id := range []string{"tokyo-sushi", "tokyo-ramen", "kyoto-matcha"} {
		if _, err := bob.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: pb.ItemDish, ItemID: id, Checked: true})); err != nil {
			t.Fatalf("SetCheck failed: %v", err)
		}
	}
	if _, err := alice.game.SetCheck(ctx, connect.NewRequest(&pb.SetCheckRequest{ItemType: pb.ItemDish, ItemID: "osaka-takoyaki", Checked: true})); err != nil {
		t.Fatalf("SetCheck failed: %v", err)
	}

	resp, err := alice.game.GetRanking(ctx, connect.NewRequest(&pb.GetRankingRequest{}))
	if err != nil {
		t.Fatalf("GetRanking failed: %v", err)
	}
	entries := resp.Msg.Entries
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Bob" || entries[0].Points != 3 || entries[0].Medal != "🥇" {
		t.Errorf("Unexpected leader: %+v", entries[0])
	}
	if resp.Msg.Me == nil || resp.Msg.Me.Name != "Alice" || resp.Msg.Me.Position != 2 {
		t.Errorf("Unexpected Me entry: %+v", resp.Msg.Me)
	}
	if resp.Msg.NextTarget != 5 || resp.Msg.ToNext != 4 {
		t.Errorf("Expected next target 5 (4 to go), got %d (%d)", resp.Msg.NextTarget, resp.Msg.ToNext)
	}
}

func TestSetName(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()
	me := server.join(t, "device-game-0001", "")
	ctx := context.Background()

	resp, err := me.game.SetName(ctx, connect.NewRequest(&pb.SetNameRequest{Name: "  Moi 🍣 "}))
	if err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if resp.Msg.Name != "Moi 🍣" {
		t.Errorf("Expected trimmed name, got %q", resp.Msg.Name)
	}

	resp, err = me.game.SetName(ctx, connect.NewRequest(&pb.SetNameRequest{Name: ""}))
	if err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if resp.Msg.Name != models.DefaultDisplayName {
		t.Errorf("Expected default name, got %q", resp.Msg.Name)
	}

	_, err = me.game.SetName(ctx, connect.NewRequest(&pb.SetNameRequest{Name: strings.Repeat("x", auth.MaxNameLength+1)}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

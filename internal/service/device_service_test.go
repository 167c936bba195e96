package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	pb "github.com/mmynk/tripjapan/pkg/api"
)

func TestJoinTrip(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()
	anon := server.newClients("")

	resp, err := anon.device.JoinTrip(ctx, connect.NewRequest(&pb.JoinTripRequest{
		TripID:   testTripID,
		DeviceID: "device-aaaa-0001",
		Name:     "Moi",
	}))
	if err != nil {
		t.Fatalf("JoinTrip failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Error("Expected a token")
	}
	if resp.Msg.Device.Name != "Moi" {
		t.Errorf("Expected name 'Moi', got %q", resp.Msg.Device.Name)
	}

	// Rejoining without a name keeps the stored one
	resp, err = anon.device.JoinTrip(ctx, connect.NewRequest(&pb.JoinTripRequest{
		TripID:   testTripID,
		DeviceID: "device-aaaa-0001",
	}))
	if err != nil {
		t.Fatalf("JoinTrip rejoin failed: %v", err)
	}
	if resp.Msg.Device.Name != "Moi" {
		t.Errorf("Expected name 'Moi' after rejoin, got %q", resp.Msg.Device.Name)
	}

	// The join name shows up in the ranking
	me := server.newClients(resp.Msg.Token)
	ranking, err := me.game.GetRanking(ctx, connect.NewRequest(&pb.GetRankingRequest{}))
	if err != nil {
		t.Fatalf("GetRanking failed: %v", err)
	}
	if len(ranking.Msg.Entries) != 1 || ranking.Msg.Entries[0].Name != "Moi" {
		t.Errorf("Unexpected ranking: %+v", ranking.Msg.Entries)
	}
}

func TestJoinTripErrors(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	anon := server.newClients("")
	tests := []struct {
		name string
		req  *pb.JoinTripRequest
		code connect.Code
	}{
		{"unknown trip", &pb.JoinTripRequest{TripID: "other-trip", DeviceID: "device-aaaa-0001"}, connect.CodeNotFound},
		{"short device id", &pb.JoinTripRequest{TripID: testTripID, DeviceID: "abc"}, connect.CodeInvalidArgument},
		{"device id with slash", &pb.JoinTripRequest{TripID: testTripID, DeviceID: "device/aaaa/0001"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := anon.device.JoinTrip(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestCallsRequireToken(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	anon := server.newClients("")
	_, err := anon.game.GetRanking(context.Background(), connect.NewRequest(&pb.GetRankingRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	garbage := server.newClients("not-a-token")
	_, err = garbage.trip.GetItinerary(context.Background(), connect.NewRequest(&pb.GetItineraryRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

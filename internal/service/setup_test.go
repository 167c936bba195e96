package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/middleware"
	"github.com/mmynk/tripjapan/internal/storage/sqlite"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

const testTripID = "japon-2025"

// clients bundles one device's view of the API.
type clients struct {
	device apiconnect.DeviceServiceClient
	trip   apiconnect.TripServiceClient
	notes  apiconnect.NotesServiceClient
	gastro apiconnect.GastroServiceClient
	game   apiconnect.GameServiceClient
	sync   apiconnect.SyncServiceClient
}

type testServer struct {
	url     string
	content *catalog.Source
	hub     *hub.Hub
}

// setupTestServer mounts every service on a temp SQLite database.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	content := catalog.StaticSource(catalog.MustDefault())
	h := hub.New(hub.DefaultBuffer)
	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasscodeAuthenticator(store, testTripID, "")

	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireDevice(jwtManager, apiconnect.DeviceServiceJoinTripProcedure),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewDeviceServiceHandler(NewDeviceService(authenticator, jwtManager, store, h), opts))
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(content), opts))
	mux.Handle(apiconnect.NewNotesServiceHandler(NewNotesService(store, content, h, m), opts))
	mux.Handle(apiconnect.NewGastroServiceHandler(NewGastroService(store, content, h), opts))
	mux.Handle(apiconnect.NewGameServiceHandler(NewGameService(store, content, h, m), opts))
	mux.Handle(apiconnect.NewSyncServiceHandler(NewSyncService(h), opts))

	server := httptest.NewServer(mux)

	cleanup := func() {
		server.Close()
		store.Close()
	}
	return &testServer{url: server.URL, content: content, hub: h}, cleanup
}

// newClients returns clients that send token on every call.
func (s *testServer) newClients(token string) *clients {
	opt := connect.WithInterceptors(apiconnect.BearerToken(func() string { return token }))
	return &clients{
		device: apiconnect.NewDeviceServiceClient(http.DefaultClient, s.url, opt),
		trip:   apiconnect.NewTripServiceClient(http.DefaultClient, s.url, opt),
		notes:  apiconnect.NewNotesServiceClient(http.DefaultClient, s.url, opt),
		gastro: apiconnect.NewGastroServiceClient(http.DefaultClient, s.url, opt),
		game:   apiconnect.NewGameServiceClient(http.DefaultClient, s.url, opt),
		sync:   apiconnect.NewSyncServiceClient(http.DefaultClient, s.url, opt),
	}
}

// join registers a device and returns its authenticated clients.
func (s *testServer) join(t *testing.T, deviceID, name string) *clients {
	t.Helper()
	resp, err := s.newClients("").device.JoinTrip(context.Background(), connect.NewRequest(&pb.JoinTripRequest{
		TripID:   testTripID,
		DeviceID: deviceID,
		Name:     name,
	}))
	if err != nil {
		t.Fatalf("JoinTrip failed: %v", err)
	}
	return s.newClients(resp.Msg.Token)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error with code %v, got %v", want, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code = %v, want %v (%v)", connectErr.Code(), want, err)
	}
}

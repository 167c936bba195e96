package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/config"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/storage/sqlite"
	pb "github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

func setupServer(t *testing.T, env map[string]string) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()

	base := map[string]string{
		"JWT_SECRET": "server-test-secret-0123",
		"DB_PATH":    filepath.Join(dir, "trip.db"),
	}
	for k, v := range env {
		base[k] = v
	}
	cfg, err := config.FromMap(base)
	require.NoError(t, err)

	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(cfg, store, catalog.StaticSource(catalog.MustDefault()), hub.New(hub.DefaultBuffer), metrics.New())
	ts := httptest.NewServer(srv.RegisterRoutes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealthz(t *testing.T) {
	_, ts := setupServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "up", body["status"])
	assert.Equal(t, "japon-2025", body["trip_id"])
}

func TestTripIDOverride(t *testing.T) {
	srv, ts := setupServer(t, map[string]string{"TRIP_ID": "japon-2026"})
	assert.Equal(t, "japon-2026", srv.TripID())

	client := apiconnect.NewDeviceServiceClient(http.DefaultClient, ts.URL)
	_, err := client.JoinTrip(context.Background(), connect.NewRequest(&pb.JoinTripRequest{
		TripID: "japon-2025", DeviceID: "device-srv-0001",
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = client.JoinTrip(context.Background(), connect.NewRequest(&pb.JoinTripRequest{
		TripID: "japon-2026", DeviceID: "device-srv-0001",
	}))
	assert.NoError(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := setupServer(t, nil)

	// One RPC so the request counter has a sample
	client := apiconnect.NewTripServiceClient(http.DefaultClient, ts.URL)
	_, err := client.GetItinerary(context.Background(), connect.NewRequest(&pb.GetItineraryRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tripjapan_rpc_requests_total{code="unauthenticated",procedure="/tripjapan.v1.TripService/GetItinerary"} 1`)
}

func TestStaticFallback(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>Japón</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log('hola')"), 0o644))
	_, ts := setupServer(t, map[string]string{"STATIC_PATH": static})

	get := func(path string) (int, string) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Japón")

	_, body = get("/app.js")
	assert.Contains(t, body, "console.log")

	_, body = get("/itinerario/dia-3")
	assert.Contains(t, body, "Japón")

	code, _ = get("/" + apiconnect.PackageName + ".Nope/Method")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCORSPreflight(t *testing.T) {
	_, ts := setupServer(t, map[string]string{"CORS_ORIGINS": "https://trip.example"})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+apiconnect.GameServiceGetRankingProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://trip.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://trip.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(strings.ToLower(resp.Header.Get("Access-Control-Allow-Headers")), "authorization"))
}

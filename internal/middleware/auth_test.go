package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/pkg/api"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// whoAmI answers SetName with the caller's identity.
type whoAmI struct {
	apiconnect.UnimplementedGameServiceHandler
}

func (whoAmI) SetName(ctx context.Context, req *connect.Request[api.SetNameRequest]) (*connect.Response[api.SetNameResponse], error) {
	return connect.NewResponse(&api.SetNameResponse{Name: GetTripID(ctx) + "/" + GetDeviceID(ctx)}), nil
}

func setupAuthTestServer(t *testing.T, public ...string) (*auth.JWTManager, *metrics.Metrics, string, func()) {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	path, handler := apiconnect.NewGameServiceHandler(whoAmI{}, connect.WithInterceptors(
		MetricsInterceptor(m),
		RequireDevice(jwtManager, public...),
		LoggingInterceptor(),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	return jwtManager, m, server.URL, server.Close
}

func TestRequireDevice(t *testing.T) {
	jwtManager, m, url, cleanup := setupAuthTestServer(t)
	defer cleanup()
	ctx := context.Background()

	token, _, err := jwtManager.Generate(&models.Device{ID: "device-1", TripID: "japon-2025"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name     string
		token    string
		wantCode connect.Code
		wantName string
	}{
		{name: "valid token", token: token, wantName: "japon-2025/device-1"},
		{name: "missing token", token: "", wantCode: connect.CodeUnauthenticated},
		{name: "garbage token", token: "not-a-jwt", wantCode: connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := tt.token
			client := apiconnect.NewGameServiceClient(http.DefaultClient, url,
				connect.WithInterceptors(apiconnect.BearerToken(func() string { return tok })))

			resp, err := client.SetName(ctx, connect.NewRequest(&api.SetNameRequest{Name: "x"}))
			if tt.wantCode != 0 {
				var connectErr *connect.Error
				if !errors.As(err, &connectErr) || connectErr.Code() != tt.wantCode {
					t.Fatalf("error = %v, want code %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetName failed: %v", err)
			}
			if resp.Msg.Name != tt.wantName {
				t.Errorf("identity = %q, want %q", resp.Msg.Name, tt.wantName)
			}
		})
	}

	if got := testutilCount(t, m, apiconnect.GameServiceSetNameProcedure); got != 3 {
		t.Errorf("rpc_requests_total = %v, want 3", got)
	}
}

func TestPublicProcedure(t *testing.T) {
	_, _, url, cleanup := setupAuthTestServer(t, apiconnect.GameServiceSetNameProcedure)
	defer cleanup()

	client := apiconnect.NewGameServiceClient(http.DefaultClient, url)
	resp, err := client.SetName(context.Background(), connect.NewRequest(&api.SetNameRequest{}))
	if err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if resp.Msg.Name != "/" {
		t.Errorf("identity = %q, want empty", resp.Msg.Name)
	}
}

func testutilCount(t *testing.T, m *metrics.Metrics, procedure string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != "tripjapan_rpc_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "procedure" && l.GetValue() == procedure {
					total += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

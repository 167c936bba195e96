package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// DeviceServiceName is the fully-qualified name of the DeviceService.
const DeviceServiceName = PackageName + ".DeviceService"

// Procedure paths, used for routing and by interceptors.
const (
	DeviceServiceJoinTripProcedure = "/" + DeviceServiceName + "/JoinTrip"
)

// DeviceServiceClient is a client for the DeviceService.
type DeviceServiceClient interface {
	JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error)
}

// NewDeviceServiceClient returns a client for the DeviceService served at baseURL.
func NewDeviceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DeviceServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &deviceServiceClient{
		joinTrip: connect.NewClient[api.JoinTripRequest, api.JoinTripResponse](httpClient, baseURL+DeviceServiceJoinTripProcedure, opts...),
	}
}

type deviceServiceClient struct {
	joinTrip *connect.Client[api.JoinTripRequest, api.JoinTripResponse]
}

func (c *deviceServiceClient) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	return c.joinTrip.CallUnary(ctx, req)
}

// DeviceServiceHandler is implemented by the server side of the DeviceService.
type DeviceServiceHandler interface {
	JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error)
}

// NewDeviceServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewDeviceServiceHandler(svc DeviceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	joinTripHandler := connect.NewUnaryHandler(DeviceServiceJoinTripProcedure, svc.JoinTrip, opts...)
	return "/" + DeviceServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DeviceServiceJoinTripProcedure:
			joinTripHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedDeviceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDeviceServiceHandler struct{}

func (UnimplementedDeviceServiceHandler) JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(DeviceServiceJoinTripProcedure))
}

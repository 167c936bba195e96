package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// SyncServiceName is the fully-qualified name of the SyncService.
const SyncServiceName = PackageName + ".SyncService"

// Procedure paths, used for routing and by interceptors.
const (
	SyncServiceWatchProcedure = "/" + SyncServiceName + "/Watch"
)

// SyncServiceClient is a client for the SyncService.
type SyncServiceClient interface {
	Watch(context.Context, *connect.Request[api.WatchRequest]) (*connect.ServerStreamForClient[api.WatchResponse], error)
}

// NewSyncServiceClient returns a client for the SyncService served at baseURL.
func NewSyncServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SyncServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &syncServiceClient{
		watch: connect.NewClient[api.WatchRequest, api.WatchResponse](httpClient, baseURL+SyncServiceWatchProcedure, opts...),
	}
}

type syncServiceClient struct {
	watch *connect.Client[api.WatchRequest, api.WatchResponse]
}

func (c *syncServiceClient) Watch(ctx context.Context, req *connect.Request[api.WatchRequest]) (*connect.ServerStreamForClient[api.WatchResponse], error) {
	return c.watch.CallServerStream(ctx, req)
}

// SyncServiceHandler is implemented by the server side of the SyncService.
type SyncServiceHandler interface {
	Watch(context.Context, *connect.Request[api.WatchRequest], *connect.ServerStream[api.WatchResponse]) error
}

// NewSyncServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewSyncServiceHandler(svc SyncServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	watchHandler := connect.NewServerStreamHandler(SyncServiceWatchProcedure, svc.Watch, opts...)
	return "/" + SyncServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SyncServiceWatchProcedure:
			watchHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSyncServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSyncServiceHandler struct{}

func (UnimplementedSyncServiceHandler) Watch(context.Context, *connect.Request[api.WatchRequest], *connect.ServerStream[api.WatchResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errUnimplemented(SyncServiceWatchProcedure))
}

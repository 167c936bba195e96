package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// GastroServiceName is the fully-qualified name of the GastroService.
const GastroServiceName = PackageName + ".GastroService"

// Procedure paths, used for routing and by interceptors.
const (
	GastroServiceListGastroProcedure = "/" + GastroServiceName + "/ListGastro"
	GastroServiceToggleVoteProcedure = "/" + GastroServiceName + "/ToggleVote"
	GastroServiceToggleFavProcedure  = "/" + GastroServiceName + "/ToggleFav"
)

// GastroServiceClient is a client for the GastroService.
type GastroServiceClient interface {
	ListGastro(context.Context, *connect.Request[api.ListGastroRequest]) (*connect.Response[api.ListGastroResponse], error)
	ToggleVote(context.Context, *connect.Request[api.ToggleVoteRequest]) (*connect.Response[api.ToggleVoteResponse], error)
	ToggleFav(context.Context, *connect.Request[api.ToggleFavRequest]) (*connect.Response[api.ToggleFavResponse], error)
}

// NewGastroServiceClient returns a client for the GastroService served at baseURL.
func NewGastroServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GastroServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &gastroServiceClient{
		listGastro: connect.NewClient[api.ListGastroRequest, api.ListGastroResponse](httpClient, baseURL+GastroServiceListGastroProcedure, opts...),
		toggleVote: connect.NewClient[api.ToggleVoteRequest, api.ToggleVoteResponse](httpClient, baseURL+GastroServiceToggleVoteProcedure, opts...),
		toggleFav:  connect.NewClient[api.ToggleFavRequest, api.ToggleFavResponse](httpClient, baseURL+GastroServiceToggleFavProcedure, opts...),
	}
}

type gastroServiceClient struct {
	listGastro *connect.Client[api.ListGastroRequest, api.ListGastroResponse]
	toggleVote *connect.Client[api.ToggleVoteRequest, api.ToggleVoteResponse]
	toggleFav  *connect.Client[api.ToggleFavRequest, api.ToggleFavResponse]
}

func (c *gastroServiceClient) ListGastro(ctx context.Context, req *connect.Request[api.ListGastroRequest]) (*connect.Response[api.ListGastroResponse], error) {
	return c.listGastro.CallUnary(ctx, req)
}

func (c *gastroServiceClient) ToggleVote(ctx context.Context, req *connect.Request[api.ToggleVoteRequest]) (*connect.Response[api.ToggleVoteResponse], error) {
	return c.toggleVote.CallUnary(ctx, req)
}

func (c *gastroServiceClient) ToggleFav(ctx context.Context, req *connect.Request[api.ToggleFavRequest]) (*connect.Response[api.ToggleFavResponse], error) {
	return c.toggleFav.CallUnary(ctx, req)
}

// GastroServiceHandler is implemented by the server side of the GastroService.
type GastroServiceHandler interface {
	ListGastro(context.Context, *connect.Request[api.ListGastroRequest]) (*connect.Response[api.ListGastroResponse], error)
	ToggleVote(context.Context, *connect.Request[api.ToggleVoteRequest]) (*connect.Response[api.ToggleVoteResponse], error)
	ToggleFav(context.Context, *connect.Request[api.ToggleFavRequest]) (*connect.Response[api.ToggleFavResponse], error)
}

// NewGastroServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewGastroServiceHandler(svc GastroServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listGastroHandler := connect.NewUnaryHandler(GastroServiceListGastroProcedure, svc.ListGastro, opts...)
	toggleVoteHandler := connect.NewUnaryHandler(GastroServiceToggleVoteProcedure, svc.ToggleVote, opts...)
	toggleFavHandler := connect.NewUnaryHandler(GastroServiceToggleFavProcedure, svc.ToggleFav, opts...)
	return "/" + GastroServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GastroServiceListGastroProcedure:
			listGastroHandler.ServeHTTP(w, r)
		case GastroServiceToggleVoteProcedure:
			toggleVoteHandler.ServeHTTP(w, r)
		case GastroServiceToggleFavProcedure:
			toggleFavHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGastroServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGastroServiceHandler struct{}

func (UnimplementedGastroServiceHandler) ListGastro(context.Context, *connect.Request[api.ListGastroRequest]) (*connect.Response[api.ListGastroResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GastroServiceListGastroProcedure))
}

func (UnimplementedGastroServiceHandler) ToggleVote(context.Context, *connect.Request[api.ToggleVoteRequest]) (*connect.Response[api.ToggleVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GastroServiceToggleVoteProcedure))
}

func (UnimplementedGastroServiceHandler) ToggleFav(context.Context, *connect.Request[api.ToggleFavRequest]) (*connect.Response[api.ToggleFavResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GastroServiceToggleFavProcedure))
}

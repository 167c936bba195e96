package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// GameServiceName is the fully-qualified name of the GameService.
const GameServiceName = PackageName + ".GameService"

// Procedure paths, used for routing and by interceptors.
const (
	GameServiceSetCheckProcedure   = "/" + GameServiceName + "/SetCheck"
	GameServiceListChecksProcedure = "/" + GameServiceName + "/ListChecks"
	GameServiceSetNameProcedure    = "/" + GameServiceName + "/SetName"
	GameServiceGetRankingProcedure = "/" + GameServiceName + "/GetRanking"
)

// GameServiceClient is a client for the GameService.
type GameServiceClient interface {
	SetCheck(context.Context, *connect.Request[api.SetCheckRequest]) (*connect.Response[api.SetCheckResponse], error)
	ListChecks(context.Context, *connect.Request[api.ListChecksRequest]) (*connect.Response[api.ListChecksResponse], error)
	SetName(context.Context, *connect.Request[api.SetNameRequest]) (*connect.Response[api.SetNameResponse], error)
	GetRanking(context.Context, *connect.Request[api.GetRankingRequest]) (*connect.Response[api.GetRankingResponse], error)
}

// NewGameServiceClient returns a client for the GameService served at baseURL.
func NewGameServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GameServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &gameServiceClient{
		setCheck:   connect.NewClient[api.SetCheckRequest, api.SetCheckResponse](httpClient, baseURL+GameServiceSetCheckProcedure, opts...),
		listChecks: connect.NewClient[api.ListChecksRequest, api.ListChecksResponse](httpClient, baseURL+GameServiceListChecksProcedure, opts...),
		setName:    connect.NewClient[api.SetNameRequest, api.SetNameResponse](httpClient, baseURL+GameServiceSetNameProcedure, opts...),
		getRanking: connect.NewClient[api.GetRankingRequest, api.GetRankingResponse](httpClient, baseURL+GameServiceGetRankingProcedure, opts...),
	}
}

type gameServiceClient struct {
	setCheck   *connect.Client[api.SetCheckRequest, api.SetCheckResponse]
	listChecks *connect.Client[api.ListChecksRequest, api.ListChecksResponse]
	setName    *connect.Client[api.SetNameRequest, api.SetNameResponse]
	getRanking *connect.Client[api.GetRankingRequest, api.GetRankingResponse]
}

func (c *gameServiceClient) SetCheck(ctx context.Context, req *connect.Request[api.SetCheckRequest]) (*connect.Response[api.SetCheckResponse], error) {
	return c.setCheck.CallUnary(ctx, req)
}

func (c *gameServiceClient) ListChecks(ctx context.Context, req *connect.Request[api.ListChecksRequest]) (*connect.Response[api.ListChecksResponse], error) {
	return c.listChecks.CallUnary(ctx, req)
}

func (c *gameServiceClient) SetName(ctx context.Context, req *connect.Request[api.SetNameRequest]) (*connect.Response[api.SetNameResponse], error) {
	return c.setName.CallUnary(ctx, req)
}

func (c *gameServiceClient) GetRanking(ctx context.Context, req *connect.Request[api.GetRankingRequest]) (*connect.Response[api.GetRankingResponse], error) {
	return c.getRanking.CallUnary(ctx, req)
}

// GameServiceHandler is implemented by the server side of the GameService.
type GameServiceHandler interface {
	SetCheck(context.Context, *connect.Request[api.SetCheckRequest]) (*connect.Response[api.SetCheckResponse], error)
	ListChecks(context.Context, *connect.Request[api.ListChecksRequest]) (*connect.Response[api.ListChecksResponse], error)
	SetName(context.Context, *connect.Request[api.SetNameRequest]) (*connect.Response[api.SetNameResponse], error)
	GetRanking(context.Context, *connect.Request[api.GetRankingRequest]) (*connect.Response[api.GetRankingResponse], error)
}

// NewGameServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewGameServiceHandler(svc GameServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	setCheckHandler := connect.NewUnaryHandler(GameServiceSetCheckProcedure, svc.SetCheck, opts...)
	listChecksHandler := connect.NewUnaryHandler(GameServiceListChecksProcedure, svc.ListChecks, opts...)
	setNameHandler := connect.NewUnaryHandler(GameServiceSetNameProcedure, svc.SetName, opts...)
	getRankingHandler := connect.NewUnaryHandler(GameServiceGetRankingProcedure, svc.GetRanking, opts...)
	return "/" + GameServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GameServiceSetCheckProcedure:
			setCheckHandler.ServeHTTP(w, r)
		case GameServiceListChecksProcedure:
			listChecksHandler.ServeHTTP(w, r)
		case GameServiceSetNameProcedure:
			setNameHandler.ServeHTTP(w, r)
		case GameServiceGetRankingProcedure:
			getRankingHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGameServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGameServiceHandler struct{}

func (UnimplementedGameServiceHandler) SetCheck(context.Context, *connect.Request[api.SetCheckRequest]) (*connect.Response[api.SetCheckResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GameServiceSetCheckProcedure))
}

func (UnimplementedGameServiceHandler) ListChecks(context.Context, *connect.Request[api.ListChecksRequest]) (*connect.Response[api.ListChecksResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GameServiceListChecksProcedure))
}

func (UnimplementedGameServiceHandler) SetName(context.Context, *connect.Request[api.SetNameRequest]) (*connect.Response[api.SetNameResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GameServiceSetNameProcedure))
}

func (UnimplementedGameServiceHandler) GetRanking(context.Context, *connect.Request[api.GetRankingRequest]) (*connect.Response[api.GetRankingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GameServiceGetRankingProcedure))
}

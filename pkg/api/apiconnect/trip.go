package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService.
const TripServiceName = PackageName + ".TripService"

// Procedure paths, used for routing and by interceptors.
const (
	TripServiceGetItineraryProcedure     = "/" + TripServiceName + "/GetItinerary"
	TripServiceListPlacesProcedure       = "/" + TripServiceName + "/ListPlaces"
	TripServiceListMustEatProcedure      = "/" + TripServiceName + "/ListMustEat"
	TripServiceListPhotoIdeasProcedure   = "/" + TripServiceName + "/ListPhotoIdeas"
	TripServiceGetPracticalInfoProcedure = "/" + TripServiceName + "/GetPracticalInfo"
	TripServiceGetDayMapProcedure        = "/" + TripServiceName + "/GetDayMap"
)

// TripServiceClient is a client for the TripService.
type TripServiceClient interface {
	GetItinerary(context.Context, *connect.Request[api.GetItineraryRequest]) (*connect.Response[api.GetItineraryResponse], error)
	ListPlaces(context.Context, *connect.Request[api.ListPlacesRequest]) (*connect.Response[api.ListPlacesResponse], error)
	ListMustEat(context.Context, *connect.Request[api.ListMustEatRequest]) (*connect.Response[api.ListMustEatResponse], error)
	ListPhotoIdeas(context.Context, *connect.Request[api.ListPhotoIdeasRequest]) (*connect.Response[api.ListPhotoIdeasResponse], error)
	GetPracticalInfo(context.Context, *connect.Request[api.GetPracticalInfoRequest]) (*connect.Response[api.GetPracticalInfoResponse], error)
	GetDayMap(context.Context, *connect.Request[api.GetDayMapRequest]) (*connect.Response[api.GetDayMapResponse], error)
}

// NewTripServiceClient returns a client for the TripService served at baseURL.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &tripServiceClient{
		getItinerary:     connect.NewClient[api.GetItineraryRequest, api.GetItineraryResponse](httpClient, baseURL+TripServiceGetItineraryProcedure, opts...),
		listPlaces:       connect.NewClient[api.ListPlacesRequest, api.ListPlacesResponse](httpClient, baseURL+TripServiceListPlacesProcedure, opts...),
		listMustEat:      connect.NewClient[api.ListMustEatRequest, api.ListMustEatResponse](httpClient, baseURL+TripServiceListMustEatProcedure, opts...),
		listPhotoIdeas:   connect.NewClient[api.ListPhotoIdeasRequest, api.ListPhotoIdeasResponse](httpClient, baseURL+TripServiceListPhotoIdeasProcedure, opts...),
		getPracticalInfo: connect.NewClient[api.GetPracticalInfoRequest, api.GetPracticalInfoResponse](httpClient, baseURL+TripServiceGetPracticalInfoProcedure, opts...),
		getDayMap:        connect.NewClient[api.GetDayMapRequest, api.GetDayMapResponse](httpClient, baseURL+TripServiceGetDayMapProcedure, opts...),
	}
}

type tripServiceClient struct {
	getItinerary     *connect.Client[api.GetItineraryRequest, api.GetItineraryResponse]
	listPlaces       *connect.Client[api.ListPlacesRequest, api.ListPlacesResponse]
	listMustEat      *connect.Client[api.ListMustEatRequest, api.ListMustEatResponse]
	listPhotoIdeas   *connect.Client[api.ListPhotoIdeasRequest, api.ListPhotoIdeasResponse]
	getPracticalInfo *connect.Client[api.GetPracticalInfoRequest, api.GetPracticalInfoResponse]
	getDayMap        *connect.Client[api.GetDayMapRequest, api.GetDayMapResponse]
}

func (c *tripServiceClient) GetItinerary(ctx context.Context, req *connect.Request[api.GetItineraryRequest]) (*connect.Response[api.GetItineraryResponse], error) {
	return c.getItinerary.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListPlaces(ctx context.Context, req *connect.Request[api.ListPlacesRequest]) (*connect.Response[api.ListPlacesResponse], error) {
	return c.listPlaces.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListMustEat(ctx context.Context, req *connect.Request[api.ListMustEatRequest]) (*connect.Response[api.ListMustEatResponse], error) {
	return c.listMustEat.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListPhotoIdeas(ctx context.Context, req *connect.Request[api.ListPhotoIdeasRequest]) (*connect.Response[api.ListPhotoIdeasResponse], error) {
	return c.listPhotoIdeas.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetPracticalInfo(ctx context.Context, req *connect.Request[api.GetPracticalInfoRequest]) (*connect.Response[api.GetPracticalInfoResponse], error) {
	return c.getPracticalInfo.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetDayMap(ctx context.Context, req *connect.Request[api.GetDayMapRequest]) (*connect.Response[api.GetDayMapResponse], error) {
	return c.getDayMap.CallUnary(ctx, req)
}

// TripServiceHandler is implemented by the server side of the TripService.
type TripServiceHandler interface {
	GetItinerary(context.Context, *connect.Request[api.GetItineraryRequest]) (*connect.Response[api.GetItineraryResponse], error)
	ListPlaces(context.Context, *connect.Request[api.ListPlacesRequest]) (*connect.Response[api.ListPlacesResponse], error)
	ListMustEat(context.Context, *connect.Request[api.ListMustEatRequest]) (*connect.Response[api.ListMustEatResponse], error)
	ListPhotoIdeas(context.Context, *connect.Request[api.ListPhotoIdeasRequest]) (*connect.Response[api.ListPhotoIdeasResponse], error)
	GetPracticalInfo(context.Context, *connect.Request[api.GetPracticalInfoRequest]) (*connect.Response[api.GetPracticalInfoResponse], error)
	GetDayMap(context.Context, *connect.Request[api.GetDayMapRequest]) (*connect.Response[api.GetDayMapResponse], error)
}

// NewTripServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getItineraryHandler := connect.NewUnaryHandler(TripServiceGetItineraryProcedure, svc.GetItinerary, opts...)
	listPlacesHandler := connect.NewUnaryHandler(TripServiceListPlacesProcedure, svc.ListPlaces, opts...)
	listMustEatHandler := connect.NewUnaryHandler(TripServiceListMustEatProcedure, svc.ListMustEat, opts...)
	listPhotoIdeasHandler := connect.NewUnaryHandler(TripServiceListPhotoIdeasProcedure, svc.ListPhotoIdeas, opts...)
	getPracticalInfoHandler := connect.NewUnaryHandler(TripServiceGetPracticalInfoProcedure, svc.GetPracticalInfo, opts...)
	getDayMapHandler := connect.NewUnaryHandler(TripServiceGetDayMapProcedure, svc.GetDayMap, opts...)
	return "/" + TripServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TripServiceGetItineraryProcedure:
			getItineraryHandler.ServeHTTP(w, r)
		case TripServiceListPlacesProcedure:
			listPlacesHandler.ServeHTTP(w, r)
		case TripServiceListMustEatProcedure:
			listMustEatHandler.ServeHTTP(w, r)
		case TripServiceListPhotoIdeasProcedure:
			listPhotoIdeasHandler.ServeHTTP(w, r)
		case TripServiceGetPracticalInfoProcedure:
			getPracticalInfoHandler.ServeHTTP(w, r)
		case TripServiceGetDayMapProcedure:
			getDayMapHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) GetItinerary(context.Context, *connect.Request[api.GetItineraryRequest]) (*connect.Response[api.GetItineraryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceGetItineraryProcedure))
}

func (UnimplementedTripServiceHandler) ListPlaces(context.Context, *connect.Request[api.ListPlacesRequest]) (*connect.Response[api.ListPlacesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceListPlacesProcedure))
}

func (UnimplementedTripServiceHandler) ListMustEat(context.Context, *connect.Request[api.ListMustEatRequest]) (*connect.Response[api.ListMustEatResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceListMustEatProcedure))
}

func (UnimplementedTripServiceHandler) ListPhotoIdeas(context.Context, *connect.Request[api.ListPhotoIdeasRequest]) (*connect.Response[api.ListPhotoIdeasResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceListPhotoIdeasProcedure))
}

func (UnimplementedTripServiceHandler) GetPracticalInfo(context.Context, *connect.Request[api.GetPracticalInfoRequest]) (*connect.Response[api.GetPracticalInfoResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceGetPracticalInfoProcedure))
}

func (UnimplementedTripServiceHandler) GetDayMap(context.Context, *connect.Request[api.GetDayMapRequest]) (*connect.Response[api.GetDayMapResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(TripServiceGetDayMapProcedure))
}

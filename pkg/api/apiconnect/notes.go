package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/pkg/api"
)

// NotesServiceName is the fully-qualified name of the NotesService.
const NotesServiceName = PackageName + ".NotesService"

// Procedure paths, used for routing and by interceptors.
const (
	NotesServicePostNoteProcedure       = "/" + NotesServiceName + "/PostNote"
	NotesServiceListNotesProcedure      = "/" + NotesServiceName + "/ListNotes"
	NotesServiceToggleReactionProcedure = "/" + NotesServiceName + "/ToggleReaction"
)

// NotesServiceClient is a client for the NotesService.
type NotesServiceClient interface {
	PostNote(context.Context, *connect.Request[api.PostNoteRequest]) (*connect.Response[api.PostNoteResponse], error)
	ListNotes(context.Context, *connect.Request[api.ListNotesRequest]) (*connect.Response[api.ListNotesResponse], error)
	ToggleReaction(context.Context, *connect.Request[api.ToggleReactionRequest]) (*connect.Response[api.ToggleReactionResponse], error)
}

// NewNotesServiceClient returns a client for the NotesService served at baseURL.
func NewNotesServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) NotesServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &notesServiceClient{
		postNote:       connect.NewClient[api.PostNoteRequest, api.PostNoteResponse](httpClient, baseURL+NotesServicePostNoteProcedure, opts...),
		listNotes:      connect.NewClient[api.ListNotesRequest, api.ListNotesResponse](httpClient, baseURL+NotesServiceListNotesProcedure, opts...),
		toggleReaction: connect.NewClient[api.ToggleReactionRequest, api.ToggleReactionResponse](httpClient, baseURL+NotesServiceToggleReactionProcedure, opts...),
	}
}

type notesServiceClient struct {
	postNote       *connect.Client[api.PostNoteRequest, api.PostNoteResponse]
	listNotes      *connect.Client[api.ListNotesRequest, api.ListNotesResponse]
	toggleReaction *connect.Client[api.ToggleReactionRequest, api.ToggleReactionResponse]
}

func (c *notesServiceClient) PostNote(ctx context.Context, req *connect.Request[api.PostNoteRequest]) (*connect.Response[api.PostNoteResponse], error) {
	return c.postNote.CallUnary(ctx, req)
}

func (c *notesServiceClient) ListNotes(ctx context.Context, req *connect.Request[api.ListNotesRequest]) (*connect.Response[api.ListNotesResponse], error) {
	return c.listNotes.CallUnary(ctx, req)
}

func (c *notesServiceClient) ToggleReaction(ctx context.Context, req *connect.Request[api.ToggleReactionRequest]) (*connect.Response[api.ToggleReactionResponse], error) {
	return c.toggleReaction.CallUnary(ctx, req)
}

// NotesServiceHandler is implemented by the server side of the NotesService.
type NotesServiceHandler interface {
	PostNote(context.Context, *connect.Request[api.PostNoteRequest]) (*connect.Response[api.PostNoteResponse], error)
	ListNotes(context.Context, *connect.Request[api.ListNotesRequest]) (*connect.Response[api.ListNotesResponse], error)
	ToggleReaction(context.Context, *connect.Request[api.ToggleReactionRequest]) (*connect.Response[api.ToggleReactionResponse], error)
}

// NewNotesServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewNotesServiceHandler(svc NotesServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	postNoteHandler := connect.NewUnaryHandler(NotesServicePostNoteProcedure, svc.PostNote, opts...)
	listNotesHandler := connect.NewUnaryHandler(NotesServiceListNotesProcedure, svc.ListNotes, opts...)
	toggleReactionHandler := connect.NewUnaryHandler(NotesServiceToggleReactionProcedure, svc.ToggleReaction, opts...)
	return "/" + NotesServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case NotesServicePostNoteProcedure:
			postNoteHandler.ServeHTTP(w, r)
		case NotesServiceListNotesProcedure:
			listNotesHandler.ServeHTTP(w, r)
		case NotesServiceToggleReactionProcedure:
			toggleReactionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedNotesServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedNotesServiceHandler struct{}

func (UnimplementedNotesServiceHandler) PostNote(context.Context, *connect.Request[api.PostNoteRequest]) (*connect.Response[api.PostNoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(NotesServicePostNoteProcedure))
}

func (UnimplementedNotesServiceHandler) ListNotes(context.Context, *connect.Request[api.ListNotesRequest]) (*connect.Response[api.ListNotesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(NotesServiceListNotesProcedure))
}

func (UnimplementedNotesServiceHandler) ToggleReaction(context.Context, *connect.Request[api.ToggleReactionRequest]) (*connect.Response[api.ToggleReactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(NotesServiceToggleReactionProcedure))
}

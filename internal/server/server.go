// Package server wires the Connect services, health and metrics endpoints
// and the static frontend into one HTTP server.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/config"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/storage"
)

// Server holds the dependencies shared by the routes.
type Server struct {
	cfg     *config.Config
	tripID  string
	store   storage.Store
	content *catalog.Source
	hub     *hub.Hub
	metrics *metrics.Metrics

	jwtManager    *auth.JWTManager
	authenticator auth.Authenticator
}

// New builds the server for tripID. The trip ID comes from the
// configuration when set, otherwise from the content.
func New(cfg *config.Config, store storage.Store, content *catalog.Source, h *hub.Hub, m *metrics.Metrics) *Server {
	tripID := cfg.TripID
	if tripID == "" {
		tripID = content.Current().Trip.ID
	}
	return &Server{
		cfg:           cfg,
		tripID:        tripID,
		store:         store,
		content:       content,
		hub:           h,
		metrics:       m,
		jwtManager:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		authenticator: auth.NewPasscodeAuthenticator(store, tripID, cfg.TripPasscodeHash),
	}
}

// TripID returns the trip the server accepts joins for.
func (s *Server) TripID() string {
	return s.tripID
}

// HTTPServer returns the http.Server for the configured address. Requests
// are served over HTTP/1.1 and cleartext HTTP/2.
func (s *Server) HTTPServer() *http.Server {
	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           h2c.NewHandler(s.RegisterRoutes(), &http2.Server{}),
		BaseContext:       func(net.Listener) context.Context { return base },
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: Watch streams stay open for as long as the client.
	}
	// Shutdown waits for active requests; cancelling the base context ends
	// open Watch streams.
	srv.RegisterOnShutdown(cancel)
	return srv
}

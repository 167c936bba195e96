package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmynk/tripjapan/internal/middleware"
	"github.com/mmynk/tripjapan/internal/service"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
)

// RegisterRoutes returns the root handler.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(s.metrics),
		middleware.RequireDevice(s.jwtManager, apiconnect.DeviceServiceJoinTripProcedure),
		middleware.LoggingInterceptor(),
	)
	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
	}
	mount(apiconnect.NewDeviceServiceHandler(service.NewDeviceService(s.authenticator, s.jwtManager, s.store, s.hub), opts))
	mount(apiconnect.NewTripServiceHandler(service.NewTripService(s.content), opts))
	mount(apiconnect.NewNotesServiceHandler(service.NewNotesService(s.store, s.content, s.hub, s.metrics), opts))
	mount(apiconnect.NewGastroServiceHandler(service.NewGastroService(s.store, s.content, s.hub), opts))
	mount(apiconnect.NewGameServiceHandler(service.NewGameService(s.store, s.content, s.hub, s.metrics), opts))
	mount(apiconnect.NewSyncServiceHandler(service.NewSyncService(s.hub), opts))

	if s.cfg.StaticPath != "" {
		r.Get("/*", s.staticHandler(s.cfg.StaticPath))
	}
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Health(r.Context())
	stats["trip_id"] = s.tripID
	if stats["status"] == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, stats)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// staticHandler serves the frontend. Unknown paths get index.html so the
// single-page app can route them.
func (s *Server) staticHandler(dir string) http.HandlerFunc {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		staticDir = dir
	}
	slog.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+apiconnect.PackageName+".") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// requestLogger logs every HTTP request with its duration and status.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

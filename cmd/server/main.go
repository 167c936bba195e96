package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/config"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/server"
	"github.com/mmynk/tripjapan/internal/storage"
	"github.com/mmynk/tripjapan/internal/storage/postgres"
	"github.com/mmynk/tripjapan/internal/storage/sqlite"
	"github.com/mmynk/tripjapan/pkg/logging"
)

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	content, err := catalog.NewSource(cfg.ContentDir)
	if err != nil {
		return err
	}
	c := content.Current()
	slog.Info("Content loaded",
		"trip", c.Trip.ID,
		"days", len(c.Days),
		"places", len(c.Places),
		"restaurants", len(c.Restaurants),
		"override_dir", cfg.ContentDir,
	)

	m := metrics.New()
	h := hub.New(hub.DefaultBuffer)
	h.OnDrop = func(ev hub.Event) {
		m.EventsDropped.Inc()
		slog.Debug("Dropped change event for slow subscriber", "topic", ev.Topic)
	}

	srv := server.New(cfg, store, content, h, m)
	httpServer := srv.HTTPServer()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.ContentDir != "" {
		watcher, err := catalog.NewWatcher(content, catalog.DefaultDebounce)
		if err != nil {
			return err
		}
		watcher.OnReload = func(*catalog.Catalog) { m.CatalogReloads.WithLabelValues("ok").Inc() }
		watcher.OnError = func(error) { m.CatalogReloads.WithLabelValues("error").Inc() }
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		slog.Info("Connect server starting", "address", httpServer.Addr, "trip_id", srv.TripID(), "driver", cfg.DBDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	}
}

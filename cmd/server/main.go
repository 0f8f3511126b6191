package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/allotment/internal/api"
	"github.com/mmynk/allotment/internal/config"
	"github.com/mmynk/allotment/internal/service"
	"github.com/mmynk/allotment/internal/storage"
	"github.com/mmynk/allotment/internal/storage/postgres"
	"github.com/mmynk/allotment/internal/storage/sqlite"
	"github.com/mmynk/allotment/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Configure(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	store, err := openStore(cfg.DB)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DB.Driver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.Server.StaticPath != "" {
		slog.Info("Serving static files", "path", cfg.Server.StaticPath)
	}

	handler := api.NewRouter(service.NewParticipantService(store), api.Options{
		StaticPath: cfg.Server.StaticPath,
		CORSOrigin: cfg.Server.CORSOrigin,
		Registry:   reg,
	})

	// Wrap with h2c for HTTP/2 without TLS
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server closed")
	return nil
}

func openStore(cfg config.DBConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(cfg.URL)
	default:
		slog.Info("Opening SQLite database", "database", cfg.Path)
		return sqlite.New(cfg.Path)
	}
}

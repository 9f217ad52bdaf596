package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ExpTracker_Go/internal/bootstrap"
	"github.com/osse101/ExpTracker_Go/internal/config"
	"github.com/osse101/ExpTracker_Go/internal/handler"
	"github.com/osse101/ExpTracker_Go/internal/ocr/tesseract"
	"github.com/osse101/ExpTracker_Go/internal/server"
)

// @title EXP Tracker API
// @version 1.0
// @description Tracks an on-screen EXP counter and reports gain rates.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx := context.Background()

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}

	engine, err := tesseract.NewEngine(cfg.OCRLanguage)
	if err != nil {
		events.Hub.Stop()
		storage.Close()
		return err
	}
	if !bootstrap.WaitForOCR(ctx, engine, bootstrap.OCRStartupTimeout) {
		slog.Warn("OCR engine not ready yet, tracking will be refused until it is")
	}

	opener, err := bootstrap.SurfaceOpener(cfg)
	if err != nil {
		events.Hub.Stop()
		engine.Close()
		storage.Close()
		return err
	}

	svc, err := bootstrap.InitializeTracker(ctx, bootstrap.TrackerDependencies{
		Config:  cfg,
		OCR:     engine,
		Storage: storage,
		Events:  events,
		Opener:  opener,
	})
	if err != nil {
		events.Hub.Stop()
		engine.Close()
		storage.Close()
		return err
	}
	svc.SetDebug(cfg.DebugScans)

	// Leave the interface nil rather than holding a typed nil pool
	var db handler.Pinger
	if storage.Pool != nil {
		db = storage.Pool
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
		Tracker:        svc,
		DB:             db,
		Hub:            events.Hub,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErr:
		slog.Error("Server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:   srv,
		Hub:      events.Hub,
		Tracker:  svc,
		Notifier: events.Notifier,
		OCR:      engine,
		Storage:  storage,
	})
	return runErr
}

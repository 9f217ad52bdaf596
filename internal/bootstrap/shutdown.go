package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/ExpTracker_Go/internal/discord"
	"github.com/osse101/ExpTracker_Go/internal/server"
	"github.com/osse101/ExpTracker_Go/internal/sse"
	"github.com/osse101/ExpTracker_Go/internal/tracker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server   *server.Server
	Hub      *sse.Hub
	Tracker  *tracker.Service
	Notifier *discord.Notifier
	OCR      io.Closer
	Storage  *Storage
}

// GracefulShutdown stops components in order:
// 1. SSE hub, so open event streams end and the server can drain
// 2. HTTP server
// 3. Tracker, which publishes its final stop event
// 4. Discord notifier, flushing pending advisories
// 5. OCR engine and storage
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	if c.Tracker != nil {
		c.Tracker.Close()
	}
	if c.Notifier != nil {
		slog.Info(LogMsgShuttingDownNotifier)
		if err := c.Notifier.Shutdown(ctx); err != nil {
			slog.Error(LogMsgNotifierShutdownFailed, "error", err)
		}
	}
	if c.OCR != nil {
		if err := c.OCR.Close(); err != nil {
			slog.Error(LogMsgOCRCloseFailed, "error", err)
		}
	}
	if c.Storage != nil {
		c.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}

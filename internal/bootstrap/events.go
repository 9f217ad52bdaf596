package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/ExpTracker_Go/internal/config"
	"github.com/osse101/ExpTracker_Go/internal/discord"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/metrics"
	"github.com/osse101/ExpTracker_Go/internal/sse"
)

// EventSystem is the tracker's bus plus everything subscribed to it.
type EventSystem struct {
	Bus      *event.MemoryBus
	Hub      *sse.Hub
	Notifier *discord.Notifier // nil when Discord is not configured
}

// InitializeEventSystem creates the bus and registers the SSE stream, the
// metrics collector and, when configured, the Discord notifier.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	bus := event.NewMemoryBus()

	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub, bus).Subscribe()
	slog.Info(LogMsgSSESubscriberRegistered, "events", len(sse.StreamedEvents))

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		hub.Stop()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	es := &EventSystem{Bus: bus, Hub: hub}

	if !cfg.DiscordEnabled() {
		slog.Info(LogMsgDiscordDisabled)
		return es, nil
	}

	if dir := filepath.Dir(cfg.DiscordDeadLetter); dir != "" {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			hub.Stop()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDLDir, err)
		}
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		hub.Stop()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateNotifier, err)
	}
	notifier.Register(bus)
	es.Notifier = notifier
	slog.Info(LogMsgDiscordNotifierRegistered, "deadletter_path", cfg.DiscordDeadLetter)

	return es, nil
}

func newNotifier(cfg *config.Config) (*discord.Notifier, error) {
	session, err := discord.NewSession()
	if err != nil {
		return nil, err
	}
	return discord.NewNotifier(discord.Config{
		WebhookID:      cfg.DiscordWebhookID,
		WebhookToken:   cfg.DiscordWebhookToken,
		DeadLetterPath: cfg.DiscordDeadLetter,
	}, session)
}

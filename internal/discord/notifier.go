package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/logger"
)

// WebhookExecutor is the part of *discordgo.Session the notifier needs.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Config holds the webhook settings.
type Config struct {
	WebhookID      string
	WebhookToken   string
	Username       string
	DeadLetterPath string
	MaxRetries     int
	RetryDelay     time.Duration
}

// Enabled reports whether a webhook is configured.
func (c Config) Enabled() bool {
	return c.WebhookID != "" && c.WebhookToken != ""
}

// Advisory is one message bound for the webhook.
type Advisory struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// Notifier turns tracker events that need the user's attention into Discord
// webhook messages. Delivery goes through its own outbox bus so a failing
// webhook is retried without re-running the tracker's other handlers.
type Notifier struct {
	cfg       Config
	webhook   WebhookExecutor
	publisher *event.ResilientPublisher
}

// NewNotifier wires the outbox. webhook is usually a *discordgo.Session.
func NewNotifier(cfg Config, webhook WebhookExecutor) (*Notifier, error) {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.DeadLetterPath == "" {
		cfg.DeadLetterPath = DefaultDeadLetterPath
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	n := &Notifier{cfg: cfg, webhook: webhook}

	outbox := event.NewMemoryBus()
	outbox.Subscribe(EventTypeAdvisory, n.deliver)
	publisher, err := event.NewResilientPublisher(outbox, cfg.MaxRetries, cfg.RetryDelay, cfg.DeadLetterPath)
	if err != nil {
		return nil, err
	}
	n.publisher = publisher
	return n, nil
}

// NewSession builds a token-less discordgo session; webhook calls carry
// their own token.
func NewSession() (*discordgo.Session, error) {
	return discordgo.New("")
}

// Register subscribes to the tracker events that produce advisories.
func (n *Notifier) Register(bus event.Bus) {
	bus.Subscribe(event.TrackingStopped, n.handleTrackingStopped)
	bus.Subscribe(event.RegionDetectionFailed, n.handleDetectionFailed)
}

// Shutdown flushes pending retries.
func (n *Notifier) Shutdown(ctx context.Context) error {
	return n.publisher.Shutdown(ctx)
}

func (n *Notifier) handleTrackingStopped(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.TrackingStoppedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	if payload.Reason != domain.StopReasonSurfaceEnded {
		return nil
	}
	n.enqueue(ctx, Advisory{Title: MsgSurfaceEndedTitle, Description: MsgSurfaceEndedBody, Color: ColorWarning})
	return nil
}

func (n *Notifier) handleDetectionFailed(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.RegionPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	body := MsgDetectionFailedBody
	if payload.Error != "" {
		body = fmt.Sprintf("%s\n`%s`", body, payload.Error)
	}
	n.enqueue(ctx, Advisory{Title: MsgDetectionFailedTitle, Description: body, Color: ColorError})
	return nil
}

func (n *Notifier) enqueue(ctx context.Context, a Advisory) {
	logger.FromContext(ctx).Info(LogMsgAdvisoryQueued, "title", a.Title)
	n.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    EventTypeAdvisory,
		Payload: a,
	})
}

func (n *Notifier) deliver(ctx context.Context, evt event.Event) error {
	a, err := event.DecodePayload[Advisory](evt.Payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBadAdvisoryPayload, err)
	}

	params := &discordgo.WebhookParams{
		Username: n.cfg.Username,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       a.Title,
			Description: a.Description,
			Color:       a.Color,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}
	if _, err := n.webhook.WebhookExecute(n.cfg.WebhookID, n.cfg.WebhookToken, false, params); err != nil {
		logger.FromContext(ctx).Warn(LogMsgAdvisoryFailed, "error", err, "title", a.Title)
		return err
	}
	logger.FromContext(ctx).Debug(LogMsgAdvisorySent, "title", a.Title)
	return nil
}

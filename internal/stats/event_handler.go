package stats

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/logger"
)

// Source provides what a summary is computed from.
type Source interface {
	History() []domain.ExpHistoryEntry
	CaptureInterval() time.Duration
}

// EventHandler recomputes the summary whenever history changes and
// republishes it as a stats update.
type EventHandler struct {
	source Source
	bus    event.Bus

	mu     sync.RWMutex
	latest domain.ExpStats
}

// NewEventHandler creates a new stats event handler
func NewEventHandler(source Source, bus event.Bus) *EventHandler {
	return &EventHandler{source: source, bus: bus}
}

// Register subscribes the handler to relevant events
func (h *EventHandler) Register(bus event.Bus) {
	bus.Subscribe(event.SampleAccepted, h.HandleHistoryChanged)
	bus.Subscribe(event.HistoryReset, h.HandleHistoryChanged)
}

// HandleHistoryChanged recomputes and publishes the summary
func (h *EventHandler) HandleHistoryChanged(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	s := Summarize(h.source.History(), h.source.CaptureInterval())

	h.mu.Lock()
	h.latest = s
	h.mu.Unlock()

	log.Debug(LogMsgStatsUpdated, "trigger", evt.Type, "exp_per_minute", s.ExpPerMinute, "samples", s.Samples)

	if h.bus == nil {
		return nil
	}
	if err := h.bus.Publish(ctx, event.NewStatsUpdatedEvent(s)); err != nil {
		log.Warn(LogMsgStatsPublishFailed, "error", err)
	}
	return nil
}

// Latest returns the most recently computed summary.
func (h *EventHandler) Latest() domain.ExpStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

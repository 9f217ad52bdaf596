package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/ExpTracker_Go/internal/event"
)

// StreamedEvents are the bus events forwarded to SSE clients.
var StreamedEvents = []event.Type{
	event.TrackingStarted,
	event.TrackingStopped,
	event.SampleAccepted,
	event.SampleRejected,
	event.RegionDetected,
	event.RegionDetectionFailed,
	event.RegionChanged,
	event.HistoryReset,
	event.StatsUpdated,
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers the forwarding handler for every streamed event type
func (s *Subscriber) Subscribe() {
	names := make([]string, 0, len(StreamedEvents))
	for _, t := range StreamedEvents {
		s.bus.Subscribe(t, s.forward)
		names = append(names, string(t))
	}
	slog.Info(LogMsgSubscribed, "types", names)
}

// forward passes the typed payload through unchanged; the JSON field names
// of the event payloads are the stream contract.
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type)
	return nil
}

package metrics

import (
	"context"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all tracker events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TrackingStarted,
		event.TrackingStopped,
		event.SampleAccepted,
		event.SampleRejected,
		event.RegionDetected,
		event.RegionDetectionFailed,
		event.HistoryReset,
		event.StatsUpdated,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.TrackingStarted:
		TrackingActive.Set(1)

	case event.TrackingStopped:
		TrackingActive.Set(0)

	case event.SampleAccepted, event.SampleRejected:
		p, err := event.DecodePayload[event.SamplePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		SamplesTotal.WithLabelValues(string(p.Outcome)).Inc()
		if p.Delta > 0 {
			ExpGained.Add(float64(p.Delta))
		}

	case event.RegionDetected:
		DetectionsTotal.WithLabelValues(DetectionSucceeded).Inc()

	case event.RegionDetectionFailed:
		DetectionsTotal.WithLabelValues(DetectionFailed).Inc()

	case event.HistoryReset:
		ExpPerMinute.Set(0)

	case event.StatsUpdated:
		s, err := event.DecodePayload[domain.ExpStats](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		ExpPerMinute.Set(s.ExpPerMinute)
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

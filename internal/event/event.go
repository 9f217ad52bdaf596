package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Tracker event types
const (
	TrackingStarted       Type = domain.EventTypeTrackingStarted
	TrackingStopped       Type = domain.EventTypeTrackingStopped
	SampleAccepted        Type = domain.EventTypeSampleAccepted
	SampleRejected        Type = domain.EventTypeSampleRejected
	RegionDetected        Type = domain.EventTypeRegionDetected
	RegionDetectionFailed Type = domain.EventTypeRegionDetectionFailed
	RegionChanged         Type = domain.EventTypeRegionChanged
	HistoryReset          Type = domain.EventTypeHistoryReset
	StatsUpdated          Type = domain.EventTypeStatsUpdated
)

// Typed event payloads for type safety

// TrackingStartedPayloadV1 is the typed payload for tracking started events
type TrackingStartedPayloadV1 struct {
	IntervalSeconds float64                 `json:"interval_seconds"`
	Region          domain.NormalizedRegion `json:"region"`
	Timestamp       int64                   `json:"timestamp"`
}

// TrackingStoppedPayloadV1 is the typed payload for tracking stopped events
type TrackingStoppedPayloadV1 struct {
	Reason    domain.StopReason `json:"reason"`
	Timestamp int64             `json:"timestamp"`
}

// SamplePayloadV1 is the typed payload for accepted and rejected sample events
type SamplePayloadV1 struct {
	Outcome    domain.SampleOutcome `json:"outcome"`
	Exp        *int64               `json:"exp"`
	Delta      int64                `json:"delta"`
	RawText    string               `json:"raw_text"`
	Confidence float64              `json:"confidence"`
	Timestamp  int64                `json:"timestamp"`
}

// RegionPayloadV1 is the typed payload for region events. Region is nil when
// the selection was cleared.
type RegionPayloadV1 struct {
	Region   *domain.NormalizedRegion `json:"region"`
	Text     string                   `json:"text,omitempty"`
	Attempts int                      `json:"attempts,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// HistoryResetPayloadV1 is the typed payload for history reset events
type HistoryResetPayloadV1 struct {
	Timestamp int64 `json:"timestamp"`
}

// Type-safe event constructors

// NewTrackingStartedEvent creates a tracking started event
func NewTrackingStartedEvent(interval time.Duration, r domain.NormalizedRegion) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TrackingStarted,
		Payload: TrackingStartedPayloadV1{
			IntervalSeconds: interval.Seconds(),
			Region:          r,
			Timestamp:       time.Now().Unix(),
		},
	}
}

// NewTrackingStoppedEvent creates a tracking stopped event
func NewTrackingStoppedEvent(reason domain.StopReason) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TrackingStopped,
		Payload: TrackingStoppedPayloadV1{
			Reason:    reason,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			MetadataKeyReason: string(reason),
		},
	}
}

// NewSampleEvent creates an accepted or rejected sample event from a decision
func NewSampleEvent(d domain.SampleDecision) Event {
	typ := SampleRejected
	if d.Outcome.Changed() {
		typ = SampleAccepted
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    typ,
		Payload: SamplePayloadV1{
			Outcome:    d.Outcome,
			Exp:        d.Sample.ParsedValue,
			Delta:      d.Delta,
			RawText:    d.Sample.RawText,
			Confidence: d.Sample.ConfidencePercent,
			Timestamp:  d.Sample.Timestamp.Unix(),
		},
		Metadata: map[string]interface{}{
			MetadataKeyOutcome: string(d.Outcome),
		},
	}
}

// NewRegionDetectedEvent creates a region detected event
func NewRegionDetectedEvent(r domain.NormalizedRegion, text string, attempts int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RegionDetected,
		Payload: RegionPayloadV1{Region: &r, Text: text, Attempts: attempts},
	}
}

// NewRegionDetectionFailedEvent creates a region detection failed event
func NewRegionDetectionFailedEvent(err error) Event {
	payload := RegionPayloadV1{}
	if err != nil {
		payload.Error = err.Error()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    RegionDetectionFailed,
		Payload: payload,
	}
}

// NewRegionChangedEvent creates a region changed event; r is nil when cleared
func NewRegionChangedEvent(r *domain.NormalizedRegion) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RegionChanged,
		Payload: RegionPayloadV1{Region: r},
	}
}

// NewHistoryResetEvent creates a history reset event
func NewHistoryResetEvent() Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HistoryReset,
		Payload: HistoryResetPayloadV1{Timestamp: time.Now().Unix()},
	}
}

// NewStatsUpdatedEvent creates a stats updated event
func NewStatsUpdatedEvent(stats domain.ExpStats) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    StatsUpdated,
		Payload: stats,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

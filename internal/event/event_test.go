package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got Event

	bus.Subscribe(TrackingStarted, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	r := domain.NormalizedRegion{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05}
	require.NoError(t, bus.Publish(context.Background(), NewTrackingStartedEvent(time.Minute, r)))

	assert.Equal(t, TrackingStarted, got.Type)
	assert.Equal(t, EventSchemaVersion, got.Version)
	payload, err := DecodePayload[TrackingStartedPayloadV1](got.Payload)
	require.NoError(t, err)
	assert.Equal(t, 60.0, payload.IntervalSeconds)
	assert.Equal(t, r, payload.Region)
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	handler := func(ctx context.Context, e Event) error {
		count++
		return nil
	}

	bus.Subscribe(HistoryReset, handler)
	bus.Subscribe(HistoryReset, handler)

	require.NoError(t, bus.Publish(context.Background(), NewHistoryResetEvent()))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewHistoryResetEvent()))
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	called := false

	bus.Subscribe(RegionDetectionFailed, func(ctx context.Context, e Event) error {
		return errors.New("webhook down")
	})
	bus.Subscribe(RegionDetectionFailed, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	err := bus.Publish(context.Background(), NewRegionDetectionFailedEvent(domain.ErrDetectionFailed))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.True(t, called, "later handlers still run")
}

func TestNewSampleEvent(t *testing.T) {
	v := int64(1050)
	sample := domain.CaptureSample{
		Timestamp:         time.Unix(1700000000, 0),
		RawText:           "EXP 1,050",
		ParsedValue:       &v,
		ConfidencePercent: 88,
	}

	tests := []struct {
		name    string
		outcome domain.SampleOutcome
		want    Type
	}{
		{"accepted", domain.OutcomeAccepted, SampleAccepted},
		{"rebaselined", domain.OutcomeRebaselined, SampleAccepted},
		{"unchanged", domain.OutcomeUnchanged, SampleRejected},
		{"low confidence", domain.OutcomeLowConfidence, SampleRejected},
		{"decrease pending", domain.OutcomeDecreasePending, SampleRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewSampleEvent(domain.SampleDecision{Outcome: tt.outcome, Delta: 50, Sample: sample})
			assert.Equal(t, tt.want, e.Type)
			assert.Equal(t, string(tt.outcome), e.GetMetadataValue(MetadataKeyOutcome))

			p, err := DecodePayload[SamplePayloadV1](e.Payload)
			require.NoError(t, err)
			assert.Equal(t, int64(1700000000), p.Timestamp)
			require.NotNil(t, p.Exp)
			assert.Equal(t, v, *p.Exp)
		})
	}
}

func TestNewTrackingStoppedEvent_Metadata(t *testing.T) {
	e := NewTrackingStoppedEvent(domain.StopReasonSurfaceEnded)
	assert.Equal(t, "surface_ended", e.GetMetadataValue(MetadataKeyReason))
	assert.Nil(t, Event{}.GetMetadataValue(MetadataKeyReason))
}

func TestDecodePayload_JSONFallback(t *testing.T) {
	raw := map[string]interface{}{"reason": "requested", "timestamp": 42}
	p, err := DecodePayload[TrackingStoppedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, domain.StopReasonRequested, p.Reason)
	assert.Equal(t, int64(42), p.Timestamp)
}

func TestDecodePayload_RawJSON(t *testing.T) {
	p, err := DecodePayload[TrackingStoppedPayloadV1](json.RawMessage(`{"reason":"surface_ended","timestamp":7}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StopReasonSurfaceEnded, p.Reason)
	assert.Equal(t, int64(7), p.Timestamp)

	_, err = DecodePayload[TrackingStoppedPayloadV1]([]byte("not json"))
	assert.Error(t, err)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 16*time.Second, CalculateRetryDelay(base, 4))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 0))
}

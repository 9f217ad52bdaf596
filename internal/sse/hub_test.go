package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
)

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt := <-c.Events:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_BroadcastRespectsFilters(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	all := hub.Register(nil)
	onlyStats := hub.Register([]string{string(event.StatsUpdated)})
	require.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(string(event.SampleAccepted), map[string]int{"exp": 1})
	hub.Broadcast(string(event.StatsUpdated), map[string]int{"samples": 2})

	assert.Equal(t, string(event.SampleAccepted), receive(t, all).Type)
	assert.Equal(t, string(event.StatsUpdated), receive(t, all).Type)
	assert.Equal(t, string(event.StatsUpdated), receive(t, onlyStats).Type)

	select {
	case evt := <-onlyStats.Events:
		t.Fatalf("unexpected event %s", evt.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	slow := hub.Register(nil)
	for i := 0; i < ClientEventBuffer*3; i++ {
		hub.Broadcast(string(event.SampleRejected), i)
	}

	assert.Eventually(t, func() bool { return len(slow.Events) == ClientEventBuffer }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClientsAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	hub.Start()

	client := hub.Register(nil)
	hub.Stop()
	hub.Stop()

	_, ok := <-client.Events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Nil(t, hub.Register(nil))

	hub.Unregister(client.ID)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "abc", Type: "exp.sample.accepted", Timestamp: 1, Payload: 5})
	require.NoError(t, err)
	assert.Equal(t, "id: abc\nevent: exp.sample.accepted\ndata: {\"id\":\"abc\",\"type\":\"exp.sample.accepted\",\"timestamp\":1,\"payload\":5}\n\n", string(msg))

	msg, err = FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "event: keepalive\n"))
}

func TestSubscriber_ForwardsBusEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()
	client := hub.Register(nil)

	require.NoError(t, bus.Publish(context.Background(), event.NewTrackingStoppedEvent(domain.StopReasonSurfaceEnded)))

	evt := receive(t, client)
	assert.Equal(t, string(event.TrackingStopped), evt.Type)
	payload, ok := evt.Payload.(event.TrackingStoppedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, domain.StopReasonSurfaceEnded, payload.Reason)
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types="+string(event.StatsUpdated), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEventType := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	assert.Equal(t, EventTypeConnected, readEventType())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(string(event.SampleAccepted), 1)
	hub.Broadcast(string(event.StatsUpdated), 2)
	assert.Equal(t, string(event.StatsUpdated), readEventType())

	cancel()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

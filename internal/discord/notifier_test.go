package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
)

type capturedHook struct {
	mu       sync.Mutex
	paths    []string
	payloads []discordgo.WebhookParams
}

func (c *capturedHook) record(req *http.Request) {
	var body discordgo.WebhookParams
	_ = json.NewDecoder(req.Body).Decode(&body)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, req.URL.Path)
	c.payloads = append(c.payloads, body)
}

func (c *capturedHook) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func response(req *http.Request, status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
		Request:    req,
	}
}

func newTestNotifier(t *testing.T, statuses ...int) (*Notifier, *capturedHook, *event.MemoryBus) {
	t.Helper()
	session, transport := NewTestSession(t)
	hook := &capturedHook{}

	var mu sync.Mutex
	call := 0
	transport.RoundTripFunc = func(req *http.Request) (*http.Response, error) {
		hook.record(req)
		mu.Lock()
		defer mu.Unlock()
		status := http.StatusNoContent
		if call < len(statuses) {
			status = statuses[call]
		}
		call++
		return response(req, status), nil
	}

	n, err := NewNotifier(Config{
		WebhookID:      "123",
		WebhookToken:   "secret",
		DeadLetterPath: filepath.Join(t.TempDir(), "dl.jsonl"),
		RetryDelay:     10 * time.Millisecond,
	}, session)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Shutdown(context.Background()) })

	bus := event.NewMemoryBus()
	n.Register(bus)
	return n, hook, bus
}

func TestNotifier_SurfaceEndedSendsAdvisory(t *testing.T) {
	_, hook, bus := newTestNotifier(t)

	require.NoError(t, bus.Publish(context.Background(), event.NewTrackingStoppedEvent(domain.StopReasonSurfaceEnded)))

	require.Equal(t, 1, hook.count())
	assert.True(t, strings.HasSuffix(hook.paths[0], "/webhooks/123/secret"))
	require.Len(t, hook.payloads[0].Embeds, 1)
	assert.Equal(t, MsgSurfaceEndedTitle, hook.payloads[0].Embeds[0].Title)
	assert.Equal(t, DefaultUsername, hook.payloads[0].Username)
}

func TestNotifier_RequestedStopIsSilent(t *testing.T) {
	_, hook, bus := newTestNotifier(t)

	require.NoError(t, bus.Publish(context.Background(), event.NewTrackingStoppedEvent(domain.StopReasonRequested)))
	assert.Equal(t, 0, hook.count())
}

func TestNotifier_DetectionFailedIncludesError(t *testing.T) {
	_, hook, bus := newTestNotifier(t)

	err := errors.New("after 3 attempts: label not found")
	require.NoError(t, bus.Publish(context.Background(), event.NewRegionDetectionFailedEvent(err)))

	require.Equal(t, 1, hook.count())
	embed := hook.payloads[0].Embeds[0]
	assert.Equal(t, MsgDetectionFailedTitle, embed.Title)
	assert.Contains(t, embed.Description, "label not found")
	assert.Equal(t, ColorError, embed.Color)
}

func TestNotifier_RetriesFailedWebhook(t *testing.T) {
	_, hook, bus := newTestNotifier(t, http.StatusInternalServerError)

	require.NoError(t, bus.Publish(context.Background(), event.NewTrackingStoppedEvent(domain.StopReasonSurfaceEnded)))

	assert.Eventually(t, func() bool { return hook.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{WebhookID: "1"}.Enabled())
	assert.True(t, Config{WebhookID: "1", WebhookToken: "t"}.Enabled())
}

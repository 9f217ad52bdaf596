package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu         sync.Mutex
	calls      []Event
	times      []time.Time
	shouldFail func(attempt int) bool
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	m.times = append(m.times, time.Now())
	n := len(m.calls)
	m.mu.Unlock()

	if m.shouldFail != nil && m.shouldFail(n) {
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockBus) Times() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time{}, m.times...)
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []DeadLetterEntry
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var e DeadLetterEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), NewHistoryResetEvent())
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 1, bus.CallCount())
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(n int) bool { return n == 1 }}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), NewRegionDetectionFailedEvent(nil))

	assert.Eventually(t, func() bool { return bus.CallCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_RetryExhaustion(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(int) bool { return true }}

	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), NewRegionDetectionFailedEvent(nil))

	// initial + 3 retries
	require.Eventually(t, func() bool { return bus.CallCount() == 4 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, RegionDetectionFailed, entries[0].Event.Type)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "mock publish error", entries[0].LastError)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
}

func TestResilientPublisher_QueueOverflow(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(int) bool { return true }}

	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// No worker: the queue never drains
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 1),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for i := 0; i < 3; i++ {
		rp.PublishWithRetry(context.Background(), NewHistoryResetEvent())
	}
	require.NoError(t, dl.Close())

	assert.Len(t, readDeadLetters(t, path), 2)
}

func TestResilientPublisher_ShutdownFlushesPending(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(n int) bool { return n <= 2 }}

	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rp.PublishWithRetry(context.Background(), NewHistoryResetEvent())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	// 3 initial publishes + one final attempt for each of the 2 failures
	assert.Equal(t, 5, bus.CallCount())
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ExponentialBackoff(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(n int) bool { return n < 3 }}

	base := 50 * time.Millisecond
	rp, err := NewResilientPublisher(bus, 5, base, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), NewHistoryResetEvent())
	require.Eventually(t, func() bool { return bus.CallCount() == 3 }, 2*time.Second, 5*time.Millisecond)

	times := bus.Times()
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), base)
	assert.GreaterOrEqual(t, times[2].Sub(times[1]), 2*base)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	const goroutines, perGoroutine = 10, 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_ = rp.Publish(context.Background(), NewHistoryResetEvent())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, bus.CallCount())
}

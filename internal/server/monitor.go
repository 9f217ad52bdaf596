package server

import (
	"log/slog"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// clientCounts is one client's tally within its current window.
type clientCounts struct {
	requests   int
	failedAuth int
}

// ClientMonitor counts requests and failed logins per client IP. Each
// client gets its own RateWindow starting at its first request; the least
// recently seen clients are evicted once MaxTrackedClients is reached.
type ClientMonitor struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *clientCounts]
	limit   int
}

// NewClientMonitor allows limit requests per client per RateWindow.
func NewClientMonitor(limit int) *ClientMonitor {
	return &ClientMonitor{
		clients: expirable.NewLRU[string, *clientCounts](MaxTrackedClients, nil, RateWindow),
		limit:   limit,
	}
}

// Caller must hold the mutex.
func (m *ClientMonitor) counts(ip string) *clientCounts {
	c, ok := m.clients.Get(ip)
	if !ok {
		c = &clientCounts{}
		m.clients.Add(ip, c)
	}
	return c
}

// Allow records a request and reports whether the client is under its limit.
func (m *ClientMonitor) Allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.counts(ip)
	c.requests++
	if c.requests <= m.limit {
		return true
	}
	if c.requests%100 == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", c.requests)
	}
	return false
}

// FailedAuth records a rejected key and alerts from FailedAuthAlertCount on.
func (m *ClientMonitor) FailedAuth(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.counts(ip)
	c.failedAuth++
	if c.failedAuth >= FailedAuthAlertCount {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", c.failedAuth)
	}
}

// Requests returns the client's request count in its current window.
func (m *ClientMonitor) Requests(ip string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients.Peek(ip); ok {
		return c.requests
	}
	return 0
}

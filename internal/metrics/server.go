package metrics

import (
	"maps"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/mtg-deckforge/internal/events"
)

// ServerMetrics counts API traffic and the deck events dispatched while the
// server runs. It is also an events.Observer.
type ServerMetrics struct {
	Latency *Histogram

	requests     atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64

	mu        sync.Mutex
	events    map[string]uint64
	startTime time.Time
}

// NewServerMetrics creates an empty collector.
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		Latency:   NewHistogram(defaultHistogramSize),
		events:    make(map[string]uint64),
		startTime: time.Now(),
	}
}

// ObserveRequest records one finished request.
func (m *ServerMetrics) ObserveRequest(status int, d time.Duration) {
	m.requests.Add(1)
	switch {
	case status >= http.StatusInternalServerError:
		m.serverErrors.Add(1)
	case status >= http.StatusBadRequest:
		m.clientErrors.Add(1)
	}
	m.Latency.Record(d)
}

// OnEvent implements events.Observer.
func (m *ServerMetrics) OnEvent(event events.Event) error {
	m.mu.Lock()
	m.events[event.Type]++
	m.mu.Unlock()
	return nil
}

// GetName implements events.Observer.
func (m *ServerMetrics) GetName() string { return "metrics" }

// ShouldHandle implements events.Observer.
func (m *ServerMetrics) ShouldHandle(string) bool { return true }

// Stats is a point-in-time snapshot.
type Stats struct {
	Requests     uint64            `json:"requests"`
	ClientErrors uint64            `json:"clientErrors"`
	ServerErrors uint64            `json:"serverErrors"`
	SuccessRate  float64           `json:"successRate"` // percentage of non-5xx responses
	Latency      LatencyStats      `json:"latency"`
	Events       map[string]uint64 `json:"events"`
	Uptime       string            `json:"uptime"`
}

// Snapshot returns the current counters.
func (m *ServerMetrics) Snapshot() Stats {
	requests := m.requests.Load()
	serverErrors := m.serverErrors.Load()

	successRate := 0.0
	if requests > 0 {
		successRate = float64(requests-serverErrors) / float64(requests) * 100
	}

	m.mu.Lock()
	evts := maps.Clone(m.events)
	uptime := time.Since(m.startTime).Round(time.Second).String()
	m.mu.Unlock()

	return Stats{
		Requests:     requests,
		ClientErrors: m.clientErrors.Load(),
		ServerErrors: serverErrors,
		SuccessRate:  successRate,
		Latency:      m.Latency.Stats(),
		Events:       evts,
		Uptime:       uptime,
	}
}

// Reset clears every counter and restarts the uptime clock.
func (m *ServerMetrics) Reset() {
	m.requests.Store(0)
	m.clientErrors.Store(0)
	m.serverErrors.Store(0)
	m.Latency.Reset()

	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.events)
	m.startTime = time.Now()
}

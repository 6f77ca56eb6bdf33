package observability

import (
	"strconv"
	"sync"
	"time"
)

type callStats struct {
	count   int64
	elapsed time.Duration
}

// Metrics tracks the client's outbound calls in memory: a counter and
// cumulative latency per path/method/status, plus error counters per
// normalized error code.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*callStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*callStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest accounts one completed round trip.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &callStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.elapsed += duration
}

// RecordError accounts one failed call under its normalized error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[path+"|"+method+"|"+code]++
}

// RequestCount returns how many calls completed for a path/method/status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stats, ok := m.requests[requestKey(path, method, status)]; ok {
		return stats.count
	}
	return 0
}

// ErrorCount returns how many calls failed with the given code.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[path+"|"+method+"|"+code]
}

func requestKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

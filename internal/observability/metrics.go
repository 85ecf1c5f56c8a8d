package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for facade requests and
// coordinator actions.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	actionCount  map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		actionCount:  make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for facade requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordAction increments counters for coordinator actions by outcome.
func (m *Metrics) RecordAction(action, outcome string) {
	if m == nil {
		return
	}
	key := action + "|" + outcome
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// ActionCount returns the counter for an action/outcome pair.
func (m *Metrics) ActionCount(action, outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionCount[action+"|"+outcome]
}

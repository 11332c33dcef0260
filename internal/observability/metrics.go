package observability

import (
	"sync"
	"time"
)

// Metrics provides basic in-memory counters over the command surface.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	commandCount map[string]int64
	failureCount map[string]int64
}

// Snapshot is a point-in-time copy of the counters for the ops API.
type Snapshot struct {
	UptimeSeconds int64
	Commands      map[string]int64
	Failures      map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		commandCount: make(map[string]int64),
		failureCount: make(map[string]int64),
	}
}

// RecordCommand increments the invocation counter for a command.
func (m *Metrics) RecordCommand(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount[name]++
}

// RecordFailure increments the failure counter for a command/kind pair.
func (m *Metrics) RecordFailure(name, kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureCount[name+"|"+kind]++
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Commands:      make(map[string]int64, len(m.commandCount)),
		Failures:      make(map[string]int64, len(m.failureCount)),
	}
	for k, v := range m.commandCount {
		snap.Commands[k] = v
	}
	for k, v := range m.failureCount {
		snap.Failures[k] = v
	}
	return snap
}

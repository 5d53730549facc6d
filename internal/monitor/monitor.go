// Package monitor collects runtime errors, warnings, and service-quality
// signals, and derives a health score from them. A Monitor is an explicitly
// constructed value so tests and callers never share global state.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/varsity/pkg/logger"
	"github.com/okian/varsity/pkg/metrics"
)

// Kind classifies where an error originated.
type Kind string

// Error kinds.
const (
	KindValidation  Kind = "validation"
	KindAssignment  Kind = "assignment"
	KindAPS         Kind = "aps"
	KindUI          Kind = "ui"
	KindPerformance Kind = "performance"
)

// Severity expresses how serious an error is.
type Severity string

// Severity levels, lowest to highest.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Event is one recorded error or warning.
type Event struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
	At       time.Time      `json:"at"`
	Resolved bool           `json:"resolved"`
}

// Default monitor configuration constants.
const (
	defaultMaxEvents = 1000
)

// Monitor is a concurrency-safe, append-mostly event store with aggregate
// counters feeding health reporting.
type Monitor struct {
	mu        sync.RWMutex
	events    []Event
	maxEvents int

	countByKind     map[Kind]int64
	countBySeverity map[Severity]int64

	totalResponses    int64
	totalResponseTime time.Duration
	cacheHits         int64
	cacheMisses       int64
	assessments       int64

	clock func() time.Time
	log   logger.Logger
}

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithMaxEvents bounds the number of retained events. Oldest entries are
// dropped first once the bound is reached.
func WithMaxEvents(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.maxEvents = n
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger sets the logger events are mirrored to.
func WithLogger(log logger.Logger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a monitor with default configuration.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		maxEvents:       defaultMaxEvents,
		countByKind:     make(map[Kind]int64),
		countBySeverity: make(map[Severity]int64),
		clock:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LogError records an error event and returns its id. Safe for concurrent
// use; also feeds the per-component error metrics.
func (m *Monitor) LogError(ctx context.Context, kind Kind, severity Severity, message string, eventCtx map[string]any) string {
	ev := Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		Severity: severity,
		Message:  message,
		Context:  eventCtx,
		At:       m.clock(),
	}

	m.mu.Lock()
	m.events = append(m.events, ev)
	if len(m.events) > m.maxEvents {
		m.events = m.events[len(m.events)-m.maxEvents:]
	}
	m.countByKind[kind]++
	m.countBySeverity[severity]++
	m.mu.Unlock()

	metrics.RecordErrorByComponent(string(kind), string(severity))
	if m.log != nil {
		m.log.Warn(ctx, "error recorded",
			logger.String("kind", string(kind)),
			logger.String("severity", string(severity)),
			logger.String("message", message),
		)
	}
	return ev.ID
}

// Resolve marks an event as handled so it no longer weighs on the health
// score. Returns false for an unknown id.
func (m *Monitor) Resolve(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			if !m.events[i].Resolved {
				m.events[i].Resolved = true
				m.countBySeverity[m.events[i].Severity]--
				m.countByKind[m.events[i].Kind]--
			}
			return true
		}
	}
	return false
}

// Events returns a copy of the retained events, newest last.
func (m *Monitor) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// CountBySeverity returns the number of unresolved events at a severity.
func (m *Monitor) CountBySeverity(s Severity) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countBySeverity[s]
}

// CountByKind returns the number of unresolved events of a kind.
func (m *Monitor) CountByKind(k Kind) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countByKind[k]
}

// RecordResponseTime feeds the average-latency signal of the health score.
func (m *Monitor) RecordResponseTime(d time.Duration) {
	m.mu.Lock()
	m.totalResponses++
	m.totalResponseTime += d
	m.mu.Unlock()
}

// RecordAssessment counts one completed eligibility assessment.
func (m *Monitor) RecordAssessment() {
	m.mu.Lock()
	m.assessments++
	m.mu.Unlock()
}

// RecordCacheHit counts an aggregation cache hit.
func (m *Monitor) RecordCacheHit() {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

// RecordCacheMiss counts an aggregation cache miss.
func (m *Monitor) RecordCacheMiss() {
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()
}

// AverageResponseTime returns the mean recorded latency, zero when nothing
// was recorded yet.
func (m *Monitor) AverageResponseTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.totalResponses == 0 {
		return 0
	}
	return m.totalResponseTime / time.Duration(m.totalResponses)
}

// CacheHitRate returns hits/(hits+misses), or 1 when the cache is untouched
// so an idle service does not look unhealthy.
func (m *Monitor) CacheHitRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.cacheHits + m.cacheMisses
	if total == 0 {
		return 1
	}
	return float64(m.cacheHits) / float64(total)
}

// ErrorRate returns unresolved errors per assessment, zero when no
// assessments ran yet.
func (m *Monitor) ErrorRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.assessments == 0 {
		return 0
	}
	var unresolved int64
	for _, n := range m.countBySeverity {
		unresolved += n
	}
	return float64(unresolved) / float64(m.assessments)
}

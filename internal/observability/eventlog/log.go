// Package eventlog keeps the process-wide append-only record of events
// emitted while probing, selecting and serving date requests.
package eventlog

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind identifies an event.
type Kind string

const (
	KindInitStart     Kind = "init_start"
	KindProbeStart    Kind = "probe_start"
	KindProbeResult   Kind = "probe_result"
	KindSelection     Kind = "selection"
	KindDegradedMode  Kind = "degraded_mode"
	KindShimInstalled Kind = "shim_installed"
	KindShimUsed      Kind = "shim_used"
	KindFacadeFault   Kind = "facade_fault"
	KindInitComplete  Kind = "init_complete"
)

// Severity is the elevated-or-not marker of an event.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Validate enforces supported severities.
func (s Severity) Validate() error {
	switch s {
	case SeverityInfo, SeverityWarn, SeverityError:
		return nil
	default:
		return fmt.Errorf("unsupported severity: %q", s)
	}
}

// Event is one performance/diagnostic record.
type Event struct {
	Seq      int            `json:"seq"`
	OffsetMS int64          `json:"offset_ms"`
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the wall clock used for offsets.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger mirrors every appended event to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Log is an append-only event log. Appends are atomic per entry.
// A nil *Log discards events.
type Log struct {
	mu     sync.Mutex
	now    func() time.Time
	start  time.Time
	logger *zap.Logger
	events []Event
}

// New creates an event log whose offsets are measured from now.
func New(opts ...Option) *Log {
	l := &Log{
		now:    time.Now,
		logger: zap.NewNop(),
		events: make([]Event, 0, 32),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.now()
	return l
}

// Info appends an info-severity event.
func (l *Log) Info(kind Kind, payload map[string]any) Event {
	return l.Append(kind, SeverityInfo, payload)
}

// Warn appends a warn-severity event.
func (l *Log) Warn(kind Kind, payload map[string]any) Event {
	return l.Append(kind, SeverityWarn, payload)
}

// Error appends an error-severity event.
func (l *Log) Error(kind Kind, payload map[string]any) Event {
	return l.Append(kind, SeverityError, payload)
}

// Append records an event and mirrors it to the configured logger.
func (l *Log) Append(kind Kind, severity Severity, payload map[string]any) Event {
	if l == nil {
		return Event{}
	}
	if severity.Validate() != nil {
		severity = SeverityInfo
	}

	l.mu.Lock()
	event := Event{
		Seq:      len(l.events) + 1,
		OffsetMS: l.now().Sub(l.start).Milliseconds(),
		Kind:     kind,
		Severity: severity,
		Payload:  clonePayload(payload),
	}
	l.events = append(l.events, event)
	logger := l.logger
	l.mu.Unlock()

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.Int("seq", event.Seq),
		zap.Int64("offset_ms", event.OffsetMS),
	}
	if len(event.Payload) > 0 {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	switch severity {
	case SeverityError:
		logger.Error("date capability event", fields...)
	case SeverityWarn:
		logger.Warn("date capability event", fields...)
	default:
		logger.Debug("date capability event", fields...)
	}
	return event
}

// Events returns a copy of all recorded events.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns events with Seq greater than seq.
func (l *Log) Since(seq int) []Event {
	events := l.Events()
	if seq <= 0 {
		return events
	}
	if seq >= len(events) {
		return []Event{}
	}
	return events[seq:]
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Count returns how many events of kind were recorded.
func (l *Log) Count(kind Kind) int {
	n := 0
	for _, e := range l.Events() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func clonePayload(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package eventlog

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(5 * time.Millisecond)
	return t
}

func TestAppendRecordsOffsetsAndSequence(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Unix(1_700_000_000, 0)}
	log := New(WithClock(clock.Now))

	first := log.Info(KindInitStart, map[string]any{"strategies": 5})
	second := log.Warn(KindDegradedMode, nil)

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("unexpected sequence numbers: %d, %d", first.Seq, second.Seq)
	}
	if first.OffsetMS != 5 || second.OffsetMS != 10 {
		t.Fatalf("unexpected offsets: %d, %d", first.OffsetMS, second.OffsetMS)
	}
	if second.Severity != SeverityWarn {
		t.Fatalf("expected warn severity, got %s", second.Severity)
	}
	if log.Len() != 2 || log.Count(KindDegradedMode) != 1 {
		t.Fatalf("unexpected log contents: %+v", log.Events())
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	t.Parallel()

	log := New()
	payload := map[string]any{"strategy": "cldr"}
	log.Info(KindProbeStart, payload)
	payload["strategy"] = "mutated"

	events := log.Events()
	events[0].Kind = KindFacadeFault
	again := log.Events()
	if again[0].Kind != KindProbeStart {
		t.Fatalf("expected stored event to be immutable, got %s", again[0].Kind)
	}
	if again[0].Payload["strategy"] != "cldr" {
		t.Fatalf("expected payload to be cloned on append, got %v", again[0].Payload["strategy"])
	}
}

func TestSince(t *testing.T) {
	t.Parallel()

	log := New()
	for i := 0; i < 4; i++ {
		log.Info(KindProbeResult, nil)
	}
	if got := len(log.Since(2)); got != 2 {
		t.Fatalf("expected 2 events after seq 2, got %d", got)
	}
	if got := len(log.Since(10)); got != 0 {
		t.Fatalf("expected no events after seq 10, got %d", got)
	}
}

func TestConcurrentAppendsAreAtomic(t *testing.T) {
	t.Parallel()

	log := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info(KindProbeResult, nil)
		}()
	}
	wg.Wait()

	events := log.Events()
	if len(events) != 50 {
		t.Fatalf("expected 50 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Fatalf("expected contiguous sequence, got seq %d at %d", e.Seq, i)
		}
	}
}

func TestSeverityMirrorsToLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := New(WithLogger(zap.New(core)))

	log.Info(KindSelection, map[string]any{"strategy": "custom"})
	log.Warn(KindDegradedMode, nil)
	log.Error(KindFacadeFault, nil)
	log.Append(KindSelection, Severity("loud"), nil)

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 mirrored entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.DebugLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.DebugLevel}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Fatalf("entry %d: expected level %s, got %s", i, want[i], entry.Level)
		}
	}
}

func TestNilLogDiscards(t *testing.T) {
	t.Parallel()

	var log *Log
	if e := log.Info(KindInitStart, nil); e.Seq != 0 {
		t.Fatalf("expected zero event from nil log, got %+v", e)
	}
	if log.Len() != 0 || log.Events() != nil {
		t.Fatalf("expected nil log to stay empty")
	}
}

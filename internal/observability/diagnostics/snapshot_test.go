package diagnostics

import (
	"context"
	"testing"
	"time"

	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/bootstrap"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/state"
)

func captured(t *testing.T) Snapshot {
	t.Helper()
	o := bootstrap.MustNew(bootstrap.Options{Env: environment.New(nil)})
	o.Initialize(context.Background())
	snapshot, err := Capture(o, time.UnixMilli(1_700_000_000_000))
	if err != nil {
		t.Fatalf("capture snapshot: %v", err)
	}
	return snapshot
}

func TestCaptureAndFingerprintDeterminism(t *testing.T) {
	t.Parallel()

	a := captured(t)
	b := captured(t)
	if a.RunID == b.RunID {
		t.Fatalf("expected distinct run ids")
	}
	if a.State != state.PhaseSelected || a.Active.Strategy != "strftime" {
		t.Fatalf("unexpected snapshot state=%s active=%+v", a.State, a.Active)
	}
	if len(a.Results) != 5 || len(a.Events) == 0 || len(a.Flags) != 5 {
		t.Fatalf("expected full snapshot, got %+v", a)
	}

	fpA, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint a: %v", err)
	}
	fpB, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint b: %v", err)
	}
	if fpA != fpB {
		t.Fatalf("expected equal outcomes to share a fingerprint, got %q and %q", fpA, fpB)
	}
}

func TestFreezeGeneratesRunIDAndDefaultsState(t *testing.T) {
	t.Parallel()

	s, err := Freeze(FreezeInput{})
	if err != nil {
		t.Fatalf("freeze empty snapshot: %v", err)
	}
	if s.RunID == "" || s.State != state.PhaseUnprobed {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestFreezeValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]FreezeInput{
		"bad run id":      {RunID: "run-1"},
		"negative time":   {CapturedAtMS: -1},
		"selected empty":  {State: state.PhaseSelected},
		"unknown state":   {State: "finished"},
		"invalid result":  {Results: []contracts.ProbeResult{{StrategyName: "x"}}},
		"event order":     {Events: []eventlog.Event{{Seq: 2, Severity: eventlog.SeverityInfo}, {Seq: 1, Severity: eventlog.SeverityInfo}}},
		"empty flag name": {Flags: map[string]bool{"": true}},
	}
	for name, in := range cases {
		if _, err := Freeze(in); err == nil {
			t.Fatalf("%s: expected validation failure", name)
		}
	}
}

func TestFreezeCopiesInputs(t *testing.T) {
	t.Parallel()

	flags := map[string]bool{"custom": true}
	s, err := Freeze(FreezeInput{Flags: flags})
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	flags["custom"] = false
	if !s.Flags["custom"] {
		t.Fatalf("expected snapshot to be isolated from input mutation")
	}
	if _, err := s.JSON(); err != nil {
		t.Fatalf("render json: %v", err)
	}
}

package diagnostics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/shim"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/state"
)

// ActiveState describes the selected strategy.
type ActiveState struct {
	Strategy string `json:"strategy"`
	Variant  string `json:"variant,omitempty"`
	Priority int    `json:"priority"`
	Degraded bool   `json:"degraded"`
	Pass     int    `json:"pass"`
}

// Snapshot is a read-only view of one orchestrator for debugging.
type Snapshot struct {
	RunID        string                  `json:"run_id"`
	CapturedAtMS int64                   `json:"captured_at_ms"`
	State        state.Phase             `json:"state"`
	Active       ActiveState             `json:"active"`
	Results      []contracts.ProbeResult `json:"results"`
	Events       []eventlog.Event        `json:"events"`
	Flags        map[string]bool         `json:"flags"`
	Shimmed      []string                `json:"shimmed"`
}

// FreezeInput carries the raw values a snapshot is built from.
type FreezeInput struct {
	RunID        string
	CapturedAtMS int64
	State        state.Phase
	Active       ActiveState
	Results      []contracts.ProbeResult
	Events       []eventlog.Event
	Flags        map[string]bool
	Shimmed      []string
}

// Source is the orchestrator surface a snapshot is captured from.
type Source interface {
	Phase() state.Phase
	Active() (state.Handle, bool)
	Results() []contracts.ProbeResult
	Flags() map[string]bool
	Resolution() *shim.Resolution
	Log() *eventlog.Log
}

// Capture freezes the current state of src.
func Capture(src Source, now time.Time) (Snapshot, error) {
	in := FreezeInput{
		CapturedAtMS: now.UnixMilli(),
		State:        src.Phase(),
		Results:      src.Results(),
		Events:       src.Log().Events(),
		Flags:        src.Flags(),
	}
	if handle, ok := src.Active(); ok {
		in.Active = ActiveState{
			Strategy: handle.Name(),
			Variant:  string(handle.Descriptor.Strategy.Variant()),
			Priority: handle.Descriptor.Priority(),
			Degraded: handle.Degraded,
			Pass:     handle.Pass,
		}
	}
	if res := src.Resolution(); res != nil {
		in.Shimmed = res.Shimmed()
	}
	return Freeze(in)
}

// Freeze copies in into a validated snapshot. A missing RunID is generated.
func Freeze(in FreezeInput) (Snapshot, error) {
	s := Snapshot{
		RunID:        in.RunID,
		CapturedAtMS: in.CapturedAtMS,
		State:        in.State,
		Active:       in.Active,
		Results:      append([]contracts.ProbeResult{}, in.Results...),
		Events:       cloneEvents(in.Events),
		Flags:        cloneFlags(in.Flags),
		Shimmed:      append([]string{}, in.Shimmed...),
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	if s.State == "" {
		s.State = state.PhaseUnprobed
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Validate enforces snapshot shape invariants.
func (s Snapshot) Validate() error {
	if _, err := uuid.Parse(s.RunID); err != nil {
		return fmt.Errorf("run_id must be a uuid: %w", err)
	}
	if s.CapturedAtMS < 0 {
		return fmt.Errorf("captured_at_ms must be >=0")
	}
	switch s.State {
	case state.PhaseUnprobed, state.PhaseProbing:
	case state.PhaseSelected:
		if s.Active.Strategy == "" {
			return fmt.Errorf("selected snapshot requires an active strategy")
		}
	default:
		return fmt.Errorf("unsupported state: %q", s.State)
	}
	for _, result := range s.Results {
		if err := result.Validate(); err != nil {
			return err
		}
	}
	lastSeq := 0
	for _, event := range s.Events {
		if event.Seq <= lastSeq {
			return fmt.Errorf("event seq must increase: %d after %d", event.Seq, lastSeq)
		}
		lastSeq = event.Seq
		if err := event.Severity.Validate(); err != nil {
			return err
		}
	}
	for name := range s.Flags {
		if name == "" {
			return fmt.Errorf("flag name cannot be empty")
		}
	}
	return nil
}

// Fingerprint digests the outcome of the run. Identifiers and timing are
// excluded so equal outcomes share a fingerprint.
func (s Snapshot) Fingerprint() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	results := make([]contracts.ProbeResult, len(s.Results))
	for i, result := range s.Results {
		result.ElapsedMS = 0
		results[i] = result
	}
	events := make([]fingerprintEvent, 0, len(s.Events))
	for _, event := range s.Events {
		payload := make(map[string]any, len(event.Payload))
		for k, v := range event.Payload {
			if k == "elapsed_ms" {
				continue
			}
			payload[k] = v
		}
		events = append(events, fingerprintEvent{Kind: event.Kind, Severity: event.Severity, Payload: payload})
	}
	flags := make([]fingerprintFlag, 0, len(s.Flags))
	for name, on := range s.Flags {
		flags = append(flags, fingerprintFlag{Name: name, Available: on})
	}
	sort.Slice(flags, func(i, j int) bool {
		return flags[i].Name < flags[j].Name
	})

	payload := struct {
		State   state.Phase
		Active  ActiveState
		Results []contracts.ProbeResult
		Events  []fingerprintEvent
		Flags   []fingerprintFlag
		Shimmed []string
	}{
		State:   s.State,
		Active:  s.Active,
		Results: results,
		Events:  events,
		Flags:   flags,
		Shimmed: s.Shimmed,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// JSON renders the snapshot indented.
func (s Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

type fingerprintEvent struct {
	Kind     eventlog.Kind
	Severity eventlog.Severity
	Payload  map[string]any
}

type fingerprintFlag struct {
	Name      string
	Available bool
}

func cloneEvents(in []eventlog.Event) []eventlog.Event {
	out := make([]eventlog.Event, len(in))
	for i, event := range in {
		if event.Payload != nil {
			payload := make(map[string]any, len(event.Payload))
			for k, v := range event.Payload {
				payload[k] = v
			}
			event.Payload = payload
		}
		out[i] = event
	}
	return out
}

func cloneFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for name, on := range in {
		out[name] = on
	}
	return out
}

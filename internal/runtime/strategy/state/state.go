package state

import (
	"fmt"
	"sync/atomic"

	"github.com/tiger/datefallback/internal/runtime/strategy/registry"
)

// Phase is the process-wide orchestration state.
type Phase string

const (
	PhaseUnprobed Phase = "unprobed"
	PhaseProbing  Phase = "probing"
	PhaseSelected Phase = "selected"
)

// Handle is the selected strategy plus how it was chosen.
type Handle struct {
	Descriptor registry.Descriptor
	Degraded   bool
	Pass       int
}

// Name returns the active strategy name.
func (h Handle) Name() string {
	if h.Descriptor.Strategy == nil {
		return ""
	}
	return h.Descriptor.Name()
}

// Holder stores the active handle. It is written by one orchestration pass
// at a time and read lock-free by any number of callers.
type Holder struct {
	phase  atomic.Value
	active atomic.Pointer[Handle]
	passes atomic.Int64
}

// NewHolder returns an unprobed holder.
func NewHolder() *Holder {
	h := &Holder{}
	h.phase.Store(PhaseUnprobed)
	return h
}

// Phase returns the current phase.
func (h *Holder) Phase() Phase {
	p, _ := h.phase.Load().(Phase)
	if p == "" {
		return PhaseUnprobed
	}
	return p
}

// BeginProbe moves the holder into the probing phase and returns the pass number.
func (h *Holder) BeginProbe() int {
	h.phase.Store(PhaseProbing)
	return int(h.passes.Add(1))
}

// Set publishes the selected handle.
func (h *Holder) Set(handle Handle) error {
	if handle.Descriptor.Strategy == nil {
		return fmt.Errorf("active strategy cannot be nil")
	}
	h.active.Store(&handle)
	h.phase.Store(PhaseSelected)
	return nil
}

// Active returns the published handle.
func (h *Holder) Active() (Handle, bool) {
	p := h.active.Load()
	if p == nil {
		return Handle{}, false
	}
	return *p, true
}

// Passes returns how many probing passes have started.
func (h *Holder) Passes() int {
	return int(h.passes.Load())
}

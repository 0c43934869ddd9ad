package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/localedata"
	"github.com/tiger/datefallback/internal/runtime/shim"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/probe"
	"github.com/tiger/datefallback/internal/runtime/strategy/registry"
	"github.com/tiger/datefallback/internal/runtime/strategy/selector"
	"github.com/tiger/datefallback/internal/runtime/strategy/state"
	dtcldr "github.com/tiger/datefallback/providers/datetime/cldr"
	dtcustom "github.com/tiger/datefallback/providers/datetime/custom"
	dtstdlib "github.com/tiger/datefallback/providers/datetime/stdlib"
	dtstrftime "github.com/tiger/datefallback/providers/datetime/strftime"
	dtzoneinfo "github.com/tiger/datefallback/providers/datetime/zoneinfo"
)

// Options controls orchestrator construction.
type Options struct {
	Env        environment.Environment
	Strategies []contracts.Strategy
	Parallel   bool

	ShimGlobal     string
	ShimOperations []string

	Logger *zap.Logger
	Log    *eventlog.Log
	Now    func() time.Time
}

// DefaultStrategies returns the canonical strategy set in priority order.
func DefaultStrategies(env environment.Environment) []contracts.Strategy {
	return []contracts.Strategy{
		dtcldr.New(env),
		dtstrftime.New(env),
		dtzoneinfo.New(env),
		dtstdlib.New(env),
		dtcustom.New(),
	}
}

// Orchestrator runs probing passes and publishes the active strategy.
type Orchestrator struct {
	env      environment.Environment
	set      registry.Set
	holder   *state.Holder
	log      *eventlog.Log
	resolver *shim.Resolver
	runner   probe.Runner
	now      func() time.Time

	shimGlobal string
	shimOps    []string

	mu         sync.Mutex
	results    []contracts.ProbeResult
	resolution *shim.Resolution
}

// New validates the strategy set and returns an unprobed orchestrator.
func New(opts Options) (*Orchestrator, error) {
	env := opts.Env.Normalize()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = eventlog.New(eventlog.WithClock(now), eventlog.WithLogger(opts.Logger))
	}
	if env.Resolver == nil {
		env.Resolver = shim.NewResolver(env.Namespace, log)
	}
	strategies := opts.Strategies
	if strategies == nil {
		strategies = DefaultStrategies(env)
	}
	set, err := registry.NewSet(strategies...)
	if err != nil {
		return nil, fmt.Errorf("register strategies: %w", err)
	}

	global := opts.ShimGlobal
	if global == "" {
		global = localedata.GlobalName
	}
	ops := opts.ShimOperations
	if len(ops) == 0 {
		ops = dtcldr.RequiredOperations
	}

	return &Orchestrator{
		env:        env,
		set:        set,
		holder:     state.NewHolder(),
		log:        log,
		resolver:   env.Resolver,
		runner:     probe.Runner{Log: log, Now: now, Parallel: opts.Parallel},
		now:        now,
		shimGlobal: global,
		shimOps:    append([]string(nil), ops...),
	}, nil
}

// MustNew is New that panics on registration violations.
func MustNew(opts Options) *Orchestrator {
	o, err := New(opts)
	if err != nil {
		panic(err)
	}
	return o
}

// Initialize runs the first pass if none has completed and returns the
// active handle.
func (o *Orchestrator) Initialize(ctx context.Context) state.Handle {
	if handle, ok := o.holder.Active(); ok {
		return handle
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if handle, ok := o.holder.Active(); ok {
		return handle
	}
	return o.passLocked(ctx)
}

// Reprobe runs a fresh pass. Readers keep the previous handle until the new
// one is published.
func (o *Orchestrator) Reprobe(ctx context.Context) state.Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.passLocked(ctx)
}

func (o *Orchestrator) passLocked(ctx context.Context) state.Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	start := o.now()
	pass := o.holder.BeginProbe()
	o.log.Info(eventlog.KindInitStart, map[string]any{
		"pass":       pass,
		"strategies": o.set.Names(),
		"parallel":   o.runner.Parallel,
		"disabled":   o.env.DisabledNames(),
	})

	o.resolution = o.resolver.Ensure(o.shimGlobal, o.shimOps...)
	o.results = o.runner.Run(ctx, o.set.Descriptors())

	handle := selector.Selector{Log: o.log}.Select(o.results, o.set)
	handle.Pass = pass
	// Select always yields a descriptor from a validated set.
	_ = o.holder.Set(handle)

	o.log.Info(eventlog.KindInitComplete, map[string]any{
		"pass":       pass,
		"strategy":   handle.Name(),
		"degraded":   handle.Degraded,
		"elapsed_ms": float64(o.now().Sub(start)) / float64(time.Millisecond),
	})
	return handle
}

// Active returns the published handle, if any pass has completed.
func (o *Orchestrator) Active() (state.Handle, bool) {
	return o.holder.Active()
}

// Phase returns the orchestration phase.
func (o *Orchestrator) Phase() state.Phase {
	return o.holder.Phase()
}

// Passes returns how many passes have started.
func (o *Orchestrator) Passes() int {
	return o.holder.Passes()
}

// Results returns the probe results of the latest completed pass.
func (o *Orchestrator) Results() []contracts.ProbeResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]contracts.ProbeResult(nil), o.results...)
}

// Resolution returns the shim resolution of the latest pass.
func (o *Orchestrator) Resolution() *shim.Resolution {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resolution
}

// Flags reports current availability per strategy name.
func (o *Orchestrator) Flags() map[string]bool {
	out := make(map[string]bool, o.set.Len())
	for _, d := range o.set.Descriptors() {
		out[d.Name()] = available(d.Strategy)
	}
	return out
}

// Set returns the registered strategy set.
func (o *Orchestrator) Set() registry.Set {
	return o.set
}

// Env returns the normalized environment.
func (o *Orchestrator) Env() environment.Environment {
	return o.env
}

// Log returns the event log.
func (o *Orchestrator) Log() *eventlog.Log {
	return o.log
}

// Summary returns a one-line description of the active selection.
func (o *Orchestrator) Summary() string {
	handle, ok := o.holder.Active()
	if !ok {
		return fmt.Sprintf("date strategy: phase=%s", o.holder.Phase())
	}
	return fmt.Sprintf("date strategy: active=%s variant=%s degraded=%t pass=%d",
		handle.Name(), handle.Descriptor.Strategy.Variant(), handle.Degraded, handle.Pass)
}

func available(s contracts.Strategy) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.IsAvailable()
}

package probe

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/registry"
)

// Runner probes strategy descriptors. The zero value probes sequentially
// without recording events.
type Runner struct {
	Log      *eventlog.Log
	Now      func() time.Time
	Parallel bool
}

// Run probes every descriptor and returns results in registration order.
// A failing or panicking strategy never prevents probing of the others.
func (r Runner) Run(ctx context.Context, descriptors []registry.Descriptor) []contracts.ProbeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]contracts.ProbeResult, len(descriptors))
	if !r.Parallel || len(descriptors) < 2 {
		for i, d := range descriptors {
			results[i] = r.probeOne(ctx, d)
		}
		return results
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i, d := range descriptors {
		eg.Go(func() error {
			results[i] = r.probeOne(egCtx, d)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func (r Runner) probeOne(ctx context.Context, d registry.Descriptor) (result contracts.ProbeResult) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	name := d.Name()
	start := now()
	r.Log.Info(eventlog.KindProbeStart, map[string]any{
		"strategy": name,
		"index":    d.Index,
		"priority": d.Priority(),
	})

	result.StrategyName = name
	defer func() {
		result.ElapsedMS = float64(now().Sub(start)) / float64(time.Millisecond)
		if result.ElapsedMS < 0 {
			result.ElapsedMS = 0
		}
		payload := map[string]any{
			"strategy":   name,
			"succeeded":  result.Succeeded,
			"elapsed_ms": result.ElapsedMS,
		}
		severity := eventlog.SeverityInfo
		if !result.Succeeded {
			payload["error"] = result.Error
			if result.Error != contracts.ReasonUnavailable {
				severity = eventlog.SeverityWarn
			}
		}
		r.Log.Append(eventlog.KindProbeResult, severity, payload)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}
	if !available(d.Strategy) {
		result.Error = contracts.ReasonUnavailable
		return result
	}
	if err := initialize(d.Strategy); err != nil {
		result.Error = err.Error()
		if result.Error == "" {
			result.Error = "initialize failed"
		}
		return result
	}
	result.Succeeded = true
	return result
}

func available(s contracts.Strategy) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.IsAvailable()
}

func initialize(s contracts.Strategy) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("initialize panic: %v", rec)
		}
	}()
	return s.Initialize()
}

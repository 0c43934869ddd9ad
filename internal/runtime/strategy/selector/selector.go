package selector

import (
	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/registry"
	"github.com/tiger/datefallback/internal/runtime/strategy/state"
)

// Selector picks the active strategy from probe results.
type Selector struct {
	Log *eventlog.Log
}

// Select returns the succeeded strategy with the lowest priority, ties going
// to the earliest registration. With no successes it returns the set's
// fallback marked degraded. Results naming unknown strategies are ignored.
func (s Selector) Select(results []contracts.ProbeResult, set registry.Set) state.Handle {
	var (
		best  registry.Descriptor
		found bool
	)
	for _, result := range results {
		if !result.Succeeded {
			continue
		}
		d, ok := set.Lookup(result.StrategyName)
		if !ok {
			continue
		}
		if !found || registry.Less(d, best) {
			best = d
			found = true
		}
	}

	if !found {
		fallback := set.Fallback()
		payload := map[string]any{
			"strategy": fallback.Name(),
			"probed":   len(results),
			"reason":   "no strategy initialized; using zero-dependency fallback",
		}
		if fallbackFailed(results, fallback.Name()) {
			payload["reason"] = "every strategy failed including the fallback"
			s.Log.Error(eventlog.KindDegradedMode, payload)
		} else {
			s.Log.Warn(eventlog.KindDegradedMode, payload)
		}
		s.logSelection(fallback, true)
		return state.Handle{Descriptor: fallback, Degraded: true}
	}

	s.logSelection(best, false)
	return state.Handle{Descriptor: best}
}

func (s Selector) logSelection(d registry.Descriptor, degraded bool) {
	s.Log.Info(eventlog.KindSelection, map[string]any{
		"strategy": d.Name(),
		"priority": d.Priority(),
		"variant":  string(d.Strategy.Variant()),
		"degraded": degraded,
	})
}

func fallbackFailed(results []contracts.ProbeResult, name string) bool {
	for _, result := range results {
		if result.StrategyName == name && !result.Succeeded {
			return true
		}
	}
	return false
}

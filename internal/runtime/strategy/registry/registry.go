package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

var (
	// ErrDuplicateStrategy indicates two strategies were registered with one name.
	ErrDuplicateStrategy = errors.New("duplicate strategy name")
	// ErrMissingFallback indicates no pure_fallback strategy was registered.
	ErrMissingFallback = errors.New("pure_fallback strategy is required")
)

// Descriptor is a registered strategy with its registration index.
type Descriptor struct {
	Strategy contracts.Strategy
	Index    int
}

// Name returns the strategy name.
func (d Descriptor) Name() string {
	return d.Strategy.Name()
}

// Priority returns the strategy priority; lower is preferred.
func (d Descriptor) Priority() int {
	return d.Strategy.Priority()
}

// Set is the immutable strategy descriptor set.
type Set struct {
	ordered  []Descriptor
	byName   map[string]int
	fallback int
}

// NewSet validates and registers strategies in the given order.
func NewSet(strategies ...contracts.Strategy) (Set, error) {
	set := Set{
		ordered:  make([]Descriptor, 0, len(strategies)),
		byName:   make(map[string]int, len(strategies)),
		fallback: -1,
	}

	for i, strategy := range strategies {
		if strategy == nil {
			return Set{}, fmt.Errorf("strategy at index %d cannot be nil", i)
		}
		name := strategy.Name()
		if name == "" {
			return Set{}, fmt.Errorf("strategy name is required at index %d", i)
		}
		if err := strategy.Variant().Validate(); err != nil {
			return Set{}, fmt.Errorf("strategy %q: %w", name, err)
		}
		if _, exists := set.byName[name]; exists {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateStrategy, name)
		}
		set.byName[name] = i
		set.ordered = append(set.ordered, Descriptor{Strategy: strategy, Index: i})
		if set.fallback < 0 && strategy.Variant() == contracts.VariantPureFallback {
			set.fallback = i
		}
	}

	if set.fallback < 0 {
		return Set{}, ErrMissingFallback
	}
	return set, nil
}

// Len returns the number of registered strategies.
func (s Set) Len() int {
	return len(s.ordered)
}

// Descriptors returns descriptors in registration order.
func (s Set) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// ByPriority returns descriptors sorted by priority, then registration order.
func (s Set) ByPriority() []Descriptor {
	out := s.Descriptors()
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Lookup returns a descriptor by strategy name.
func (s Set) Lookup(name string) (Descriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return s.ordered[i], true
}

// Fallback returns the first registered pure_fallback descriptor.
func (s Set) Fallback() Descriptor {
	return s.ordered[s.fallback]
}

// Names returns strategy names in registration order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.ordered))
	for _, d := range s.ordered {
		out = append(out, d.Name())
	}
	return out
}

// Less orders descriptors by priority; ties go to the earlier registration.
func Less(a, b Descriptor) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() < b.Priority()
	}
	return a.Index < b.Index
}

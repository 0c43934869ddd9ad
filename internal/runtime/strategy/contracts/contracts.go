package contracts

import (
	"fmt"
	"time"
)

// Variant is the closed set of strategy families.
type Variant string

const (
	VariantNative          Variant = "native"
	VariantThirdParty      Variant = "third_party"
	VariantStandardLibrary Variant = "standard_library"
	VariantPureFallback    Variant = "pure_fallback"
)

// Validate enforces supported strategy variants.
func (v Variant) Validate() error {
	switch v {
	case VariantNative, VariantThirdParty, VariantStandardLibrary, VariantPureFallback:
		return nil
	default:
		return fmt.Errorf("unsupported variant: %q", v)
	}
}

// ReasonUnavailable is the probe error recorded when IsAvailable reports false.
const ReasonUnavailable = "unavailable"

// Strategy is one interchangeable provider of the date capability.
//
// IsAvailable must be side-effect-free and must not panic. Initialize may do
// work and may fail; failure is reported through the returned error.
type Strategy interface {
	Name() string
	Priority() int
	Variant() Variant
	IsAvailable() bool
	Initialize() error
	FormatDate(time.Time) (string, error)
	FormatUID(time.Time) (string, error)
}

// LocaleFormatter is implemented by strategies that can render locale-specific dates.
type LocaleFormatter interface {
	FormatLocale(t time.Time, localeTag string) (string, error)
}

// ProbeResult is the outcome of one probe attempt.
type ProbeResult struct {
	StrategyName string  `json:"strategy_name"`
	Succeeded    bool    `json:"succeeded"`
	Error        string  `json:"error,omitempty"`
	ElapsedMS    float64 `json:"elapsed_ms"`
}

// Validate enforces probe result invariants.
func (r ProbeResult) Validate() error {
	if r.StrategyName == "" {
		return fmt.Errorf("strategy_name is required")
	}
	if r.Succeeded && r.Error != "" {
		return fmt.Errorf("error must be empty for succeeded probe %s", r.StrategyName)
	}
	if !r.Succeeded && r.Error == "" {
		return fmt.Errorf("error is required for failed probe %s", r.StrategyName)
	}
	if r.ElapsedMS < 0 {
		return fmt.Errorf("elapsed_ms must be >=0")
	}
	return nil
}

// StaticStrategy is a small utility strategy for tests and static catalogs.
type StaticStrategy struct {
	ID          string
	Rank        int
	Kind        Variant
	Unavailable bool
	InitFn      func() error
	FormatFn    func(time.Time) (string, error)
	UIDFn       func(time.Time) (string, error)
}

func (s StaticStrategy) Name() string {
	return s.ID
}

func (s StaticStrategy) Priority() int {
	return s.Rank
}

func (s StaticStrategy) Variant() Variant {
	if s.Kind == "" {
		return VariantThirdParty
	}
	return s.Kind
}

func (s StaticStrategy) IsAvailable() bool {
	return !s.Unavailable
}

func (s StaticStrategy) Initialize() error {
	if s.InitFn != nil {
		return s.InitFn()
	}
	return nil
}

func (s StaticStrategy) FormatDate(t time.Time) (string, error) {
	if s.FormatFn != nil {
		return s.FormatFn(t)
	}
	return t.Format("January 2, 2006"), nil
}

func (s StaticStrategy) FormatUID(t time.Time) (string, error) {
	if s.UIDFn != nil {
		return s.UIDFn(t)
	}
	return t.Format("01-02-2006"), nil
}

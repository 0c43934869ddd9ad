// Package custom provides the pure fallback strategy. It depends only on
// internal/dateformat and is always available.
package custom

import (
	"time"

	"github.com/tiger/datefallback/internal/dateformat"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

const (
	StrategyName    = "custom"
	DefaultPriority = 5
)

// Strategy is the guaranteed fallback.
type Strategy struct {
	priority int
}

// New creates the fallback strategy.
func New() *Strategy {
	return &Strategy{priority: DefaultPriority}
}

func (s *Strategy) Name() string {
	return StrategyName
}

func (s *Strategy) Priority() int {
	return s.priority
}

func (s *Strategy) Variant() contracts.Variant {
	return contracts.VariantPureFallback
}

// IsAvailable is always true, even when configuration lists it as disabled.
func (s *Strategy) IsAvailable() bool {
	return true
}

func (s *Strategy) Initialize() error {
	return nil
}

func (s *Strategy) FormatDate(t time.Time) (string, error) {
	return dateformat.Title(t), nil
}

func (s *Strategy) FormatUID(t time.Time) (string, error) {
	return dateformat.UID(t), nil
}

// FormatLocale ignores the tag and renders the English title.
func (s *Strategy) FormatLocale(t time.Time, _ string) (string, error) {
	return dateformat.Title(t), nil
}

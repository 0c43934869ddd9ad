package stdlib

import (
	"fmt"
	"time"

	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

const (
	StrategyName    = "stdlib"
	DefaultPriority = 4

	titleLayout = "January 2, 2006"
	uidLayout   = "01-02-2006"
)

var selfTestInstant = time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC)

// Strategy formats dates with time.Format layouts.
type Strategy struct {
	env      environment.Environment
	priority int
	format   func(time.Time, string) string
}

// New creates the strategy over env.
func New(env environment.Environment) *Strategy {
	return &Strategy{
		env:      env.Normalize(),
		priority: DefaultPriority,
		format:   func(t time.Time, layout string) string { return t.Format(layout) },
	}
}

func (s *Strategy) Name() string {
	return StrategyName
}

func (s *Strategy) Priority() int {
	return s.priority
}

func (s *Strategy) Variant() contracts.Variant {
	return contracts.VariantStandardLibrary
}

func (s *Strategy) IsAvailable() bool {
	return !s.env.IsDisabled(StrategyName)
}

// Initialize verifies both layouts on a fixed instant.
func (s *Strategy) Initialize() error {
	if got := s.format(selfTestInstant, uidLayout); got != "10-05-2023" {
		return fmt.Errorf("stdlib self-test: uid %q", got)
	}
	if got := s.format(selfTestInstant, titleLayout); got != "October 5, 2023" {
		return fmt.Errorf("stdlib self-test: title %q", got)
	}
	return nil
}

func (s *Strategy) FormatDate(t time.Time) (string, error) {
	return s.format(t, titleLayout), nil
}

func (s *Strategy) FormatUID(t time.Time) (string, error) {
	return s.format(t, uidLayout), nil
}

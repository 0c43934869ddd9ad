package zoneinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/tiger/datefallback/internal/dateformat"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

const (
	StrategyName    = "zoneinfo"
	DefaultPriority = 3
)

// Strategy formats dates in a zone resolved from the host time zone database.
// On hosts without zone sources (wasip1, minimal containers) loading fails
// and the strategy reports an initialization error.
type Strategy struct {
	env      environment.Environment
	priority int

	mu  sync.RWMutex
	loc *time.Location
}

// New creates the strategy over env.
func New(env environment.Environment) *Strategy {
	return &Strategy{env: env.Normalize(), priority: DefaultPriority}
}

func (s *Strategy) Name() string {
	return StrategyName
}

func (s *Strategy) Priority() int {
	return s.priority
}

func (s *Strategy) Variant() contracts.Variant {
	return contracts.VariantNative
}

// IsAvailable reports whether a zone is configured.
func (s *Strategy) IsAvailable() bool {
	return !s.env.IsDisabled(StrategyName) && s.env.TimeZone != ""
}

// Initialize loads the configured zone.
func (s *Strategy) Initialize() error {
	loc, err := s.env.Location()
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", s.env.TimeZone, err)
	}
	if loc == nil {
		return fmt.Errorf("load time zone %q: nil location", s.env.TimeZone)
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
	return nil
}

// Location returns the loaded zone.
func (s *Strategy) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

// FormatDate renders the title form in the loaded zone.
func (s *Strategy) FormatDate(t time.Time) (string, error) {
	local, err := s.in(t)
	if err != nil {
		return "", err
	}
	return local.Format("January 2, 2006"), nil
}

// FormatUID renders MM-DD-YYYY in the loaded zone.
func (s *Strategy) FormatUID(t time.Time) (string, error) {
	local, err := s.in(t)
	if err != nil {
		return "", err
	}
	return dateformat.UID(local), nil
}

func (s *Strategy) in(t time.Time) (time.Time, error) {
	loc := s.Location()
	if loc == nil {
		return time.Time{}, fmt.Errorf("%s strategy is not initialized", StrategyName)
	}
	return t.In(loc), nil
}

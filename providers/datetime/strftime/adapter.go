package strftime

import (
	"fmt"
	"strconv"
	"time"

	gostrftime "github.com/ncruces/go-strftime"

	"github.com/tiger/datefallback/internal/dateformat"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

const (
	StrategyName    = "strftime"
	DefaultPriority = 2

	uidFormat = "%m-%d-%Y"
)

var selfTestInstant = time.Date(2023, time.October, 5, 15, 45, 0, 0, time.UTC)

// Strategy formats dates with strftime patterns.
type Strategy struct {
	env      environment.Environment
	priority int
	format   func(string, time.Time) string
}

// New creates the strategy over env.
func New(env environment.Environment) *Strategy {
	return &Strategy{env: env.Normalize(), priority: DefaultPriority, format: gostrftime.Format}
}

func (s *Strategy) Name() string {
	return StrategyName
}

func (s *Strategy) Priority() int {
	return s.priority
}

func (s *Strategy) Variant() contracts.Variant {
	return contracts.VariantThirdParty
}

// IsAvailable reports whether the strategy was left enabled.
func (s *Strategy) IsAvailable() bool {
	return !s.env.IsDisabled(StrategyName)
}

// Initialize checks the library output against the reference formatter.
func (s *Strategy) Initialize() error {
	uid, _ := s.FormatUID(selfTestInstant)
	if want := dateformat.UID(selfTestInstant); uid != want {
		return fmt.Errorf("strftime self-test: uid %q, want %q", uid, want)
	}
	title, _ := s.FormatDate(selfTestInstant)
	if want := dateformat.Title(selfTestInstant); title != want {
		return fmt.Errorf("strftime self-test: title %q, want %q", title, want)
	}
	return nil
}

// FormatDate renders "October 5, 2023".
func (s *Strategy) FormatDate(t time.Time) (string, error) {
	return s.format("%B ", t) + strconv.Itoa(t.Day()) + s.format(", %Y", t), nil
}

// FormatUID renders MM-DD-YYYY.
func (s *Strategy) FormatUID(t time.Time) (string, error) {
	return s.format(uidFormat, t), nil
}

package stdlib

import (
	"testing"
	"time"

	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

func TestStdlibStrategy(t *testing.T) {
	t.Parallel()

	s := New(environment.New(nil))
	if s.Variant() != contracts.VariantStandardLibrary {
		t.Fatalf("unexpected variant %s", s.Variant())
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("unexpected self-test failure: %v", err)
	}
	at := time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)
	if got, _ := s.FormatUID(at); got != "02-29-2024" {
		t.Fatalf("unexpected uid %q", got)
	}
	if got, _ := s.FormatDate(at); got != "February 29, 2024" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestStdlibSelfTestFailure(t *testing.T) {
	t.Parallel()

	s := New(environment.New(nil).WithDisabled(StrategyName))
	if s.IsAvailable() {
		t.Fatalf("expected disabled stdlib to be unavailable")
	}
	s.format = func(time.Time, string) string { return "" }
	if err := s.Initialize(); err == nil {
		t.Fatalf("expected self-test failure")
	}
}

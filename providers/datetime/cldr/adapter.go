package cldr

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/tiger/datefallback/internal/dateformat"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/localedata"
	"github.com/tiger/datefallback/internal/runtime/shim"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

const (
	StrategyName    = "cldr"
	DefaultPriority = 1
)

// RequiredOperations is the minimal surface of the Cldr global.
var RequiredOperations = []string{"load", "get"}

// Strategy formats dates from CLDR locale data reached through the Cldr global.
type Strategy struct {
	env      environment.Environment
	priority int

	mu      sync.RWMutex
	res     *shim.Resolution
	loc     *time.Location
	locale  string
	matcher language.Matcher
	bases   []string
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
	return contracts.VariantThirdParty
}

// IsAvailable reports whether the Cldr global is defined. Missing operations
// are served by shims and surface as an initialization failure.
func (s *Strategy) IsAvailable() bool {
	if s.env.IsDisabled(StrategyName) {
		return false
	}
	return s.env.HasGlobal(localedata.GlobalName)
}

// Initialize loads supplemental and month data into the Cldr global and
// verifies that it reads back.
func (s *Strategy) Initialize() error {
	res := s.env.Resolve(localedata.GlobalName, RequiredOperations...)
	if !res.Present {
		return fmt.Errorf("%s global is not defined", localedata.GlobalName)
	}

	for _, doc := range []map[string]any{localedata.SupplementalDocument(), localedata.MainDocument()} {
		if _, err := res.Call("load", doc); err != nil {
			return fmt.Errorf("load cldr data: %w", err)
		}
	}
	got, err := res.Call("get", "supplemental/version/_cldrVersion")
	if err != nil {
		return fmt.Errorf("read cldr version: %w", err)
	}
	if got != localedata.CLDRVersion {
		return fmt.Errorf("cldr data did not load: version=%v shimmed=%v", got, res.Shimmed())
	}

	loc, err := s.env.Location()
	if err != nil {
		return fmt.Errorf("resolve time zone %q: %w", s.env.TimeZone, err)
	}

	bases := localedata.BundledLocales()
	tags := make([]language.Tag, 0, len(bases))
	for _, base := range bases {
		tags = append(tags, language.MustParse(base))
	}
	matcher := language.NewMatcher(tags)

	s.mu.Lock()
	s.res = res
	s.loc = loc
	s.matcher = matcher
	s.bases = bases
	s.locale = s.matchLocked(s.env.Locale)
	s.mu.Unlock()
	return nil
}

// FormatDate renders the English long title form.
func (s *Strategy) FormatDate(t time.Time) (string, error) {
	return s.render(t, "en")
}

// FormatUID renders MM-DD-YYYY.
func (s *Strategy) FormatUID(t time.Time) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	year, month, day := s.in(t).Date()
	return fmt.Sprintf("%02d-%02d-%s", int(month), day, dateformat.Year(year)), nil
}

// FormatLocale renders the long date form of the best matching bundled locale.
func (s *Strategy) FormatLocale(t time.Time, localeTag string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	s.mu.RLock()
	locale := s.locale
	if strings.TrimSpace(localeTag) != "" {
		locale = s.matchLocked(localeTag)
	}
	s.mu.RUnlock()
	return s.render(t, locale)
}

// Locale returns the matched configured locale.
func (s *Strategy) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

func (s *Strategy) render(t time.Time, locale string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	s.mu.RLock()
	res := s.res
	s.mu.RUnlock()

	raw, err := res.Call("get", "main/"+locale+"/months/wide")
	if err != nil {
		return "", err
	}
	months, ok := raw.([]any)
	if !ok || len(months) != 12 {
		return "", fmt.Errorf("cldr month data unavailable for %s", locale)
	}
	raw, err = res.Call("get", "main/"+locale+"/longDatePattern")
	if err != nil {
		return "", err
	}
	pattern, ok := raw.(string)
	if !ok || pattern == "" {
		return "", fmt.Errorf("cldr date pattern unavailable for %s", locale)
	}

	year, month, day := s.in(t).Date()
	out := strings.NewReplacer(
		"{month}", fmt.Sprint(months[month-1]),
		"{day}", strconv.Itoa(day),
		"{year}", dateformat.Year(year),
	).Replace(pattern)
	return out, nil
}

func (s *Strategy) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.res == nil {
		return fmt.Errorf("%s strategy is not initialized", StrategyName)
	}
	return nil
}

func (s *Strategy) in(t time.Time) time.Time {
	s.mu.RLock()
	loc := s.loc
	s.mu.RUnlock()
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// matchLocked requires s.mu to be held.
func (s *Strategy) matchLocked(localeTag string) string {
	if s.matcher == nil || len(s.bases) == 0 {
		return "en"
	}
	tag, err := language.Parse(localeTag)
	if err != nil {
		return s.bases[0]
	}
	_, index, confidence := s.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(s.bases) {
		return s.bases[0]
	}
	return s.bases[index]
}

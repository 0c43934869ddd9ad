// Package facade exposes the stable date API. Every call reads the active
// strategy at call time; callers never see which one serves them.
package facade

import (
	"context"
	"fmt"
	"time"

	"github.com/tiger/datefallback/internal/dateformat"
	"github.com/tiger/datefallback/internal/observability/eventlog"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
	"github.com/tiger/datefallback/internal/runtime/strategy/state"
)

// ErrorTimestamp is returned when formatting a timestamp faults.
const ErrorTimestamp = "(error formatting date)"

const (
	// MaxDayOffset bounds the offsets GetDayWithOffset and DateRange accept,
	// roughly ten thousand years either way.
	MaxDayOffset = 3_660_000
	// MaxRangeDays bounds the number of days one DateRange call returns.
	MaxRangeDays = 36_600
)

// Capability is the orchestration surface the facade reads from.
type Capability interface {
	Initialize(ctx context.Context) state.Handle
	Env() environment.Environment
	Log() *eventlog.Log
}

// DayInfo describes one calendar day relative to a base instant.
type DayInfo struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Instant     time.Time `json:"inst"`
	TimestampMS int64     `json:"timestamp"`
}

// Option configures a Facade.
type Option func(*Facade)

// WithLocation overrides the zone used for date-only inputs and output.
func WithLocation(loc *time.Location) Option {
	return func(f *Facade) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithNow overrides the clock used for Today and default bases.
func WithNow(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

// Facade is safe for concurrent use.
type Facade struct {
	capability Capability
	log        *eventlog.Log
	loc        *time.Location
	now        func() time.Time
}

// New creates a facade over capability.
func New(capability Capability, opts ...Option) *Facade {
	env := capability.Env()
	loc, err := env.Location()
	if err != nil || loc == nil {
		loc = time.Local
	}
	f := &Facade{
		capability: capability,
		log:        capability.Log(),
		loc:        loc,
		now:        env.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Location returns the facade zone.
func (f *Facade) Location() *time.Location {
	return f.loc
}

// Active returns the handle currently serving requests.
func (f *Facade) Active() state.Handle {
	return f.capability.Initialize(context.Background())
}

func (f *Facade) strategy() contracts.Strategy {
	return f.Active().Descriptor.Strategy
}

// FormatDate renders v as "October 15, 2023" or InvalidDate.
func (f *Facade) FormatDate(v any) (out string) {
	defer f.recoverTo("format_date", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	return f.render("format_date", t, f.strategy().FormatDate)
}

// FormatUID renders v as MM-DD-YYYY or InvalidDate.
func (f *Facade) FormatUID(v any) (out string) {
	defer f.recoverTo("format_uid", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	return f.render("format_uid", t, f.strategy().FormatUID)
}

// FormatUSDate renders v as MM-DD-YYYY and reports whether v was a date.
func (f *Facade) FormatUSDate(v any) (string, bool) {
	uid := f.FormatUID(v)
	if uid == dateformat.InvalidDate {
		return "", false
	}
	return uid, true
}

// ParseUID parses MM-DD-YYYY into local midnight.
func (f *Facade) ParseUID(uid string) (t time.Time, ok bool) {
	defer f.recoverTo("parse_uid", func() { t, ok = time.Time{}, false })
	return dateformat.ParseUID(uid, f.loc)
}

// ParseTitle parses "Month D, YYYY" into local midnight.
func (f *Facade) ParseTitle(title string) (t time.Time, ok bool) {
	defer f.recoverTo("parse_title", func() { t, ok = time.Time{}, false })
	return dateformat.ParseTitle(title, f.loc)
}

// IsDailyNoteUID reports whether uid names a real calendar day.
func (f *Facade) IsDailyNoteUID(uid string) bool {
	_, ok := f.ParseUID(uid)
	return ok
}

// IsValidDate reports whether v can be interpreted as an instant.
func (f *Facade) IsValidDate(v any) (ok bool) {
	defer f.recoverTo("is_valid_date", func() { ok = false })
	_, ok = Coerce(v, f.loc)
	return ok
}

// FormatLocale renders v in the long form of localeTag. Strategies without
// locale support render the English title.
func (f *Facade) FormatLocale(v any, localeTag string) (out string) {
	defer f.recoverTo("format_locale", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	s := f.strategy()
	lf, ok := s.(contracts.LocaleFormatter)
	if !ok {
		return f.render("format_locale", t, s.FormatDate)
	}
	return f.render("format_locale", t, func(t time.Time) (string, error) {
		return lf.FormatLocale(t, localeTag)
	})
}

// FormatDisplay renders "October 15, 2023 3:45pm".
func (f *Facade) FormatDisplay(v any) (out string) {
	defer f.recoverTo("format_display", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	return dateformat.Display(t)
}

// FormatCompact renders "Oct 15, 23".
func (f *Facade) FormatCompact(v any) (out string) {
	defer f.recoverTo("format_compact", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	return dateformat.Compact(t)
}

// FormatISO renders "2023-10-15".
func (f *Facade) FormatISO(v any) (out string) {
	defer f.recoverTo("format_iso", func() { out = dateformat.InvalidDate })
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidDate
	}
	return dateformat.ISO(t)
}

// FormatTimestamp renders a display timestamp. Absent values yield
// UnknownTimestamp and uninterpretable ones InvalidTimestamp.
func (f *Facade) FormatTimestamp(v any) (out string) {
	defer f.recoverTo("format_timestamp", func() { out = ErrorTimestamp })
	if absent(v) {
		return dateformat.UnknownTimestamp
	}
	t, ok := Coerce(v, f.loc)
	if !ok {
		return dateformat.InvalidTimestamp
	}
	return dateformat.Display(t)
}

// Today returns the current day.
func (f *Facade) Today() (DayInfo, bool) {
	return f.GetDayWithOffset(0)
}

// GetDayWithOffset returns the day offset days from base, keeping the base
// wall clock. Without a base the current instant is used. Offsets beyond
// MaxDayOffset report false.
func (f *Facade) GetDayWithOffset(offset int, base ...any) (day DayInfo, ok bool) {
	defer f.recoverTo("get_day_with_offset", func() { day, ok = DayInfo{}, false })
	if !offsetInRange(offset) {
		return DayInfo{}, false
	}
	start, ok := f.base(base)
	if !ok {
		return DayInfo{}, false
	}
	return f.dayAt(dateformat.AddDays(start, offset))
}

// DateRange returns the days from startOffset through endOffset inclusive.
// Days that cannot be rendered are skipped. A range with an offset beyond
// MaxDayOffset or longer than MaxRangeDays is empty.
func (f *Facade) DateRange(startOffset, endOffset int, base ...any) (out []DayInfo) {
	defer f.recoverTo("date_range", func() { out = []DayInfo{} })
	out = []DayInfo{}
	if !offsetInRange(startOffset) || !offsetInRange(endOffset) {
		return out
	}
	count := int64(endOffset) - int64(startOffset) + 1
	if count <= 0 || count > MaxRangeDays {
		return out
	}
	start, ok := f.base(base)
	if !ok {
		return out
	}
	for i := range int(count) {
		if day, ok := f.dayAt(dateformat.AddDays(start, startOffset+i)); ok {
			out = append(out, day)
		}
	}
	return out
}

func offsetInRange(offset int) bool {
	return offset >= -MaxDayOffset && offset <= MaxDayOffset
}

func (f *Facade) base(base []any) (time.Time, bool) {
	if len(base) == 0 || base[0] == nil {
		return f.now().In(f.loc), true
	}
	return Coerce(base[0], f.loc)
}

func (f *Facade) dayAt(t time.Time) (DayInfo, bool) {
	s := f.strategy()
	uid := f.render("get_day_with_offset", t, s.FormatUID)
	title := f.render("get_day_with_offset", t, s.FormatDate)
	if uid == dateformat.InvalidDate || title == dateformat.InvalidDate {
		return DayInfo{}, false
	}
	return DayInfo{UID: uid, Title: title, Instant: t, TimestampMS: t.UnixMilli()}, true
}

func (f *Facade) render(op string, t time.Time, format func(time.Time) (string, error)) string {
	out, err := format(t)
	if err != nil {
		f.fault(op, err.Error())
		return dateformat.InvalidDate
	}
	return out
}

// recoverTo must be deferred directly.
func (f *Facade) recoverTo(op string, reset func()) {
	if rec := recover(); rec != nil {
		f.fault(op, fmt.Sprintf("panic: %v", rec))
		reset()
	}
}

func (f *Facade) fault(op, message string) {
	strategy := ""
	if handle, ok := f.activeNoInit(); ok {
		strategy = handle.Name()
	}
	f.log.Error(eventlog.KindFacadeFault, map[string]any{
		"operation": op,
		"strategy":  strategy,
		"error":     message,
	})
}

func (f *Facade) activeNoInit() (state.Handle, bool) {
	type activeReader interface {
		Active() (state.Handle, bool)
	}
	if r, ok := f.capability.(activeReader); ok {
		return r.Active()
	}
	return state.Handle{}, false
}

func absent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case *time.Time:
		return x == nil
	}
	return false
}

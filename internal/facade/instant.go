package facade

import (
	"math"
	"regexp"
	"strings"
	"time"

	smithytime "github.com/aws/smithy-go/time"

	"github.com/tiger/datefallback/internal/dateformat"
)

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const (
	dateOnlyLayout  = "2006-01-02"
	localTimeLayout = "2006-01-02T15:04:05"
)

// Coerce interprets v as an instant in loc. Accepted inputs are time.Time,
// *time.Time, integer or float epoch milliseconds, and strings in date-only,
// ISO-8601, HTTP-date, MM-DD-YYYY or "Month D, YYYY" form. Date-only strings
// mean the first instant of that day in loc.
func Coerce(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, ok := coerce(v, loc)
	if !ok {
		return time.Time{}, false
	}
	return t.In(loc), true
}

func coerce(v any, loc *time.Location) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case int:
		return time.UnixMilli(int64(x)), true
	case int32:
		return time.UnixMilli(int64(x)), true
	case int64:
		return time.UnixMilli(x), true
	case uint32:
		return time.UnixMilli(int64(x)), true
	case float32:
		return fromFloatMillis(float64(x))
	case float64:
		return fromFloatMillis(x)
	case string:
		return parseString(x, loc)
	default:
		return time.Time{}, false
	}
}

func fromFloatMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	if ms > math.MaxInt64/2 || ms < math.MinInt64/2 {
		return time.Time{}, false
	}
	whole := math.Trunc(ms)
	nanos := int64((ms - whole) * float64(time.Millisecond))
	return time.UnixMilli(int64(whole)).Add(time.Duration(nanos)), true
}

func parseString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if dateOnlyPattern.MatchString(s) {
		day, err := time.Parse(dateOnlyLayout, s)
		if err != nil {
			return time.Time{}, false
		}
		return dateformat.StartOfDay(day.Year(), day.Month(), day.Day(), loc)
	}
	if t, err := smithytime.ParseDateTime(s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(localTimeLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := smithytime.ParseHTTPDate(s); err == nil {
		return t, true
	}
	if t, ok := dateformat.ParseUID(s, loc); ok {
		return t, true
	}
	return dateformat.ParseTitle(s, loc)
}

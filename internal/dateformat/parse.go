package dateformat

import (
	"regexp"
	"strconv"
	"time"
)

const (
	minUIDYear = 1900
	maxUIDYear = 3000
)

var (
	uidPattern   = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	titlePattern = regexp.MustCompile(`^(\w+)\s+(\d{1,2}),\s+(\d{4})$`)
)

// ParseUID parses an MM-DD-YYYY identifier into the first instant of that
// day in loc.
//
// Components are range checked first (day up to 31 for every month) and the
// constructed date is then compared against them, which is what rejects
// month-length overflow such as 02-30.
func ParseUID(uid string, loc *time.Location) (time.Time, bool) {
	match := uidPattern.FindStringSubmatch(uid)
	if match == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(match[1])
	day, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	if year < minUIDYear || year > maxUIDYear {
		return time.Time{}, false
	}
	return construct(year, time.Month(month), day, loc)
}

// ParseTitle parses "October 15, 2023" into the first instant of that day
// in loc.
func ParseTitle(title string, loc *time.Location) (time.Time, bool) {
	match := titlePattern.FindStringSubmatch(title)
	if match == nil {
		return time.Time{}, false
	}
	month, ok := MonthFromName(match[1])
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if day < 1 {
		return time.Time{}, false
	}
	return construct(year, month, day, loc)
}

func construct(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if !ValidDate(year, month, day) {
		return time.Time{}, false
	}
	return StartOfDay(year, month, day, loc)
}

// Package dateformat implements the zero-dependency date formatting and UID
// parsing used by the pure fallback strategy and by the facade.
package dateformat

import (
	"strconv"
	"strings"
	"time"
)

const (
	// InvalidDate is the sentinel returned by format-style operations.
	InvalidDate = "Invalid Date"
	// UnknownTimestamp is returned when a timestamp is absent.
	UnknownTimestamp = "(unknown date)"
	// InvalidTimestamp is returned when a timestamp cannot be interpreted.
	InvalidTimestamp = "(invalid date)"
)

var monthsLong = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthsShort = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthName returns the English month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthsLong[m-1]
}

// ShortMonthName returns the three-letter English month abbreviation.
func ShortMonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthsShort[m-1]
}

// MonthFromName resolves an exact English month name.
func MonthFromName(name string) (time.Month, bool) {
	for i, candidate := range monthsLong {
		if candidate == name {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// UID renders t as MM-DD-YYYY.
func UID(t time.Time) string {
	year, month, day := t.Date()
	var b strings.Builder
	b.Grow(10)
	b.WriteString(pad2(int(month)))
	b.WriteByte('-')
	b.WriteString(pad2(day))
	b.WriteByte('-')
	b.WriteString(Year(year))
	return b.String()
}

// Title renders t as "October 15, 2023".
func Title(t time.Time) string {
	year, month, day := t.Date()
	return MonthName(month) + " " + strconv.Itoa(day) + ", " + Year(year)
}

// Display renders t as "October 15, 2023 3:45pm".
func Display(t time.Time) string {
	hours := t.Hour()
	suffix := "am"
	if hours >= 12 {
		suffix = "pm"
	}
	displayHours := hours
	switch {
	case hours == 0:
		displayHours = 12
	case hours > 12:
		displayHours = hours - 12
	}
	return Title(t) + " " + strconv.Itoa(displayHours) + ":" + pad2(t.Minute()) + suffix
}

// Compact renders t as "Oct 15, 23".
func Compact(t time.Time) string {
	year, month, day := t.Date()
	y := strconv.Itoa(year)
	if len(y) > 2 {
		y = y[len(y)-2:]
	}
	return ShortMonthName(month) + " " + strconv.Itoa(day) + ", " + y
}

// ISO renders t as "2023-10-15".
func ISO(t time.Time) string {
	year, month, day := t.Date()
	return Year(year) + "-" + pad2(int(month)) + "-" + pad2(day)
}

// Year renders a year with at least four digits, matching Go's "2006".
func Year(year int) string {
	if year < 0 {
		return "-" + Year(-year)
	}
	y := strconv.Itoa(year)
	for len(y) < 4 {
		y = "0" + y
	}
	return y
}

func pad2(v int) string {
	if v >= 0 && v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

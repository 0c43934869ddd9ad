package dateformat

import "time"

// ValidDate reports whether the components name a real calendar day. The
// check runs in UTC so zone transitions cannot reject an existing date.
func ValidDate(year int, month time.Month, day int) bool {
	y, m, d := time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Date()
	return y == year && m == month && d == day
}

// StartOfDay returns the first instant of the calendar day in loc. This is
// local midnight except where a zone transition skips midnight, in which case
// the day starts at the transition. It reports false when loc skips the whole
// day.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	t, ok := firstInstant(year, month, day, loc)
	if !ok {
		return time.Time{}, false
	}
	return t, true
}

// firstInstant returns the start of the day, or when loc skips the day, the
// first instant after it.
func firstInstant(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	want := dayKey(year, month, day)
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	for range 4 {
		got := dayKey(t.Date())
		switch {
		case got == want:
			return t, true
		case got > want:
			return t, false
		}
		// Landed on the previous day inside a gap: move to its next midnight,
		// which is the transition instant.
		t = t.Add(24*time.Hour - sinceMidnight(t))
	}
	return t, false
}

// AddDays shifts t by whole calendar days, keeping the wall clock time. The
// calendar arithmetic runs in UTC; a wall clock that does not exist on the
// target day moves forward by the size of the gap, and a day the zone skips
// resolves to the start of the next one.
func AddDays(t time.Time, days int) time.Time {
	year, month, day := t.Date()
	year, month, day = time.Date(year, month, day+days, 12, 0, 0, 0, time.UTC).Date()
	hour, minute, sec := t.Clock()
	loc := t.Location()

	out := time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), loc)
	want := dayKey(year, month, day)
	if dayKey(out.Date()) == want {
		return out
	}
	start, ok := firstInstant(year, month, day, loc)
	if !ok {
		return start
	}
	_, before := out.Zone()
	_, after := start.Zone()
	shifted := out.Add(time.Duration(after-before) * time.Second)
	if dayKey(shifted.Date()) == want && !shifted.Before(start) {
		return shifted
	}
	return start
}

func dayKey(year int, month time.Month, day int) int64 {
	return int64(year)*10000 + int64(month)*100 + int64(day)
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

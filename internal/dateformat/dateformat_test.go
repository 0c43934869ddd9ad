package dateformat

import (
	"testing"
	"time"
)

func TestFormatters(t *testing.T) {
	t.Parallel()

	at := time.Date(2023, time.October, 5, 15, 45, 0, 0, time.UTC)
	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "uid", got: UID(at), want: "10-05-2023"},
		{name: "title", got: Title(at), want: "October 5, 2023"},
		{name: "display", got: Display(at), want: "October 5, 2023 3:45pm"},
		{name: "compact", got: Compact(at), want: "Oct 5, 23"},
		{name: "iso", got: ISO(at), want: "2023-10-05"},
		{name: "display_midnight", got: Display(time.Date(2023, time.October, 5, 0, 7, 0, 0, time.UTC)), want: "October 5, 2023 12:07am"},
		{name: "display_noon", got: Display(time.Date(2023, time.October, 5, 12, 0, 0, 0, time.UTC)), want: "October 5, 2023 12:00pm"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, tc.got)
		}
	}
}

func TestParseUIDRoundTrip(t *testing.T) {
	t.Parallel()

	for _, year := range []int{1900, 1999, 2000, 2023, 2024, 2100, 3000} {
		day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for day.Year() == year {
			uid := UID(day)
			parsed, ok := ParseUID(uid, time.UTC)
			if !ok {
				t.Fatalf("expected %s to parse", uid)
			}
			if got := UID(parsed); got != uid {
				t.Fatalf("expected round trip of %s, got %s", uid, got)
			}
			day = day.AddDate(0, 0, 1)
		}
	}
}

func TestParseUIDRejects(t *testing.T) {
	t.Parallel()

	for _, uid := range []string{
		"13-01-2023",
		"00-10-2023",
		"02-30-2023",
		"02-29-2023",
		"04-31-2023",
		"10-32-2023",
		"10-00-2023",
		"10-15-1899",
		"10-15-3001",
		"1-15-2023",
		"10-15-23",
		"10/15/2023",
		" 10-15-2023",
		"",
		"not-a-date",
	} {
		if _, ok := ParseUID(uid, time.UTC); ok {
			t.Fatalf("expected %q to be rejected", uid)
		}
	}
	if _, ok := ParseUID("02-29-2024", time.UTC); !ok {
		t.Fatalf("expected leap day to parse")
	}
}

func TestParseTitle(t *testing.T) {
	t.Parallel()

	got, ok := ParseTitle("October 15, 2023", time.UTC)
	if !ok {
		t.Fatalf("expected title to parse")
	}
	if want := time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, title := range []string{"Octember 15, 2023", "February 30, 2023", "October 15 2023", ""} {
		if _, ok := ParseTitle(title, time.UTC); ok {
			t.Fatalf("expected %q to be rejected", title)
		}
	}
}

func TestAddDaysKeepsWallClock(t *testing.T) {
	t.Parallel()

	base := time.Date(2023, time.December, 31, 9, 30, 0, 0, time.UTC)
	next := AddDays(base, 1)
	if UID(next) != "01-01-2024" || next.Hour() != 9 || next.Minute() != 30 {
		t.Fatalf("unexpected day shift result: %v", next)
	}
	if prev := AddDays(base, -365); UID(prev) != "12-31-2022" {
		t.Fatalf("unexpected backwards shift: %v", prev)
	}
}

package facade

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/localedata"
	"github.com/tiger/datefallback/internal/runtime/shim"
	"github.com/tiger/datefallback/internal/runtime/strategy/bootstrap"
)

func saoPauloFacades(t *testing.T) map[string]*Facade {
	t.Helper()
	build := func(ns *shim.Namespace, disabled ...string) *Facade {
		env := environment.New(ns).WithDisabled(disabled...)
		env.TimeZone = "America/Sao_Paulo"
		env.Now = func() time.Time { return fixedNow }
		return newFacade(t, bootstrap.Options{Env: env})
	}
	withCldr := shim.NewNamespace()
	withCldr.Define(localedata.GlobalName, localedata.NewStore().Object())

	facades := map[string]*Facade{
		"cldr":     build(withCldr),
		"strftime": build(nil),
		"zoneinfo": build(nil, "strftime"),
		"stdlib":   build(nil, "strftime", "zoneinfo"),
		"custom":   build(nil, "strftime", "zoneinfo", "stdlib"),
	}
	for name, f := range facades {
		if got := f.Active().Name(); got != name {
			t.Fatalf("expected %s to be active, got %s", name, got)
		}
	}
	return facades
}

func TestMidnightGapDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		uid   string
		title string
		iso   string
	}{
		{uid: "11-04-2018", title: "November 4, 2018", iso: "2018-11-04"},
		{uid: "10-15-2017", title: "October 15, 2017", iso: "2017-10-15"},
		{uid: "10-16-2016", title: "October 16, 2016", iso: "2016-10-16"},
	}
	for name, f := range saoPauloFacades(t) {
		for _, tc := range cases {
			parsed, ok := f.ParseUID(tc.uid)
			if !ok {
				t.Fatalf("%s: expected %s to parse", name, tc.uid)
			}
			if got := f.FormatUID(parsed); got != tc.uid {
				t.Fatalf("%s: expected %s to round trip, got %s", name, tc.uid, got)
			}
			if !f.IsDailyNoteUID(tc.uid) {
				t.Fatalf("%s: expected %s to be a daily note uid", name, tc.uid)
			}
			titled, ok := f.ParseTitle(tc.title)
			if !ok || !titled.Equal(parsed) {
				t.Fatalf("%s: expected %q to parse to %v, got %v ok=%t", name, tc.title, parsed, titled, ok)
			}
			if got, ok := f.FormatUSDate(tc.iso); !ok || got != tc.uid {
				t.Fatalf("%s: expected %s from %s, got %q ok=%t", name, tc.uid, tc.iso, got, ok)
			}
			if got := f.FormatDate(tc.iso); got != tc.title {
				t.Fatalf("%s: expected %q from %s, got %q", name, tc.title, tc.iso, got)
			}
		}
	}
}

func TestOffsetsAcrossMidnightGap(t *testing.T) {
	t.Parallel()

	for name, f := range saoPauloFacades(t) {
		next, ok := f.GetDayWithOffset(1, "2018-11-03")
		if !ok || next.UID != "11-04-2018" {
			t.Fatalf("%s: expected 11-04-2018, got %+v ok=%t", name, next, ok)
		}

		days := f.DateRange(0, 2, "2018-11-03")
		uids := make([]string, 0, len(days))
		for _, day := range days {
			uids = append(uids, day.UID)
		}
		if diff := cmp.Diff([]string{"11-03-2018", "11-04-2018", "11-05-2018"}, uids); diff != "" {
			t.Fatalf("%s: unexpected range (-want +got):\n%s", name, diff)
		}
	}
}

func TestOffsetBounds(t *testing.T) {
	t.Parallel()

	f := newFacade(t, bootstrap.Options{})
	for _, offset := range []int{math.MaxInt, math.MinInt, MaxDayOffset + 1, -MaxDayOffset - 1} {
		if _, ok := f.GetDayWithOffset(offset, "2023-10-15"); ok {
			t.Fatalf("expected offset %d to be rejected", offset)
		}
	}
	if _, ok := f.GetDayWithOffset(MaxDayOffset, "2023-10-15"); !ok {
		t.Fatalf("expected the largest accepted offset to resolve")
	}

	for _, span := range [][2]int{
		{0, math.MaxInt},
		{math.MinInt, 0},
		{math.MinInt, math.MaxInt},
		{math.MaxInt - 1, math.MaxInt},
		{0, MaxRangeDays},
	} {
		if got := f.DateRange(span[0], span[1], "2023-10-15"); len(got) != 0 {
			t.Fatalf("expected range %v to be empty, got %d days", span, len(got))
		}
	}
	if got := f.DateRange(0, MaxRangeDays-1, "2023-10-15"); len(got) != MaxRangeDays {
		t.Fatalf("expected %d days, got %d", MaxRangeDays, len(got))
	}
}

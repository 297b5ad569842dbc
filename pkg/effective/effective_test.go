package effective

import (
	"testing"
	"time"
)

type rate struct {
	from  time.Time
	label string
}

func (r rate) EffectiveDate() time.Time { return r.from }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAsOfPicksLatestApplicable(t *testing.T) {
	items := []rate{
		{from: date(2026, 3, 1), label: "march"},
		{from: date(2026, 1, 1), label: "january"},
		{from: date(2026, 6, 1), label: "june"},
	}

	cases := []struct {
		at    time.Time
		want  string
		found bool
	}{
		{date(2025, 12, 31), "", false},
		{date(2026, 1, 1), "january", true},
		{date(2026, 2, 28), "january", true},
		{date(2026, 3, 1), "march", true},
		{date(2026, 5, 31), "march", true},
		{date(2027, 1, 1), "june", true},
	}

	timeline := NewTimeline(items)
	for _, tc := range cases {
		got, ok := AsOf(items, tc.at)
		if ok != tc.found || got.label != tc.want {
			t.Fatalf("AsOf(%s): expected %q/%v, got %q/%v", tc.at.Format("2006-01-02"), tc.want, tc.found, got.label, ok)
		}
		got, ok = timeline.At(tc.at)
		if ok != tc.found || got.label != tc.want {
			t.Fatalf("Timeline.At(%s): expected %q/%v, got %q/%v", tc.at.Format("2006-01-02"), tc.want, tc.found, got.label, ok)
		}
	}
}

func TestAsOfIgnoresTimeOfDay(t *testing.T) {
	items := []rate{{from: time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC), label: "evening"}}

	if _, ok := AsOf(items, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)); !ok {
		t.Fatal("expected record effective on the same calendar day")
	}
}

func TestEqualDatesPreferFirst(t *testing.T) {
	items := []rate{
		{from: date(2026, 1, 1), label: "first"},
		{from: date(2026, 1, 1), label: "second"},
	}

	got, _ := AsOf(items, date(2026, 2, 1))
	if got.label != "first" {
		t.Fatalf("expected first, got %s", got.label)
	}
	got, _ = NewTimeline(items).At(date(2026, 2, 1))
	if got.label != "first" {
		t.Fatalf("expected first from timeline, got %s", got.label)
	}
}

func TestEmptyTimeline(t *testing.T) {
	var timeline *Timeline[rate]
	if _, ok := timeline.At(date(2026, 1, 1)); ok {
		t.Fatal("nil timeline must not find anything")
	}
	if NewTimeline[rate](nil).Len() != 0 {
		t.Fatal("expected empty timeline")
	}
}

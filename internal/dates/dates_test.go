package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestWeekRange(t *testing.T) {
	cases := []struct {
		in         time.Time
		wantMonday string
		wantFriday string
	}{
		{date(2026, time.January, 5), "2026-01-05", "2026-01-09"},  // Monday
		{date(2026, time.January, 7), "2026-01-05", "2026-01-09"},  // Wednesday
		{date(2026, time.January, 9), "2026-01-05", "2026-01-09"},  // Friday
		{date(2026, time.January, 10), "2026-01-05", "2026-01-09"}, // Saturday
		{date(2026, time.January, 11), "2026-01-05", "2026-01-09"}, // Sunday
		{date(2026, time.March, 2), "2026-03-02", "2026-03-06"},
		{date(2025, time.December, 31), "2025-12-29", "2026-01-02"}, // week spans the year boundary
	}
	for _, tc := range cases {
		monday, friday := WeekRange(tc.in)
		if got := Format(monday); got != tc.wantMonday {
			t.Errorf("WeekRange(%s) monday = %s, want %s", Format(tc.in), got, tc.wantMonday)
		}
		if got := Format(friday); got != tc.wantFriday {
			t.Errorf("WeekRange(%s) friday = %s, want %s", Format(tc.in), got, tc.wantFriday)
		}
	}
}

func TestWeekRangeNormalizesTime(t *testing.T) {
	monday, _ := WeekRange(date(2026, time.January, 7))
	if h, m, s := monday.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("monday carries a time component: %v", monday)
	}
}

func TestWeekLabel(t *testing.T) {
	monday, friday := WeekRange(date(2026, time.January, 7))
	if got, want := WeekLabel(monday, friday), "2026-01-05 至 2026-01-09"; got != want {
		t.Errorf("WeekLabel = %q, want %q", got, want)
	}
}

func TestQuarterLabel(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{date(2026, time.January, 15), "2026第一季度"},
		{date(2026, time.March, 31), "2026第一季度"},
		{date(2026, time.April, 1), "2026第二季度"},
		{date(2026, time.August, 24), "2026第三季度"},
		{date(2026, time.November, 2), "2026第四季度"},
	}
	for _, tc := range cases {
		if got := QuarterLabel(tc.in); got != tc.want {
			t.Errorf("QuarterLabel(%s) = %q, want %q", Format(tc.in), got, tc.want)
		}
	}
}

func TestNextQuarterLabel(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{date(2025, time.November, 20), "2026第一季度"}, // Q4 wraps to next year
		{date(2026, time.February, 1), "2026第二季度"},
		{date(2026, time.August, 24), "2026第四季度"},
	}
	for _, tc := range cases {
		if got := NextQuarterLabel(tc.in); got != tc.want {
			t.Errorf("NextQuarterLabel(%s) = %q, want %q", Format(tc.in), got, tc.want)
		}
	}
}

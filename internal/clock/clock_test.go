package clock

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 15, 0, time.Local)
}

func TestBuckets(t *testing.T) {
	now := time.Date(2026, 10, 11, 8, 5, 9, 0, time.Local) // Sunday

	if got := WeekdayDigit(now); got != "0" {
		t.Errorf("WeekdayDigit = %q, want 0", got)
	}
	if got := DayOfMonthDigit(time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)); got != "1" {
		t.Errorf("DayOfMonthDigit = %q, want 1", got)
	}
	if got := HHMM(now); got != "08:05" {
		t.Errorf("HHMM = %q", got)
	}
	if got := HHMMSS(now); got != "08:05:09" {
		t.Errorf("HHMMSS = %q", got)
	}
	if got := MinutesOfDay(now); got != 485 {
		t.Errorf("MinutesOfDay = %d", got)
	}
}

func TestParseHHMM(t *testing.T) {
	got, err := ParseHHMM("22:30")
	if err != nil || got != 1350 {
		t.Fatalf("ParseHHMM = %d, %v", got, err)
	}
	if _, err := ParseHHMM("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestLastWeek(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{"wednesday", date(2026, 10, 14), "2026-10-05", "2026-10-11"},
		{"monday", date(2026, 10, 12), "2026-10-05", "2026-10-11"},
		{"sunday", date(2026, 10, 11), "2026-09-28", "2026-10-04"},
		{"across year", date(2026, 1, 2), "2025-12-22", "2025-12-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := LastWeek(tt.now)
			if ISODate(r.Start) != tt.wantStart || ISODate(r.End) != tt.wantEnd {
				t.Fatalf("LastWeek = %s..%s, want %s..%s", ISODate(r.Start), ISODate(r.End), tt.wantStart, tt.wantEnd)
			}
			if r.Start.Hour() != 0 || r.Start.Minute() != 0 || r.Start.Nanosecond() != 0 {
				t.Errorf("start not at midnight: %v", r.Start)
			}
			if HHMMSS(r.End) != "23:59:59" || r.End.Nanosecond() != int(999*time.Millisecond) {
				t.Errorf("end not at 23:59:59.999: %v", r.End)
			}
			if r.Start.Weekday() != time.Monday || r.End.Weekday() != time.Sunday {
				t.Errorf("range %v..%v is not Monday..Sunday", r.Start.Weekday(), r.End.Weekday())
			}
		})
	}
}

func TestLastMonth(t *testing.T) {
	tests := []struct {
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{date(2026, 10, 15), "2026-09-01", "2026-09-30"},
		{date(2026, 3, 31), "2026-02-01", "2026-02-28"},
		{date(2026, 1, 1), "2025-12-01", "2025-12-31"},
		{date(2024, 3, 1), "2024-02-01", "2024-02-29"},
	}
	for _, tt := range tests {
		r := LastMonth(tt.now)
		if ISODate(r.Start) != tt.wantStart || ISODate(r.End) != tt.wantEnd {
			t.Errorf("LastMonth(%s) = %s..%s, want %s..%s", ISODate(tt.now), ISODate(r.Start), ISODate(r.End), tt.wantStart, tt.wantEnd)
		}
	}
}

func TestRangeContainsIsInclusive(t *testing.T) {
	r := LastWeek(date(2026, 10, 14))
	if !r.Contains(r.Start) || !r.Contains(r.End) {
		t.Error("range must include both ends")
	}
	if r.Contains(r.End.Add(time.Millisecond)) {
		t.Error("range must exclude the following Monday")
	}
}

func TestInDateWindow(t *testing.T) {
	if !InDateWindow("2026-12-20", "2026-12-20", "2026-12-26") {
		t.Error("start date must be inside")
	}
	if !InDateWindow("2026-12-26", "2026-12-20", "2026-12-26") {
		t.Error("end date must be inside")
	}
	if InDateWindow("2026-12-27", "2026-12-20", "2026-12-26") {
		t.Error("day after end must be outside")
	}
}

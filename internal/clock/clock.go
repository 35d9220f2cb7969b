// Package clock maps wall-clock time onto the buckets the schedulers compare
// against: weekday digits, day-of-month digits, HH:MM and HH:MM:SS strings,
// and whole-day ranges. All calculations use the location of the time given.
package clock

import (
	"fmt"
	"strconv"
	"time"
)

const MinutesPerDay = 24 * 60

// Clock is the time source for the punch engine and the pollers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// WeekdayDigit returns "0" (Sunday) through "6" (Saturday).
func WeekdayDigit(t time.Time) string {
	return strconv.Itoa(int(t.Weekday()))
}

// DayOfMonthDigit returns the day of month without padding, "1" through "31".
func DayOfMonthDigit(t time.Time) string {
	return strconv.Itoa(t.Day())
}

func HHMM(t time.Time) string {
	return t.Format("15:04")
}

func HHMMSS(t time.Time) string {
	return t.Format("15:04:05")
}

func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseHHMM converts "HH:MM" to minutes since midnight.
func ParseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 on t's date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Range is an inclusive time range.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// LastWeek returns Monday 00:00 through Sunday 23:59:59.999 of the most
// recently completed Monday-start week. On a Sunday that is the week ending
// the previous Sunday, not today.
func LastWeek(now time.Time) Range {
	daysSinceMonday := int(now.Weekday())
	if daysSinceMonday == 0 {
		daysSinceMonday = 7
	}
	end := now.AddDate(0, 0, -daysSinceMonday)
	start := end.AddDate(0, 0, -6)
	return Range{Start: StartOfDay(start), End: EndOfDay(end)}
}

// LastMonth returns the first through last calendar day of the month before
// now's month.
func LastMonth(now time.Time) Range {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.AddDate(0, 0, -1)
	return Range{Start: start, End: EndOfDay(end)}
}

// InDateWindow compares ISO dates lexicographically, both ends inclusive.
func InDateWindow(today, start, end string) bool {
	return today >= start && today <= end
}

package shift

import (
	"time"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
)

// ResolveActive returns the first shift, in list order, whose window contains
// now. A shift whose end is before its start runs past midnight. When no
// shift is active it returns the one starting soonest, wrapping past
// midnight, with ties going to the earlier entry. It returns nil for an
// empty list.
func ResolveActive(shifts []models.Shift, now time.Time) *models.Shift {
	current := clock.MinutesOfDay(now)

	for i := range shifts {
		if shifts[i].Start == "" || shifts[i].End == "" {
			continue
		}
		start, err := clock.ParseHHMM(shifts[i].Start)
		if err != nil {
			continue
		}
		end, err := clock.ParseHHMM(shifts[i].End)
		if err != nil {
			continue
		}
		if IsActive(start, end, current) {
			return &shifts[i]
		}
	}

	var next *models.Shift
	smallest := clock.MinutesPerDay
	for i := range shifts {
		if shifts[i].Start == "" {
			continue
		}
		start, err := clock.ParseHHMM(shifts[i].Start)
		if err != nil {
			continue
		}
		diff := ((start-current)%clock.MinutesPerDay + clock.MinutesPerDay) % clock.MinutesPerDay
		if diff < smallest {
			smallest = diff
			next = &shifts[i]
		}
	}

	return next
}

// IsActive reports whether minute-of-day current falls in [start, end),
// treating end < start as an overnight window.
func IsActive(start, end, current int) bool {
	if end < start {
		return current >= start || current < end
	}
	return current >= start && current < end
}

// Label returns the shift name, or fallback when no shift is selected.
func Label(s *models.Shift, fallback string) string {
	if s == nil {
		return fallback
	}
	return s.Name
}

// FindByID looks a shift up by id.
func FindByID(shifts []models.Shift, id int64) *models.Shift {
	for i := range shifts {
		if shifts[i].ID == id {
			return &shifts[i]
		}
	}
	return nil
}

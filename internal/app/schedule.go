package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidTask      = errors.New("invalid task type or target")
)

// AddBellSchedule validates s, gives it a fresh id and appends it to the
// stored schedules.
func (a *App) AddBellSchedule(s models.BellSchedule) (models.BellSchedule, error) {
	hhmm, err := normalizeHHMM(s.Time)
	if err != nil {
		return models.BellSchedule{}, err
	}
	s.Time = hhmm
	if len(s.Days) == 0 {
		return models.BellSchedule{}, fmt.Errorf("%w: at least one weekday is required", ErrInvalidDay)
	}
	for _, d := range s.Days {
		if err := checkDay(d, 0, 6); err != nil {
			return models.BellSchedule{}, err
		}
	}
	if s.Duration <= 0 {
		s.Duration = 5
	}
	s.ID = uuid.NewString()

	schedules, err := a.store.Bells.GetSchedules()
	if err != nil {
		return models.BellSchedule{}, fmt.Errorf("failed to load bell schedules: %w", err)
	}
	if err := a.store.Bells.SaveSchedules(append(schedules, s)); err != nil {
		return models.BellSchedule{}, fmt.Errorf("failed to save bell schedules: %w", err)
	}

	a.logger.Info("bell schedule added", zap.String("id", s.ID), zap.String("time", s.Time))
	return s, nil
}

// AddTask validates t, gives it a fresh id and appends it to the stored
// automation tasks.
func (a *App) AddTask(t models.AutomationTask) (models.AutomationTask, error) {
	if t.TaskType != models.TaskExport && t.TaskType != models.TaskDelete {
		return models.AutomationTask{}, fmt.Errorf("%w: %q", ErrInvalidTask, t.TaskType)
	}
	if !knownTarget(t.Target) {
		return models.AutomationTask{}, fmt.Errorf("%w: %q", ErrInvalidTask, t.Target)
	}

	switch t.Frequency {
	case models.FrequencyImmediate:
		t.Day, t.Time = "", ""
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		hhmm, err := normalizeHHMM(t.Time)
		if err != nil {
			return models.AutomationTask{}, err
		}
		t.Time = hhmm
		switch t.Frequency {
		case models.FrequencyWeekly:
			err = checkDay(t.Day, 0, 6)
		case models.FrequencyMonthly:
			err = checkDay(t.Day, 1, 31)
		default:
			t.Day = ""
		}
		if err != nil {
			return models.AutomationTask{}, err
		}
	default:
		return models.AutomationTask{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, t.Frequency)
	}
	t.ID = uuid.NewString()

	tasks, err := a.store.Automation.GetTasks()
	if err != nil {
		return models.AutomationTask{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	if err := a.store.Automation.SaveTasks(append(tasks, t)); err != nil {
		return models.AutomationTask{}, fmt.Errorf("failed to save tasks: %w", err)
	}

	a.logger.Info("task added",
		zap.String("id", t.ID),
		zap.String("frequency", string(t.Frequency)),
		zap.String("type", string(t.TaskType)),
		zap.String("target", string(t.Target)),
	)
	return t, nil
}

// normalizeHHMM zero-pads the hour so the value matches the clock's
// "HH:MM" buckets.
func normalizeHHMM(s string) (string, error) {
	minutes, err := clock.ParseHHMM(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// checkDay requires a plain digit string within [lo, hi], matching the
// unpadded form the clock produces.
func checkDay(d string, lo, hi int) error {
	n, err := strconv.Atoi(d)
	if err != nil || n < lo || n > hi || strconv.Itoa(n) != d {
		return fmt.Errorf("%w: %q", ErrInvalidDay, d)
	}
	return nil
}

func knownTarget(t models.TaskTarget) bool {
	for _, known := range models.TaskTargets {
		if t == known {
			return true
		}
	}
	return false
}

// Package bell rings scheduled bells. A scheduler polls the configured
// schedules once per second and fires each one at most once per minute,
// using the bell history as its only memory of past firings.
package bell

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
)

const (
	DefaultInterval = time.Second

	// DedupWindow is how far back the history is searched for an earlier
	// firing of the same schedule.
	DedupWindow = time.Minute
)

// Store is the slice of the bell repository the scheduler needs.
type Store interface {
	GetSchedules() ([]models.BellSchedule, error)
	RecentHistory(since time.Time) ([]models.BellHistory, error)
	AddHistory(h models.BellHistory) error
}

type Scheduler struct {
	store    Store
	clock    clock.Clock
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewScheduler(store Store, clk clock.Clock, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// Run polls every interval until ctx is cancelled. Ticks run one after
// another on this goroutine.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("bell scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ticker.C:
			s.safeTick(ctx)
		case <-ctx.Done():
			s.logger.Info("bell scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("bell tick panicked", zap.Any("panic", r))
		}
	}()
	if _, err := s.Tick(ctx); err != nil {
		s.logger.Error("bell tick failed", zap.Error(err))
	}
}

// Tick evaluates every schedule once against the current time and returns
// how many bells rang. Only a failure to load the schedules is returned;
// a failing schedule is logged and the rest are still evaluated.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	schedules, err := s.store.GetSchedules()
	if err != nil {
		return 0, fmt.Errorf("failed to load bell schedules: %w", err)
	}
	if len(schedules) == 0 {
		return 0, nil
	}

	now := s.clock.Now()
	weekday := clock.WeekdayDigit(now)
	hms := clock.HHMMSS(now)

	rang := 0
	for _, schedule := range schedules {
		if !Due(schedule, weekday, hms) {
			continue
		}
		fired, err := s.ring(ctx, schedule, now)
		if err != nil {
			s.logger.Error("bell schedule failed",
				zap.String("schedule", schedule.ID),
				zap.String("title", schedule.Title),
				zap.Error(err),
			)
			continue
		}
		if fired {
			rang++
		}
	}
	return rang, nil
}

// Due reports whether schedule should ring at the given weekday digit and
// HH:MM:SS. Matching is to the second, so a 1s poll sees it exactly once.
func Due(schedule models.BellSchedule, weekday, hms string) bool {
	return schedule.Enabled && schedule.RingsOn(weekday) && schedule.Time+":00" == hms
}

func (s *Scheduler) ring(ctx context.Context, schedule models.BellSchedule, now time.Time) (bool, error) {
	history, err := s.store.RecentHistory(now.Add(-DedupWindow))
	if err != nil {
		return false, fmt.Errorf("failed to read bell history: %w", err)
	}
	for _, h := range history {
		if h.ScheduleID == schedule.ID {
			s.logger.Debug("bell already rang", zap.String("schedule", schedule.ID))
			return false, nil
		}
	}

	s.notifier.Notify(ctx, notify.PlaySound(schedule.Title, schedule.Sound, schedule.Duration))

	if err := s.store.AddHistory(models.BellHistory{
		Timestamp:  now,
		ScheduleID: schedule.ID,
		Time:       schedule.Time,
		Sound:      schedule.Sound,
	}); err != nil {
		return true, fmt.Errorf("failed to record bell history: %w", err)
	}
	s.notifier.Notify(ctx, notify.BellHistoryUpdated())

	s.logger.Info("bell rang",
		zap.String("schedule", schedule.ID),
		zap.String("title", schedule.Title),
		zap.String("sound", schedule.Sound),
	)
	return true, nil
}
